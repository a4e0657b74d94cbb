package notifier

import (
	"fmt"
	"time"

	"github.com/csantanna/meetup-bot/internal/meetup"
)

// Notifier defines the interface for posting event announcements
type Notifier interface {
	// Notify posts announcements for the given events
	Notify(events []meetup.Event) error
}

// formatAnnouncement renders the announcement text shared by the
// Telegram and dry-run notifiers.
func formatAnnouncement(groupName string, evt meetup.Event, loc *time.Location) string {
	return fmt.Sprintf("New %s event!\n\n%s\n%s\n%s",
		groupName, evt.Name, evt.FormatWhen(loc), evt.Link)
}
