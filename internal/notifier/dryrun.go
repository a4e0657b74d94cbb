package notifier

import (
	"fmt"
	"io"
	"time"

	"github.com/csantanna/meetup-bot/internal/meetup"
)

// DryRunNotifier prints what would be announced without actually posting
type DryRunNotifier struct {
	groupName string
	loc       *time.Location
	out       io.Writer
}

// NewDryRunNotifier creates a new dry-run notifier writing to out
func NewDryRunNotifier(groupName string, loc *time.Location, out io.Writer) *DryRunNotifier {
	return &DryRunNotifier{groupName: groupName, loc: loc, out: out}
}

// Notify prints the announcements that would be posted
func (n *DryRunNotifier) Notify(events []meetup.Event) error {
	for i, evt := range events {
		text := formatAnnouncement(n.groupName, evt, n.loc)
		fmt.Fprintf(n.out, "--- Announcement %d/%d ---\n", i+1, len(events))
		fmt.Fprintln(n.out, text)
		fmt.Fprintln(n.out)
	}
	return nil
}
