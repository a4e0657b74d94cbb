package bot

import (
	"fmt"
	"strings"
	"time"

	"github.com/csantanna/meetup-bot/internal/meetup"
	"github.com/csantanna/meetup-bot/internal/packt"
)

// timeLeftLadder maps remaining offer time to the warning appended to
// the /book reply, checked smallest first.
var timeLeftLadder = []struct {
	limit time.Duration
	words string
}{
	{30 * time.Second, "30 seconds"},
	{time.Minute, "1 minute"},
	{10 * time.Minute, "10 minutes"},
	{30 * time.Minute, "half an hour"},
	{time.Hour, "1 hour"},
}

// FormatEvents renders events as a Markdown list, one per line:
// [name](link): 02/01 15:04.
func FormatEvents(events []meetup.Event, loc *time.Location) string {
	if len(events) == 0 {
		return "No upcoming events scheduled."
	}

	var msg strings.Builder
	for i, evt := range events {
		if i > 0 {
			msg.WriteString("\n")
		}
		msg.WriteString(fmt.Sprintf("[%s](%s): %s", evt.Name, evt.Link, evt.FormatWhen(loc)))
	}
	return msg.String()
}

// BookResponse renders the /book reply, warning when the offer is
// about to expire.
func BookResponse(book packt.Book, now time.Time) string {
	response := fmt.Sprintf("Today's free book is: [%s](%s)", book.Title, packt.FreeLearningURL)

	remaining := time.Unix(book.Expires, 0).Sub(now)
	for _, step := range timeLeftLadder {
		if remaining <= step.limit {
			return response + fmt.Sprintf("\n\nLess than %s left!", step.words)
		}
	}
	return response
}
