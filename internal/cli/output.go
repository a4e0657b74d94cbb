package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/csantanna/meetup-bot/internal/meetup"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// EventsResult contains data to be output by the events command
type EventsResult struct {
	FetchedAt  time.Time     `json:"fetched_at"`
	Group      string        `json:"group"`
	Events     []outputEvent `json:"events"`
	EventCount int           `json:"event_count"`
}

type outputEvent struct {
	Name string `json:"name"`
	When string `json:"when"`
	Link string `json:"link"`
}

// NewEventsResult converts fetched events into the output structure
func NewEventsResult(group string, events []meetup.Event, loc *time.Location) *EventsResult {
	result := &EventsResult{
		FetchedAt:  time.Now().UTC(),
		Group:      group,
		EventCount: len(events),
	}
	for _, evt := range events {
		result.Events = append(result.Events, outputEvent{
			Name: evt.Name,
			When: evt.FormatWhen(loc),
			Link: evt.Link,
		})
	}
	return result
}

// WriteEvents writes the result in the specified format
func WriteEvents(w io.Writer, result *EventsResult, format OutputFormat) error {
	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	case FormatText:
		return writeEventsText(w, result)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func writeEventsText(w io.Writer, result *EventsResult) error {
	if result.EventCount == 0 {
		fmt.Fprintln(w, "No upcoming events found.")
		return nil
	}

	for _, evt := range result.Events {
		fmt.Fprintf(w, "%s: %s\n     %s\n", evt.When, evt.Name, evt.Link)
	}
	fmt.Fprintf(w, "\nTotal: %d upcoming events\n", result.EventCount)
	return nil
}
