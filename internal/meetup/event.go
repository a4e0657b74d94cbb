// Package meetup talks to the Meetup API and models the group events
// the bot reports on.
package meetup

import (
	"crypto/sha1"
	"fmt"
	"time"
)

// Event is an upcoming event of the configured Meetup group. Time is
// epoch milliseconds, as returned by the API.
type Event struct {
	Name string `json:"name"`
	Time int64  `json:"time"`
	Link string `json:"link"`
}

// ID returns a deterministic identifier for the event, stable across
// fetches as long as name, time and link don't change.
func (e Event) ID() string {
	h := sha1.New()
	fmt.Fprintf(h, "%s|%d|%s", e.Name, e.Time, e.Link)
	return fmt.Sprintf("%x", h.Sum(nil))
}

// When returns the event start time in the given location.
func (e Event) When(loc *time.Location) time.Time {
	return time.UnixMilli(e.Time).In(loc)
}

// FormatWhen renders the start time as the bot displays it, e.g.
// "03/09 19:00".
func (e Event) FormatWhen(loc *time.Location) string {
	return e.When(loc).Format("02/01 15:04")
}

// Snapshot is the set of events seen during the last check, keyed by
// event ID.
type Snapshot struct {
	Events    map[string]Event `json:"events"`
	UpdatedAt string           `json:"updated_at"`
}

// NewSnapshot creates an empty snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{Events: make(map[string]Event)}
}

// CreateSnapshot builds a snapshot from a list of events.
func CreateSnapshot(events []Event, updatedAt string) *Snapshot {
	s := NewSnapshot()
	s.UpdatedAt = updatedAt
	for _, evt := range events {
		s.Events[evt.ID()] = evt
	}
	return s
}

// Diff returns the events in current that the previous snapshot has not
// seen, preserving input order. A nil previous snapshot marks
// everything as new.
func Diff(previous *Snapshot, current []Event) []Event {
	var newEvents []Event
	for _, evt := range current {
		if previous != nil {
			if _, seen := previous.Events[evt.ID()]; seen {
				continue
			}
		}
		newEvents = append(newEvents, evt)
	}
	return newEvents
}
