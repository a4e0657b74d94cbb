package meetup

import (
	"testing"
	"time"
)

func TestEventID(t *testing.T) {
	evt := Event{Name: "Go Meetup #42", Time: 1767209400000, Link: "https://meetu.ps/e/abc"}

	if evt.ID() != evt.ID() {
		t.Error("ID() not deterministic")
	}

	other := Event{Name: "Go Meetup #43", Time: 1767209400000, Link: "https://meetu.ps/e/abc"}
	if evt.ID() == other.ID() {
		t.Error("different events share an ID")
	}
}

func TestFormatWhen(t *testing.T) {
	// 2026-01-15 21:30:00 UTC
	evt := Event{Name: "x", Time: 1768512600000}

	utc3 := time.FixedZone("-03", -3*60*60)
	if got, want := evt.FormatWhen(utc3), "15/01 18:30"; got != want {
		t.Errorf("FormatWhen() = %q, want %q", got, want)
	}

	if got, want := evt.FormatWhen(time.UTC), "15/01 21:30"; got != want {
		t.Errorf("FormatWhen() in UTC = %q, want %q", got, want)
	}
}

func TestDiff(t *testing.T) {
	a := Event{Name: "a", Time: 1, Link: "la"}
	b := Event{Name: "b", Time: 2, Link: "lb"}
	c := Event{Name: "c", Time: 3, Link: "lc"}

	tests := []struct {
		name     string
		previous *Snapshot
		current  []Event
		want     []string
	}{
		{
			name:     "nil previous marks everything new",
			previous: nil,
			current:  []Event{a, b},
			want:     []string{"a", "b"},
		},
		{
			name:     "empty previous marks everything new",
			previous: NewSnapshot(),
			current:  []Event{a},
			want:     []string{"a"},
		},
		{
			name:     "seen events are skipped",
			previous: CreateSnapshot([]Event{a, b}, "t"),
			current:  []Event{a, b, c},
			want:     []string{"c"},
		},
		{
			name:     "no new events",
			previous: CreateSnapshot([]Event{a, b}, "t"),
			current:  []Event{b, a},
			want:     nil,
		},
		{
			name:     "removed events don't reappear",
			previous: CreateSnapshot([]Event{a, b, c}, "t"),
			current:  []Event{c},
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diff(tt.previous, tt.current)
			if len(got) != len(tt.want) {
				t.Fatalf("Diff() = %v, want names %v", got, tt.want)
			}
			for i, evt := range got {
				if evt.Name != tt.want[i] {
					t.Errorf("Diff()[%d].Name = %q, want %q", i, evt.Name, tt.want[i])
				}
			}
		})
	}
}

func TestCreateSnapshot(t *testing.T) {
	events := []Event{
		{Name: "a", Time: 1, Link: "la"},
		{Name: "b", Time: 2, Link: "lb"},
	}
	snap := CreateSnapshot(events, "2026-01-15T00:00:00Z")

	if len(snap.Events) != 2 {
		t.Fatalf("snapshot has %d events, want 2", len(snap.Events))
	}
	if snap.UpdatedAt != "2026-01-15T00:00:00Z" {
		t.Errorf("UpdatedAt = %q", snap.UpdatedAt)
	}
	for _, evt := range events {
		if _, ok := snap.Events[evt.ID()]; !ok {
			t.Errorf("event %q missing from snapshot", evt.Name)
		}
	}
}
