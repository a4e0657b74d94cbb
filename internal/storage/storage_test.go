package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/csantanna/meetup-bot/internal/meetup"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return s
}

func TestLoadSnapshotMissingFile(t *testing.T) {
	s := newTestStorage(t)

	snapshot, err := s.LoadSnapshot()
	if err != nil {
		t.Fatalf("LoadSnapshot() error: %v", err)
	}
	if snapshot == nil || snapshot.Events == nil {
		t.Fatal("LoadSnapshot() should return an initialized empty snapshot")
	}
	if len(snapshot.Events) != 0 {
		t.Errorf("empty snapshot has %d events", len(snapshot.Events))
	}
}

func TestSaveAndLoadSnapshot(t *testing.T) {
	s := newTestStorage(t)

	events := []meetup.Event{
		{Name: "Go Meetup #42", Time: 1768512600000, Link: "https://meetu.ps/e/abc"},
		{Name: "Study Group", Time: 1769001600000, Link: "https://meetu.ps/e/def"},
	}
	if err := s.SaveEvents(events); err != nil {
		t.Fatalf("SaveEvents() error: %v", err)
	}

	loaded, err := s.LoadSnapshot()
	if err != nil {
		t.Fatalf("LoadSnapshot() error: %v", err)
	}

	if len(loaded.Events) != 2 {
		t.Fatalf("loaded %d events, want 2", len(loaded.Events))
	}
	for _, evt := range events {
		got, ok := loaded.Events[evt.ID()]
		if !ok {
			t.Errorf("event %q missing from loaded snapshot", evt.Name)
			continue
		}
		if got != evt {
			t.Errorf("loaded event = %+v, want %+v", got, evt)
		}
	}
	if loaded.UpdatedAt == "" {
		t.Error("UpdatedAt should be set on save")
	}
}

func TestSaveSnapshotOverwrites(t *testing.T) {
	s := newTestStorage(t)

	if err := s.SaveEvents([]meetup.Event{{Name: "old", Time: 1, Link: "l"}}); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveEvents([]meetup.Event{{Name: "new", Time: 2, Link: "l"}}); err != nil {
		t.Fatal(err)
	}

	loaded, err := s.LoadSnapshot()
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded.Events) != 1 {
		t.Fatalf("loaded %d events, want 1", len(loaded.Events))
	}
	for _, evt := range loaded.Events {
		if evt.Name != "new" {
			t.Errorf("loaded event %q, want the latest snapshot", evt.Name)
		}
	}
}

func TestLoadSnapshotCorruptFile(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "snapshot.json"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := s.LoadSnapshot(); err == nil {
		t.Error("LoadSnapshot() expected error for corrupt file")
	}
}

func TestNewCreatesDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")

	if _, err := New(dir); err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("data directory was not created: %v", err)
	}
}
