package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelWarn, &buf)

	l.Debug("debug message", nil)
	l.Info("info message", nil)
	l.Warn("warn message", nil)
	l.Error("error message", nil, errors.New("boom"))

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Errorf("messages below min level were logged:\n%s", out)
	}
	if !strings.Contains(out, "warn message") || !strings.Contains(out, "error message") {
		t.Errorf("messages at or above min level missing:\n%s", out)
	}
}

func TestLoggerJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelInfo, &buf)

	l.Info("command received", Fields{"command": "/events", "chat_id": 42})

	var e struct {
		Timestamp string                 `json:"timestamp"`
		Level     string                 `json:"level"`
		Message   string                 `json:"message"`
		Fields    map[string]interface{} `json:"fields"`
	}
	if err := json.Unmarshal(buf.Bytes(), &e); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}

	if e.Level != "INFO" {
		t.Errorf("Level = %q, want INFO", e.Level)
	}
	if e.Message != "command received" {
		t.Errorf("Message = %q", e.Message)
	}
	if e.Fields["command"] != "/events" {
		t.Errorf("Fields[command] = %v, want /events", e.Fields["command"])
	}
	if _, err := time.Parse(time.RFC3339, e.Timestamp); err != nil {
		t.Errorf("Timestamp %q not RFC3339: %v", e.Timestamp, err)
	}
}

func TestLoggerErrorField(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelInfo, &buf)

	l.Error("fetch failed", nil, errors.New("connection refused"))

	if !strings.Contains(buf.String(), `"error":"connection refused"`) {
		t.Errorf("error field missing:\n%s", buf.String())
	}
}

func TestLevelString(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{Level(99), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("Level(%d).String() = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestMetrics(t *testing.T) {
	m := NewMetrics()

	m.IncrCounter("commands.events")
	m.IncrCounter("commands.events")
	m.IncrCounter("commands.book")
	m.RecordTiming("meetup.fetch", 100*time.Millisecond)
	m.RecordTiming("meetup.fetch", 300*time.Millisecond)

	snap := m.Snapshot()

	counters := snap["counters"].(map[string]int64)
	if counters["commands.events"] != 2 {
		t.Errorf("commands.events = %d, want 2", counters["commands.events"])
	}
	if counters["commands.book"] != 1 {
		t.Errorf("commands.book = %d, want 1", counters["commands.book"])
	}

	timings := snap["timings"].(map[string]map[string]interface{})
	fetch := timings["meetup.fetch"]
	if fetch == nil {
		t.Fatal("meetup.fetch timing missing")
	}
	if fetch["count"] != 2 {
		t.Errorf("count = %v, want 2", fetch["count"])
	}
	if fetch["average"] != "200ms" {
		t.Errorf("average = %v, want 200ms", fetch["average"])
	}
	if fetch["min"] != "100ms" || fetch["max"] != "300ms" {
		t.Errorf("min/max = %v/%v, want 100ms/300ms", fetch["min"], fetch["max"])
	}
}

func TestMetricsSnapshotIsCopy(t *testing.T) {
	m := NewMetrics()
	m.IncrCounter("x")

	snap := m.Snapshot()
	snap["counters"].(map[string]int64)["x"] = 99

	if got := m.Snapshot()["counters"].(map[string]int64)["x"]; got != 1 {
		t.Errorf("mutating snapshot affected tracker: x = %d, want 1", got)
	}
}
