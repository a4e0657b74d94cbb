package meetup

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c := NewClient("secret-key", "gdg-aracaju", time.Minute)
	c.baseURL = server.URL
	c.newBackOff = func() backoff.BackOff {
		return backoff.WithMaxRetries(backoff.NewConstantBackOff(time.Millisecond), 3)
	}
	return c, server
}

func TestUpcomingEvents(t *testing.T) {
	var gotPath string
	var gotQuery map[string]string

	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		fmt.Fprint(w, `[
			{"name": "Go Meetup #42", "time": 1768512600000, "link": "https://meetu.ps/e/abc"},
			{"name": "Study Group", "time": 1768999200000, "link": "https://meetu.ps/e/def"}
		]`)
	}))

	events, err := c.UpcomingEvents(5)
	if err != nil {
		t.Fatalf("UpcomingEvents() error: %v", err)
	}

	if gotPath != "/gdg-aracaju/events" {
		t.Errorf("request path = %q, want /gdg-aracaju/events", gotPath)
	}
	want := map[string]string{
		"key":    "secret-key",
		"status": "upcoming",
		"only":   "name,time,link",
		"page":   "5",
	}
	for k, v := range want {
		if gotQuery[k] != v {
			t.Errorf("query %s = %q, want %q", k, gotQuery[k], v)
		}
	}

	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].Name != "Go Meetup #42" || events[0].Time != 1768512600000 {
		t.Errorf("unexpected first event: %+v", events[0])
	}
}

func TestUpcomingEventsCached(t *testing.T) {
	var hits int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		fmt.Fprint(w, `[{"name": "a", "time": 1, "link": "l"}]`)
	}))

	for i := 0; i < 3; i++ {
		if _, err := c.UpcomingEvents(5); err != nil {
			t.Fatalf("UpcomingEvents() error: %v", err)
		}
	}

	if hits != 1 {
		t.Errorf("API hit %d times, want 1 (cached)", hits)
	}
}

func TestUpcomingEventsRetriesServerErrors(t *testing.T) {
	var hits int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, `[{"name": "a", "time": 1, "link": "l"}]`)
	}))

	events, err := c.UpcomingEvents(5)
	if err != nil {
		t.Fatalf("UpcomingEvents() error after retries: %v", err)
	}
	if len(events) != 1 {
		t.Errorf("got %d events, want 1", len(events))
	}
	if hits != 3 {
		t.Errorf("API hit %d times, want 3", hits)
	}
}

func TestUpcomingEventsClientErrorIsPermanent(t *testing.T) {
	var hits int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))

	if _, err := c.UpcomingEvents(5); err == nil {
		t.Fatal("UpcomingEvents() expected error for 401")
	}
	if hits != 1 {
		t.Errorf("API hit %d times, want 1 (no retry on client error)", hits)
	}
}

func TestUpcomingEventsErrorNotCached(t *testing.T) {
	var hits int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprint(w, `[]`)
	}))

	if _, err := c.UpcomingEvents(5); err == nil {
		t.Fatal("expected error on first call")
	}
	if _, err := c.UpcomingEvents(5); err != nil {
		t.Fatalf("second call should succeed, got: %v", err)
	}
}
