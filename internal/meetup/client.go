package meetup

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/csantanna/meetup-bot/internal/cache"
)

const (
	defaultBaseURL = "https://api.meetup.com"
	defaultTTL     = 10 * time.Minute
	requestTimeout = 15 * time.Second
	maxRetries     = 3
)

// Client fetches events from the Meetup API for a single group.
type Client struct {
	apiKey     string
	groupName  string
	baseURL    string
	httpClient *http.Client
	cache      *cache.Cache
	newBackOff func() backoff.BackOff
}

// NewClient creates a client for the given group. Responses are cached
// for ttl; zero means the default 10 minutes.
func NewClient(apiKey, groupName string, ttl time.Duration) *Client {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Client{
		apiKey:    apiKey,
		groupName: groupName,
		baseURL:   defaultBaseURL,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		cache: cache.New(ttl),
		newBackOff: func() backoff.BackOff {
			return backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxRetries)
		},
	}
}

// UpcomingEvents returns up to n upcoming events for the group. Results
// are served from cache within the TTL window, so repeated chat
// commands don't hammer the API.
func (c *Client) UpcomingEvents(n int) ([]Event, error) {
	key := "events:" + strconv.Itoa(n)
	v, err := c.cache.GetOrFill(key, func() (interface{}, error) {
		return c.fetchEvents(n)
	})
	if err != nil {
		return nil, err
	}
	return v.([]Event), nil
}

// fetchEvents queries the API, retrying transient failures with
// exponential backoff.
func (c *Client) fetchEvents(n int) ([]Event, error) {
	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("status", "upcoming")
	params.Set("only", "name,time,link")
	params.Set("page", strconv.Itoa(n))

	reqURL := fmt.Sprintf("%s/%s/events?%s", c.baseURL, url.PathEscape(c.groupName), params.Encode())

	var events []Event
	operation := func() error {
		req, err := http.NewRequest("GET", reqURL, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("creating request: %w", err))
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("fetching events: %w", err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
		case resp.StatusCode >= 500:
			return fmt.Errorf("meetup API status %d", resp.StatusCode)
		default:
			// Client errors (bad key, unknown group) won't heal on retry
			return backoff.Permanent(fmt.Errorf("meetup API status %d", resp.StatusCode))
		}

		events = events[:0]
		if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
			return backoff.Permanent(fmt.Errorf("parsing response: %w", err))
		}
		return nil
	}

	if err := backoff.Retry(operation, c.newBackOff()); err != nil {
		return nil, err
	}
	return events, nil
}
