// Package packt fetches the current Packt free-learning book offer.
package packt

import (
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/csantanna/meetup-bot/internal/cache"
)

const (
	// FreeLearningURL is the public page of the daily free book offer.
	FreeLearningURL = "https://www.packtpub.com/packt/offers/free-learning"

	userAgent      = "meetup-bot/1.0 (github.com/csantanna/meetup-bot)"
	defaultTTL     = 10 * time.Minute
	requestTimeout = 30 * time.Second
)

// Book is the deal of the day: a title and the unix second the offer
// expires at.
type Book struct {
	Title   string
	Expires int64
}

// bookRe matches the deal-of-the-day section: the countdown deadline
// followed by the book title heading.
var bookRe = regexp.MustCompile(`(?s)"deal-of-the-day".*?` +
	`<span class="packt-js-countdown" data-countdown-to="([0-9]+)"></span>.*?` +
	`<h2[ >]\s*(.*?)\s*</h2>`)

// Fetcher retrieves and caches the current free book.
type Fetcher struct {
	client *http.Client
	url    string
	cache  *cache.Cache
}

// NewFetcher creates a Fetcher. Results are cached for ttl; zero means
// the default 10 minutes.
func NewFetcher(ttl time.Duration) *Fetcher {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Fetcher{
		client: &http.Client{Timeout: requestTimeout},
		url:    FreeLearningURL,
		cache:  cache.New(ttl),
	}
}

// FreeBook returns the current free-learning book, served from cache
// within the TTL window.
func (f *Fetcher) FreeBook() (Book, error) {
	v, err := f.cache.GetOrFill("book", func() (interface{}, error) {
		return f.fetch()
	})
	if err != nil {
		return Book{}, err
	}
	return v.(Book), nil
}

func (f *Fetcher) fetch() (Book, error) {
	req, err := http.NewRequest("GET", f.url, nil)
	if err != nil {
		return Book{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return Book{}, fmt.Errorf("fetching offer page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Book{}, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Book{}, fmt.Errorf("reading offer page: %w", err)
	}

	return Extract(body)
}

// Extract pulls the book title and deadline out of the offer page HTML.
// It tries the regexp fast path first and falls back to a full HTML
// parse when the markup doesn't line up.
func Extract(content []byte) (Book, error) {
	if m := bookRe.FindSubmatch(content); m != nil {
		expires, err := strconv.ParseInt(string(m[1]), 10, 64)
		if err == nil {
			return Book{Title: string(m[2]), Expires: expires}, nil
		}
	}

	return extractParsed(content)
}

// extractParsed is the goquery fallback for when the fast path misses.
func extractParsed(content []byte) (Book, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(content)))
	if err != nil {
		return Book{}, fmt.Errorf("parsing offer page: %w", err)
	}

	deal := doc.Find("#deal-of-the-day").First()
	if deal.Length() == 0 {
		return Book{}, fmt.Errorf("deal-of-the-day section not found")
	}

	title := strings.TrimSpace(deal.Find("div div div:nth-of-type(2) div:nth-of-type(2) h2").First().Text())
	if title == "" {
		// Less strict fallback in case the nesting shifts again
		title = strings.TrimSpace(deal.Find("h2").First().Text())
	}
	if title == "" {
		return Book{}, fmt.Errorf("book title not found")
	}

	countdown, ok := deal.Find("span.packt-js-countdown").First().Attr("data-countdown-to")
	if !ok {
		return Book{}, fmt.Errorf("countdown deadline not found")
	}
	expires, err := strconv.ParseInt(countdown, 10, 64)
	if err != nil {
		return Book{}, fmt.Errorf("invalid countdown deadline %q: %w", countdown, err)
	}

	return Book{Title: title, Expires: expires}, nil
}
