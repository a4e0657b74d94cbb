package notifier

import (
	"fmt"
	"os"
	"time"

	"github.com/dghubble/go-twitter/twitter" //nolint:staticcheck // Using stable v1.1 API
	"github.com/dghubble/oauth1"

	"github.com/csantanna/meetup-bot/internal/meetup"
)

// TwitterNotifier posts events to Twitter
type TwitterNotifier struct {
	client    *twitter.Client
	groupName string
	loc       *time.Location
}

// NewTwitterNotifier creates a new Twitter notifier using environment variables
// Required environment variables:
// - TWITTER_API_KEY
// - TWITTER_API_SECRET
// - TWITTER_ACCESS_TOKEN
// - TWITTER_ACCESS_SECRET
func NewTwitterNotifier(groupName string, loc *time.Location) (*TwitterNotifier, error) {
	apiKey := os.Getenv("TWITTER_API_KEY")
	apiSecret := os.Getenv("TWITTER_API_SECRET")
	accessToken := os.Getenv("TWITTER_ACCESS_TOKEN")
	accessSecret := os.Getenv("TWITTER_ACCESS_SECRET")

	if apiKey == "" || apiSecret == "" || accessToken == "" || accessSecret == "" {
		return nil, fmt.Errorf("missing required Twitter credentials in environment variables")
	}

	config := oauth1.NewConfig(apiKey, apiSecret)
	token := oauth1.NewToken(accessToken, accessSecret)
	httpClient := config.Client(oauth1.NoContext, token)
	client := twitter.NewClient(httpClient)

	return &TwitterNotifier{client: client, groupName: groupName, loc: loc}, nil
}

// Notify posts tweets for each event
func (n *TwitterNotifier) Notify(events []meetup.Event) error {
	for i, evt := range events {
		tweet := formatTweet(n.groupName, evt, n.loc)

		_, _, err := n.client.Statuses.Update(tweet, nil)
		if err != nil {
			return fmt.Errorf("failed to post tweet for event %q: %w", evt.Name, err)
		}

		// Rate limiting: wait between tweets
		if i < len(events)-1 {
			time.Sleep(2 * time.Second)
		}
	}

	return nil
}

// formatTweet formats an event as a tweet
func formatTweet(groupName string, evt meetup.Event, loc *time.Location) string {
	tweet := fmt.Sprintf("New %s event!\n\n", groupName)
	tweet += fmt.Sprintf("%s\n", evt.Name)
	tweet += fmt.Sprintf("%s\n", evt.FormatWhen(loc))
	tweet += fmt.Sprintf("\n%s", evt.Link)

	// Twitter limit is 280 characters
	if len(tweet) > 280 {
		tweet = tweet[:277] + "..."
	}

	return tweet
}
