package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/csantanna/meetup-bot/internal/meetup"
)

var (
	flagCount  int
	flagFormat string
)

func newEventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Print the group's upcoming events",
		RunE:  runEvents,
	}

	cmd.Flags().IntVar(&flagCount, "count", 5, "Maximum number of events to list")
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")

	return cmd
}

// runEvents is the events command logic
func runEvents(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}
	if flagCount <= 0 {
		return fmt.Errorf("--count must be positive, got %d", flagCount)
	}

	client := meetup.NewClient(cfg.MeetupKey, cfg.GroupName, cfg.EventsTTL)
	events, err := client.UpcomingEvents(flagCount)
	if err != nil {
		return fmt.Errorf("fetching events: %w", err)
	}

	result := NewEventsResult(cfg.GroupName, events, cfg.Location())
	return WriteEvents(os.Stdout, result, format)
}
