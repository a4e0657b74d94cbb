package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/csantanna/meetup-bot/internal/config"
	"github.com/csantanna/meetup-bot/internal/logger"
	"github.com/csantanna/meetup-bot/internal/meetup"
	"github.com/csantanna/meetup-bot/internal/notifier"
	"github.com/csantanna/meetup-bot/internal/storage"
)

// announceListSize bounds how many upcoming events one announce run
// considers.
const announceListSize = 20

var (
	flagDryRun  bool
	flagTwitter bool
)

func newAnnounceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "announce",
		Short: "Announce newly published events",
		Long: `Fetch the group's upcoming events, compare them with the last snapshot
and announce the new ones. Designed to run periodically from cron.`,
		RunE: runAnnounce,
	}

	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Print announcements without posting")
	cmd.Flags().BoolVar(&flagTwitter, "twitter", false, "Also post announcements to Twitter")

	return cmd
}

// runAnnounce is the announce command logic
func runAnnounce(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	store, err := storage.New(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	events := meetup.NewClient(cfg.MeetupKey, cfg.GroupName, cfg.EventsTTL)
	current, err := events.UpcomingEvents(announceListSize)
	if err != nil {
		return fmt.Errorf("fetching events: %w", err)
	}

	previous, err := store.LoadSnapshot()
	if err != nil {
		return fmt.Errorf("loading snapshot: %w", err)
	}

	newEvents := meetup.Diff(previous, current)
	if len(newEvents) == 0 {
		fmt.Println("No new events found.")
		os.Exit(ExitSuccess)
		return nil
	}

	logger.Info("new events found", logger.Fields{"count": len(newEvents)})

	if flagDryRun {
		dry := notifier.NewDryRunNotifier(cfg.GroupName, cfg.Location(), os.Stdout)
		if err := dry.Notify(newEvents); err != nil {
			return err
		}
		// Snapshot untouched so a later real run still announces
		os.Exit(ExitNewEvents)
		return nil
	}

	notifiers, err := buildNotifiers(cfg)
	if err != nil {
		return err
	}
	for _, n := range notifiers {
		if err := n.Notify(newEvents); err != nil {
			return fmt.Errorf("notifying: %w", err)
		}
	}

	if err := store.SaveEvents(current); err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}

	os.Exit(ExitSuccess)
	return nil
}

// buildNotifiers assembles the notification channels for a real run
func buildNotifiers(cfg config.Config) ([]notifier.Notifier, error) {
	chatID, err := strconv.ParseInt(cfg.AnnounceChatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q", config.KeyAnnounceChatID, cfg.AnnounceChatID)
	}

	tg, err := telegramClient(cfg)
	if err != nil {
		return nil, err
	}
	tn, err := notifier.NewTelegramNotifier(tg, chatID, cfg.GroupName, cfg.Location())
	if err != nil {
		return nil, err
	}
	notifiers := []notifier.Notifier{tn}

	if flagTwitter {
		tw, err := notifier.NewTwitterNotifier(cfg.GroupName, cfg.Location())
		if err != nil {
			return nil, err
		}
		notifiers = append(notifiers, tw)
	}

	return notifiers, nil
}
