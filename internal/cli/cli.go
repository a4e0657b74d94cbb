package cli

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/csantanna/meetup-bot/internal/bot"
	"github.com/csantanna/meetup-bot/internal/config"
	"github.com/csantanna/meetup-bot/internal/logger"
	"github.com/csantanna/meetup-bot/internal/meetup"
	"github.com/csantanna/meetup-bot/internal/packt"
	"github.com/csantanna/meetup-bot/internal/telegram"
)

const (
	ExitSuccess   = 0
	ExitError     = 1
	ExitNewEvents = 2
)

var (
	flagConfig        string
	flagTelegramToken string
	flagMeetupKey     string
	flagGroupName     string
	flagDev           bool
	flagDataDir       string
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "meetup-bot",
		Short: "Telegram bot serving a Meetup group",
		Long: `A Telegram bot that looks up upcoming events of a Meetup group and
the current Packt free book, and announces newly published events.`,
		SilenceUsage: true,
		RunE:         runBot,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&flagConfig, "config", "", "Path to YAML config file")
	flags.StringVar(&flagTelegramToken, "telegram_token", "", "Telegram bot token")
	flags.StringVar(&flagMeetupKey, "meetup_key", "", "Meetup API key")
	flags.StringVar(&flagGroupName, "group_name", "", "Meetup group URL name")
	flags.BoolVar(&flagDev, "dev", false, "Enable development mode")
	flags.StringVar(&flagDataDir, "data_dir", "", "Data directory for snapshots")

	cmd.AddCommand(newAnnounceCmd())
	cmd.AddCommand(newEventsCmd())

	return cmd
}

// flagValues collects the flags the user actually set, so unset flags
// don't shadow lower precedence sources with zero values.
func flagValues(cmd *cobra.Command) config.Values {
	values := config.Values{}
	flags := cmd.Flags()
	if flags.Changed("telegram_token") {
		values[config.KeyTelegramToken] = flagTelegramToken
	}
	if flags.Changed("meetup_key") {
		values[config.KeyMeetupKey] = flagMeetupKey
	}
	if flags.Changed("group_name") {
		values[config.KeyGroupName] = flagGroupName
	}
	if flags.Changed("dev") {
		values[config.KeyDev] = strconv.FormatBool(flagDev)
	}
	if flags.Changed("data_dir") {
		values[config.KeyDataDir] = flagDataDir
	}
	return values
}

// loadConfig resolves configuration for a command invocation. A .env
// file in the working directory feeds the environment source.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	// Missing .env is fine, the environment may be set directly
	_ = godotenv.Load()

	cfg, err := config.Load(flagConfig, flagValues(cmd))
	if err != nil {
		return config.Config{}, err
	}

	if cfg.Dev {
		logger.SetDefault(logger.New(logger.LevelDebug, os.Stdout))
		logger.Debug("development mode", logger.Fields{
			"telegram_token": cfg.TelegramToken,
			"meetup_key":     cfg.MeetupKey,
			"group_name":     cfg.GroupName,
		})
	}

	return cfg, nil
}

func telegramClient(cfg config.Config) (*telegram.Client, error) {
	tg, err := telegram.NewClient(cfg.TelegramToken)
	if err != nil {
		return nil, fmt.Errorf("creating telegram client: %w", err)
	}
	return tg, nil
}

// runBot is the root command logic: run the chat bot until interrupted
func runBot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	tg, err := telegramClient(cfg)
	if err != nil {
		return err
	}

	events := meetup.NewClient(cfg.MeetupKey, cfg.GroupName, cfg.EventsTTL)
	books := packt.NewFetcher(cfg.BookTTL)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return bot.New(cfg, tg, events, books).Run(ctx)
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
