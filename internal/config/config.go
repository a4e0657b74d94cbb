package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Configuration keys. Every source addresses settings by these names.
const (
	KeyTelegramToken  = "telegram_token"
	KeyMeetupKey      = "meetup_key"
	KeyGroupName      = "group_name"
	KeyDev            = "dev"
	KeyDataDir        = "data_dir"
	KeyAnnounceChatID = "announce_chat_id"
	KeyEventsTTL      = "events_ttl"
	KeyBookTTL        = "book_ttl"
	KeyTimezone       = "timezone"
)

// requiredKeys must resolve to non-empty values before the bot starts.
var requiredKeys = []string{KeyTelegramToken, KeyMeetupKey, KeyGroupName}

// Values is a partial configuration mapping contributed by one source.
// Keys absent from the map are simply not set by that source.
type Values map[string]string

// Config is the resolved, read-only runtime configuration. It is built
// once at startup and passed to the components that need it.
type Config struct {
	TelegramToken  string
	MeetupKey      string
	GroupName      string
	Dev            bool
	DataDir        string
	AnnounceChatID string
	EventsTTL      time.Duration
	BookTTL        time.Duration
	Timezone       string
}

// Error reports configuration keys that could not be resolved to a
// non-empty value.
type Error struct {
	Missing []string
}

func (e *Error) Error() string {
	return "missing configuration: " + strings.Join(e.Missing, ", ")
}

// Defaults returns the built-in fallback values. The three credentials
// default to empty strings, so they must be supplied by a higher
// precedence source.
func Defaults() Values {
	return Values{
		KeyTelegramToken: "",
		KeyMeetupKey:     "",
		KeyGroupName:     "",
		KeyDev:           "false",
		KeyDataDir:       "~/.local/share/meetup-bot",
		KeyEventsTTL:     "10m",
		KeyBookTTL:       "10m",
		KeyTimezone:      "America/Maceio",
	}
}

// envNames maps configuration keys to their environment variable names.
var envNames = map[string]string{
	KeyTelegramToken:  "TELEGRAM_TOKEN",
	KeyMeetupKey:      "MEETUP_KEY",
	KeyGroupName:      "GROUP_NAME",
	KeyDev:            "MEETUP_BOT_DEV",
	KeyDataDir:        "MEETUP_BOT_DATA_DIR",
	KeyAnnounceChatID: "MEETUP_BOT_ANNOUNCE_CHAT_ID",
	KeyEventsTTL:      "MEETUP_BOT_EVENTS_TTL",
	KeyBookTTL:        "MEETUP_BOT_BOOK_TTL",
	KeyTimezone:       "MEETUP_BOT_TIMEZONE",
}

// FromEnv collects the values the environment defines. The lookup
// function is injectable so tests don't have to mutate the process
// environment.
func FromEnv(lookup func(string) (string, bool)) Values {
	values := Values{}
	for key, name := range envNames {
		if v, ok := lookup(name); ok && strings.TrimSpace(v) != "" {
			values[key] = strings.TrimSpace(v)
		}
	}
	return values
}

// fileConfig is the YAML configuration file structure.
type fileConfig struct {
	TelegramToken  string `yaml:"telegram_token"`
	MeetupKey      string `yaml:"meetup_key"`
	GroupName      string `yaml:"group_name"`
	Dev            *bool  `yaml:"dev"`
	DataDir        string `yaml:"data_dir"`
	AnnounceChatID string `yaml:"announce_chat_id"`
	EventsTTL      string `yaml:"events_ttl"`
	BookTTL        string `yaml:"book_ttl"`
	Timezone       string `yaml:"timezone"`
}

// FromFile loads the values a YAML config file defines.
func FromFile(path string) (Values, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	values := Values{}
	set := func(key, v string) {
		if v != "" {
			values[key] = v
		}
	}
	set(KeyTelegramToken, fc.TelegramToken)
	set(KeyMeetupKey, fc.MeetupKey)
	set(KeyGroupName, fc.GroupName)
	set(KeyDataDir, fc.DataDir)
	set(KeyAnnounceChatID, fc.AnnounceChatID)
	set(KeyEventsTTL, fc.EventsTTL)
	set(KeyBookTTL, fc.BookTTL)
	set(KeyTimezone, fc.Timezone)
	if fc.Dev != nil {
		values[KeyDev] = strconv.FormatBool(*fc.Dev)
	}
	return values, nil
}

// Resolve merges the given sources, listed in increasing precedence,
// into a Config. For each key the value comes from the last source that
// defines it. It fails with *Error if any required key is still empty
// after the merge.
//
// Resolve is a pure function of its inputs: the same sources always
// produce the same Config.
func Resolve(sources ...Values) (Config, error) {
	merged := Values{}
	for _, src := range sources {
		for key, v := range src {
			merged[key] = v
		}
	}

	var missing []string
	for _, key := range requiredKeys {
		if merged[key] == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return Config{}, &Error{Missing: missing}
	}

	cfg := Config{
		TelegramToken:  merged[KeyTelegramToken],
		MeetupKey:      merged[KeyMeetupKey],
		GroupName:      merged[KeyGroupName],
		DataDir:        merged[KeyDataDir],
		AnnounceChatID: merged[KeyAnnounceChatID],
		Timezone:       merged[KeyTimezone],
	}

	if v := merged[KeyDev]; v != "" {
		dev, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s value %q", KeyDev, v)
		}
		cfg.Dev = dev
	}

	var err error
	if cfg.EventsTTL, err = parseTTL(KeyEventsTTL, merged[KeyEventsTTL]); err != nil {
		return Config{}, err
	}
	if cfg.BookTTL, err = parseTTL(KeyBookTTL, merged[KeyBookTTL]); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Load resolves configuration from all sources in precedence order:
// CLI flags > environment variables > config file > built-in defaults.
func Load(configFile string, flags Values) (Config, error) {
	sources := []Values{Defaults()}

	if configFile != "" {
		fileValues, err := FromFile(configFile)
		if err != nil {
			return Config{}, err
		}
		sources = append(sources, fileValues)
	}

	sources = append(sources, FromEnv(os.LookupEnv), flags)
	return Resolve(sources...)
}

func parseTTL(key, v string) (time.Duration, error) {
	if v == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, v, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, d)
	}
	return d, nil
}

// Location returns the group's timezone, falling back to UTC-3 when the
// tz database is unavailable.
func (c Config) Location() *time.Location {
	if loc, err := time.LoadLocation(c.Timezone); err == nil {
		return loc
	}
	return time.FixedZone("-03", -3*60*60)
}
