// Package bot implements the chat-facing behavior: the long-polling
// loop, command dispatch and the replies themselves.
package bot

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/csantanna/meetup-bot/internal/cache"
	"github.com/csantanna/meetup-bot/internal/config"
	"github.com/csantanna/meetup-bot/internal/logger"
	"github.com/csantanna/meetup-bot/internal/meetup"
	"github.com/csantanna/meetup-bot/internal/packt"
	"github.com/csantanna/meetup-bot/internal/telegram"
)

const (
	eventsListSize     = 5
	pollTimeoutSeconds = 20
	replyTTL           = 10 * time.Minute

	changelogURL = "https://github.com/csantanna/meetup-bot/blob/main/CHANGELOG.md"
)

// Word searches behind the easter eggs.
var (
	findRuby   = regexp.MustCompile(`(?i)\bruby\b`)
	findJava   = regexp.MustCompile(`(?i)\bjava\b`)
	findPython = regexp.MustCompile(`(?i)\bpython\b`)
)

// api is the slice of the Telegram client the bot uses.
type api interface {
	SendMessage(chatID int64, text string, opts *telegram.SendOptions) (*telegram.Message, error)
	Reply(to *telegram.Message, text string, opts *telegram.SendOptions) (*telegram.Message, error)
	GetUpdates(offset, timeoutSeconds int) ([]telegram.Update, error)
}

// eventSource lists upcoming Meetup events.
type eventSource interface {
	UpcomingEvents(n int) ([]meetup.Event, error)
}

// bookSource fetches the current Packt free book.
type bookSource interface {
	FreeBook() (packt.Book, error)
}

// lastReply remembers the bot's previous answer in a group chat.
type lastReply struct {
	Text      string
	MessageID int
}

// Bot answers chat commands with Meetup group information.
type Bot struct {
	cfg     config.Config
	tg      api
	events  eventSource
	books   bookSource
	replies *cache.Cache
	loc     *time.Location
	now     func() time.Time
}

// New creates a Bot wired to the given Telegram API, event source and
// book source.
func New(cfg config.Config, tg api, events eventSource, books bookSource) *Bot {
	return &Bot{
		cfg:     cfg,
		tg:      tg,
		events:  events,
		books:   books,
		replies: cache.New(replyTTL),
		loc:     cfg.Location(),
		now:     time.Now,
	}
}

// Run long-polls for updates until the context is canceled. Poll
// failures are logged and retried after a short pause.
func (b *Bot) Run(ctx context.Context) error {
	logger.Info("bot started", logger.Fields{"group": b.cfg.GroupName})

	offset := 0
	for {
		select {
		case <-ctx.Done():
			logger.Info("bot stopping", nil)
			return nil
		default:
		}

		updates, err := b.tg.GetUpdates(offset, pollTimeoutSeconds)
		if err != nil {
			logger.Error("getting updates", nil, err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(5 * time.Second):
			}
			continue
		}

		for _, update := range updates {
			if update.UpdateID >= offset {
				offset = update.UpdateID + 1
			}
			if update.Message != nil && update.Message.Text != "" {
				b.handleMessage(update.Message)
			}
		}
	}
}

// handleMessage dispatches a text message to the matching command
// handler, or to the easter eggs when it isn't a command.
func (b *Bot) handleMessage(msg *telegram.Message) {
	if cmd := msg.Command(); cmd != "" {
		b.handleCommand(msg, cmd)
		return
	}

	switch {
	case findRuby.MatchString(msg.Text):
		logger.Info("easter egg", logger.Fields{"user": msg.From.Username, "word": "ruby"})
		b.send(msg.Chat.ID, fmt.Sprintf("%s loves Ruby <3", msg.From.Username))
	case findJava.MatchString(msg.Text):
		logger.Info("easter egg", logger.Fields{"user": msg.From.Username, "word": "java"})
		b.send(msg.Chat.ID, "Uh oh... we're out of RAM")
	case findPython.MatchString(msg.Text):
		logger.Info("easter egg", logger.Fields{"user": msg.From.Username, "word": "python"})
		b.send(msg.Chat.ID, "import antigravity")
	}
}

func (b *Bot) handleCommand(msg *telegram.Message, cmd string) {
	logger.Info("command received", logger.Fields{
		"command": cmd,
		"user":    msg.From.Username,
		"chat_id": msg.Chat.ID,
	})

	switch cmd {
	case "/start", "/help":
		logger.IncrCounter("commands.help")
		b.reply(msg, fmt.Sprintf("I look up events of the %s Meetup group", b.cfg.GroupName), nil)

	case "/events":
		logger.IncrCounter("commands.events")
		b.listEvents(msg)

	case "/book":
		logger.IncrCounter("commands.book")
		b.freeBook(msg)

	case "/changelog":
		logger.IncrCounter("commands.changelog")
		b.send(msg.Chat.ID, changelogURL)

	default:
		// Unknown commands are ignored, the bot may share a group
		// with other bots
	}
}

func (b *Bot) listEvents(msg *telegram.Message) {
	start := b.now()
	events, err := b.events.UpcomingEvents(eventsListSize)
	logger.RecordTiming("meetup.fetch", time.Since(start))
	if err != nil {
		logger.Error("fetching events", logger.Fields{"chat_id": msg.Chat.ID}, err)
		return
	}

	b.smartReply(msg, "/events", FormatEvents(events, b.loc), &telegram.SendOptions{
		ParseMode:             "Markdown",
		DisableWebPagePreview: true,
	})
}

func (b *Bot) freeBook(msg *telegram.Message) {
	book, err := b.books.FreeBook()
	if err != nil {
		logger.Error("fetching free book", logger.Fields{"chat_id": msg.Chat.ID}, err)
		return
	}

	b.smartReply(msg, "/book", BookResponse(book, b.now()), &telegram.SendOptions{
		ParseMode:             "Markdown",
		DisableWebPagePreview: true,
	})
}

// smartReply replies to a message, but in group chats it avoids
// repeating itself: when the text matches the answer already sent to
// that chat for the same command within the reply TTL, it points at
// the previous message instead.
func (b *Bot) smartReply(msg *telegram.Message, command, text string, opts *telegram.SendOptions) {
	if !msg.Chat.IsGroup() {
		b.reply(msg, text, opts)
		return
	}

	key := fmt.Sprintf("reply:%d:%s", msg.Chat.ID, command)
	if v, ok := b.replies.Get(key); ok {
		if prev := v.(lastReply); prev.Text == text {
			_, err := b.tg.SendMessage(msg.Chat.ID, "Click to see the last response", &telegram.SendOptions{
				ReplyToMessageID: prev.MessageID,
			})
			if err != nil {
				logger.Error("sending reference reply", logger.Fields{"chat_id": msg.Chat.ID}, err)
			}
			return
		}
	}

	sent, err := b.tg.Reply(msg, text, opts)
	if err != nil {
		logger.Error("sending reply", logger.Fields{"chat_id": msg.Chat.ID}, err)
		return
	}
	b.replies.Set(key, lastReply{Text: text, MessageID: sent.MessageID})
}

func (b *Bot) reply(msg *telegram.Message, text string, opts *telegram.SendOptions) {
	if _, err := b.tg.Reply(msg, text, opts); err != nil {
		logger.Error("sending reply", logger.Fields{"chat_id": msg.Chat.ID}, err)
	}
}

func (b *Bot) send(chatID int64, text string) {
	if _, err := b.tg.SendMessage(chatID, text, nil); err != nil {
		logger.Error("sending message", logger.Fields{"chat_id": chatID}, err)
	}
}
