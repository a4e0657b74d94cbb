package notifier

import (
	"fmt"
	"time"

	"github.com/csantanna/meetup-bot/internal/meetup"
	"github.com/csantanna/meetup-bot/internal/telegram"
)

// sender is the slice of the Telegram client the notifier needs.
type sender interface {
	SendMessage(chatID int64, text string, opts *telegram.SendOptions) (*telegram.Message, error)
}

// TelegramNotifier posts announcements to a Telegram chat, typically the
// group's main chat or an announcement channel.
type TelegramNotifier struct {
	tg        sender
	chatID    int64
	groupName string
	loc       *time.Location
}

// NewTelegramNotifier creates a notifier posting to the given chat
func NewTelegramNotifier(tg sender, chatID int64, groupName string, loc *time.Location) (*TelegramNotifier, error) {
	if chatID == 0 {
		return nil, fmt.Errorf("announce chat id is not configured")
	}
	return &TelegramNotifier{
		tg:        tg,
		chatID:    chatID,
		groupName: groupName,
		loc:       loc,
	}, nil
}

// Notify posts one message per event
func (n *TelegramNotifier) Notify(events []meetup.Event) error {
	for _, evt := range events {
		text := formatAnnouncement(n.groupName, evt, n.loc)
		if _, err := n.tg.SendMessage(n.chatID, text, nil); err != nil {
			return fmt.Errorf("announcing event %q: %w", evt.Name, err)
		}
	}
	return nil
}
