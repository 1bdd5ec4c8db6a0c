package notify

import (
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram sends review reminders through the Telegram Bot API.
// It implements scheduler.Notifier.
type Telegram struct {
	api    *tgbotapi.BotAPI
	appURL string
}

// NewTelegram creates a notifier for the given bot token. appURL is the
// public base URL of the web app, used to build the review link.
func NewTelegram(token, appURL string) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %v", err)
	}
	log.Printf("Telegram notifier authorized as @%s", api.Self.UserName)

	return &Telegram{
		api:    api,
		appURL: strings.TrimRight(appURL, "/"),
	}, nil
}

// SendDueReminder sends a single count-bearing reminder with a link to
// the review session
func (t *Telegram) SendDueReminder(chatID int64, count int) error {
	text := fmt.Sprintf(
		"👋 You have %d card(s) due for review today!\n\nClick here to start your session: %s/review",
		count, t.appURL,
	)
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := t.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram message: %v", err)
	}
	return nil
}
