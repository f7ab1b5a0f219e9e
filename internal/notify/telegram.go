package notify

import (
	"fmt"
	"log/slog"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"

	"survilav/lib/sl"
)

// Telegram sends plain-text admin notifications to a single chat.
// Delivery failures are logged, never propagated: notifications are
// best-effort and must not fail the triggering operation.
type Telegram struct {
	api    *tgbotapi.Bot
	chatId int64
	log    *slog.Logger
}

func NewTelegram(apiKey string, chatId int64, log *slog.Logger) (*Telegram, error) {
	api, err := tgbotapi.NewBot(apiKey, nil)
	if err != nil {
		return nil, fmt.Errorf("creating api instance: %v", err)
	}
	return &Telegram{
		api:    api,
		chatId: chatId,
		log:    log.With(sl.Module("notify.telegram")),
	}, nil
}

func (t *Telegram) Notify(msg string) {
	if msg == "" {
		return
	}
	_, err := t.api.SendMessage(t.chatId, msg, &tgbotapi.SendMessageOpts{})
	if err != nil {
		t.log.Warn("sending notification", sl.Err(err))
	}
}
