// Package notify pushes run results to the applicant's chat channel.
package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// TelegramNotifier delivers messages to one chat. Errors are the caller's to
// swallow: a lost notification never fails a pipeline run.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	logger *zap.SugaredLogger
}

// Make sure we conform to Notifier interface
var _ Notifier = (*TelegramNotifier)(nil)

func NewTelegramNotifier(botToken string, chatID int64) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("creating telegram bot: %w", err)
	}
	return &TelegramNotifier{
		bot:    bot,
		chatID: chatID,
		logger: zap.S().Named("notify"),
	}, nil
}

func (t *TelegramNotifier) Notify(_ context.Context, message string) error {
	msg := tgbotapi.NewMessage(t.chatID, message)
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("sending telegram message: %w", err)
	}
	t.logger.Debugw("notification sent", "chat_id", t.chatID)
	return nil
}

// NoopNotifier is used when no chat channel is configured.
type NoopNotifier struct{}

var _ Notifier = (*NoopNotifier)(nil)

func (NoopNotifier) Notify(context.Context, string) error { return nil }
