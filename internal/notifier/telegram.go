package notifier

import (
	"context"
	"log/slog"

	"github.com/Mansurxan1/hadiya/internal/entity"
)

type MessageSender interface {
	SendMessage(ctx context.Context, text string) error
}

type Telegram struct {
	sender MessageSender
}

func NewTelegram(sender MessageSender) *Telegram {
	return &Telegram{
		sender: sender,
	}
}

func (t *Telegram) Notify(ctx context.Context, e entity.Event) {
	err := t.sender.SendMessage(ctx, FormatMessage(e))
	if err != nil {
		slog.ErrorContext(ctx, "send telegram notification", "event", e.Type, "order_id", e.Order.ID, "error", err)
	}
}
