package notifier

import (
	"context"
	"log/slog"
	"strings"

	"github.com/Mansurxan1/hadiya/internal/entity"
)

type ReportSender interface {
	SendReport(subject, body string) error
}

// Mail reports receipts that need manual reconciliation. Other events are ignored.
type Mail struct {
	sender ReportSender
}

func NewMail(sender ReportSender) *Mail {
	return &Mail{
		sender: sender,
	}
}

func (m *Mail) Notify(ctx context.Context, e entity.Event) {
	switch e.Type {
	case entity.EventFiscalizationFailed, entity.EventReceiptPending:
	default:
		return
	}

	body := "<p>" + strings.ReplaceAll(FormatMessage(e), "\n", "<br>\n") + "</p>"

	err := m.sender.SendReport(formatSubject(e), body)
	if err != nil {
		slog.ErrorContext(ctx, "send mail report", "event", e.Type, "order_id", e.Order.ID, "error", err)
	}
}
