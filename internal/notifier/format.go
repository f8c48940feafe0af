package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/Mansurxan1/hadiya/internal/entity"
)

var tashkent = time.FixedZone("UZT", 5*60*60)

const dateLayout = "02.01.2006, 15:04:05"

func orDefault(s string) string {
	if strings.TrimSpace(s) == "" {
		return entity.NotSpecified
	}

	return s
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return entity.NotSpecified
	}

	return t.In(tashkent).Format(dateLayout)
}

// FormatMessage renders e as an HTML message for the operators chat.
func FormatMessage(e entity.Event) string {
	o := e.Order

	var b strings.Builder

	line := func(format string, args ...any) {
		b.WriteString(fmt.Sprintf(format, args...))
		b.WriteByte('\n')
	}

	at := e.At

	tour := fmt.Sprintf("%s (ID: %s)", html.EscapeString(orDefault(o.TourName)), html.EscapeString(orDefault(o.TourID)))
	client := html.EscapeString(orDefault(o.UserName))
	phone := html.EscapeString(orDefault(o.UserPhone))

	switch e.Type {
	case entity.EventOrderCreated:
		line("🆕 <b>Новый заказ #%s</b>", o.ID)
		line("🏙️ Тур: %s", tour)
		line("💰 Сумма: %s сум", o.Price)
		line("👤 Клиент: %s", client)
		line("📱 Телефон: %s", phone)
		line("🔄 Статус: %s", o.Status)
		line("⏱️ Дата: %s", formatTime(&at))
	case entity.EventPaymentConfirmed:
		line("💰 <b>Платеж получен #%s</b>", o.ID)
		line("🏙️ Тур: %s", tour)
		line("💵 Сумма: %s сум", o.Price)
		line("👤 Клиент: %s", client)
		line("📱 Телефон: %s", phone)
		line("🆔 ID транзакции Click: %s", orDefault(o.ClickTransID))
		line("✅ Статус: %s", o.Status)
		line("⏱️ Дата оплаты: %s", formatTime(o.PaidAt))
	case entity.EventPaymentCancelled:
		line("❌ <b>Платеж отменен #%s</b>", o.ID)
		line("🏙️ Тур: %s", tour)
		line("💵 Сумма: %s сум", o.Price)
		line("👤 Клиент: %s", client)
		line("📝 Причина: %s", html.EscapeString(orDefault(e.Error)))
		line("⏱️ Дата: %s", formatTime(o.CancelledAt))
	case entity.EventReceiptFiscalized:
		line("🧾 <b>Фискальный чек для заказа #%s</b>", o.ID)
		line("🏙️ Тур: %s", tour)
		line("💵 Сумма: %s сум", o.Price)
		line("👤 Клиент: %s", client)
		line("📱 Телефон: %s", phone)
		line("🆔 ID транзакции Click: %s", orDefault(o.ClickTransID))
		line("🔗 QR-код чека: %s", html.EscapeString(orDefault(o.FiscalQRCodeURL)))
		line("⏱️ Дата фискализации: %s", formatTime(o.FiscalizedAt))
	case entity.EventFiscalizationFailed:
		line("⚠️ <b>Ошибка фискализации заказа #%s</b>", o.ID)
		line("🏙️ Тур: %s", tour)
		line("💵 Сумма: %s сум", o.Price)
		line("🆔 ID транзакции Click: %s", orDefault(o.ClickTransID))
		line("📝 Ошибка: %s", html.EscapeString(orDefault(e.Error)))
		line("⏱️ Дата: %s", formatTime(&at))
	case entity.EventReceiptPending:
		line("⏳ <b>Чек не зарегистрирован для заказа #%s</b>", o.ID)
		line("🏙️ Тур: %s", tour)
		line("💵 Сумма: %s сум", o.Price)
		line("🆔 ID транзакции Click: %s", orDefault(o.ClickTransID))
		line("📝 Последняя ошибка: %s", html.EscapeString(orDefault(o.FiscalError)))
		line("⏱️ Дата оплаты: %s", formatTime(o.PaidAt))
	default:
		line("ℹ️ %s #%s", e.Type, o.ID)
	}

	return strings.TrimRight(b.String(), "\n")
}

func formatSubject(e entity.Event) string {
	switch e.Type {
	case entity.EventFiscalizationFailed:
		return fmt.Sprintf("Ошибка фискализации заказа %s", e.Order.ID)
	case entity.EventReceiptPending:
		return fmt.Sprintf("Чек не зарегистрирован: заказ %s", e.Order.ID)
	default:
		return fmt.Sprintf("%s: заказ %s", e.Type, e.Order.ID)
	}
}
