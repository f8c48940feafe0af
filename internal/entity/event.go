package entity

import (
	"time"
)

type EventType string

const (
	EventOrderCreated        EventType = "order.created"
	EventPaymentConfirmed    EventType = "payment.confirmed"
	EventPaymentCancelled    EventType = "payment.cancelled"
	EventReceiptFiscalized   EventType = "receipt.fiscalized"
	EventFiscalizationFailed EventType = "receipt.failed"
	EventReceiptPending      EventType = "receipt.pending"
)

func (t EventType) String() string {
	return string(t)
}

// Event is a change of an order worth telling the operators about.
type Event struct {
	Type  EventType
	Order Order
	Error string
	At    time.Time
}

func NewEvent(t EventType, order Order) Event {
	return Event{
		Type:  t,
		Order: order,
		At:    time.Now(),
	}
}

func (e Event) WithError(err string) Event {
	e.Error = err
	return e
}
