package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/segmentio/kafka-go"

	"github.com/Mansurxan1/hadiya/internal/entity"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes order events. Messages are keyed by order id so that
// events of one order keep their order within a partition.
type Producer struct {
	l     *slog.Logger
	w     messageWriter
	topic string
}

func NewProducer(l *slog.Logger, brokers []string, topic string) *Producer {
	l = l.WithGroup("kafka").With("topic", topic)

	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		Async:                  true,
		RequiredAcks:           kafka.RequireOne,
		Logger:                 &infoLogger{l: l},
		ErrorLogger:            &errorLogger{l: l},
		AllowAutoTopicCreation: true,
	}

	return &Producer{
		l:     l,
		w:     w,
		topic: topic,
	}
}

// OrderEvent is the message value published for every order event.
type OrderEvent struct {
	ID              uuid.UUID `json:"id"`
	Type            string    `json:"type"`
	OrderID         string    `json:"order_id"`
	TourID          string    `json:"tour_id"`
	TourName        string    `json:"tour_name"`
	Price           string    `json:"price"`
	Status          string    `json:"status"`
	ClickTransID    string    `json:"click_trans_id,omitempty"`
	FiscalStatus    string    `json:"fiscal_status"`
	FiscalQRCodeURL string    `json:"fiscal_qr_code_url,omitempty"`
	Error           string    `json:"error,omitempty"`
	At              time.Time `json:"at"`
}

func newOrderEvent(e entity.Event) OrderEvent {
	return OrderEvent{
		ID:              uuid.Must(uuid.NewV4()),
		Type:            e.Type.String(),
		OrderID:         e.Order.ID,
		TourID:          e.Order.TourID,
		TourName:        e.Order.TourName,
		Price:           e.Order.Price.String(),
		Status:          e.Order.Status.String(),
		ClickTransID:    e.Order.ClickTransID,
		FiscalStatus:    e.Order.FiscalStatus.String(),
		FiscalQRCodeURL: e.Order.FiscalQRCodeURL,
		Error:           e.Error,
		At:              e.At,
	}
}

// Notify publishes e. Errors are logged and never returned.
func (p *Producer) Notify(ctx context.Context, e entity.Event) {
	b, err := json.Marshal(newOrderEvent(e))
	if err != nil {
		p.l.ErrorContext(ctx, fmt.Sprintf("marshal event: %s", err))
		return
	}

	err = p.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(e.Order.ID),
		Value: b,
		Topic: p.topic,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(e.Type.String())},
		},
	})
	if err != nil {
		p.l.ErrorContext(ctx, fmt.Sprintf("write kafka message: %s", err))
		return
	}
}

func (p *Producer) Close() {
	err := p.w.Close()
	if err != nil {
		p.l.Error(fmt.Sprintf("close kafka writer: %s", err))
	}
}
