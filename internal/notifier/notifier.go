package notifier

import (
	"context"

	"github.com/Mansurxan1/hadiya/internal/entity"
)

// Notifier delivers an order event somewhere. Implementations log their own
// failures; Notify never fails the caller.
type Notifier interface {
	Notify(ctx context.Context, e entity.Event)
}

// Multi fans an event out to every configured notifier in turn.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, e entity.Event) {
	for _, n := range m {
		n.Notify(ctx, e)
	}
}

// Nop drops every event.
type Nop struct{}

func (Nop) Notify(context.Context, entity.Event) {}
