package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/Mansurxan1/hadiya/internal/entity"
)

// Memory keeps orders in process memory. It is used in tests and local runs.
type Memory struct {
	mu     sync.RWMutex
	orders map[string]entity.Order
}

func NewMemory() *Memory {
	return &Memory{
		orders: make(map[string]entity.Order),
	}
}

func (m *Memory) CreateOrder(_ context.Context, o entity.Order) (entity.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.orders[o.ID]; ok {
		return entity.Order{}, fmt.Errorf("order %s: %w", o.ID, entity.ErrAlreadyExists)
	}

	o.Version = 1
	m.orders[o.ID] = o

	return o, nil
}

func (m *Memory) Order(_ context.Context, id string) (entity.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	o, ok := m.orders[id]
	if !ok {
		return entity.Order{}, entity.ErrNotFound
	}

	return o, nil
}

func (m *Memory) UpdateOrder(_ context.Context, o entity.Order, expectedVersion int64) (entity.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.orders[o.ID]
	if !ok {
		return entity.Order{}, fmt.Errorf("order %s: %w", o.ID, entity.ErrNotFound)
	}

	if stored.Version != expectedVersion {
		return entity.Order{}, fmt.Errorf("order %s version %d: %w", o.ID, expectedVersion, entity.ErrConflict)
	}

	o.Version = expectedVersion + 1
	o.CreatedAt = stored.CreatedAt
	m.orders[o.ID] = o

	return o, nil
}

func (m *Memory) Orders(_ context.Context, f entity.OrderFilter) ([]entity.Order, int, error) {
	m.mu.RLock()

	all := make([]entity.Order, 0, len(m.orders))
	for _, o := range m.orders {
		all = append(all, o)
	}

	m.mu.RUnlock()

	orders, total := pageOrders(all, f)

	return orders, total, nil
}

func (m *Memory) Ping(context.Context) error {
	return nil
}
