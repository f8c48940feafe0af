package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Mansurxan1/hadiya/internal/entity"
	"github.com/Mansurxan1/hadiya/pkg/config"
)

//go:generate go run go.uber.org/mock/mockgen@latest -source=service.go -destination=../mocks/service.go -package=mocks

const maxCASAttempts = 5

type Repository interface {
	CreateOrder(ctx context.Context, o entity.Order) (entity.Order, error)
	Order(ctx context.Context, id string) (entity.Order, error)
	UpdateOrder(ctx context.Context, o entity.Order, expectedVersion int64) (entity.Order, error)
	Orders(ctx context.Context, f entity.OrderFilter) ([]entity.Order, int, error)
	Ping(ctx context.Context) error
}

type ClickClient interface {
	SubmitItems(ctx context.Context, receipt entity.FiscalReceipt) error
	FiscalData(ctx context.Context, serviceID, paymentID string) (entity.FiscalData, error)
	RegisterQRCode(ctx context.Context, serviceID int, paymentID, qrCodeURL string) error
	PaymentStatus(ctx context.Context, transactionID string) (entity.ClickPayment, error)
	Reach(ctx context.Context, rawURL string) error
}

type Notifier interface {
	Notify(ctx context.Context, e entity.Event)
}

// TelegramBot is used by operators to connect the notification chat.
type TelegramBot interface {
	GetMe(ctx context.Context) (entity.TelegramBot, error)
	GetUpdates(ctx context.Context) ([]entity.TelegramChat, error)
	SendMessage(ctx context.Context, text string) error
	ChatConfigured() bool
}

type Service struct {
	repo     Repository
	click    ClickClient
	notifier Notifier
	bot      TelegramBot
	cfg      config.Click
	now      func() time.Time
	lastID   atomic.Int64
	wg       sync.WaitGroup
}

type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithTelegram enables the bot setup page.
func WithTelegram(bot TelegramBot) Option {
	return func(s *Service) {
		s.bot = bot
	}
}

func New(repo Repository, click ClickClient, notifier Notifier, cfg config.Click, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		click:    click,
		notifier: notifier,
		cfg:      cfg,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Wait blocks until background side effects of confirmed payments finish.
func (s *Service) Wait() {
	s.wg.Wait()
}

// goAsync runs fn detached from the request so it outlives the webhook response.
func (s *Service) goAsync(ctx context.Context, name string, fn func(ctx context.Context)) {
	ctx = context.WithoutCancel(ctx)

	s.wg.Add(1)

	go func() {
		defer s.wg.Done()

		defer func() {
			if r := recover(); r != nil {
				slog.ErrorContext(ctx, "background task panicked", "task", name, "panic", fmt.Sprint(r))
			}
		}()

		fn(ctx)
	}()
}

func (s *Service) notifyAsync(ctx context.Context, e entity.Event) {
	s.goAsync(ctx, "notify "+e.Type.String(), func(ctx context.Context) {
		s.notifier.Notify(ctx, e)
	})
}

// updateOrder re-reads the order and applies mutate until the compare-and-swap succeeds.
// Errors returned by mutate stop the loop and are returned as is.
func (s *Service) updateOrder(
	ctx context.Context,
	id string,
	mutate func(o entity.Order) (entity.Order, error),
) (entity.Order, error) {
	for range maxCASAttempts {
		current, err := s.repo.Order(ctx, id)
		if err != nil {
			return entity.Order{}, fmt.Errorf("get order %s: %w", id, err)
		}

		next, err := mutate(current)
		if err != nil {
			return current, err
		}

		updated, err := s.repo.UpdateOrder(ctx, next, current.Version)
		if errors.Is(err, entity.ErrConflict) {
			slog.DebugContext(ctx, "order changed concurrently, retrying", "order_id", id, "version", current.Version)
			continue
		}

		if err != nil {
			return entity.Order{}, fmt.Errorf("update order %s: %w", id, err)
		}

		return updated, nil
	}

	return entity.Order{}, fmt.Errorf("update order %s: too many concurrent updates: %w", id, entity.ErrOperationFailed)
}

// nextOrderID returns the current unix time in milliseconds, bumped past the last issued id.
func (s *Service) nextOrderID() string {
	for {
		last := s.lastID.Load()

		id := s.now().UnixMilli()
		if id <= last {
			id = last + 1
		}

		if s.lastID.CompareAndSwap(last, id) {
			return strconv.FormatInt(id, 10)
		}
	}
}

func (s *Service) checkClickConfig() error {
	missing := s.cfg.Missing()
	if len(missing) != 0 {
		return fmt.Errorf("%w: %v not set", entity.ErrConfig, missing)
	}

	return nil
}
