package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Mansurxan1/hadiya/internal/entity"
)

const jobsPageSize = 100

// CancelStaleOrders cancels orders that were never paid within ttl.
func (s *Service) CancelStaleOrders(ctx context.Context, ttl time.Duration) error {
	created := entity.OrderStatusCreated
	before := s.now().Add(-ttl)

	orders, err := s.allOrders(ctx, entity.OrderFilter{Status: &created, CreatedTo: &before})
	if err != nil {
		return fmt.Errorf("get stale orders: %w", err)
	}

	var errs []error

	for _, o := range orders {
		cancelled, err := s.updateOrder(ctx, o.ID, func(o entity.Order) (entity.Order, error) {
			return o.Cancel(s.now())
		})
		if err != nil {
			if errors.Is(err, entity.ErrAlreadyConfirmed) || errors.Is(err, entity.ErrAlreadyCancelled) {
				continue
			}

			errs = append(errs, fmt.Errorf("cancel order %s: %w", o.ID, err))

			continue
		}

		slog.InfoContext(ctx, "stale order cancelled", "order_id", cancelled.ID, "created_at", cancelled.CreatedAt)
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// ReportUnfiscalized reports paid orders whose receipt is still not accepted after grace.
// Receipts are not resubmitted automatically.
func (s *Service) ReportUnfiscalized(ctx context.Context, grace time.Duration) error {
	paid := entity.OrderStatusPaid
	before := s.now().Add(-grace)

	orders, err := s.allOrders(ctx, entity.OrderFilter{Status: &paid, CreatedTo: &before})
	if err != nil {
		return fmt.Errorf("get paid orders: %w", err)
	}

	var reported int

	for _, o := range orders {
		if o.FiscalStatus == entity.FiscalStatusAccepted {
			continue
		}

		if o.PaidAt != nil && o.PaidAt.After(before) {
			continue
		}

		s.notifier.Notify(ctx, entity.NewEvent(entity.EventReceiptPending, o))

		reported++
	}

	if reported > 0 {
		slog.WarnContext(ctx, "paid orders without receipt", "count", reported)
	}

	return nil
}

func (s *Service) allOrders(ctx context.Context, f entity.OrderFilter) ([]entity.Order, error) {
	f.Limit = jobsPageSize
	f.OrderBy = entity.ASC

	var all []entity.Order

	for page := uint64(1); ; page++ {
		f.Page = page

		orders, total, err := s.repo.Orders(ctx, f)
		if err != nil {
			return nil, err
		}

		all = append(all, orders...)

		if len(orders) == 0 || len(all) >= total {
			return all, nil
		}
	}
}
