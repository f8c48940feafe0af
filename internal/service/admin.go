package service

import (
	"context"
	"fmt"

	"github.com/Mansurxan1/hadiya/internal/entity"
)

const (
	defaultOrdersLimit = 20
	maxOrdersLimit     = 100
)

// Orders lists orders for operators, newest first unless the filter says otherwise.
func (s *Service) Orders(ctx context.Context, f entity.OrderFilter) ([]entity.Order, int, error) {
	if _, err := entity.OperatorFromCtx(ctx); err != nil {
		return nil, 0, err
	}

	if f.Limit == 0 {
		f.Limit = defaultOrdersLimit
	}

	if f.Limit > maxOrdersLimit {
		return nil, 0, fmt.Errorf("%w: limit %d is greater than %d", entity.ErrInvalidArgument, f.Limit, maxOrdersLimit)
	}

	if f.Page == 0 {
		f.Page = 1
	}

	if f.OrderBy == "" {
		f.OrderBy = entity.DESC
	}

	if !f.OrderBy.IsValid() {
		return nil, 0, fmt.Errorf("%w: order by %q", entity.ErrInvalidArgument, f.OrderBy)
	}

	if f.Status != nil && !f.Status.IsValid() {
		return nil, 0, fmt.Errorf("%w: status %q", entity.ErrInvalidArgument, *f.Status)
	}

	if f.FiscalStatus != nil && !f.FiscalStatus.IsValid() {
		return nil, 0, fmt.Errorf("%w: fiscal status %q", entity.ErrInvalidArgument, *f.FiscalStatus)
	}

	orders, total, err := s.repo.Orders(ctx, f)
	if err != nil {
		return nil, 0, fmt.Errorf("get orders: %w", err)
	}

	return orders, total, nil
}
