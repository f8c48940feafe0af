package service

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/Mansurxan1/hadiya/internal/entity"
	"github.com/Mansurxan1/hadiya/pkg/logger"
	"github.com/Mansurxan1/hadiya/pkg/security"
)

// HandleCallback runs a Prepare or Complete request and builds the answer for Click.
// It never returns an internal error text to the provider.
func (s *Service) HandleCallback(ctx context.Context, cb entity.ClickCallback) entity.ClickResponse {
	ctx = logger.WithOrderID(ctx, cb.MerchantTransID)

	var (
		order entity.Order
		err   error
	)

	switch cb.Action {
	case entity.ClickActionPrepare:
		order, err = s.Prepare(ctx, cb)
	case entity.ClickActionComplete:
		order, err = s.Complete(ctx, cb)
	default:
		err = fmt.Errorf("unknown action %d: %w", cb.Action, entity.ErrInvalidArgument)
	}

	code := entity.ClickCodeFromErr(err)

	resp := entity.ClickResponse{
		ClickTransID:    cb.ClickTransID,
		MerchantTransID: cb.MerchantTransID,
		Error:           code,
		ErrorNote:       code.Note(),
	}

	switch {
	case err == nil:
		if cb.Action == entity.ClickActionPrepare {
			resp.MerchantPrepareID = order.ID
		} else {
			resp.MerchantConfirmID = order.ID
		}

		slog.InfoContext(ctx, "click callback accepted", "action", cb.Action, "click_trans_id", cb.ClickTransID)
	case code == entity.ClickCodeSystemError || code == entity.ClickCodeOperationFailed:
		slog.ErrorContext(ctx, "click callback failed", "action", cb.Action, "code", code, "error", err)
	default:
		slog.WarnContext(ctx, "click callback rejected", "action", cb.Action, "code", code, "error", err)
	}

	return resp
}

// authenticate checks the callback before any order is read.
func (s *Service) authenticate(ctx context.Context, cb entity.ClickCallback) error {
	if s.cfg.SecretKey == "" {
		return fmt.Errorf("%w: CLICK_SECRET_KEY not set", entity.ErrConfig)
	}

	err := cb.Validate()
	if err != nil {
		return err
	}

	fields := security.CallbackFields{
		ClickTransID:      cb.ClickTransID,
		ServiceID:         cb.ServiceID,
		MerchantTransID:   cb.MerchantTransID,
		MerchantPrepareID: cb.MerchantPrepareID,
		Amount:            cb.Amount,
		Action:            cb.Action.String(),
		SignTime:          cb.SignTime,
	}

	if !security.VerifyCallback(fields, s.cfg.SecretKey, cb.SignString) {
		slog.WarnContext(ctx, "click signature mismatch",
			"click_trans_id", cb.ClickTransID,
			"sign_time", cb.SignTime,
			"sign_string_len", len(cb.SignString),
		)

		return fmt.Errorf("click_trans_id %s: %w", cb.ClickTransID, entity.ErrBadSignature)
	}

	return nil
}

// Prepare validates that the order exists, is payable and costs what Click is about to charge.
// The acknowledgement time is stored best-effort.
func (s *Service) Prepare(ctx context.Context, cb entity.ClickCallback) (entity.Order, error) {
	err := s.authenticate(ctx, cb)
	if err != nil {
		return entity.Order{}, err
	}

	if cb.Action != entity.ClickActionPrepare {
		return entity.Order{}, fmt.Errorf("action %d is not prepare: %w", cb.Action, entity.ErrInvalidArgument)
	}

	amount, err := cb.AmountDecimal()
	if err != nil {
		return entity.Order{}, err
	}

	order, err := s.repo.Order(ctx, cb.MerchantTransID)
	if err != nil {
		return entity.Order{}, fmt.Errorf("get order %s: %w", cb.MerchantTransID, err)
	}

	prepared, err := order.Prepared(s.now())
	if err != nil {
		return entity.Order{}, err
	}

	if !order.AmountMatches(amount) {
		return entity.Order{}, fmt.Errorf("%w: order %s price %s, click amount %s",
			entity.ErrInvalidAmount, order.ID, order.Price, amount)
	}

	updated, err := s.repo.UpdateOrder(ctx, prepared, order.Version)
	if err != nil {
		slog.WarnContext(ctx, "store prepare acknowledgement", "error", err)
		return order, nil
	}

	return updated, nil
}

// Complete confirms the payment. The order is marked PAID before any side effect starts;
// notification and fiscalization then run in the background and never change the answer.
func (s *Service) Complete(ctx context.Context, cb entity.ClickCallback) (entity.Order, error) {
	err := s.authenticate(ctx, cb)
	if err != nil {
		return entity.Order{}, err
	}

	if cb.Action != entity.ClickActionComplete {
		return entity.Order{}, fmt.Errorf("action %d is not complete: %w", cb.Action, entity.ErrInvalidArgument)
	}

	amount, err := cb.AmountDecimal()
	if err != nil {
		return entity.Order{}, err
	}

	var cancelled bool

	order, err := s.updateOrder(ctx, cb.MerchantTransID, func(o entity.Order) (entity.Order, error) {
		cancelled = false

		if cb.MerchantPrepareID != "" && cb.MerchantPrepareID != o.ID {
			return o, fmt.Errorf("merchant_prepare_id %q of order %s: %w", cb.MerchantPrepareID, o.ID, entity.ErrNotFound)
		}

		if o.IsConfirmed() {
			return o, fmt.Errorf("%s by click_trans_id %s: %w", o, o.ClickTransID, entity.ErrAlreadyConfirmed)
		}

		if cb.ProviderFailed() {
			cancelled = true
			return o.Cancel(s.now())
		}

		if !o.AmountMatches(amount) {
			return o, fmt.Errorf("%w: order %s price %s, click amount %s", entity.ErrInvalidAmount, o.ID, o.Price, amount)
		}

		return o.Confirm(cb.ClickTransID, cb.ClickPaydocID, s.now())
	})
	if err != nil {
		return entity.Order{}, err
	}

	if cancelled {
		reason := fmt.Sprintf("click error %d: %s", cb.Error, cb.ErrorNote)

		slog.InfoContext(ctx, "order cancelled by click", "reason", reason)
		s.notifyAsync(ctx, entity.NewEvent(entity.EventPaymentCancelled, order).WithError(reason))

		return order, fmt.Errorf("%s: %s: %w", order, reason, entity.ErrAlreadyCancelled)
	}

	slog.InfoContext(ctx, fmt.Sprintf("Оплачен заказ на тур %q на сумму %s", order.TourName, order.Price),
		"click_trans_id", order.ClickTransID)

	s.afterPayment(ctx, order)

	return order, nil
}

func (s *Service) afterPayment(ctx context.Context, order entity.Order) {
	s.goAsync(ctx, "after payment", func(ctx context.Context) {
		var g errgroup.Group

		g.Go(func() error {
			s.notifier.Notify(ctx, entity.NewEvent(entity.EventPaymentConfirmed, order))
			return nil
		})

		g.Go(func() error {
			_, err := s.FiscalizeReceipt(ctx, order.ID)
			return err
		})

		err := g.Wait()
		if err != nil {
			slog.ErrorContext(ctx, "fiscalize paid order", "error", err)
		}
	})
}
