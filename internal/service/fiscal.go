package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/Mansurxan1/hadiya/internal/entity"
	"github.com/Mansurxan1/hadiya/pkg/logger"
)

// fiscalClaimTTL bounds how long a crashed submission blocks the next attempt.
const fiscalClaimTTL = 5 * time.Minute

// FiscalizeReceipt registers the receipt of a paid order in OFD.
//
// The result is successful when Click accepts the items. Fetching and registering
// the QR code are best-effort: their failures are logged and leave the QR empty.
// A rejected submission is stored on the order and reported to the operators.
// The order is marked PENDING before anything is sent, so a second run started
// while the first is in flight fails with entity.ErrFiscalInProgress.
func (s *Service) FiscalizeReceipt(ctx context.Context, orderID string) (entity.FiscalResult, error) {
	ctx = logger.WithOrderID(ctx, orderID)

	order, err := s.updateOrder(ctx, orderID, func(o entity.Order) (entity.Order, error) {
		return o.FiscalClaim(s.now(), fiscalClaimTTL)
	})
	if err != nil {
		return entity.FiscalResult{}, fmt.Errorf("claim receipt of order %s: %w", orderID, err)
	}

	receipt, err := s.receipt(order)
	if err != nil {
		s.fiscalFailed(ctx, order.ID, err)
		return entity.FiscalResult{Note: err.Error()}, err
	}

	err = s.click.SubmitItems(ctx, receipt)
	if err != nil {
		s.fiscalFailed(ctx, order.ID, err)
		return entity.FiscalResult{Note: err.Error()}, fmt.Errorf("submit receipt of order %s: %w", order.ID, err)
	}

	slog.InfoContext(ctx, "receipt accepted", "payment_id", receipt.PaymentID, "total", receipt.Total())

	result := entity.FiscalResult{Accepted: true}

	data, err := s.click.FiscalData(ctx, s.cfg.ServiceID, receipt.PaymentID)
	if err != nil {
		slog.WarnContext(ctx, "receipt qr code is not available", "payment_id", receipt.PaymentID, "error", err)
	} else {
		result.QRCodeURL = data.QRCodeURL

		err = s.click.RegisterQRCode(ctx, receipt.ServiceID, receipt.PaymentID, data.QRCodeURL)
		if err != nil {
			slog.WarnContext(ctx, "register receipt qr code", "payment_id", receipt.PaymentID, "error", err)
		} else {
			result.QRRegistered = true
		}
	}

	updated, err := s.updateOrder(ctx, order.ID, func(o entity.Order) (entity.Order, error) {
		return o.Fiscalized(result.QRCodeURL, s.now())
	})
	if err != nil {
		// The provider has the receipt; only the local marker is missing.
		slog.ErrorContext(ctx, "store accepted receipt", "payment_id", receipt.PaymentID, "error", err)

		updated = order
		updated.FiscalStatus = entity.FiscalStatusAccepted
		updated.FiscalQRCodeURL = result.QRCodeURL
	}

	s.notifier.Notify(ctx, entity.NewEvent(entity.EventReceiptFiscalized, updated))

	return result, nil
}

func (s *Service) receipt(order entity.Order) (entity.FiscalReceipt, error) {
	if missing := s.cfg.FiscalMissing(); len(missing) != 0 {
		return entity.FiscalReceipt{}, fmt.Errorf("%w: %v not set", entity.ErrConfig, missing)
	}

	serviceID, err := strconv.Atoi(s.cfg.ServiceID)
	if err != nil {
		return entity.FiscalReceipt{}, fmt.Errorf("%w: CLICK_SERVICE_ID %q is not a number", entity.ErrConfig, s.cfg.ServiceID)
	}

	price := order.PriceMinor()

	return entity.FiscalReceipt{
		ServiceID: serviceID,
		PaymentID: order.FiscalPaymentID(),
		Items: []entity.FiscalItem{{
			Name:        order.TourName,
			SPIC:        s.cfg.SPICCode,
			Units:       entity.FiscalUnitsService,
			PackageCode: s.cfg.PackageCode,
			Price:       price,
			Amount:      1,
			VAT:         entity.VATAmount(price, s.cfg.VATPercent),
			VATPercent:  s.cfg.VATPercent,
			CommissionInfo: entity.CommissionInfo{
				TIN:   s.cfg.TIN,
				PINFL: s.cfg.PINFL,
			},
		}},
		ReceivedCard: price,
	}, nil
}

func (s *Service) fiscalFailed(ctx context.Context, orderID string, cause error) {
	slog.ErrorContext(ctx, "receipt is not registered", "error", cause)

	order, err := s.updateOrder(ctx, orderID, func(o entity.Order) (entity.Order, error) {
		return o.FiscalFailed(cause.Error(), s.now())
	})
	if err != nil {
		slog.ErrorContext(ctx, "store fiscalization failure", "error", err)

		order, err = s.repo.Order(ctx, orderID)
		if err != nil {
			order = entity.Order{ID: orderID}
		}
	}

	s.notifier.Notify(ctx, entity.NewEvent(entity.EventFiscalizationFailed, order).WithError(cause.Error()))
}

// Refiscalize repeats the receipt registration for an operator.
func (s *Service) Refiscalize(ctx context.Context, orderID string) (entity.FiscalResult, error) {
	op, err := entity.OperatorFromCtx(ctx)
	if err != nil {
		return entity.FiscalResult{}, err
	}

	ctx = logger.WithOperator(ctx, op.Name)

	slog.InfoContext(ctx, "manual fiscalization requested", "order_id", orderID)

	result, err := s.FiscalizeReceipt(ctx, orderID)
	if err != nil && !errors.Is(err, entity.ErrFiscalRejected) {
		return entity.FiscalResult{}, err
	}

	return result, nil
}

// FiscalData returns the receipt reference stored by Click for the order.
func (s *Service) FiscalData(ctx context.Context, orderID string) (entity.FiscalData, error) {
	order, err := s.repo.Order(ctx, orderID)
	if err != nil {
		return entity.FiscalData{}, fmt.Errorf("get order %s: %w", orderID, err)
	}

	if order.Status != entity.OrderStatusPaid {
		return entity.FiscalData{}, fmt.Errorf("%s is not paid: %w", order, entity.ErrInvalidStatus)
	}

	data, err := s.click.FiscalData(ctx, s.cfg.ServiceID, order.FiscalPaymentID())
	if err != nil {
		return entity.FiscalData{}, fmt.Errorf("get fiscal data of order %s: %w", order.ID, err)
	}

	return data, nil
}
