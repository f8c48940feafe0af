package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/Mansurxan1/hadiya/internal/entity"
	"github.com/Mansurxan1/hadiya/pkg/logger"
	"github.com/Mansurxan1/hadiya/pkg/security"
)

const maxOrderIDAttempts = 3

// CreatePayment stores a new order and returns the Click payment page link for it.
func (s *Service) CreatePayment(ctx context.Context, req entity.PaymentRequest) (entity.PaymentSession, error) {
	err := s.checkClickConfig()
	if err != nil {
		return entity.PaymentSession{}, err
	}

	price, err := req.Validate()
	if err != nil {
		return entity.PaymentSession{}, err
	}

	if missing := s.cfg.FiscalMissing(); len(missing) != 0 {
		slog.WarnContext(ctx, "receipts will not be registered", "missing", missing)
	}

	now := s.now()

	order := entity.Order{
		TourID:       strings.TrimSpace(req.TourID),
		TourName:     strings.TrimSpace(req.TourName),
		Price:        price,
		UserID:       strings.TrimSpace(req.UserID),
		UserName:     orNotSpecified(req.UserName),
		UserPhone:    orNotSpecified(req.UserPhone),
		Status:       entity.OrderStatusCreated,
		FiscalStatus: entity.FiscalStatusNone,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	var created entity.Order

	for range maxOrderIDAttempts {
		order.ID = s.nextOrderID()

		created, err = s.repo.CreateOrder(ctx, order)
		if !errors.Is(err, entity.ErrAlreadyExists) {
			break
		}
	}

	if err != nil {
		return entity.PaymentSession{}, fmt.Errorf("create order: %w", err)
	}

	order = created

	ctx = logger.WithOrderID(ctx, order.ID)

	returnURL := s.cfg.ReturnURL
	if returnURL == "" {
		returnURL = req.ReturnURL
	}

	redirectURL, err := s.redirectURL(order.ID, order.Price.String(), returnURL, strconv.FormatInt(now.UnixMilli(), 10))
	if err != nil {
		return entity.PaymentSession{}, err
	}

	slog.InfoContext(ctx, fmt.Sprintf("Создан заказ на тур %q на сумму %s", order.TourName, order.Price))

	s.notifyAsync(ctx, entity.NewEvent(entity.EventOrderCreated, order))

	return entity.PaymentSession{
		OrderID:     order.ID,
		RedirectURL: redirectURL,
	}, nil
}

func (s *Service) redirectURL(orderID, amount, returnURL, signTime string) (string, error) {
	u, err := url.Parse(s.cfg.PayURL)
	if err != nil {
		return "", fmt.Errorf("%w: parse CLICK_PAY_URL: %w", entity.ErrConfig, err)
	}

	q := u.Query()
	q.Set("service_id", s.cfg.ServiceID)
	q.Set("merchant_id", s.cfg.MerchantID)
	q.Set("amount", amount)
	q.Set("transaction_param", orderID)
	q.Set("return_url", returnURL)
	q.Set("sign_time", signTime)
	q.Set("sign_string", security.RedirectSignature(s.cfg.ServiceID, orderID, signTime, s.cfg.SecretKey))

	u.RawQuery = q.Encode()

	return u.String(), nil
}

// Order returns the stored order. The buyer facing state is Order.PaymentState.
func (s *Service) Order(ctx context.Context, id string) (entity.Order, error) {
	if strings.TrimSpace(id) == "" {
		return entity.Order{}, fmt.Errorf("%w: order id is required", entity.ErrInvalidArgument)
	}

	order, err := s.repo.Order(ctx, id)
	if err != nil {
		return entity.Order{}, fmt.Errorf("get order %s: %w", id, err)
	}

	return order, nil
}

// TransactionStatus asks Click about a payment by its transaction id.
func (s *Service) TransactionStatus(ctx context.Context, transactionID string) (entity.ClickPayment, error) {
	if strings.TrimSpace(transactionID) == "" {
		return entity.ClickPayment{}, fmt.Errorf("%w: transaction id is required", entity.ErrInvalidArgument)
	}

	payment, err := s.click.PaymentStatus(ctx, transactionID)
	if err != nil {
		return entity.ClickPayment{}, fmt.Errorf("get click payment %s: %w", transactionID, err)
	}

	return payment, nil
}

func orNotSpecified(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return entity.NotSpecified
	}

	return s
}
