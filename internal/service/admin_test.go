package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/Mansurxan1/hadiya/internal/entity"
	"github.com/Mansurxan1/hadiya/internal/service"
)

func operatorCtx() context.Context {
	return entity.CtxWithOperator(context.Background(), entity.Operator{Name: "dilnoza"})
}

func createOrder(t *testing.T, repo service.Repository, id string, status entity.OrderStatus, createdAt time.Time) entity.Order {
	t.Helper()

	o := entity.Order{
		ID:           id,
		TourID:       "samarkand",
		TourName:     "Самарканд",
		Price:        decimal.RequireFromString("500000"),
		UserName:     entity.NotSpecified,
		UserPhone:    entity.NotSpecified,
		Status:       entity.OrderStatusCreated,
		FiscalStatus: entity.FiscalStatusNone,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}

	var err error

	switch status {
	case entity.OrderStatusPaid:
		o, err = o.Confirm("77"+id, "88"+id, createdAt)
	case entity.OrderStatusCancelled:
		o, err = o.Cancel(createdAt)
	}

	require.NoError(t, err)

	created, err := repo.CreateOrder(context.Background(), o)
	require.NoError(t, err)

	return created
}

func TestService_Orders(t *testing.T) {
	t.Parallel()

	d := newDeps(t, clickConfig())

	createOrder(t, d.repo, "1", entity.OrderStatusPaid, now.Add(-3*time.Hour))
	createOrder(t, d.repo, "2", entity.OrderStatusCreated, now.Add(-2*time.Hour))
	createOrder(t, d.repo, "3", entity.OrderStatusPaid, now.Add(-time.Hour))

	_, _, err := d.svc.Orders(context.Background(), entity.OrderFilter{})
	require.ErrorIs(t, err, entity.ErrUnauthenticated)

	orders, total, err := d.svc.Orders(operatorCtx(), entity.OrderFilter{})
	require.NoError(t, err)
	require.Equal(t, 3, total)
	require.Len(t, orders, 3)
	require.Equal(t, "3", orders[0].ID)
	require.Equal(t, "1", orders[2].ID)

	paid := entity.OrderStatusPaid

	orders, total, err = d.svc.Orders(operatorCtx(), entity.OrderFilter{Status: &paid, Limit: 1, Page: 2, OrderBy: entity.ASC})
	require.NoError(t, err)
	require.Equal(t, 2, total)
	require.Len(t, orders, 1)
	require.Equal(t, "3", orders[0].ID)

	_, _, err = d.svc.Orders(operatorCtx(), entity.OrderFilter{Limit: 101})
	require.ErrorIs(t, err, entity.ErrInvalidArgument)

	_, _, err = d.svc.Orders(operatorCtx(), entity.OrderFilter{OrderBy: "sideways"})
	require.ErrorIs(t, err, entity.ErrInvalidArgument)

	unknown := entity.OrderStatus("REFUNDED")

	_, _, err = d.svc.Orders(operatorCtx(), entity.OrderFilter{Status: &unknown})
	require.ErrorIs(t, err, entity.ErrInvalidArgument)
}

func TestService_Refiscalize(t *testing.T) {
	t.Parallel()

	d := newDeps(t, clickConfig())
	createOrder(t, d.repo, "10", entity.OrderStatusPaid, now.Add(-time.Hour))

	_, err := d.svc.Refiscalize(context.Background(), "10")
	require.ErrorIs(t, err, entity.ErrUnauthenticated)

	gomock.InOrder(
		d.click.EXPECT().SubmitItems(gomock.Any(), gomock.Any()).
			Return(fmt.Errorf("%w: -5017 Неверный ИКПУ", entity.ErrFiscalRejected)),
		d.click.EXPECT().SubmitItems(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, r entity.FiscalReceipt) error {
				if r.PaymentID != "8810" || r.Total() != 50000000 {
					return errors.New("unexpected receipt")
				}

				return nil
			}),
	)
	d.click.EXPECT().FiscalData(gomock.Any(), "28420", "8810").
		Return(entity.FiscalData{PaymentID: "8810", QRCodeURL: "https://ofd.soliq.uz/check?t=CD"}, nil)
	d.click.EXPECT().RegisterQRCode(gomock.Any(), 28420, "8810", "https://ofd.soliq.uz/check?t=CD").
		Return(errors.New("timeout"))
	d.notifier.EXPECT().Notify(gomock.Any(), eventOf(entity.EventFiscalizationFailed))
	d.notifier.EXPECT().Notify(gomock.Any(), eventOf(entity.EventReceiptFiscalized))

	result, err := d.svc.Refiscalize(operatorCtx(), "10")
	require.NoError(t, err)
	require.False(t, result.Accepted)
	require.Contains(t, result.Note, "Неверный ИКПУ")

	order, err := d.repo.Order(context.Background(), "10")
	require.NoError(t, err)
	require.Equal(t, entity.FiscalStatusFailed, order.FiscalStatus)

	result, err = d.svc.Refiscalize(operatorCtx(), "10")
	require.NoError(t, err)
	require.Equal(t, entity.FiscalResult{
		Accepted:  true,
		QRCodeURL: "https://ofd.soliq.uz/check?t=CD",
	}, result)

	order, err = d.repo.Order(context.Background(), "10")
	require.NoError(t, err)
	require.Equal(t, entity.FiscalStatusAccepted, order.FiscalStatus)
	require.Empty(t, order.FiscalError)
	require.Equal(t, "https://ofd.soliq.uz/check?t=CD", order.FiscalQRCodeURL)

	_, err = d.svc.Refiscalize(operatorCtx(), "10")
	require.ErrorIs(t, err, entity.ErrAlreadyFiscalized)
}

func TestService_Refiscalize_WhileSubmitting(t *testing.T) {
	t.Parallel()

	d := newDeps(t, clickConfig())
	createOrder(t, d.repo, "15", entity.OrderStatusPaid, now.Add(-time.Hour))

	submitting := make(chan struct{})
	release := make(chan struct{})

	d.click.EXPECT().SubmitItems(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, entity.FiscalReceipt) error {
			close(submitting)
			<-release

			return nil
		}).
		Times(1)
	d.click.EXPECT().FiscalData(gomock.Any(), "28420", "8815").Return(entity.FiscalData{}, errors.New("not ready"))
	d.notifier.EXPECT().Notify(gomock.Any(), eventOf(entity.EventReceiptFiscalized))

	done := make(chan error, 1)

	go func() {
		_, err := d.svc.FiscalizeReceipt(context.Background(), "15")
		done <- err
	}()

	select {
	case <-submitting:
	case <-time.After(time.Second):
		t.Fatal("receipt was not submitted")
	}

	order, err := d.repo.Order(context.Background(), "15")
	require.NoError(t, err)
	require.Equal(t, entity.FiscalStatusPending, order.FiscalStatus)

	_, err = d.svc.Refiscalize(operatorCtx(), "15")
	require.ErrorIs(t, err, entity.ErrFiscalInProgress)

	close(release)
	require.NoError(t, <-done)

	order, err = d.repo.Order(context.Background(), "15")
	require.NoError(t, err)
	require.Equal(t, entity.FiscalStatusAccepted, order.FiscalStatus)
}

func TestService_FiscalizeReceipt_AbandonedClaim(t *testing.T) {
	t.Parallel()

	d := newDeps(t, clickConfig())

	claim := func(id string, at time.Time) {
		paid := createOrder(t, d.repo, id, entity.OrderStatusPaid, now.Add(-time.Hour))

		claimed, err := paid.FiscalClaim(at, time.Minute)
		require.NoError(t, err)

		_, err = d.repo.UpdateOrder(context.Background(), claimed, paid.Version)
		require.NoError(t, err)
	}

	claim("16", now.Add(-time.Hour))
	claim("17", now.Add(-time.Minute))

	d.click.EXPECT().SubmitItems(gomock.Any(), gomock.Any()).Return(nil).Times(1)
	d.click.EXPECT().FiscalData(gomock.Any(), "28420", "8816").Return(entity.FiscalData{}, errors.New("not ready"))
	d.notifier.EXPECT().Notify(gomock.Any(), eventOf(entity.EventReceiptFiscalized))

	result, err := d.svc.FiscalizeReceipt(context.Background(), "16")
	require.NoError(t, err)
	require.True(t, result.Accepted)

	_, err = d.svc.FiscalizeReceipt(context.Background(), "17")
	require.ErrorIs(t, err, entity.ErrFiscalInProgress)
}

func TestService_FiscalizeReceipt_NotPaid(t *testing.T) {
	t.Parallel()

	d := newDeps(t, clickConfig())
	createOrder(t, d.repo, "11", entity.OrderStatusCreated, now)

	_, err := d.svc.FiscalizeReceipt(context.Background(), "11")
	require.ErrorIs(t, err, entity.ErrInvalidStatus)

	_, err = d.svc.FiscalizeReceipt(context.Background(), "12")
	require.ErrorIs(t, err, entity.ErrNotFound)
}

func TestService_FiscalizeReceipt_MissingConfig(t *testing.T) {
	t.Parallel()

	cfg := clickConfig()
	cfg.SPICCode = ""

	d := newDeps(t, cfg)
	createOrder(t, d.repo, "13", entity.OrderStatusPaid, now)

	d.notifier.EXPECT().Notify(gomock.Any(), eventOf(entity.EventFiscalizationFailed))

	_, err := d.svc.FiscalizeReceipt(context.Background(), "13")
	require.ErrorIs(t, err, entity.ErrConfig)
	require.Contains(t, err.Error(), "CLICK_SPIC_CODE")

	order, err := d.repo.Order(context.Background(), "13")
	require.NoError(t, err)
	require.Equal(t, entity.FiscalStatusFailed, order.FiscalStatus)
}

func TestService_FiscalData(t *testing.T) {
	t.Parallel()

	d := newDeps(t, clickConfig())
	createOrder(t, d.repo, "20", entity.OrderStatusPaid, now)
	createOrder(t, d.repo, "21", entity.OrderStatusCreated, now)

	d.click.EXPECT().FiscalData(gomock.Any(), "28420", "8820").
		Return(entity.FiscalData{PaymentID: "8820", QRCodeURL: "https://ofd.soliq.uz/check?t=EF"}, nil)

	data, err := d.svc.FiscalData(context.Background(), "20")
	require.NoError(t, err)
	require.Equal(t, "https://ofd.soliq.uz/check?t=EF", data.QRCodeURL)

	_, err = d.svc.FiscalData(context.Background(), "21")
	require.ErrorIs(t, err, entity.ErrInvalidStatus)
}

func TestService_CancelStaleOrders(t *testing.T) {
	t.Parallel()

	d := newDeps(t, clickConfig())

	createOrder(t, d.repo, "30", entity.OrderStatusCreated, now.Add(-48*time.Hour))
	createOrder(t, d.repo, "31", entity.OrderStatusCreated, now.Add(-time.Hour))
	createOrder(t, d.repo, "32", entity.OrderStatusPaid, now.Add(-48*time.Hour))

	err := d.svc.CancelStaleOrders(context.Background(), 24*time.Hour)
	require.NoError(t, err)

	for id, want := range map[string]entity.OrderStatus{
		"30": entity.OrderStatusCancelled,
		"31": entity.OrderStatusCreated,
		"32": entity.OrderStatusPaid,
	} {
		order, err := d.repo.Order(context.Background(), id)
		require.NoError(t, err)
		require.Equal(t, want, order.Status, id)
	}
}

func TestService_ReportUnfiscalized(t *testing.T) {
	t.Parallel()

	d := newDeps(t, clickConfig())

	createOrder(t, d.repo, "40", entity.OrderStatusPaid, now.Add(-3*time.Hour))
	createOrder(t, d.repo, "41", entity.OrderStatusPaid, now.Add(-10*time.Minute))

	accepted := createOrder(t, d.repo, "42", entity.OrderStatusPaid, now.Add(-3*time.Hour))
	fiscalized, err := accepted.Fiscalized("", now.Add(-2*time.Hour))
	require.NoError(t, err)
	_, err = d.repo.UpdateOrder(context.Background(), fiscalized, accepted.Version)
	require.NoError(t, err)

	d.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, e entity.Event) {
			if e.Type != entity.EventReceiptPending || e.Order.ID != "40" {
				t.Errorf("unexpected event %s for order %s", e.Type, e.Order.ID)
			}
		})

	err = d.svc.ReportUnfiscalized(context.Background(), time.Hour)
	require.NoError(t, err)
}

func TestService_Diagnostics(t *testing.T) {
	t.Parallel()

	d := newDeps(t, clickConfig())

	d.click.EXPECT().Reach(gomock.Any(), "https://my.click.uz").Return(nil)
	d.click.EXPECT().Reach(gomock.Any(), "https://api.click.uz").Return(errors.New("dial tcp: i/o timeout"))

	diag := d.svc.Diagnostics(context.Background())
	require.True(t, diag.Configured())
	require.True(t, diag.FiscalConfigured())
	require.True(t, diag.StoreReachable)
	require.Equal(t, "28420", diag.ServiceID)
	require.Equal(t, 15, diag.VATPercent)
	require.Equal(t, []entity.HostCheck{
		{Host: "my.click.uz", Reachable: true},
		{Host: "api.click.uz", Error: "dial tcp: i/o timeout"},
	}, diag.Hosts)
	require.Contains(t, diag.TestPaymentURL, "transaction_param=test-")
	require.Contains(t, diag.TestPaymentURL, "amount=1000")
	require.NotContains(t, diag.TestPaymentURL, "s3cr3t")
}

func TestService_Diagnostics_NotConfigured(t *testing.T) {
	t.Parallel()

	cfg := clickConfig()
	cfg.SecretKey = ""
	cfg.PackageCode = ""

	d := newDeps(t, cfg)

	d.click.EXPECT().Reach(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	diag := d.svc.Diagnostics(context.Background())
	require.False(t, diag.Configured())
	require.Equal(t, []string{"CLICK_SECRET_KEY"}, diag.Missing)
	require.Equal(t, []string{"CLICK_PACKAGE_CODE", "CLICK_SECRET_KEY"}, diag.FiscalMissing)
	require.Empty(t, diag.TestPaymentURL)
}
