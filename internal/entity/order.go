package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// NotSpecified is stored in place of customer fields the buyer left empty.
const NotSpecified = "Не указано"

// AmountTolerance is the largest absolute difference between the order price
// and the amount reported by Click that is still accepted.
var AmountTolerance = decimal.NewFromInt(1)

var minorUnitsInMajor = decimal.NewFromInt(100)

type OrderStatus string

const (
	OrderStatusCreated   OrderStatus = "CREATED"
	OrderStatusPaid      OrderStatus = "PAID"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

func (s OrderStatus) String() string {
	return string(s)
}

func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusCreated, OrderStatusPaid, OrderStatusCancelled:
		return true
	}

	return false
}

// CanMoveTo reports whether the transition is forward. PAID and CANCELLED are terminal.
func (s OrderStatus) CanMoveTo(next OrderStatus) bool {
	return s == OrderStatusCreated && (next == OrderStatusPaid || next == OrderStatusCancelled)
}

type FiscalStatus string

const (
	FiscalStatusNone     FiscalStatus = "NONE"
	FiscalStatusAccepted FiscalStatus = "ACCEPTED"
	FiscalStatusFailed   FiscalStatus = "FAILED"
	// FiscalStatusPending is held while a submission to OFD is running.
	FiscalStatusPending FiscalStatus = "PENDING"
)

func (s FiscalStatus) String() string {
	return string(s)
}

func (s FiscalStatus) IsValid() bool {
	switch s {
	case FiscalStatusNone, FiscalStatusAccepted, FiscalStatusFailed, FiscalStatusPending:
		return true
	}

	return false
}

type Order struct {
	ID              string
	TourID          string
	TourName        string
	Price           decimal.Decimal
	UserID          string
	UserName        string
	UserPhone       string
	Status          OrderStatus
	ClickTransID    string
	ClickPaydocID   string
	PreparedAt      *time.Time
	PaidAt          *time.Time
	CancelledAt     *time.Time
	FiscalStatus    FiscalStatus
	FiscalQRCodeURL string
	FiscalError     string
	FiscalizedAt    *time.Time
	Version         int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (o Order) String() string {
	return fmt.Sprintf("order %s (%s)", o.ID, o.Status)
}

// IsConfirmed reports whether Click has already completed a payment for the order.
func (o Order) IsConfirmed() bool {
	return o.ClickTransID != ""
}

func (o Order) AmountMatches(amount decimal.Decimal) bool {
	return o.Price.Sub(amount).Abs().LessThanOrEqual(AmountTolerance)
}

// PriceMinor returns the price in tiyin rounded to the nearest unit.
func (o Order) PriceMinor() int64 {
	return ToMinorUnits(o.Price)
}

// PaymentState is the customer facing view of the order status. Orders cancelled by
// Click or expired by the stale order job are reported as failed.
func (o Order) PaymentState() PaymentState {
	switch {
	case o.IsConfirmed():
		return PaymentStatePaid
	case o.Status == OrderStatusCancelled:
		return PaymentStateFailed
	default:
		return PaymentStateWaiting
	}
}

// Prepared records the Prepare acknowledgement. The order itself is not moved.
func (o Order) Prepared(now time.Time) (Order, error) {
	switch {
	case o.IsConfirmed():
		return o, fmt.Errorf("%s: %w", o, ErrAlreadyConfirmed)
	case o.Status == OrderStatusCancelled:
		return o, fmt.Errorf("%s: %w", o, ErrAlreadyCancelled)
	}

	o.PreparedAt = &now
	o.UpdatedAt = now

	return o, nil
}

// Confirm moves the order to PAID. ClickTransID is assigned only once.
func (o Order) Confirm(clickTransID, clickPaydocID string, now time.Time) (Order, error) {
	switch {
	case o.IsConfirmed():
		return o, fmt.Errorf("%s: %w", o, ErrAlreadyConfirmed)
	case o.Status == OrderStatusCancelled:
		return o, fmt.Errorf("%s: %w", o, ErrAlreadyCancelled)
	case !o.Status.CanMoveTo(OrderStatusPaid):
		return o, fmt.Errorf("%s -> %s: %w", o, OrderStatusPaid, ErrInvalidStatus)
	case clickTransID == "":
		return o, fmt.Errorf("empty click_trans_id: %w", ErrInvalidArgument)
	}

	o.Status = OrderStatusPaid
	o.ClickTransID = clickTransID
	o.ClickPaydocID = clickPaydocID
	o.PaidAt = &now
	o.UpdatedAt = now

	return o, nil
}

func (o Order) Cancel(now time.Time) (Order, error) {
	switch {
	case o.IsConfirmed():
		return o, fmt.Errorf("%s: %w", o, ErrAlreadyConfirmed)
	case o.Status == OrderStatusCancelled:
		return o, fmt.Errorf("%s: %w", o, ErrAlreadyCancelled)
	}

	o.Status = OrderStatusCancelled
	o.CancelledAt = &now
	o.UpdatedAt = now

	return o, nil
}

// FiscalClaim marks the receipt as being submitted so that a concurrent run backs off.
// A claim older than ttl is treated as abandoned and can be taken over.
func (o Order) FiscalClaim(now time.Time, ttl time.Duration) (Order, error) {
	if err := o.checkFiscalizable(); err != nil {
		return o, err
	}

	if o.FiscalStatus == FiscalStatusPending && now.Sub(o.UpdatedAt) < ttl {
		return o, fmt.Errorf("%s claimed at %s: %w", o, o.UpdatedAt.Format(time.RFC3339), ErrFiscalInProgress)
	}

	o.FiscalStatus = FiscalStatusPending
	o.UpdatedAt = now

	return o, nil
}

// Fiscalized stores an accepted receipt. qrCodeURL may be empty when the provider
// has not produced it yet.
func (o Order) Fiscalized(qrCodeURL string, now time.Time) (Order, error) {
	if err := o.checkFiscalizable(); err != nil {
		return o, err
	}

	o.FiscalStatus = FiscalStatusAccepted
	o.FiscalQRCodeURL = qrCodeURL
	o.FiscalError = ""
	o.FiscalizedAt = &now
	o.UpdatedAt = now

	return o, nil
}

func (o Order) FiscalFailed(note string, now time.Time) (Order, error) {
	if err := o.checkFiscalizable(); err != nil {
		return o, err
	}

	o.FiscalStatus = FiscalStatusFailed
	o.FiscalError = note
	o.UpdatedAt = now

	return o, nil
}

func (o Order) checkFiscalizable() error {
	if o.Status != OrderStatusPaid {
		return fmt.Errorf("%s is not paid: %w", o, ErrInvalidStatus)
	}

	if o.FiscalStatus == FiscalStatusAccepted {
		return fmt.Errorf("%s: %w", o, ErrAlreadyFiscalized)
	}

	return nil
}

// ToMinorUnits converts an amount in sum to tiyin, rounding half away from zero.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(minorUnitsInMajor).Round(0).IntPart()
}

type OrderFilter struct {
	Status       *OrderStatus
	FiscalStatus *FiscalStatus
	CreatedFrom  *time.Time
	CreatedTo    *time.Time
	Page         uint64
	Limit        uint64
	OrderBy      OrderByCol
}

type OrderByCol string

func (o OrderByCol) String() string {
	return string(o)
}

const (
	DESC OrderByCol = "desc"
	ASC  OrderByCol = "asc"
)

func (o OrderByCol) IsValid() bool {
	switch o {
	case DESC, ASC:
		return true
	}

	return false
}
