package entity

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// PaymentRequest is a buyer's request to pay for a tour.
type PaymentRequest struct {
	TourID    string
	TourName  string
	Price     string
	UserID    string
	UserName  string
	UserPhone string
	// ReturnURL is where Click sends the buyer after payment.
	ReturnURL string
}

// NormalizedPrice strips whitespace the site puts into formatted prices ("1 200 000").
func (r PaymentRequest) NormalizedPrice() string {
	return strings.Join(strings.Fields(r.Price), "")
}

// Validate checks required fields and returns the parsed price.
func (r PaymentRequest) Validate() (decimal.Decimal, error) {
	if strings.TrimSpace(r.TourID) == "" || strings.TrimSpace(r.TourName) == "" || r.NormalizedPrice() == "" {
		return decimal.Decimal{}, fmt.Errorf("%w: tourId, tourName and price are required", ErrInvalidArgument)
	}

	price, err := decimal.NewFromString(r.NormalizedPrice())
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: price %q is not a number", ErrInvalidArgument, r.Price)
	}

	if !price.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("%w: price %s must be positive", ErrInvalidArgument, price)
	}

	return price, nil
}
