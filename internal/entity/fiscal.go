package entity

import (
	"github.com/shopspring/decimal"
)

const (
	// FiscalUnitsService is the OFD measurement unit code for services.
	FiscalUnitsService = 168
	DefaultVATPercent  = 15
)

type CommissionInfo struct {
	TIN   string `json:"TIN,omitempty"`
	PINFL string `json:"PINFL,omitempty"`
}

// FiscalItem is one receipt line. Money fields are in tiyin.
type FiscalItem struct {
	Name           string         `json:"Name"`
	SPIC           string         `json:"SPIC"`
	Units          int            `json:"Units"`
	PackageCode    string         `json:"PackageCode"`
	Price          int64          `json:"Price"`
	Amount         int            `json:"Amount"`
	VAT            int64          `json:"VAT"`
	VATPercent     int            `json:"VATPercent"`
	CommissionInfo CommissionInfo `json:"CommissionInfo"`
	Barcode        string         `json:"Barcode,omitempty"`
	Labels         []string       `json:"Labels,omitempty"`
	GoodPrice      int64          `json:"GoodPrice,omitempty"`
	Discount       int64          `json:"Discount,omitempty"`
	Other          int64          `json:"Other,omitempty"`
}

// FiscalReceipt is the body of an OFD submission.
type FiscalReceipt struct {
	ServiceID     int          `json:"service_id"`
	PaymentID     string       `json:"payment_id"`
	Items         []FiscalItem `json:"items"`
	ReceivedCard  int64        `json:"received_card"`
	ReceivedCash  int64        `json:"received_cash"`
	ReceivedEcash int64        `json:"received_ecash"`
}

func (r FiscalReceipt) Total() int64 {
	var total int64

	for _, item := range r.Items {
		total += item.Price * int64(item.Amount)
	}

	return total
}

// FiscalData is the receipt reference returned by the provider after submission.
type FiscalData struct {
	PaymentID string `json:"paymentId"`
	QRCodeURL string `json:"qrCodeURL"`
}

// FiscalResult is the outcome of a receipt registration. Accepted is true only
// when the provider accepted the submitted items.
type FiscalResult struct {
	Accepted     bool
	QRCodeURL    string
	QRRegistered bool
	Note         string
}

// VATAmount returns the VAT share of a minor unit price, rounded to the nearest tiyin.
func VATAmount(priceMinor int64, percent int) int64 {
	return decimal.NewFromInt(priceMinor).
		Mul(decimal.NewFromInt(int64(percent))).
		Div(decimal.NewFromInt(100)).
		Round(0).
		IntPart()
}

// FiscalPaymentID is the provider payment id used for OFD calls. Orders confirmed
// without a paydoc id fall back to the merchant order id.
func (o Order) FiscalPaymentID() string {
	if o.ClickPaydocID != "" {
		return o.ClickPaydocID
	}

	return o.ID
}
