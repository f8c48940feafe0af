package entity

import (
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/shopspring/decimal"
)

type ClickAction int

const (
	ClickActionPrepare  ClickAction = 0
	ClickActionComplete ClickAction = 1
)

func (a ClickAction) String() string {
	return strconv.Itoa(int(a))
}

func ParseClickAction(s string) (ClickAction, error) {
	switch s {
	case "0":
		return ClickActionPrepare, nil
	case "1":
		return ClickActionComplete, nil
	}

	return 0, fmt.Errorf("unknown action %q: %w", s, ErrInvalidArgument)
}

// ClickCallback is a Prepare or Complete request sent by Click. String fields are
// kept exactly as received because they take part in the signature.
type ClickCallback struct {
	Action            ClickAction
	ClickTransID      string
	ServiceID         string
	ClickPaydocID     string
	MerchantTransID   string
	MerchantPrepareID string
	Amount            string
	Error             int
	ErrorNote         string
	SignTime          string
	SignString        string
}

func (c ClickCallback) Validate() error {
	var missing []string

	for name, v := range map[string]string{
		"click_trans_id":    c.ClickTransID,
		"service_id":        c.ServiceID,
		"merchant_trans_id": c.MerchantTransID,
		"amount":            c.Amount,
		"sign_time":         c.SignTime,
		"sign_string":       c.SignString,
	} {
		if v == "" {
			missing = append(missing, name)
		}
	}

	if len(missing) != 0 {
		slices.Sort(missing)
		return fmt.Errorf("missing fields %v: %w", missing, ErrInvalidArgument)
	}

	_, err := c.AmountDecimal()
	if err != nil {
		return err
	}

	return nil
}

func (c ClickCallback) AmountDecimal() (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(c.Amount)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parse amount %q: %w", c.Amount, ErrInvalidArgument)
	}

	return amount, nil
}

// ProviderFailed reports whether Click itself signalled a failed payment in the Complete request.
func (c ClickCallback) ProviderFailed() bool {
	return c.Error < 0
}

// ClickErrorCode is the error field of a webhook response.
type ClickErrorCode int

const (
	ClickCodeSuccess         ClickErrorCode = 0
	ClickCodeBadRequest      ClickErrorCode = 1
	ClickCodeSignFailed      ClickErrorCode = 2
	ClickCodeNotFound        ClickErrorCode = 3
	ClickCodeAlreadyPaid     ClickErrorCode = 4
	ClickCodeCancelled       ClickErrorCode = 5
	ClickCodeOperationFailed ClickErrorCode = 6
	ClickCodeSystemError     ClickErrorCode = 7
	ClickCodeInvalidAmount   ClickErrorCode = 8
	ClickCodeInvalidStatus   ClickErrorCode = 9
)

var clickCodeNotes = map[ClickErrorCode]string{
	ClickCodeSuccess:         "Success",
	ClickCodeBadRequest:      "Ошибка в запросе от CLICK",
	ClickCodeSignFailed:      "Ошибка авторизации",
	ClickCodeNotFound:        "Транзакция не найдена",
	ClickCodeAlreadyPaid:     "Транзакция уже подтверждена",
	ClickCodeCancelled:       "Транзакция уже отменена",
	ClickCodeOperationFailed: "Ошибка при выполнении операции",
	ClickCodeSystemError:     "Системная ошибка",
	ClickCodeInvalidAmount:   "Неверная сумма",
	ClickCodeInvalidStatus:   "Неверный статус транзакции",
}

func (c ClickErrorCode) Note() string {
	note, ok := clickCodeNotes[c]
	if !ok {
		return clickCodeNotes[ClickCodeSystemError]
	}

	return note
}

// ClickCodeFromErr maps an error chain to the protocol code. Unknown errors become a system error.
func ClickCodeFromErr(err error) ClickErrorCode {
	switch {
	case err == nil:
		return ClickCodeSuccess
	case errors.Is(err, ErrInvalidArgument):
		return ClickCodeBadRequest
	case errors.Is(err, ErrBadSignature):
		return ClickCodeSignFailed
	case errors.Is(err, ErrNotFound):
		return ClickCodeNotFound
	case errors.Is(err, ErrAlreadyConfirmed):
		return ClickCodeAlreadyPaid
	case errors.Is(err, ErrAlreadyCancelled):
		return ClickCodeCancelled
	case errors.Is(err, ErrOperationFailed):
		return ClickCodeOperationFailed
	case errors.Is(err, ErrInvalidAmount):
		return ClickCodeInvalidAmount
	case errors.Is(err, ErrInvalidStatus):
		return ClickCodeInvalidStatus
	default:
		return ClickCodeSystemError
	}
}

// PaymentState is the normalized payment status returned to the site.
type PaymentState string

const (
	PaymentStateWaiting    PaymentState = "WAITING"
	PaymentStateProcessing PaymentState = "PROCESSING"
	PaymentStatePaid       PaymentState = "PAID"
	PaymentStateFailed     PaymentState = "FAILED"
	PaymentStateUnknown    PaymentState = "UNKNOWN"
)

func (s PaymentState) String() string {
	return string(s)
}

func (s PaymentState) Description() string {
	switch s {
	case PaymentStateWaiting:
		return "В ожидании оплаты"
	case PaymentStateProcessing:
		return "В обработке"
	case PaymentStatePaid:
		return "Оплачено"
	case PaymentStateFailed:
		return "Ошибка оплаты"
	default:
		return "Неизвестный статус"
	}
}

// PaymentStateFromClick maps payment_status of the merchant API.
func PaymentStateFromClick(code int) PaymentState {
	switch {
	case code == 2:
		return PaymentStatePaid
	case code < 0:
		return PaymentStateFailed
	case code == 1:
		return PaymentStateProcessing
	case code == 0:
		return PaymentStateWaiting
	default:
		return PaymentStateUnknown
	}
}

// ClickPayment is a payment as reported by the merchant API.
type ClickPayment struct {
	TransactionID   string
	MerchantTransID string
	PaymentStatus   int
	Amount          decimal.Decimal
	CreateTime      string
	PayTime         string
}

func (p ClickPayment) State() PaymentState {
	return PaymentStateFromClick(p.PaymentStatus)
}

// PaymentSession is the result of starting a payment for a tour.
type PaymentSession struct {
	OrderID     string
	RedirectURL string
}

// ClickResponse is the body returned to Click for Prepare and Complete requests.
type ClickResponse struct {
	ClickTransID      string
	MerchantTransID   string
	MerchantPrepareID string
	MerchantConfirmID string
	Error             ClickErrorCode
	ErrorNote         string
}
