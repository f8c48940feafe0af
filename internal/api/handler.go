package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Mansurxan1/hadiya/internal/entity"
)

// @title Hadiya Travel Payment API
// @version 1.0
// @description Click payments for tour bookings: payment sessions, Prepare/Complete callbacks and receipts
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

type Service interface {
	CreatePayment(ctx context.Context, req entity.PaymentRequest) (entity.PaymentSession, error)
	HandleCallback(ctx context.Context, cb entity.ClickCallback) entity.ClickResponse
	Order(ctx context.Context, id string) (entity.Order, error)
	TransactionStatus(ctx context.Context, transactionID string) (entity.ClickPayment, error)
	Diagnostics(ctx context.Context) entity.Diagnostics
	Orders(ctx context.Context, f entity.OrderFilter) ([]entity.Order, int, error)
	Refiscalize(ctx context.Context, orderID string) (entity.FiscalResult, error)
	FiscalData(ctx context.Context, orderID string) (entity.FiscalData, error)
	TelegramSetup(ctx context.Context) (entity.TelegramSetup, error)
}

const returnPath = "/payment/success"

type Handler struct {
	s Service
}

func NewHandler(s Service) *Handler {
	return &Handler{s: s}
}

// Price accepts the tour price as a JSON string ("1 200 000") or a number.
type Price string

func (p *Price) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}

		*p = Price(s)

		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("price must be a string or a number: %w", err)
	}

	*p = Price(n.String())

	return nil
}

type CreatePaymentRequest struct {
	TourID    string `json:"tourId"`
	TourName  string `json:"tourName"`
	Price     Price  `json:"price" swaggertype:"string" example:"1200000"`
	UserID    string `json:"userId,omitempty"`
	UserName  string `json:"userName,omitempty"`
	UserPhone string `json:"userPhone,omitempty"`
}

type CreatePaymentResponse struct {
	Success     bool   `json:"success"`
	RedirectURL string `json:"redirectUrl"`
	OrderID     string `json:"orderId"`
}

// CreatePayment starts a Click payment for a tour
// @Summary Create payment
// @Description Stores a new order and returns the Click payment page link
// @Tags payments
// @Accept json
// @Produce json
// @Param CreatePaymentRequest body CreatePaymentRequest true "Tour and buyer"
// @Success 200 {object} CreatePaymentResponse
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 413 {object} ErrorResponse "Request body is larger than 1 MiB"
// @Failure 429 {object} ErrorResponse "Too many requests"
// @Failure 500 {object} ErrorResponse "Click is not configured or the order is not stored"
// @Router /payments [post]
func (h *Handler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreatePaymentRequest

	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		SendJSONErr(ctx, w, http.StatusBadRequest, err, "Невалидный JSON")
		return
	}

	session, err := h.s.CreatePayment(ctx, entity.PaymentRequest{
		TourID:    req.TourID,
		TourName:  req.TourName,
		Price:     string(req.Price),
		UserID:    req.UserID,
		UserName:  req.UserName,
		UserPhone: req.UserPhone,
		ReturnURL: returnURL(r),
	})
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrInvalidArgument):
			SendJSONErr(ctx, w, http.StatusBadRequest, err, "Неверные параметры заказа")
		case errors.Is(err, entity.ErrConfig):
			SendJSONErr(ctx, w, http.StatusInternalServerError, err, "Платежная система не настроена")
		default:
			SendJSONErr(ctx, w, http.StatusInternalServerError, err, "Не удалось создать платеж")
		}

		return
	}

	SendJSON(ctx, w, http.StatusOK, CreatePaymentResponse{
		Success:     true,
		RedirectURL: session.RedirectURL,
		OrderID:     session.OrderID,
	})
}

// returnURL builds the page Click sends the buyer back to. Local hosts are served over plain http.
func returnURL(r *http.Request) string {
	host := r.Host

	hostname := host
	if h, _, err := net.SplitHostPort(host); err == nil {
		hostname = h
	}

	scheme := "https"
	if hostname == "localhost" || hostname == "127.0.0.1" {
		scheme = "http"
	}

	return scheme + "://" + host + returnPath
}

type StatusRequest struct {
	OrderID       string `json:"orderId,omitempty"`
	TransactionID string `json:"transactionId,omitempty"`
}

type Customer struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type OrderStatus struct {
	OrderID           string     `json:"orderId"`
	TransactionID     string     `json:"transactionId,omitempty"`
	Status            string     `json:"status"`
	StatusDescription string     `json:"statusDescription"`
	PaidAt            *time.Time `json:"paidAt,omitempty"`
	TourName          string     `json:"tourName"`
	Price             string     `json:"price"`
	Customer          Customer   `json:"customer"`
}

type TransactionStatus struct {
	TransactionID     string `json:"transactionId"`
	MerchantTransID   string `json:"merchantTransId"`
	Status            string `json:"status"`
	StatusDescription string `json:"statusDescription"`
	PaymentStatus     int    `json:"paymentStatus"`
	Amount            string `json:"amount"`
	CreateTime        string `json:"createTime,omitempty"`
	PayTime           string `json:"payTime,omitempty"`
}

type StatusResponse struct {
	Success     bool               `json:"success"`
	Order       *OrderStatus       `json:"order,omitempty"`
	Transaction *TransactionStatus `json:"transaction,omitempty"`
}

// PaymentStatus reports the status of an order or of a Click transaction
// @Summary Payment status
// @Description Looks up a stored order by orderId or asks Click about transactionId
// @Tags payments
// @Accept json
// @Produce json
// @Param StatusRequest body StatusRequest true "Order or transaction id"
// @Success 200 {object} StatusResponse
// @Failure 400 {object} ErrorResponse "Neither id is given"
// @Failure 404 {object} ErrorResponse "Order not found"
// @Failure 500 {object} ErrorResponse "Click lookup failed"
// @Router /payments/status [post]
func (h *Handler) PaymentStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req StatusRequest

	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		SendJSONErr(ctx, w, http.StatusBadRequest, err, "Невалидный JSON")
		return
	}

	switch {
	case strings.TrimSpace(req.OrderID) != "":
		h.orderStatus(w, r, req.OrderID)
	case strings.TrimSpace(req.TransactionID) != "":
		h.transactionStatus(w, r, req.TransactionID)
	default:
		SendJSONErr(ctx, w, http.StatusBadRequest, nil, "Необходим ID заказа или ID транзакции")
	}
}

// OrderStatus reports the status of a stored order
// @Summary Order status
// @Tags payments
// @Produce json
// @Param orderId path string true "Order id"
// @Success 200 {object} StatusResponse
// @Failure 404 {object} ErrorResponse "Order not found"
// @Router /payments/status/{orderId} [get]
func (h *Handler) OrderStatus(w http.ResponseWriter, r *http.Request) {
	h.orderStatus(w, r, chi.URLParam(r, "orderId"))
}

func (h *Handler) orderStatus(w http.ResponseWriter, r *http.Request, orderID string) {
	ctx := r.Context()

	order, err := h.s.Order(ctx, orderID)
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrNotFound):
			SendJSONErr(ctx, w, http.StatusNotFound, err, "Заказ не найден")
		case errors.Is(err, entity.ErrInvalidArgument):
			SendJSONErr(ctx, w, http.StatusBadRequest, err, "Необходим ID заказа")
		default:
			SendJSONErr(ctx, w, http.StatusInternalServerError, err, "Не удалось получить заказ")
		}

		return
	}

	state := order.PaymentState()

	status := &OrderStatus{
		OrderID:           order.ID,
		TransactionID:     order.ClickTransID,
		Status:            state.String(),
		StatusDescription: state.Description(),
		PaidAt:            order.PaidAt,
		TourName:          order.TourName,
		Price:             order.Price.String(),
		Customer: Customer{
			Name:  order.UserName,
			Phone: order.UserPhone,
		},
	}

	SendJSON(ctx, w, http.StatusOK, StatusResponse{Success: true, Order: status})
}

func (h *Handler) transactionStatus(w http.ResponseWriter, r *http.Request, transactionID string) {
	ctx := r.Context()

	payment, err := h.s.TransactionStatus(ctx, transactionID)
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrConfig):
			SendJSONErr(ctx, w, http.StatusInternalServerError, err, "Платежная система не настроена")
		default:
			SendJSONErr(ctx, w, http.StatusInternalServerError, err, "Ошибка при проверке статуса транзакции")
		}

		return
	}

	state := payment.State()

	SendJSON(ctx, w, http.StatusOK, StatusResponse{
		Success: true,
		Transaction: &TransactionStatus{
			TransactionID:     payment.TransactionID,
			MerchantTransID:   payment.MerchantTransID,
			Status:            state.String(),
			StatusDescription: state.Description(),
			PaymentStatus:     payment.PaymentStatus,
			Amount:            payment.Amount.String(),
			CreateTime:        payment.CreateTime,
			PayTime:           payment.PayTime,
		},
	})
}

type HostCheck struct {
	Host      string `json:"host"`
	Reachable bool   `json:"reachable"`
	Error     string `json:"error,omitempty"`
}

type DiagnosticsResponse struct {
	Configured       bool        `json:"configured"`
	FiscalConfigured bool        `json:"fiscalConfigured"`
	ServiceID        string      `json:"serviceId"`
	MerchantID       string      `json:"merchantId"`
	MerchantUserID   string      `json:"merchantUserId"`
	Missing          []string    `json:"missing"`
	FiscalMissing    []string    `json:"fiscalMissing"`
	VATPercent       int         `json:"vatPercent"`
	Hosts            []HostCheck `json:"hosts"`
	TestPaymentURL   string      `json:"testPaymentUrl,omitempty"`
	StoreReachable   bool        `json:"storeReachable"`
	StoreError       string      `json:"storeError,omitempty"`
	CheckedAt        time.Time   `json:"checkedAt"`
}

// ClickDiagnostics reports how the Click integration is configured
// @Summary Click integration status
// @Description Missing settings, reachability of Click hosts, order store state and a test payment link
// @Tags click
// @Produce json
// @Success 200 {object} DiagnosticsResponse
// @Router /click/status [get]
func (h *Handler) ClickDiagnostics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	d := h.s.Diagnostics(ctx)

	hosts := make([]HostCheck, 0, len(d.Hosts))
	for _, c := range d.Hosts {
		hosts = append(hosts, HostCheck(c))
	}

	SendJSON(ctx, w, http.StatusOK, DiagnosticsResponse{
		Configured:       d.Configured(),
		FiscalConfigured: d.FiscalConfigured(),
		ServiceID:        d.ServiceID,
		MerchantID:       d.MerchantID,
		MerchantUserID:   d.MerchantUserID,
		Missing:          nonNil(d.Missing),
		FiscalMissing:    nonNil(d.FiscalMissing),
		VATPercent:       d.VATPercent,
		Hosts:            hosts,
		TestPaymentURL:   d.TestPaymentURL,
		StoreReachable:   d.StoreReachable,
		StoreError:       d.StoreError,
		CheckedAt:        d.CheckedAt,
	})
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}

	return s
}

// HealthHandler godoc
// @Summary Health check
// @Tags health
// @Produce plain
// @Success 200 {string} string
// @Router /health [get]
func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	_, err := w.Write([]byte("Сервис работает!\n"))
	if err != nil {
		SendJSONErr(ctx, w, http.StatusInternalServerError, err, "Сервис не работает!")
		return
	}
}
