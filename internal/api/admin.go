package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Mansurxan1/hadiya/internal/entity"
)

type OrderEntity struct {
	ID              string     `json:"id"`
	TourID          string     `json:"tourId"`
	TourName        string     `json:"tourName"`
	Price           string     `json:"price"`
	UserID          string     `json:"userId,omitempty"`
	UserName        string     `json:"userName"`
	UserPhone       string     `json:"userPhone"`
	Status          string     `json:"status"`
	ClickTransID    string     `json:"clickTransId,omitempty"`
	ClickPaydocID   string     `json:"clickPaydocId,omitempty"`
	PreparedAt      *time.Time `json:"preparedAt,omitempty"`
	PaidAt          *time.Time `json:"paidAt,omitempty"`
	CancelledAt     *time.Time `json:"cancelledAt,omitempty"`
	FiscalStatus    string     `json:"fiscalStatus"`
	FiscalQRCodeURL string     `json:"fiscalQrCodeUrl,omitempty"`
	FiscalError     string     `json:"fiscalError,omitempty"`
	FiscalizedAt    *time.Time `json:"fiscalizedAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

type OrdersResponse struct {
	Orders     []OrderEntity `json:"orders"`
	TotalCount int           `json:"totalCount"`
}

// Orders lists orders for operators
// @Summary List orders
// @Description Paged list of orders sorted by creation time
// @Tags admin
// @Produce json
// @Param status query string false "CREATED, PAID or CANCELLED"
// @Param fiscalStatus query string false "NONE, PENDING, ACCEPTED or FAILED"
// @Param createdFrom query string false "RFC 3339 time"
// @Param createdTo query string false "RFC 3339 time"
// @Param limit query int false "Page size, 20 by default, at most 100"
// @Param page query int false "Page number starting from 1"
// @Param orderBy query string false "asc or desc"
// @Success 200 {object} OrdersResponse
// @Failure 400 {object} ErrorResponse "Invalid filter"
// @Failure 401 {object} ErrorResponse "No or invalid token"
// @Router /admin/orders [get]
// @Security BearerAuth
func (h *Handler) Orders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filter, err := parseOrderFilter(r.URL.Query())
	if err != nil {
		SendJSONErr(ctx, w, http.StatusBadRequest, err, "Неверный фильтр")
		return
	}

	orders, total, err := h.s.Orders(ctx, filter)
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrInvalidArgument):
			SendJSONErr(ctx, w, http.StatusBadRequest, err, "Неверный фильтр")
		case errors.Is(err, entity.ErrUnauthenticated):
			SendJSONErr(ctx, w, http.StatusUnauthorized, err, "Требуется авторизация")
		default:
			SendJSONErr(ctx, w, http.StatusInternalServerError, err, "Не удалось получить заказы")
		}

		return
	}

	SendJSON(ctx, w, http.StatusOK, OrdersResponse{Orders: ordersToAPI(orders), TotalCount: total})
}

func parseOrderFilter(q url.Values) (entity.OrderFilter, error) {
	var f entity.OrderFilter

	if s := q.Get("status"); s != "" {
		status := entity.OrderStatus(strings.ToUpper(s))
		f.Status = &status
	}

	if s := q.Get("fiscalStatus"); s != "" {
		status := entity.FiscalStatus(strings.ToUpper(s))
		f.FiscalStatus = &status
	}

	for key, dst := range map[string]**time.Time{
		"createdFrom": &f.CreatedFrom,
		"createdTo":   &f.CreatedTo,
	} {
		s := q.Get(key)
		if s == "" {
			continue
		}

		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return entity.OrderFilter{}, fmt.Errorf("%s: %w", key, err)
		}

		*dst = &t
	}

	for key, dst := range map[string]*uint64{
		"limit": &f.Limit,
		"page":  &f.Page,
	} {
		s := q.Get(key)
		if s == "" {
			continue
		}

		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return entity.OrderFilter{}, fmt.Errorf("%s: %w", key, err)
		}

		*dst = n
	}

	f.OrderBy = entity.OrderByCol(strings.ToLower(q.Get("orderBy")))

	return f, nil
}

func ordersToAPI(orders []entity.Order) []OrderEntity {
	res := make([]OrderEntity, 0, len(orders))

	for _, o := range orders {
		res = append(res, OrderEntity{
			ID:              o.ID,
			TourID:          o.TourID,
			TourName:        o.TourName,
			Price:           o.Price.String(),
			UserID:          o.UserID,
			UserName:        o.UserName,
			UserPhone:       o.UserPhone,
			Status:          o.Status.String(),
			ClickTransID:    o.ClickTransID,
			ClickPaydocID:   o.ClickPaydocID,
			PreparedAt:      o.PreparedAt,
			PaidAt:          o.PaidAt,
			CancelledAt:     o.CancelledAt,
			FiscalStatus:    o.FiscalStatus.String(),
			FiscalQRCodeURL: o.FiscalQRCodeURL,
			FiscalError:     o.FiscalError,
			FiscalizedAt:    o.FiscalizedAt,
			CreatedAt:       o.CreatedAt,
			UpdatedAt:       o.UpdatedAt,
		})
	}

	return res
}

type FiscalizeResponse struct {
	Accepted     bool   `json:"accepted"`
	QRCodeURL    string `json:"qrCodeUrl,omitempty"`
	QRRegistered bool   `json:"qrRegistered"`
	Note         string `json:"note,omitempty"`
}

// Fiscalize registers the receipt of a paid order again
// @Summary Repeat fiscalization
// @Description Submits the receipt of a paid order whose receipt was not accepted
// @Tags admin
// @Produce json
// @Param id path string true "Order id"
// @Success 200 {object} FiscalizeResponse "accepted is false when OFD rejected the items"
// @Failure 404 {object} ErrorResponse "Order not found"
// @Failure 409 {object} ErrorResponse "Receipt already accepted or being submitted"
// @Failure 422 {object} ErrorResponse "Order is not paid"
// @Failure 500 {object} ErrorResponse "Fiscalization failed"
// @Router /admin/orders/{id}/fiscalize [post]
// @Security BearerAuth
func (h *Handler) Fiscalize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	result, err := h.s.Refiscalize(ctx, chi.URLParam(r, "id"))
	if err != nil {
		sendOrderErr(w, r, err, "Не удалось зарегистрировать чек")
		return
	}

	SendJSON(ctx, w, http.StatusOK, FiscalizeResponse(result))
}

// FiscalData returns the receipt reference Click keeps for the order
// @Summary Receipt data
// @Tags admin
// @Produce json
// @Param id path string true "Order id"
// @Success 200 {object} entity.FiscalData
// @Failure 404 {object} ErrorResponse "Order or receipt not found"
// @Failure 422 {object} ErrorResponse "Order is not paid"
// @Router /admin/orders/{id}/fiscal [get]
// @Security BearerAuth
func (h *Handler) FiscalData(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	data, err := h.s.FiscalData(ctx, chi.URLParam(r, "id"))
	if err != nil {
		sendOrderErr(w, r, err, "Не удалось получить данные чека")
		return
	}

	SendJSON(ctx, w, http.StatusOK, data)
}

type TelegramBot struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
}

type TelegramChat struct {
	ID       int64  `json:"id"`
	Type     string `json:"type"`
	Title    string `json:"title"`
	UserName string `json:"userName"`
}

type TelegramSetupResponse struct {
	Bot             TelegramBot    `json:"bot"`
	ChatIDs         []TelegramChat `json:"chatIds"`
	ChatConfigured  bool           `json:"chatConfigured"`
	TestMessageSent bool           `json:"testMessageSent"`
	TestMessageErr  string         `json:"testMessageError,omitempty"`
	UpdatesErr      string         `json:"updatesError,omitempty"`
	Instructions    []string       `json:"instructions"`
}

func newTelegramSetupResponse(s entity.TelegramSetup) TelegramSetupResponse {
	chats := make([]TelegramChat, 0, len(s.Chats))
	for _, c := range s.Chats {
		chats = append(chats, TelegramChat(c))
	}

	return TelegramSetupResponse{
		Bot:             TelegramBot(s.Bot),
		ChatIDs:         chats,
		ChatConfigured:  s.ChatConfigured,
		TestMessageSent: s.TestMessageSent,
		TestMessageErr:  s.TestMessageErr,
		UpdatesErr:      s.UpdatesErr,
		Instructions: []string{
			fmt.Sprintf("Добавьте бота @%s в нужный чат или группу", s.Bot.Username),
			"Отправьте сообщение в чат с ботом",
			"Обновите эту страницу, чтобы увидеть ID чата",
			"Добавьте ID чата в переменную окружения TELEGRAM_CHAT_ID",
		},
	}
}

// TelegramSetup lists chats the notification bot can post to
// @Summary Telegram bot setup
// @Description Bot identity, chats that recently wrote to the bot and a test message to TELEGRAM_CHAT_ID when it is set
// @Tags admin
// @Produce json
// @Success 200 {object} TelegramSetupResponse
// @Failure 401 {object} ErrorResponse "No or invalid token"
// @Failure 500 {object} ErrorResponse "Bot is not configured or the token is rejected"
// @Router /admin/telegram/setup [get]
// @Security BearerAuth
func (h *Handler) TelegramSetup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	setup, err := h.s.TelegramSetup(ctx)
	switch {
	case err == nil:
		SendJSON(ctx, w, http.StatusOK, newTelegramSetupResponse(setup))
	case errors.Is(err, entity.ErrUnauthenticated):
		SendJSONErr(ctx, w, http.StatusUnauthorized, err, "Требуется авторизация")
	case errors.Is(err, entity.ErrConfig):
		SendJSONErr(ctx, w, http.StatusInternalServerError, err, "Токен бота не настроен в переменных окружения")
	default:
		SendJSONErr(ctx, w, http.StatusInternalServerError, err, "Ошибка при получении информации о боте")
	}
}

func sendOrderErr(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	ctx := r.Context()

	switch {
	case errors.Is(err, entity.ErrNotFound):
		SendJSONErr(ctx, w, http.StatusNotFound, err, "Не найдено")
	case errors.Is(err, entity.ErrAlreadyFiscalized):
		SendJSONErr(ctx, w, http.StatusConflict, err, "Чек уже зарегистрирован")
	case errors.Is(err, entity.ErrFiscalInProgress):
		SendJSONErr(ctx, w, http.StatusConflict, err, "Чек уже отправляется, повторите позже")
	case errors.Is(err, entity.ErrInvalidStatus):
		SendJSONErr(ctx, w, http.StatusUnprocessableEntity, err, "Заказ не оплачен")
	case errors.Is(err, entity.ErrUnauthenticated):
		SendJSONErr(ctx, w, http.StatusUnauthorized, err, "Требуется авторизация")
	case errors.Is(err, entity.ErrConfig):
		SendJSONErr(ctx, w, http.StatusInternalServerError, err, "Фискализация не настроена")
	default:
		SendJSONErr(ctx, w, http.StatusInternalServerError, err, fallback)
	}
}
