package api_test

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/Mansurxan1/hadiya/internal/api"
	"github.com/Mansurxan1/hadiya/internal/clients/telegram"
	"github.com/Mansurxan1/hadiya/internal/entity"
	"github.com/Mansurxan1/hadiya/internal/mocks"
	"github.com/Mansurxan1/hadiya/internal/notifier"
	"github.com/Mansurxan1/hadiya/internal/repository"
	"github.com/Mansurxan1/hadiya/internal/service"
	"github.com/Mansurxan1/hadiya/pkg/config"
	"github.com/Mansurxan1/hadiya/pkg/security"
)

const secret = "s3cr3t"

type Tester struct {
	url       string
	repo      *repository.Memory
	clickMock *mocks.MockClickClient
	adminKey  *rsa.PrivateKey
}

type options struct {
	cfg     config.Click
	wl      []string
	rpm     int
	burst   int
	noAdmin bool
	bot     service.TelegramBot
}

func defaultOptions() options {
	return options{
		cfg: config.Click{
			ServiceID:      "28420",
			MerchantID:     "20891",
			MerchantUserID: "41234",
			SecretKey:      secret,
			SPICCode:       "10399001001000000",
			PackageCode:    "1500269",
			VATPercent:     15,
			APIURL:         "https://api.click.uz/v2/merchant",
			PayURL:         "https://my.click.uz/services/pay",
		},
		rpm:   600,
		burst: 100,
	}
}

func NewClientAPI(t *testing.T, opts options) Tester {
	t.Helper()

	repo := repository.NewMemory()

	ctrl := gomock.NewController(t)
	clickMock := mocks.NewMockClickClient(ctrl)

	var svcOpts []service.Option
	if opts.bot != nil {
		svcOpts = append(svcOpts, service.WithTelegram(opts.bot))
	}

	s := service.New(repo, clickMock, notifier.Nop{}, opts.cfg, svcOpts...)
	t.Cleanup(s.Wait)

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	adminKey := &key.PublicKey
	if opts.noAdmin {
		adminKey = nil
	}

	handler := api.NewHandler(s)
	mw := api.NewMiddleware(adminKey, opts.wl, opts.rpm, opts.burst)

	server := httptest.NewServer(api.NewRouter(handler, mw))
	t.Cleanup(server.Close)

	return Tester{
		url:       server.URL + "/api",
		repo:      repo,
		clickMock: clickMock,
		adminKey:  key,
	}
}

func (c Tester) token(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(c.adminKey)
	require.NoError(t, err)

	return token
}

func (c Tester) do(t *testing.T, method, path, contentType string, body []byte, token string) (int, []byte) {
	t.Helper()

	req, err := http.NewRequestWithContext(context.Background(), method, c.url+path, bytes.NewReader(body))
	require.NoError(t, err)

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	defer resp.Body.Close()

	var buf bytes.Buffer

	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, buf.Bytes()
}

func (c Tester) postJSON(t *testing.T, path string, body any) (int, []byte) {
	t.Helper()

	b, err := json.Marshal(body)
	require.NoError(t, err)

	return c.do(t, http.MethodPost, path, "application/json", b, "")
}

func (c Tester) callback(t *testing.T, path string, form url.Values) (int, api.ClickCallbackResponse) {
	t.Helper()

	code, body := c.do(t, http.MethodPost, path, "application/x-www-form-urlencoded", []byte(form.Encode()), "")

	var resp api.ClickCallbackResponse
	require.NoError(t, json.Unmarshal(body, &resp), string(body))

	return code, resp
}

func (c Tester) seedOrder(t *testing.T, id, price string) {
	t.Helper()

	_, err := c.repo.CreateOrder(context.Background(), entity.Order{
		ID:           id,
		TourID:       "xiva",
		TourName:     "Хива",
		Price:        decimal.RequireFromString(price),
		UserName:     "Алишер",
		UserPhone:    "+998901234567",
		Status:       entity.OrderStatusCreated,
		FiscalStatus: entity.FiscalStatusNone,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	})
	require.NoError(t, err)
}

func callbackForm(action entity.ClickAction, orderID, amount string) url.Values {
	f := security.CallbackFields{
		ClickTransID:    "2089416",
		ServiceID:       "28420",
		MerchantTransID: orderID,
		Amount:          amount,
		Action:          action.String(),
		SignTime:        "2024-06-10 12:00:00",
	}

	if action == entity.ClickActionComplete {
		f.MerchantPrepareID = orderID
	}

	form := url.Values{
		"click_trans_id":    {f.ClickTransID},
		"service_id":        {f.ServiceID},
		"click_paydoc_id":   {"3100421"},
		"merchant_trans_id": {f.MerchantTransID},
		"amount":            {f.Amount},
		"action":            {f.Action},
		"error":             {"0"},
		"error_note":        {"Success"},
		"sign_time":         {f.SignTime},
		"sign_string":       {security.CallbackSignature(f, secret)},
	}

	if f.MerchantPrepareID != "" {
		form.Set("merchant_prepare_id", f.MerchantPrepareID)
	}

	return form
}

func TestHandler_CreatePayment(t *testing.T) {
	t.Parallel()

	c := NewClientAPI(t, defaultOptions())

	code, body := c.postJSON(t, "/payments", map[string]any{
		"tourId":    "xiva",
		"tourName":  "Хива",
		"price":     "1 200 000",
		"userName":  "Алишер",
		"userPhone": "+998901234567",
	})
	require.Equal(t, http.StatusOK, code, string(body))

	var resp api.CreatePaymentResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	require.True(t, resp.Success)
	require.NotEmpty(t, resp.OrderID)

	u, err := url.Parse(resp.RedirectURL)
	require.NoError(t, err)
	require.Equal(t, resp.OrderID, u.Query().Get("transaction_param"))
	require.Equal(t, "1200000", u.Query().Get("amount"))
	require.True(t, strings.HasPrefix(u.Query().Get("return_url"), "http://127.0.0.1:"))
	require.True(t, strings.HasSuffix(u.Query().Get("return_url"), "/payment/success"))

	order, err := c.repo.Order(context.Background(), resp.OrderID)
	require.NoError(t, err)
	require.Equal(t, "Хива", order.TourName)
	require.Equal(t, entity.OrderStatusCreated, order.Status)

	code, _ = c.postJSON(t, "/payments", map[string]any{"tourId": "xiva", "tourName": "Хива", "price": 350000})
	require.Equal(t, http.StatusOK, code)
}

func TestHandler_CreatePayment_Errors(t *testing.T) {
	t.Parallel()

	c := NewClientAPI(t, defaultOptions())

	code, _ := c.do(t, http.MethodPost, "/payments", "application/json", []byte(`{"tourId":`), "")
	require.Equal(t, http.StatusBadRequest, code)

	code, _ = c.postJSON(t, "/payments", map[string]any{"tourId": "xiva", "price": "100"})
	require.Equal(t, http.StatusBadRequest, code)

	code, _ = c.postJSON(t, "/payments", map[string]any{"tourId": "xiva", "tourName": "Хива", "price": "-5"})
	require.Equal(t, http.StatusBadRequest, code)

	opts := defaultOptions()
	opts.cfg.MerchantID = ""

	c = NewClientAPI(t, opts)

	code, body := c.postJSON(t, "/payments", map[string]any{"tourId": "xiva", "tourName": "Хива", "price": "100"})
	require.Equal(t, http.StatusInternalServerError, code)
	require.NotContains(t, string(body), "CLICK_MERCHANT_ID")

	var errResp api.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &errResp))
	require.NotEmpty(t, errResp.Message)
	require.Empty(t, errResp.Description)
}

func TestHandler_CreatePayment_BodyTooLarge(t *testing.T) {
	t.Parallel()

	c := NewClientAPI(t, defaultOptions())

	big := []byte(`{"tourId": "xiva", "tourName": "` + strings.Repeat("a", 1<<20) + `", "price": "100"}`)

	code, _ := c.do(t, http.MethodPost, "/payments", "application/json", big, "")
	require.Equal(t, http.StatusRequestEntityTooLarge, code)

	_, total, err := c.repo.Orders(context.Background(), entity.OrderFilter{Limit: 10, Page: 1, OrderBy: entity.DESC})
	require.NoError(t, err)
	require.Zero(t, total)
}

func TestHandler_CreatePayment_RateLimit(t *testing.T) {
	t.Parallel()

	opts := defaultOptions()
	opts.rpm = 1
	opts.burst = 1

	c := NewClientAPI(t, opts)

	req := map[string]any{"tourId": "xiva", "tourName": "Хива", "price": "100"}

	code, _ := c.postJSON(t, "/payments", req)
	require.Equal(t, http.StatusOK, code)

	code, _ = c.postJSON(t, "/payments", req)
	require.Equal(t, http.StatusTooManyRequests, code)
}

func TestHandler_ClickWebhook(t *testing.T) {
	t.Parallel()

	c := NewClientAPI(t, defaultOptions())
	c.seedOrder(t, "1718000000000", "1200000")

	c.clickMock.EXPECT().SubmitItems(gomock.Any(), gomock.Any()).Return(nil)
	c.clickMock.EXPECT().FiscalData(gomock.Any(), "28420", "3100421").Return(entity.FiscalData{}, entity.ErrNotFound)

	code, resp := c.callback(t, "/click/prepare", callbackForm(entity.ClickActionPrepare, "1718000000000", "1200000"))
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, api.ClickCallbackResponse{
		ClickTransID:      "2089416",
		MerchantTransID:   "1718000000000",
		MerchantPrepareID: "1718000000000",
		Error:             0,
		ErrorNote:         "Success",
	}, resp)

	code, resp = c.callback(t, "/click/complete", callbackForm(entity.ClickActionComplete, "1718000000000", "1200000"))
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, 0, resp.Error)
	require.Equal(t, "1718000000000", resp.MerchantConfirmID)

	code, resp = c.callback(t, "/click/notify", callbackForm(entity.ClickActionComplete, "1718000000000", "1200000"))
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, 4, resp.Error)
	require.Empty(t, resp.MerchantConfirmID)

	order, err := c.repo.Order(context.Background(), "1718000000000")
	require.NoError(t, err)
	require.Equal(t, entity.OrderStatusPaid, order.Status)
	require.Equal(t, "2089416", order.ClickTransID)
}

func TestHandler_ClickWebhook_Rejections(t *testing.T) {
	t.Parallel()

	badSign := callbackForm(entity.ClickActionPrepare, "1718000000000", "10000")
	badSign.Set("sign_string", "0123456789abcdef0123456789abcdef")

	noAction := callbackForm(entity.ClickActionPrepare, "1718000000000", "10000")
	noAction.Del("action")

	badError := callbackForm(entity.ClickActionComplete, "1718000000000", "10000")
	badError.Set("error", "x")

	tests := []struct {
		name     string
		path     string
		form     url.Values
		wantHTTP int
		wantCode int
	}{
		{"bad signature", "/click/notify", badSign, http.StatusBadRequest, 2},
		{"unknown order", "/click/notify", callbackForm(entity.ClickActionPrepare, "1", "10000"), http.StatusNotFound, 3},
		{"amount mismatch", "/click/notify", callbackForm(entity.ClickActionPrepare, "1718000000000", "20000"), http.StatusBadRequest, 8},
		{"no action", "/click/notify", noAction, http.StatusBadRequest, 1},
		{"bad provider error", "/click/notify", badError, http.StatusBadRequest, 1},
		{"complete on prepare url", "/click/prepare", callbackForm(entity.ClickActionComplete, "1718000000000", "10000"), http.StatusBadRequest, 1},
		{"prepare on complete url", "/click/complete", callbackForm(entity.ClickActionPrepare, "1718000000000", "10000"), http.StatusBadRequest, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := NewClientAPI(t, defaultOptions())
			c.seedOrder(t, "1718000000000", "10000")

			code, resp := c.callback(t, tt.path, tt.form)
			require.Equal(t, tt.wantHTTP, code)
			require.Equal(t, tt.wantCode, resp.Error)
			require.NotEmpty(t, resp.ErrorNote)

			order, err := c.repo.Order(context.Background(), "1718000000000")
			require.NoError(t, err)
			require.Equal(t, entity.OrderStatusCreated, order.Status)
		})
	}
}

func TestHandler_ClickWebhook_JSON(t *testing.T) {
	t.Parallel()

	c := NewClientAPI(t, defaultOptions())
	c.seedOrder(t, "1718000000000", "10000")

	form := callbackForm(entity.ClickActionPrepare, "1718000000000", "10000")

	body := map[string]any{
		"click_trans_id":    2089416,
		"service_id":        28420,
		"merchant_trans_id": "1718000000000",
		"amount":            10000,
		"action":            0,
		"error":             0,
		"sign_time":         form.Get("sign_time"),
		"sign_string":       form.Get("sign_string"),
	}

	code, raw := c.postJSON(t, "/click/notify", body)
	require.Equal(t, http.StatusOK, code, string(raw))

	var resp api.ClickCallbackResponse
	require.NoError(t, json.Unmarshal(raw, &resp))
	require.Equal(t, 0, resp.Error)
	require.Equal(t, "2089416", resp.ClickTransID)
}

func TestHandler_ClickWebhook_MissingSecret(t *testing.T) {
	t.Parallel()

	opts := defaultOptions()
	opts.cfg.SecretKey = ""

	c := NewClientAPI(t, opts)
	c.seedOrder(t, "1718000000000", "10000")

	code, resp := c.callback(t, "/click/notify", callbackForm(entity.ClickActionPrepare, "1718000000000", "10000"))
	require.Equal(t, http.StatusInternalServerError, code)
	require.Equal(t, 7, resp.Error)
}

func TestHandler_ClickWebhook_IPWhitelist(t *testing.T) {
	t.Parallel()

	opts := defaultOptions()
	opts.wl = []string{"185.8.212.184"}

	c := NewClientAPI(t, opts)
	c.seedOrder(t, "1718000000000", "10000")

	code, resp := c.callback(t, "/click/notify", callbackForm(entity.ClickActionPrepare, "1718000000000", "10000"))
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, 2, resp.Error)

	opts.wl = []string{"185.8.212.184", "127.0.0.1"}

	c = NewClientAPI(t, opts)
	c.seedOrder(t, "1718000000000", "10000")

	code, resp = c.callback(t, "/click/notify", callbackForm(entity.ClickActionPrepare, "1718000000000", "10000"))
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, 0, resp.Error)
}

func TestHandler_PaymentStatus(t *testing.T) {
	t.Parallel()

	c := NewClientAPI(t, defaultOptions())
	c.seedOrder(t, "1718000000000", "10000")

	code, body := c.postJSON(t, "/payments/status", api.StatusRequest{OrderID: "1718000000000"})
	require.Equal(t, http.StatusOK, code)

	var resp api.StatusResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	require.True(t, resp.Success)
	require.Equal(t, "WAITING", resp.Order.Status)
	require.Equal(t, "В ожидании оплаты", resp.Order.StatusDescription)
	require.Equal(t, api.Customer{Name: "Алишер", Phone: "+998901234567"}, resp.Order.Customer)
	require.Empty(t, resp.Order.TransactionID)

	c.clickMock.EXPECT().SubmitItems(gomock.Any(), gomock.Any()).Return(nil)
	c.clickMock.EXPECT().FiscalData(gomock.Any(), gomock.Any(), gomock.Any()).Return(entity.FiscalData{}, entity.ErrNotFound)

	code, _ = c.callback(t, "/click/notify", callbackForm(entity.ClickActionComplete, "1718000000000", "10000"))
	require.Equal(t, http.StatusOK, code)

	code, body = c.do(t, http.MethodGet, "/payments/status/1718000000000", "", nil, "")
	require.Equal(t, http.StatusOK, code)

	resp = api.StatusResponse{}
	require.NoError(t, json.Unmarshal(body, &resp))
	require.Equal(t, "PAID", resp.Order.Status)
	require.Equal(t, "2089416", resp.Order.TransactionID)
	require.NotNil(t, resp.Order.PaidAt)

	code, _ = c.do(t, http.MethodGet, "/payments/status/404", "", nil, "")
	require.Equal(t, http.StatusNotFound, code)

	code, _ = c.postJSON(t, "/payments/status", api.StatusRequest{})
	require.Equal(t, http.StatusBadRequest, code)
}

func TestHandler_PaymentStatus_Cancelled(t *testing.T) {
	t.Parallel()

	c := NewClientAPI(t, defaultOptions())
	c.seedOrder(t, "1718000000000", "10000")

	form := callbackForm(entity.ClickActionComplete, "1718000000000", "10000")
	form.Set("error", "-5017")
	form.Set("error_note", "Insufficient funds")

	code, resp := c.callback(t, "/click/notify", form)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, 5, resp.Error)

	code, body := c.do(t, http.MethodGet, "/payments/status/1718000000000", "", nil, "")
	require.Equal(t, http.StatusOK, code)

	var status api.StatusResponse
	require.NoError(t, json.Unmarshal(body, &status))
	require.Equal(t, "FAILED", status.Order.Status)
	require.Equal(t, "Ошибка оплаты", status.Order.StatusDescription)
}

func TestHandler_TransactionStatus(t *testing.T) {
	t.Parallel()

	c := NewClientAPI(t, defaultOptions())

	c.clickMock.EXPECT().PaymentStatus(gomock.Any(), "2089416").Return(entity.ClickPayment{
		TransactionID:   "2089416",
		MerchantTransID: "1718000000000",
		PaymentStatus:   2,
		Amount:          decimal.RequireFromString("1200000"),
		CreateTime:      "2024-06-10 12:00:00",
		PayTime:         "2024-06-10 12:01:00",
	}, nil)

	code, body := c.postJSON(t, "/payments/status", api.StatusRequest{TransactionID: "2089416"})
	require.Equal(t, http.StatusOK, code)

	var resp api.StatusResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	require.Nil(t, resp.Order)
	require.Equal(t, &api.TransactionStatus{
		TransactionID:     "2089416",
		MerchantTransID:   "1718000000000",
		Status:            "PAID",
		StatusDescription: "Оплачено",
		PaymentStatus:     2,
		Amount:            "1200000",
		CreateTime:        "2024-06-10 12:00:00",
		PayTime:           "2024-06-10 12:01:00",
	}, resp.Transaction)
}

func TestHandler_ClickDiagnostics(t *testing.T) {
	t.Parallel()

	c := NewClientAPI(t, defaultOptions())

	c.clickMock.EXPECT().Reach(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	code, body := c.do(t, http.MethodGet, "/click/status", "", nil, "")
	require.Equal(t, http.StatusOK, code)
	require.NotContains(t, string(body), secret)

	var resp api.DiagnosticsResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	require.True(t, resp.Configured)
	require.True(t, resp.FiscalConfigured)
	require.True(t, resp.StoreReachable)
	require.Empty(t, resp.Missing)
	require.Len(t, resp.Hosts, 2)
	require.NotEmpty(t, resp.TestPaymentURL)
}

func TestHandler_Admin(t *testing.T) {
	t.Parallel()

	c := NewClientAPI(t, defaultOptions())
	c.seedOrder(t, "1718000000000", "10000")
	c.seedOrder(t, "1718000000001", "20000")

	token := c.token(t, jwt.MapClaims{"name": "dilnoza", "exp": time.Now().Add(time.Hour).Unix()})

	code, _ := c.do(t, http.MethodGet, "/admin/orders", "", nil, "")
	require.Equal(t, http.StatusUnauthorized, code)

	expired := c.token(t, jwt.MapClaims{"name": "dilnoza", "exp": time.Now().Add(-time.Hour).Unix()})
	code, _ = c.do(t, http.MethodGet, "/admin/orders", "", nil, expired)
	require.Equal(t, http.StatusUnauthorized, code)

	foreignKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	foreign, err := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{"name": "dilnoza"}).SignedString(foreignKey)
	require.NoError(t, err)

	code, _ = c.do(t, http.MethodGet, "/admin/orders", "", nil, foreign)
	require.Equal(t, http.StatusUnauthorized, code)

	code, body := c.do(t, http.MethodGet, "/admin/orders?status=created&limit=1&orderBy=asc", "", nil, token)
	require.Equal(t, http.StatusOK, code, string(body))

	var orders api.OrdersResponse
	require.NoError(t, json.Unmarshal(body, &orders))
	require.Equal(t, 2, orders.TotalCount)
	require.Len(t, orders.Orders, 1)

	code, _ = c.do(t, http.MethodGet, "/admin/orders?createdFrom=yesterday", "", nil, token)
	require.Equal(t, http.StatusBadRequest, code)

	code, _ = c.do(t, http.MethodGet, "/admin/orders?status=refunded", "", nil, token)
	require.Equal(t, http.StatusBadRequest, code)

	code, _ = c.do(t, http.MethodPost, "/admin/orders/1718000000000/fiscalize", "", nil, token)
	require.Equal(t, http.StatusUnprocessableEntity, code)

	code, _ = c.do(t, http.MethodPost, "/admin/orders/404/fiscalize", "", nil, token)
	require.Equal(t, http.StatusNotFound, code)

	code, _ = c.do(t, http.MethodGet, "/admin/orders/1718000000000/fiscal", "", nil, token)
	require.Equal(t, http.StatusUnprocessableEntity, code)
}

func TestHandler_Admin_Fiscalize(t *testing.T) {
	t.Parallel()

	c := NewClientAPI(t, defaultOptions())
	c.seedOrder(t, "1718000000000", "10000")

	c.clickMock.EXPECT().SubmitItems(gomock.Any(), gomock.Any()).Return(entity.ErrFiscalRejected)

	code, _ := c.callback(t, "/click/notify", callbackForm(entity.ClickActionComplete, "1718000000000", "10000"))
	require.Equal(t, http.StatusOK, code)

	require.Eventually(t, func() bool {
		o, err := c.repo.Order(context.Background(), "1718000000000")
		return err == nil && o.FiscalStatus == entity.FiscalStatusFailed
	}, 5*time.Second, 10*time.Millisecond)

	c.clickMock.EXPECT().SubmitItems(gomock.Any(), gomock.Any()).Return(nil)
	c.clickMock.EXPECT().FiscalData(gomock.Any(), "28420", "3100421").
		Return(entity.FiscalData{PaymentID: "3100421", QRCodeURL: "https://ofd.soliq.uz/check?t=AB"}, nil)
	c.clickMock.EXPECT().RegisterQRCode(gomock.Any(), 28420, "3100421", "https://ofd.soliq.uz/check?t=AB").Return(nil)

	token := c.token(t, jwt.MapClaims{"name": "dilnoza"})

	code, body := c.do(t, http.MethodPost, "/admin/orders/1718000000000/fiscalize", "", nil, token)
	require.Equal(t, http.StatusOK, code, string(body))

	var resp api.FiscalizeResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	require.Equal(t, api.FiscalizeResponse{
		Accepted:     true,
		QRCodeURL:    "https://ofd.soliq.uz/check?t=AB",
		QRRegistered: true,
	}, resp)

	code, _ = c.do(t, http.MethodPost, "/admin/orders/1718000000000/fiscalize", "", nil, token)
	require.Equal(t, http.StatusConflict, code)
}

func TestHandler_Admin_TelegramSetup(t *testing.T) {
	t.Parallel()

	var sent map[string]string

	mux := http.NewServeMux()
	mux.HandleFunc("GET /bot123:ABC/getMe", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok": true, "result": {"id": 777, "first_name": "Hadiya", "username": "hadiya_pay_bot"}}`))
	})
	mux.HandleFunc("GET /bot123:ABC/getUpdates", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok": true, "result": [
			{"update_id": 1, "message": {"chat": {"id": -1001, "type": "group", "title": "Заказы"}, "from": {"id": 5, "username": "operator"}}}
		]}`))
	})
	mux.HandleFunc("POST /bot123:ABC/sendMessage", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&sent)
		_, _ = w.Write([]byte(`{"ok": true, "result": {"message_id": 1}}`))
	})

	tg := httptest.NewServer(mux)
	t.Cleanup(tg.Close)

	opts := defaultOptions()
	opts.bot = telegram.NewClient(config.Telegram{BotToken: "123:ABC", ChatID: "-1001", APIURL: tg.URL})

	c := NewClientAPI(t, opts)

	code, _ := c.do(t, http.MethodGet, "/admin/telegram/setup", "", nil, "")
	require.Equal(t, http.StatusUnauthorized, code)

	code, body := c.do(t, http.MethodGet, "/admin/telegram/setup", "", nil, c.token(t, jwt.MapClaims{"name": "dilnoza"}))
	require.Equal(t, http.StatusOK, code, string(body))

	var resp api.TelegramSetupResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	require.Equal(t, api.TelegramBot{ID: 777, Username: "hadiya_pay_bot", FirstName: "Hadiya"}, resp.Bot)
	require.Equal(t, []api.TelegramChat{{ID: -1001, Type: "group", Title: "Заказы", UserName: "operator"}}, resp.ChatIDs)
	require.True(t, resp.ChatConfigured)
	require.True(t, resp.TestMessageSent)
	require.Contains(t, resp.Instructions[0], "@hadiya_pay_bot")
	require.Equal(t, "-1001", sent["chat_id"])
	require.Contains(t, sent["text"], "Бот настроен")

	c = NewClientAPI(t, defaultOptions())

	code, _ = c.do(t, http.MethodGet, "/admin/telegram/setup", "", nil, c.token(t, jwt.MapClaims{"name": "dilnoza"}))
	require.Equal(t, http.StatusInternalServerError, code)
}

func TestHandler_Admin_Disabled(t *testing.T) {
	t.Parallel()

	opts := defaultOptions()
	opts.noAdmin = true

	c := NewClientAPI(t, opts)

	code, _ := c.do(t, http.MethodGet, "/admin/orders", "", nil, c.token(t, jwt.MapClaims{"name": "dilnoza"}))
	require.Equal(t, http.StatusForbidden, code)
}

func TestHandler_Health(t *testing.T) {
	t.Parallel()

	c := NewClientAPI(t, defaultOptions())

	code, body := c.do(t, http.MethodGet, "/health", "", nil, "")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "Сервис работает!\n", string(body))
}

func TestMiddleware_Recover(t *testing.T) {
	t.Parallel()

	mw := api.NewMiddleware(nil, nil, 60, 1)

	panicking := mw.Recover(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	panicking.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/click/notify", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp api.ClickCallbackResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 7, resp.Error)

	rec = httptest.NewRecorder()
	panicking.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/payments", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), "Внутренняя ошибка")
}

func TestMiddleware_RequestID(t *testing.T) {
	t.Parallel()

	c := NewClientAPI(t, defaultOptions())

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, c.url+"/health", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-Id", "req-42")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	defer resp.Body.Close()

	require.Equal(t, "req-42", resp.Header.Get("X-Request-Id"))
}

func TestSendJSONErr(t *testing.T) {
	t.Parallel()

	cause := errors.New(`pq: relation "orders" does not exist`)

	rec := httptest.NewRecorder()
	api.SendJSONErr(context.Background(), rec, http.StatusBadGateway, cause, "Сервис недоступен")

	var resp api.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, api.ErrorResponse{Message: "Сервис недоступен"}, resp)

	rec = httptest.NewRecorder()
	api.SendJSONErr(context.Background(), rec, http.StatusBadRequest, errors.New("price is required"), "Неверный запрос")

	resp = api.ErrorResponse{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, api.ErrorResponse{Message: "Неверный запрос", Description: "price is required"}, resp)
}
