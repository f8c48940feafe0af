package click

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/shopspring/decimal"

	"github.com/Mansurxan1/hadiya/internal/entity"
	"github.com/Mansurxan1/hadiya/pkg/config"
	"github.com/Mansurxan1/hadiya/pkg/security"
	"github.com/Mansurxan1/hadiya/pkg/transport"
)

const (
	defaultTimeout      = 10 * time.Second
	fiscalDataTimeout   = 5 * time.Second
	reachTimeout        = 5 * time.Second
	defaultRetryMax     = 2
	defaultRetryWaitMax = 2 * time.Second
)

// Client calls the Click merchant API. Every request carries a freshly built Auth header.
type Client struct {
	cfg   config.Click
	c     *http.Client // not retried, used for non idempotent calls
	retry *http.Client
	now   func() time.Time
}

func NewClient(cfg config.Click) *Client {
	rt := transport.NewLoggingRoundTripper(http.DefaultTransport)

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = defaultRetryMax
	retryClient.RetryWaitMin = 200 * time.Millisecond
	retryClient.RetryWaitMax = defaultRetryWaitMax
	retryClient.HTTPClient = &http.Client{Timeout: defaultTimeout, Transport: rt}
	retryClient.Logger = nil

	retryClient.CheckRetry = func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if err != nil {
			return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
		}

		return false, nil
	}

	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &Client{
		cfg: cfg,
		c: &http.Client{
			Timeout:   defaultTimeout,
			Transport: rt,
		},
		retry: retryClient.StandardClient(),
		now:   time.Now,
	}
}

type apiError struct {
	ErrorCode int    `json:"error_code"`
	ErrorNote string `json:"error_note"`
}

func (c *Client) checkConfig() error {
	missing := c.cfg.Missing()
	if len(missing) != 0 {
		return fmt.Errorf("%w: %s not set", entity.ErrConfig, strings.Join(missing, ", "))
	}

	return nil
}

// SubmitItems registers receipt items in OFD. A non zero error_code is returned
// as ErrFiscalRejected carrying the provider note.
func (c *Client) SubmitItems(ctx context.Context, receipt entity.FiscalReceipt) error {
	var resp apiError

	err := c.doJSON(ctx, c.c, http.MethodPost, "/payment/ofd_data/submit_items", receipt, &resp)
	if err != nil {
		return fmt.Errorf("submit items: %w", err)
	}

	if resp.ErrorCode != 0 {
		return fmt.Errorf("%w: %d %s", entity.ErrFiscalRejected, resp.ErrorCode, resp.ErrorNote)
	}

	return nil
}

type fiscalDataResponse struct {
	apiError
	PaymentID flexString `json:"paymentId"`
	QRCodeURL string     `json:"qrCodeURL"`
}

// FiscalData returns the receipt reference. It is bounded by a short timeout
// because the receipt is often not ready right after submission.
func (c *Client) FiscalData(ctx context.Context, serviceID, paymentID string) (entity.FiscalData, error) {
	ctx, cancel := context.WithTimeout(ctx, fiscalDataTimeout)
	defer cancel()

	path := fmt.Sprintf("/payment/ofd_data/%s/%s", url.PathEscape(serviceID), url.PathEscape(paymentID))

	var resp fiscalDataResponse

	err := c.doJSON(ctx, c.retry, http.MethodGet, path, nil, &resp)
	if err != nil {
		return entity.FiscalData{}, fmt.Errorf("get fiscal data: %w", err)
	}

	if resp.ErrorCode != 0 {
		return entity.FiscalData{}, fmt.Errorf("get fiscal data: %w: %d %s", entity.ErrOperationFailed, resp.ErrorCode, resp.ErrorNote)
	}

	if resp.QRCodeURL == "" {
		return entity.FiscalData{}, fmt.Errorf("get fiscal data: empty qrCodeURL: %w", entity.ErrNotFound)
	}

	return entity.FiscalData{
		PaymentID: string(resp.PaymentID),
		QRCodeURL: resp.QRCodeURL,
	}, nil
}

type registerQRCodeRequest struct {
	ServiceID int    `json:"service_id"`
	PaymentID string `json:"payment_id"`
	QRCode    string `json:"qrcode"`
}

func (c *Client) RegisterQRCode(ctx context.Context, serviceID int, paymentID, qrCodeURL string) error {
	var resp apiError

	err := c.doJSON(ctx, c.c, http.MethodPost, "/payment/ofd_data/submit_qrcode", registerQRCodeRequest{
		ServiceID: serviceID,
		PaymentID: paymentID,
		QRCode:    qrCodeURL,
	}, &resp)
	if err != nil {
		return fmt.Errorf("register qr code: %w", err)
	}

	if resp.ErrorCode != 0 {
		return fmt.Errorf("register qr code: %w: %d %s", entity.ErrOperationFailed, resp.ErrorCode, resp.ErrorNote)
	}

	return nil
}

type paymentStatusResponse struct {
	apiError
	PaymentID       flexString `json:"payment_id"`
	PaymentStatus   int        `json:"payment_status"`
	MerchantTransID string     `json:"merchant_trans_id"`
	Amount          flexString `json:"amount"`
	CreateTime      flexString `json:"create_time"`
	PayTime         flexString `json:"pay_time"`
}

// PaymentStatus looks up a payment by the Click transaction id.
func (c *Client) PaymentStatus(ctx context.Context, transactionID string) (entity.ClickPayment, error) {
	path := fmt.Sprintf("/payment/status/%s/%s", url.PathEscape(c.cfg.ServiceID), url.PathEscape(transactionID))

	var resp paymentStatusResponse

	err := c.doJSON(ctx, c.retry, http.MethodGet, path, nil, &resp)
	if err != nil {
		return entity.ClickPayment{}, fmt.Errorf("get payment status: %w", err)
	}

	if resp.ErrorCode < 0 {
		return entity.ClickPayment{}, fmt.Errorf("get payment status: %w: %d %s",
			entity.ErrOperationFailed, resp.ErrorCode, resp.ErrorNote)
	}

	amount, err := decimal.NewFromString(string(resp.Amount))
	if err != nil {
		amount = decimal.Zero
	}

	return entity.ClickPayment{
		TransactionID:   transactionID,
		MerchantTransID: resp.MerchantTransID,
		PaymentStatus:   resp.PaymentStatus,
		Amount:          amount,
		CreateTime:      string(resp.CreateTime),
		PayTime:         string(resp.PayTime),
	}, nil
}

// Reach checks that host answers a HEAD request. Any HTTP status counts as reachable.
func (c *Client) Reach(ctx context.Context, rawURL string) error {
	ctx, cancel := context.WithTimeout(ctx, reachTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.c.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}

	defer resp.Body.Close()

	_, _ = io.Copy(io.Discard, resp.Body)

	return nil
}

func (c *Client) doJSON(ctx context.Context, hc *http.Client, method, path string, body, dst any) error {
	err := c.checkConfig()
	if err != nil {
		return err
	}

	var reqBody io.Reader

	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}

		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(c.cfg.APIURL, "/")+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Auth", security.AuthHeader(c.cfg.MerchantUserID, c.cfg.SecretKey, c.now()))

	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}

	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var e apiError
		if json.Unmarshal(respBody, &e) == nil && e.ErrorNote != "" {
			return fmt.Errorf("bad response status %d: %d %s", resp.StatusCode, e.ErrorCode, e.ErrorNote)
		}

		return fmt.Errorf("bad response status %d: %s", resp.StatusCode, respBody)
	}

	err = json.Unmarshal(respBody, dst)
	if err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}

	return nil
}

// flexString accepts both JSON strings and numbers.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}

	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}

		*f = flexString(s)

		return nil
	}

	*f = flexString(b)

	return nil
}
