package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/Mansurxan1/hadiya/internal/entity"
	"github.com/Mansurxan1/hadiya/pkg/config"
	"github.com/Mansurxan1/hadiya/pkg/transport"
)

const (
	defaultTimeout      = 5 * time.Second
	defaultRetryMax     = 2
	defaultRetryWaitMax = 2 * time.Second
	parseModeHTML       = "HTML"
)

type Client struct {
	client *http.Client
	apiURL string
	token  string
	chatID string
}

func NewClient(cfg config.Telegram) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = defaultRetryMax
	retryClient.RetryWaitMin = 200 * time.Millisecond
	retryClient.RetryWaitMax = defaultRetryWaitMax
	retryClient.HTTPClient = &http.Client{
		Timeout:   defaultTimeout,
		Transport: transport.NewLoggingRoundTripper(http.DefaultTransport, cfg.BotToken),
	}

	retryClient.Logger = nil

	retryClient.CheckRetry = func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if err != nil {
			return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
		}

		return false, nil
	}

	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &Client{
		client: retryClient.StandardClient(),
		apiURL: strings.TrimRight(cfg.APIURL, "/"),
		token:  cfg.BotToken,
		chatID: cfg.ChatID,
	}
}

type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// apiResponse is the envelope of every Bot API answer.
type apiResponse struct {
	OK          bool            `json:"ok"`
	ErrorCode   int             `json:"error_code"`
	Description string          `json:"description"`
	Result      json.RawMessage `json:"result"`
}

type user struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (u *user) name() string {
	if u == nil {
		return ""
	}

	if u.Username != "" {
		return u.Username
	}

	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

type chat struct {
	ID    int64  `json:"id"`
	Type  string `json:"type"`
	Title string `json:"title"`
}

type message struct {
	Chat chat  `json:"chat"`
	From *user `json:"from"`
}

type update struct {
	UpdateID int64    `json:"update_id"`
	Message  *message `json:"message"`
}

// ChatConfigured reports whether messages have a destination.
func (c *Client) ChatConfigured() bool {
	return c.chatID != ""
}

// SendMessage posts an HTML formatted text to the configured chat.
func (c *Client) SendMessage(ctx context.Context, text string) error {
	if c.token == "" || c.chatID == "" {
		return fmt.Errorf("%w: TELEGRAM_BOT_TOKEN or TELEGRAM_CHAT_ID not set", entity.ErrConfig)
	}

	return c.call(ctx, http.MethodPost, "sendMessage", sendMessageRequest{
		ChatID:    c.chatID,
		Text:      text,
		ParseMode: parseModeHTML,
	}, nil)
}

// GetMe returns the bot the token belongs to.
func (c *Client) GetMe(ctx context.Context) (entity.TelegramBot, error) {
	if c.token == "" {
		return entity.TelegramBot{}, fmt.Errorf("%w: TELEGRAM_BOT_TOKEN not set", entity.ErrConfig)
	}

	var me user

	err := c.call(ctx, http.MethodGet, "getMe", nil, &me)
	if err != nil {
		return entity.TelegramBot{}, err
	}

	return entity.TelegramBot{ID: me.ID, Username: me.Username, FirstName: me.FirstName}, nil
}

// GetUpdates lists the chats found in pending updates, one entry per chat in order of appearance.
// Telegram keeps updates for 24 hours, so a chat shows up only after someone wrote there recently.
func (c *Client) GetUpdates(ctx context.Context) ([]entity.TelegramChat, error) {
	if c.token == "" {
		return nil, fmt.Errorf("%w: TELEGRAM_BOT_TOKEN not set", entity.ErrConfig)
	}

	var updates []update

	err := c.call(ctx, http.MethodGet, "getUpdates", nil, &updates)
	if err != nil {
		return nil, err
	}

	seen := make(map[int64]struct{}, len(updates))
	chats := make([]entity.TelegramChat, 0, len(updates))

	for _, u := range updates {
		if u.Message == nil || u.Message.Chat.ID == 0 {
			continue
		}

		ch := u.Message.Chat
		if _, ok := seen[ch.ID]; ok {
			continue
		}

		seen[ch.ID] = struct{}{}
		chats = append(chats, entity.NewTelegramChat(ch.ID, ch.Type, ch.Title, u.Message.From.name()))
	}

	return chats, nil
}

// call invokes a Bot API method and decodes its result into out when out is not nil.
func (c *Client) call(ctx context.Context, httpMethod, method string, payload, out any) error {
	var body io.Reader

	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal %s request: %w", method, err)
		}

		body = bytes.NewReader(b)
	}

	u := fmt.Sprintf("%s/bot%s/%s", c.apiURL, c.token, method)

	req, err := http.NewRequestWithContext(ctx, httpMethod, u, body)
	if err != nil {
		return fmt.Errorf("create request: %w", c.mask(err))
	}

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("do %s request: %w", method, c.mask(err))
	}

	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", method, err)
	}

	var result apiResponse

	err = json.Unmarshal(b, &result)
	if err != nil {
		return fmt.Errorf("unmarshal %s response with status %d: %w", method, resp.StatusCode, err)
	}

	if !result.OK {
		return fmt.Errorf("%w: telegram answered %d %s", entity.ErrOperationFailed, result.ErrorCode, result.Description)
	}

	if out == nil {
		return nil
	}

	err = json.Unmarshal(result.Result, out)
	if err != nil {
		return fmt.Errorf("unmarshal %s result: %w", method, err)
	}

	return nil
}

// mask hides the bot token that net/http puts into url errors.
func (c *Client) mask(err error) error {
	if c.token == "" {
		return err
	}

	return maskedError{err: err, token: c.token}
}

type maskedError struct {
	err   error
	token string
}

func (e maskedError) Error() string {
	return strings.ReplaceAll(e.err.Error(), e.token, "xxxxx")
}

func (e maskedError) Unwrap() error {
	return e.err
}
