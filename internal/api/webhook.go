package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/Mansurxan1/hadiya/internal/entity"
)

const maxCallbackBody = 64 << 10

// ClickCallbackRequest documents the fields Click posts as a form. JSON bodies with the same
// keys are accepted too; numbers are kept in their original text because they are signed.
type ClickCallbackRequest struct {
	ClickTransID      string `json:"click_trans_id" form:"click_trans_id"`
	ServiceID         string `json:"service_id" form:"service_id"`
	ClickPaydocID     string `json:"click_paydoc_id" form:"click_paydoc_id"`
	MerchantTransID   string `json:"merchant_trans_id" form:"merchant_trans_id"`
	MerchantPrepareID string `json:"merchant_prepare_id,omitempty" form:"merchant_prepare_id"`
	Amount            string `json:"amount" form:"amount"`
	Action            string `json:"action" form:"action"`
	Error             string `json:"error" form:"error"`
	ErrorNote         string `json:"error_note" form:"error_note"`
	SignTime          string `json:"sign_time" form:"sign_time"`
	SignString        string `json:"sign_string" form:"sign_string"`
}

type ClickCallbackResponse struct {
	ClickTransID      string `json:"click_trans_id"`
	MerchantTransID   string `json:"merchant_trans_id"`
	MerchantPrepareID string `json:"merchant_prepare_id,omitempty"`
	MerchantConfirmID string `json:"merchant_confirm_id,omitempty"`
	Error             int    `json:"error"`
	ErrorNote         string `json:"error_note"`
}

// ClickNotify handles both phases on one URL, dispatching by action
// @Summary Click callback
// @Description Prepare (action=0) or Complete (action=1) request from Click
// @Tags click
// @Accept x-www-form-urlencoded,json
// @Produce json
// @Param ClickCallbackRequest body ClickCallbackRequest true "Click callback"
// @Success 200 {object} ClickCallbackResponse "error 0, 4 or 5"
// @Failure 400 {object} ClickCallbackResponse "error 1, 2, 8 or 9"
// @Failure 404 {object} ClickCallbackResponse "error 3"
// @Failure 500 {object} ClickCallbackResponse "error 6 or 7"
// @Router /click/notify [post]
func (h *Handler) ClickNotify(w http.ResponseWriter, r *http.Request) {
	h.clickCallback(w, r, nil)
}

// ClickPrepare handles the Prepare phase when Click is set up with separate URLs
// @Summary Click prepare
// @Tags click
// @Accept x-www-form-urlencoded,json
// @Produce json
// @Param ClickCallbackRequest body ClickCallbackRequest true "Click callback with action=0"
// @Success 200 {object} ClickCallbackResponse
// @Failure 400 {object} ClickCallbackResponse
// @Router /click/prepare [post]
func (h *Handler) ClickPrepare(w http.ResponseWriter, r *http.Request) {
	action := entity.ClickActionPrepare
	h.clickCallback(w, r, &action)
}

// ClickComplete handles the Complete phase when Click is set up with separate URLs
// @Summary Click complete
// @Tags click
// @Accept x-www-form-urlencoded,json
// @Produce json
// @Param ClickCallbackRequest body ClickCallbackRequest true "Click callback with action=1"
// @Success 200 {object} ClickCallbackResponse
// @Failure 400 {object} ClickCallbackResponse
// @Router /click/complete [post]
func (h *Handler) ClickComplete(w http.ResponseWriter, r *http.Request) {
	action := entity.ClickActionComplete
	h.clickCallback(w, r, &action)
}

func (h *Handler) clickCallback(w http.ResponseWriter, r *http.Request, want *entity.ClickAction) {
	ctx := r.Context()

	fields, err := readCallbackFields(w, r)
	if err != nil {
		slog.WarnContext(ctx, "unreadable click callback", "error", err)
		sendClickResponse(ctx, w, entity.ClickResponse{Error: entity.ClickCodeBadRequest, ErrorNote: entity.ClickCodeBadRequest.Note()})

		return
	}

	cb, err := fields.toCallback()
	if err == nil && want != nil && cb.Action != *want {
		err = fmt.Errorf("action %s on %s endpoint: %w", cb.Action, r.URL.Path, entity.ErrInvalidArgument)
	}

	if err != nil {
		slog.WarnContext(ctx, "malformed click callback", "error", err, "click_trans_id", fields.ClickTransID)
		sendClickResponse(ctx, w, entity.ClickResponse{
			ClickTransID:    fields.ClickTransID,
			MerchantTransID: fields.MerchantTransID,
			Error:           entity.ClickCodeBadRequest,
			ErrorNote:       entity.ClickCodeBadRequest.Note(),
		})

		return
	}

	sendClickResponse(ctx, w, h.s.HandleCallback(ctx, cb))
}

func readCallbackFields(w http.ResponseWriter, r *http.Request) (ClickCallbackRequest, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxCallbackBody)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		return decodeCallbackJSON(r)
	}

	err := r.ParseForm()
	if err != nil {
		return ClickCallbackRequest{}, fmt.Errorf("parse form: %w", err)
	}

	return ClickCallbackRequest{
		ClickTransID:      r.PostForm.Get("click_trans_id"),
		ServiceID:         r.PostForm.Get("service_id"),
		ClickPaydocID:     r.PostForm.Get("click_paydoc_id"),
		MerchantTransID:   r.PostForm.Get("merchant_trans_id"),
		MerchantPrepareID: r.PostForm.Get("merchant_prepare_id"),
		Amount:            r.PostForm.Get("amount"),
		Action:            r.PostForm.Get("action"),
		Error:             r.PostForm.Get("error"),
		ErrorNote:         r.PostForm.Get("error_note"),
		SignTime:          r.PostForm.Get("sign_time"),
		SignString:        r.PostForm.Get("sign_string"),
	}, nil
}

func decodeCallbackJSON(r *http.Request) (ClickCallbackRequest, error) {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()

	var raw map[string]any

	err := dec.Decode(&raw)
	if err != nil {
		return ClickCallbackRequest{}, fmt.Errorf("decode json: %w", err)
	}

	get := func(key string) string {
		switch v := raw[key].(type) {
		case string:
			return v
		case json.Number:
			return v.String()
		case nil:
			return ""
		default:
			return fmt.Sprint(v)
		}
	}

	return ClickCallbackRequest{
		ClickTransID:      get("click_trans_id"),
		ServiceID:         get("service_id"),
		ClickPaydocID:     get("click_paydoc_id"),
		MerchantTransID:   get("merchant_trans_id"),
		MerchantPrepareID: get("merchant_prepare_id"),
		Amount:            get("amount"),
		Action:            get("action"),
		Error:             get("error"),
		ErrorNote:         get("error_note"),
		SignTime:          get("sign_time"),
		SignString:        get("sign_string"),
	}, nil
}

func (c ClickCallbackRequest) toCallback() (entity.ClickCallback, error) {
	action, err := entity.ParseClickAction(c.Action)
	if err != nil {
		return entity.ClickCallback{}, err
	}

	var providerErr int

	if c.Error != "" {
		providerErr, err = strconv.Atoi(c.Error)
		if err != nil {
			return entity.ClickCallback{}, fmt.Errorf("error %q is not a number: %w", c.Error, entity.ErrInvalidArgument)
		}
	}

	return entity.ClickCallback{
		Action:            action,
		ClickTransID:      c.ClickTransID,
		ServiceID:         c.ServiceID,
		ClickPaydocID:     c.ClickPaydocID,
		MerchantTransID:   c.MerchantTransID,
		MerchantPrepareID: c.MerchantPrepareID,
		Amount:            c.Amount,
		Error:             providerErr,
		ErrorNote:         c.ErrorNote,
		SignTime:          c.SignTime,
		SignString:        c.SignString,
	}, nil
}

// clickHTTPStatus is the HTTP status sent along with a protocol code.
func clickHTTPStatus(code entity.ClickErrorCode) int {
	switch code {
	case entity.ClickCodeSuccess, entity.ClickCodeAlreadyPaid, entity.ClickCodeCancelled:
		return http.StatusOK
	case entity.ClickCodeNotFound:
		return http.StatusNotFound
	case entity.ClickCodeOperationFailed, entity.ClickCodeSystemError:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

func sendClickResponse(ctx context.Context, w http.ResponseWriter, resp entity.ClickResponse) {
	SendJSON(ctx, w, clickHTTPStatus(resp.Error), ClickCallbackResponse{
		ClickTransID:      resp.ClickTransID,
		MerchantTransID:   resp.MerchantTransID,
		MerchantPrepareID: resp.MerchantPrepareID,
		MerchantConfirmID: resp.MerchantConfirmID,
		Error:             int(resp.Error),
		ErrorNote:         resp.ErrorNote,
	})
}
