package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
)

type ErrorResponse struct {
	Message     string `json:"message"`
	Description string `json:"description,omitempty"`
}

// SendJSONErr logs originErr and answers with msgToSend. originErr may be nil.
// Server errors are only logged: their cause is never sent to the client.
func SendJSONErr(ctx context.Context, w http.ResponseWriter, code int, originErr error, msgToSend string) {
	var cause string
	if originErr != nil {
		cause = originErr.Error()
	}

	resp := ErrorResponse{Message: msgToSend}

	if code >= http.StatusInternalServerError {
		slog.ErrorContext(ctx, "api error", "status", code, "message", msgToSend, "error", cause)
	} else {
		slog.WarnContext(ctx, "api error", "status", code, "message", msgToSend, "error", cause)

		resp.Description = cause
	}

	SendJSON(ctx, w, code, resp)
}

func SendJSON(ctx context.Context, w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	err := json.NewEncoder(w).Encode(data)
	if err != nil {
		slog.ErrorContext(ctx, "encode response", "error", err)
	}
}
