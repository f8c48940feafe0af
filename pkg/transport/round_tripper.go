package transport

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Mansurxan1/hadiya/pkg/logger"
)

// LoggingRoundTripper logs outgoing requests and forwards the request id.
// Secrets listed in mask are replaced in the logged URL. Headers are never logged.
type LoggingRoundTripper struct {
	Transport http.RoundTripper
	mask      []string
}

func NewLoggingRoundTripper(transport http.RoundTripper, mask ...string) *LoggingRoundTripper {
	if transport == nil {
		transport = http.DefaultTransport
	}

	var nonEmpty []string

	for _, m := range mask {
		if m != "" {
			nonEmpty = append(nonEmpty, m)
		}
	}

	return &LoggingRoundTripper{Transport: transport, mask: nonEmpty}
}

func (l *LoggingRoundTripper) RoundTrip(r *http.Request) (*http.Response, error) {
	ctx := r.Context()

	reqID := logger.RequestIDFromCtx(ctx)
	if reqID != "" {
		r.Header.Set("X-Request-Id", reqID)
	}

	target := l.redact(r.URL.Redacted())

	slog.InfoContext(ctx, "outgoing request", "request", fmt.Sprintf("%s %s", r.Method, target))

	resp, err := l.Transport.RoundTrip(r)
	if err != nil {
		return nil, fmt.Errorf("round trip: %w", err)
	}

	slog.InfoContext(ctx, "incoming response",
		"response", fmt.Sprintf("%s %s", r.Method, target),
		"status", resp.StatusCode,
	)

	return resp, nil
}

func (l *LoggingRoundTripper) redact(s string) string {
	for _, m := range l.mask {
		s = strings.ReplaceAll(s, m, "xxxxx")
	}

	return s
}
