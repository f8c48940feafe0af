package api

import (
	"bytes"
	"crypto/rsa"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"runtime/debug"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v4"
	"github.com/golang-jwt/jwt/v4/request"
	"golang.org/x/time/rate"

	"github.com/Mansurxan1/hadiya/internal/entity"
	"github.com/Mansurxan1/hadiya/pkg/logger"
)

const (
	clickPathPrefix = "/api/click/"
	maxRequestBody  = 1 << 20
	limiterTTL      = 10 * time.Minute
	maxLimiters     = 10000
)

var skipLogging = map[string]struct{}{
	"/api/health": {},
}

type Middleware struct {
	adminKey *rsa.PublicKey
	clickWL  []string
	limiter  *ipLimiter
}

// NewMiddleware builds the middleware set. A nil adminKey closes the admin routes.
func NewMiddleware(adminKey *rsa.PublicKey, clickWL []string, requestsPerMinute, burst int) *Middleware {
	return &Middleware{
		adminKey: adminKey,
		clickWL:  clickWL,
		limiter:  newIPLimiter(rate.Limit(float64(requestsPerMinute)/60), burst),
	}
}

func (m *Middleware) Log(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		requestID := r.Header.Get("X-Request-Id")
		if requestID == "" {
			requestID = uuid.Must(uuid.NewV4()).String()
		}

		ctx = logger.WithRequestID(ctx, requestID)
		w.Header().Set("X-Request-Id", requestID)

		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

		if _, ok := skipLogging[r.URL.Path]; !ok {
			reqBody, err := io.ReadAll(r.Body)
			if err != nil {
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					SendJSONErr(ctx, w, http.StatusRequestEntityTooLarge, err, "Слишком большой запрос")
					return
				}

				SendJSONErr(ctx, w, http.StatusBadRequest, err, "read request body")
				return
			}

			r.Body.Close()
			r.Body = io.NopCloser(bytes.NewBuffer(reqBody))

			var headers strings.Builder

			for k, v := range r.Header {
				if k == "Authorization" || k == "Cookie" {
					continue
				}

				headers.WriteString(fmt.Sprintf("%s: %s,\n", k, v))
			}

			slog.InfoContext(ctx, "incoming request",
				"request", fmt.Sprintf("%s %s\n%s", r.Method, r.URL.Redacted(), reqBody),
				"headers", headers.String(),
				"remote_addr", r.RemoteAddr,
			)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Recover answers 500 on panic. Click endpoints get a protocol body with the system error code.
func (m *Middleware) Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			slog.ErrorContext(ctx, "recovered from panic", "error", rec, "stack", string(debug.Stack()))

			if strings.HasPrefix(r.URL.Path, clickPathPrefix) && r.Method == http.MethodPost {
				sendClickResponse(ctx, w, entity.ClickResponse{
					Error:     entity.ClickCodeSystemError,
					ErrorNote: entity.ClickCodeSystemError.Note(),
				})

				return
			}

			SendJSONErr(ctx, w, http.StatusInternalServerError, fmt.Errorf("panic: %v", rec), "Внутренняя ошибка")
		}()

		next.ServeHTTP(w, r)
	})
}

func (m *Middleware) Cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}

		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Origin, Accept, User-Agent, Cache-Control, X-Request-Id")

		if r.Method == http.MethodOptions {
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RateLimit limits requests per client IP.
func (m *Middleware) RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if !m.limiter.allow(clientIP(r), time.Now()) {
			w.Header().Set("Retry-After", "60")
			SendJSONErr(ctx, w, http.StatusTooManyRequests, nil, "Слишком много запросов, попробуйте позже")

			return
		}

		next.ServeHTTP(w, r)
	})
}

// AdminAuth verifies an operator JWT signed with RS256. The name claim identifies the operator.
func (m *Middleware) AdminAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if m.adminKey == nil {
			SendJSONErr(ctx, w, http.StatusForbidden, nil, "Администрирование отключено")
			return
		}

		token, err := request.BearerExtractor{}.ExtractToken(r)
		if err != nil {
			SendJSONErr(ctx, w, http.StatusUnauthorized, err, "Токен отсутствует или невалиден")
			return
		}

		claims := jwt.MapClaims{}

		_, err = jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
			if t.Method != jwt.SigningMethodRS256 {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}

			return m.adminKey, nil
		})
		if err != nil {
			SendJSONErr(ctx, w, http.StatusUnauthorized, err, "Неверный токен")
			return
		}

		name, _ := claims["name"].(string)
		if name == "" {
			name, _ = claims["sub"].(string)
		}

		if name == "" {
			SendJSONErr(ctx, w, http.StatusUnauthorized, errors.New("token has no name claim"), "Неверный токен")
			return
		}

		ctx = entity.CtxWithOperator(ctx, entity.Operator{Name: name})
		ctx = logger.WithOperator(ctx, name)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClickIPWL rejects callbacks from addresses outside the allow-list. An empty list allows everyone.
func (m *Middleware) ClickIPWL(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if len(m.clickWL) != 0 {
			ip := clientIP(r)

			if !slices.Contains(m.clickWL, ip) {
				slog.WarnContext(ctx, "click callback from unknown address", "ip", ip)
				sendClickResponse(ctx, w, entity.ClickResponse{
					Error:     entity.ClickCodeSignFailed,
					ErrorNote: entity.ClickCodeSignFailed.Note(),
				})

				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}

type limiterEntry struct {
	l        *rate.Limiter
	lastSeen time.Time
}

type ipLimiter struct {
	mu      sync.Mutex
	entries map[string]*limiterEntry
	limit   rate.Limit
	burst   int
}

func newIPLimiter(limit rate.Limit, burst int) *ipLimiter {
	return &ipLimiter{
		entries: make(map[string]*limiterEntry),
		limit:   limit,
		burst:   burst,
	}
}

func (l *ipLimiter) allow(ip string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[ip]
	if !ok {
		if len(l.entries) >= maxLimiters {
			l.prune(now)
		}

		e = &limiterEntry{l: rate.NewLimiter(l.limit, l.burst)}
		l.entries[ip] = e
	}

	e.lastSeen = now

	return e.l.AllowN(now, 1)
}

func (l *ipLimiter) prune(now time.Time) {
	for ip, e := range l.entries {
		if now.Sub(e.lastSeen) > limiterTTL {
			delete(l.entries, ip)
		}
	}
}
