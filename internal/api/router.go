package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/Mansurxan1/hadiya/docs" // swagger docs
)

func NewRouter(h *Handler, mw *Middleware) http.Handler {
	mux := chi.NewRouter()
	mux.Use(mw.Log, mw.Recover, mw.Cors)

	mux.Route("/api", func(r chi.Router) {
		r.Get("/health", h.HealthHandler)
		r.Get("/swagger/*", httpSwagger.Handler())

		r.Route("/payments", func(r chi.Router) {
			r.With(mw.RateLimit).Post("/", h.CreatePayment)
			r.Post("/status", h.PaymentStatus)
			r.Get("/status/{orderId}", h.OrderStatus)
		})

		r.Route("/click", func(r chi.Router) {
			r.Get("/status", h.ClickDiagnostics)

			r.Group(func(r chi.Router) {
				r.Use(mw.ClickIPWL)
				r.Post("/notify", h.ClickNotify)
				r.Post("/prepare", h.ClickPrepare)
				r.Post("/complete", h.ClickComplete)
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(mw.AdminAuth)
			r.Get("/orders", h.Orders)
			r.Post("/orders/{id}/fiscalize", h.Fiscalize)
			r.Get("/orders/{id}/fiscal", h.FiscalData)
			r.Get("/telegram/setup", h.TelegramSetup)
		})
	})

	return mux
}
