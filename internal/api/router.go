package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter constructs the HTTP routing tree with all API endpoints registered.
func NewRouter(authSvc AuthService, spinSvc SpinService, paymentSvc PaymentService, userReader UserReader) http.Handler {
	h := NewHandler(authSvc, spinSvc, paymentSvc, userReader)
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Get("/nonce", h.NonceHandler)
			r.Post("/login", h.LoginHandler)
			r.Post("/refresh", h.RefreshHandler)
		})

		r.Get("/spin/configuration", h.ConfigurationHandler)
		r.Get("/payment/packages", h.PackagesHandler)

		r.Group(func(r chi.Router) {
			r.Use(h.requireAuth)

			r.Post("/spin/execute", h.ExecuteSpinHandler)
			r.Post("/spin/daily-claim", h.DailyClaimHandler)
			r.Get("/spin/history", h.HistoryHandler)
			r.Post("/payment/purchase-spins", h.PurchaseHandler)
			r.Get("/user/me", h.MeHandler)
		})
	})

	return r
}
