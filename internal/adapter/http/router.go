package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iho/kosherbill/internal/adapter/http/handler"
	"github.com/iho/kosherbill/internal/adapter/http/middleware"
	"github.com/iho/kosherbill/internal/domain"
	"github.com/iho/kosherbill/internal/infrastructure/auth"
	"github.com/iho/kosherbill/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	HealthHandler     *handler.HealthHandler
	AuthHandler       *handler.AuthHandler
	BookingHandler    *handler.BookingHandler
	TimeEntryHandler  *handler.TimeEntryHandler
	LedgerHandler     *handler.LedgerHandler
	AssignmentHandler *handler.AssignmentHandler
	ReportHandler     *handler.ReportHandler
	WebhookHandler    *handler.WebhookHandler

	JWTManager       *auth.JWTManager
	IdempotencyStore usecase.IdempotencyStore
	RateLimiter      *middleware.RateLimiter
	Logging          *middleware.LoggingMiddleware
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	if cfg.Logging != nil {
		r.Use(cfg.Logging.Wrap)
	} else {
		r.Use(chimiddleware.Logger)
	}
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics)
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
			r.Use(idempotencyMiddleware.Wrap)
		}

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", cfg.AuthHandler.Register)
			r.Post("/login", cfg.AuthHandler.Login)

			r.Group(func(r chi.Router) {
				r.Use(middleware.AuthMiddleware(cfg.JWTManager))
				r.Get("/me", cfg.AuthHandler.GetCurrentUser)
			})
		})

		// Payment provider callbacks carry their own verification, not a
		// user token.
		r.Post("/webhooks/payments", cfg.WebhookHandler.CheckoutCompleted)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(cfg.JWTManager))

			r.Route("/bookings", func(r chi.Router) {
				r.Get("/", cfg.BookingHandler.List)
				r.Get("/{id}", cfg.BookingHandler.Get)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRole(domain.RoleClient))
					r.Post("/", cfg.BookingHandler.Create)
					r.Patch("/{id}", cfg.BookingHandler.Update)
					r.Delete("/{id}", cfg.BookingHandler.Cancel)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRole())
					r.Post("/{id}/assign", cfg.BookingHandler.AssignWorker)
					r.Post("/{id}/approve", cfg.BookingHandler.Approve)
				})
			})

			r.Route("/clock", func(r chi.Router) {
				r.Use(middleware.RequireRole(domain.RoleWorker))
				r.Post("/in", cfg.TimeEntryHandler.ClockIn)
				r.Post("/out", cfg.TimeEntryHandler.ClockOut)
				r.Post("/lunch/in", cfg.TimeEntryHandler.LunchIn)
				r.Post("/lunch/out", cfg.TimeEntryHandler.LunchOut)
			})

			r.Route("/accounts", func(r chi.Router) {
				r.Get("/{id}", cfg.LedgerHandler.GetAccount)
				r.Get("/{id}/entries", cfg.LedgerHandler.ListByAccount)
			})

			r.Get("/ledger/references/{referenceID}", cfg.LedgerHandler.ListByReference)

			r.Route("/assignments", func(r chi.Router) {
				r.Use(middleware.RequireRole())
				r.Post("/", cfg.AssignmentHandler.Create)
				r.Delete("/{id}", cfg.AssignmentHandler.End)
			})

			r.Route("/workers/{accountID}", func(r chi.Router) {
				r.Get("/assignments", cfg.AssignmentHandler.ListForWorker)
				r.Get("/reports/monthly", cfg.TimeEntryHandler.MonthlyReport)
			})

			r.With(middleware.RequireRole()).Get("/reports/summary", cfg.ReportHandler.Summary)
		})
	})

	return r
}
