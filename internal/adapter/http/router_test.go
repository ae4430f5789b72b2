package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iho/kosherbill/internal/adapter/http/handler"
	"github.com/iho/kosherbill/internal/adapter/http/middleware"
	"github.com/iho/kosherbill/internal/infrastructure/auth"
)

type idempotencyStoreStub struct {
	checkAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	updateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

func (s *idempotencyStoreStub) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	return s.checkAndSetFunc(ctx, key, response, ttl)
}

func (s *idempotencyStoreStub) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	return s.updateFunc(ctx, key, response, ttl)
}

func testRouterConfig() RouterConfig {
	return RouterConfig{
		HealthHandler:     handler.NewHealthHandler(nil, nil),
		AuthHandler:       handler.NewAuthHandler(nil, nil),
		BookingHandler:    handler.NewBookingHandler(nil),
		TimeEntryHandler:  handler.NewTimeEntryHandler(nil),
		LedgerHandler:     handler.NewLedgerHandler(nil, nil),
		AssignmentHandler: handler.NewAssignmentHandler(nil),
		ReportHandler:     handler.NewReportHandler(nil),
		WebhookHandler:    handler.NewWebhookHandler(nil),
		JWTManager:        auth.NewJWTManager("test-secret", time.Hour),
	}
}

func TestRouterHealthEndpoint(t *testing.T) {
	router := NewRouter(testRouterConfig())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestRouterMetricsEndpoint(t *testing.T) {
	router := NewRouter(testRouterConfig())

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestRouterProtectedRouteRequiresToken(t *testing.T) {
	router := NewRouter(testRouterConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/", nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rr.Code)
	}
}

func TestRouterRateLimiter(t *testing.T) {
	cfg := testRouterConfig()
	cfg.RateLimiter = middleware.NewRateLimiter(1, 1)
	router := NewRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.RemoteAddr = "10.0.0.1:1234"

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected first request to pass, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 on burst overflow, got %d", rr.Code)
	}
}

func TestRouterIdempotencyReplay(t *testing.T) {
	cached := []byte(`{"id": "booking-1"}`)

	var capturedKey string
	cfg := testRouterConfig()
	cfg.IdempotencyStore = &idempotencyStoreStub{
		checkAndSetFunc: func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
			capturedKey = key
			return true, cached, nil
		},
		updateFunc: func(ctx context.Context, key string, response []byte, ttl time.Duration) error {
			return nil
		},
	}
	router := NewRouter(cfg)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader("{}"))
	req.Header.Set(middleware.IdempotencyKeyHeader, "key-1")
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if capturedKey != "key-1" {
		t.Fatalf("expected idempotency store consulted with header key, got %q", capturedKey)
	}

	if rr.Header().Get("X-Idempotency-Replay") != "true" {
		t.Fatal("expected replay marker header")
	}

	if rr.Body.String() != string(cached) {
		t.Fatalf("expected cached body, got %q", rr.Body.String())
	}
}

func TestRouterRegistersRoutes(t *testing.T) {
	router := NewRouter(testRouterConfig())

	routes := make(map[string]bool)
	chiRouter := router.(chi.Router)

	walkFunc := func(method string, route string, handler http.Handler, middlewares ...func(http.Handler) http.Handler) error {
		routes[method+" "+route] = true
		return nil
	}

	if err := chi.Walk(chiRouter, walkFunc); err != nil {
		t.Fatalf("failed to walk routes: %v", err)
	}

	expected := []string{
		"GET /health",
		"GET /ready",
		"POST /api/v1/auth/register",
		"POST /api/v1/auth/login",
		"GET /api/v1/auth/me",
		"POST /api/v1/webhooks/payments",
		"GET /api/v1/bookings/",
		"POST /api/v1/bookings/",
		"GET /api/v1/bookings/{id}",
		"PATCH /api/v1/bookings/{id}",
		"DELETE /api/v1/bookings/{id}",
		"POST /api/v1/bookings/{id}/assign",
		"POST /api/v1/bookings/{id}/approve",
		"POST /api/v1/clock/in",
		"POST /api/v1/clock/out",
		"POST /api/v1/clock/lunch/in",
		"POST /api/v1/clock/lunch/out",
		"GET /api/v1/accounts/{id}",
		"GET /api/v1/accounts/{id}/entries",
		"GET /api/v1/ledger/references/{referenceID}",
		"POST /api/v1/assignments/",
		"DELETE /api/v1/assignments/{id}",
		"GET /api/v1/workers/{accountID}/assignments",
		"GET /api/v1/workers/{accountID}/reports/monthly",
		"GET /api/v1/reports/summary",
	}

	for _, route := range expected {
		if !routes[route] {
			t.Errorf("expected route %s to be registered", route)
		}
	}
}
