package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestLoggingMiddleware_RecordsStatusAndBytes(t *testing.T) {
	var buf bytes.Buffer
	mw := NewLoggingMiddleware(zerolog.New(&buf))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings", nil)
	rr := httptest.NewRecorder()

	mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("unexpected status code: %d", rr.Code)
	}

	line := buf.String()
	if !strings.Contains(line, `"status":201`) {
		t.Errorf("expected logged status 201, got %s", line)
	}

	if !strings.Contains(line, `"bytes":11`) {
		t.Errorf("expected logged response size 11, got %s", line)
	}

	if !strings.Contains(line, `"path":"/api/v1/bookings"`) {
		t.Errorf("expected logged path, got %s", line)
	}
}

func TestLoggingMiddleware_DefaultsToOK(t *testing.T) {
	var buf bytes.Buffer
	mw := NewLoggingMiddleware(zerolog.New(&buf))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()

	mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})).ServeHTTP(rr, req)

	if !strings.Contains(buf.String(), `"status":200`) {
		t.Errorf("expected implicit 200 in log line, got %s", buf.String())
	}
}

// Both recorder types wrap the same ResponseWriter when the access log and
// idempotency middleware are stacked on one route.
func TestLoggingMiddleware_ComposesWithIdempotency(t *testing.T) {
	var buf bytes.Buffer
	logging := NewLoggingMiddleware(zerolog.New(&buf))
	idempotency := NewIdempotencyMiddleware(&fakeIdempotencyStore{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(`{}`))
	req.Header.Set(IdempotencyKeyHeader, "key-compose")
	rr := httptest.NewRecorder()

	logging.Wrap(idempotency.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))).ServeHTTP(rr, req)

	if rr.Code != http.StatusAccepted {
		t.Fatalf("unexpected status code: %d", rr.Code)
	}

	if !strings.Contains(buf.String(), `"status":202`) {
		t.Errorf("expected logged status 202, got %s", buf.String())
	}
}
