package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/iho/kosherbill/internal/domain"
)

// HTTPVerifier checks checkout sessions against the payment provider's REST
// API. Provider outages surface as ErrUpstreamUnavailable so the webhook
// returns a retryable status instead of dropping the payment.
type HTTPVerifier struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// NewHTTPVerifier creates a new HTTPVerifier.
func NewHTTPVerifier(baseURL, apiKey string, timeout time.Duration) *HTTPVerifier {
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	return &HTTPVerifier{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

type sessionResponse struct {
	ID            string `json:"id"`
	PaymentStatus string `json:"payment_status"`
}

// Verify confirms the session exists at the provider and was paid.
func (v *HTTPVerifier) Verify(ctx context.Context, sessionID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+"/"+sessionID, nil)
	if err != nil {
		return fmt.Errorf("failed to build verify request: %w", err)
	}

	if v.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+v.apiKey)
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%w: provider returned %d", domain.ErrUpstreamUnavailable, resp.StatusCode)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: provider returned %d for session %s", domain.ErrPaymentNotVerified, resp.StatusCode, sessionID)
	}

	var session sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return fmt.Errorf("%w: malformed provider response: %v", domain.ErrUpstreamUnavailable, err)
	}

	if session.PaymentStatus != "paid" {
		return fmt.Errorf("%w: session %s has status %q", domain.ErrPaymentNotVerified, sessionID, session.PaymentStatus)
	}

	return nil
}
