package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/iho/kosherbill/internal/adapter/http/dto"
	"github.com/iho/kosherbill/internal/usecase"
)

// WebhookService defines the behavior needed by WebhookHandler.
type WebhookService interface {
	HandleCheckoutCompleted(ctx context.Context, input usecase.CheckoutCompletedInput) (*usecase.WebhookResult, error)
}

// WebhookHandler receives payment provider callbacks. Redelivered events
// are acknowledged with a replay flag so the provider stops retrying.
type WebhookHandler struct {
	webhookUC WebhookService
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(webhookUC WebhookService) *WebhookHandler {
	return &WebhookHandler{webhookUC: webhookUC}
}

// CheckoutCompleted handles the checkout.session.completed event.
func (h *WebhookHandler) CheckoutCompleted(w http.ResponseWriter, r *http.Request) {
	var req dto.CheckoutWebhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.webhookUC.HandleCheckoutCompleted(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to process event", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.WebhookResponse{
		Received: true,
		Replay:   result.Replay,
		Ignored:  result.Ignored,
	})
}
