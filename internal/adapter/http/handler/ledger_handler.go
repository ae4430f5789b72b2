package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/kosherbill/internal/adapter/http/dto"
	"github.com/iho/kosherbill/internal/domain"
	"github.com/iho/kosherbill/internal/usecase"
)

// LedgerService defines the behavior needed by LedgerHandler.
type LedgerService interface {
	GetEntriesByAccount(ctx context.Context, input usecase.GetEntriesByAccountInput) ([]*domain.LedgerEntry, error)
	GetEntriesByReference(ctx context.Context, referenceID string) ([]*domain.LedgerEntry, error)
}

// AccountService defines account reads needed by LedgerHandler.
type AccountService interface {
	GetByID(ctx context.Context, id string) (*domain.Account, error)
}

// LedgerHandler handles account and ledger read requests.
type LedgerHandler struct {
	ledgerUC    LedgerService
	accountRepo AccountService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerUC LedgerService, accountRepo AccountService) *LedgerHandler {
	return &LedgerHandler{ledgerUC: ledgerUC, accountRepo: accountRepo}
}

// GetAccount retrieves an account with its balance.
func (h *LedgerHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	account, err := h.accountRepo.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get account", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// ListByAccount lists ledger entries touching an account.
func (h *LedgerHandler) ListByAccount(w http.ResponseWriter, r *http.Request) {
	entries, err := h.ledgerUC.GetEntriesByAccount(r.Context(), usecase.GetEntriesByAccountInput{
		AccountID: chi.URLParam(r, "id"),
		Limit:     parseIntQuery(r, "limit", 50),
		Offset:    parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list entries", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.LedgerEntriesFromDomain(entries))
}

// ListByReference lists all entries recorded for a reference, typically a
// booking or checkout session.
func (h *LedgerHandler) ListByReference(w http.ResponseWriter, r *http.Request) {
	entries, err := h.ledgerUC.GetEntriesByReference(r.Context(), chi.URLParam(r, "referenceID"))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list entries", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.LedgerEntriesFromDomain(entries))
}
