package usecase

import (
	"context"
	"errors"

	"github.com/iho/kosherbill/internal/domain"
)

// EventTypeCheckoutCompleted is the payment-provider event this service
// consumes. Other event types are acknowledged and dropped.
const EventTypeCheckoutCompleted = "checkout.session.completed"

// WebhookUseCase turns payment-provider checkout events into ledger credits.
// The session ID is the ledger reference, so a redelivered event settles at
// most once.
type WebhookUseCase struct {
	ledgerUC    *LedgerUseCase
	accountRepo AccountRepository
	verifier    PaymentVerifier
}

// NewWebhookUseCase creates a new WebhookUseCase. verifier may be nil when
// provider-side session verification is disabled.
func NewWebhookUseCase(ledgerUC *LedgerUseCase, accountRepo AccountRepository, verifier PaymentVerifier) *WebhookUseCase {
	return &WebhookUseCase{
		ledgerUC:    ledgerUC,
		accountRepo: accountRepo,
		verifier:    verifier,
	}
}

// CheckoutCompletedInput represents a parsed checkout webhook event.
type CheckoutCompletedInput struct {
	EventType        string
	SessionID        string
	UserID           string
	AmountMinorUnits int64
}

// WebhookResult reports how an event was handled.
type WebhookResult struct {
	Entry   *domain.LedgerEntry
	Replay  bool
	Ignored bool
}

// HandleCheckoutCompleted verifies the session against the provider when a
// verifier is configured, then credits the user's account keyed by the
// session ID. A replayed event is reported as such, not as an error, so the
// provider stops redelivering.
func (uc *WebhookUseCase) HandleCheckoutCompleted(ctx context.Context, input CheckoutCompletedInput) (*WebhookResult, error) {
	if input.EventType != EventTypeCheckoutCompleted {
		return &WebhookResult{Ignored: true}, nil
	}

	if input.AmountMinorUnits <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	if input.SessionID == "" {
		return nil, domain.ErrInvalidReference
	}

	account, err := uc.accountRepo.GetByUserID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	if uc.verifier != nil {
		verifyCtx, cancel := context.WithTimeout(ctx, PaymentVerifyTimeout)
		defer cancel()

		if err := uc.verifier.Verify(verifyCtx, input.SessionID); err != nil {
			return nil, err
		}
	}

	entry, err := uc.ledgerUC.Credit(ctx, CreditInput{
		AccountID:   account.ID,
		Amount:      domain.Credits(input.AmountMinorUnits),
		ReferenceID: input.SessionID,
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadySettled) {
			return &WebhookResult{Replay: true}, nil
		}

		return nil, err
	}

	return &WebhookResult{Entry: entry}, nil
}
