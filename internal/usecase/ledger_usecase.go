package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/iho/kosherbill/internal/domain"
)

// LedgerUseCase is the credit ledger: an append-only entry log plus the
// derived per-account balance. Every mutation runs inside a single store
// transaction and moves balances through atomic increments.
type LedgerUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	ledgerRepo  LedgerRepository
	idGen       IDGenerator
	retrier     Retrier
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	ledgerRepo LedgerRepository,
	idGen IDGenerator,
	retrier Retrier,
) *LedgerUseCase {
	return &LedgerUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		idGen:       idGen,
		retrier:     retrier,
	}
}

// DebitInput represents input for debiting an account.
type DebitInput struct {
	AccountID   string
	Amount      domain.Credits
	ReferenceID string
}

// Debit decrements the account balance and appends a Pending entry. There is
// deliberately no insufficiency check: the balance may go negative, which is
// preserved current behavior pending product clarification.
func (uc *LedgerUseCase) Debit(ctx context.Context, input DebitInput) (*domain.LedgerEntry, error) {
	var entry *domain.LedgerEntry

	err := uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		entry, err = uc.DebitTx(ctx, tx, input)
		if err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	return entry, nil
}

// DebitTx performs a debit inside an existing transaction.
func (uc *LedgerUseCase) DebitTx(ctx context.Context, tx Transaction, input DebitInput) (*domain.LedgerEntry, error) {
	if input.Amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, input.AccountID)
	if err != nil {
		return nil, err
	}

	if err := account.CanWrite(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	entry := &domain.LedgerEntry{
		ID:            uc.idGen.Generate(),
		FromAccountID: &account.ID,
		Amount:        input.Amount,
		ReferenceID:   input.ReferenceID,
		Status:        domain.EntryStatusPending,
		CreatedAt:     now,
	}

	if err := entry.Validate(); err != nil {
		return nil, err
	}

	if err := uc.ledgerRepo.Create(ctx, tx, entry); err != nil {
		return nil, err
	}

	if err := uc.accountRepo.AdjustBalance(ctx, tx, account.ID, -input.Amount, now); err != nil {
		return nil, err
	}

	return entry, nil
}

// CreditInput represents input for crediting an account.
type CreditInput struct {
	AccountID   string
	Amount      domain.Credits
	ReferenceID string
}

// Credit settles value into an account. When a Pending entry exists for the
// reference it is promoted to Success; otherwise a fresh Success entry is
// written (the payment-webhook path). A reference that already has a Success
// entry fails with ErrAlreadySettled so that redelivered webhooks and
// repeated approval clicks move the balance exactly once.
func (uc *LedgerUseCase) Credit(ctx context.Context, input CreditInput) (*domain.LedgerEntry, error) {
	var entry *domain.LedgerEntry

	err := uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		entry, err = uc.CreditTx(ctx, tx, input)
		if err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	return entry, nil
}

// CreditTx performs a credit inside an existing transaction.
func (uc *LedgerUseCase) CreditTx(ctx context.Context, tx Transaction, input CreditInput) (*domain.LedgerEntry, error) {
	if input.Amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, input.AccountID)
	if err != nil {
		return nil, err
	}

	if err := account.CanWrite(); err != nil {
		return nil, err
	}

	// Idempotency guard: one Success entry per reference. The unique partial
	// index on (reference_id) WHERE status='success' closes the concurrent
	// delivery race at the store level.
	if _, err := uc.ledgerRepo.GetSettledByReference(ctx, tx, input.ReferenceID); err == nil {
		return nil, domain.ErrAlreadySettled
	} else if !errors.Is(err, domain.ErrEntryNotFound) {
		return nil, err
	}

	now := time.Now().UTC()

	pending, err := uc.ledgerRepo.GetPendingByReferenceForUpdate(ctx, tx, input.ReferenceID)
	switch {
	case err == nil:
		if pending.Amount != input.Amount {
			if err := uc.ledgerRepo.UpdateAmount(ctx, tx, pending.ID, input.Amount); err != nil {
				return nil, err
			}

			pending.Amount = input.Amount
		}

		if err := uc.ledgerRepo.Settle(ctx, tx, pending.ID, account.ID, now); err != nil {
			return nil, err
		}

		pending.ToAccountID = &account.ID
		pending.Status = domain.EntryStatusSuccess
		pending.SettledAt = &now

		if err := uc.accountRepo.AdjustBalance(ctx, tx, account.ID, input.Amount, now); err != nil {
			return nil, err
		}

		return pending, nil

	case errors.Is(err, domain.ErrEntryNotFound):
		entry := &domain.LedgerEntry{
			ID:          uc.idGen.Generate(),
			ToAccountID: &account.ID,
			Amount:      input.Amount,
			ReferenceID: input.ReferenceID,
			Status:      domain.EntryStatusSuccess,
			CreatedAt:   now,
			SettledAt:   &now,
		}

		if err := entry.Validate(); err != nil {
			return nil, err
		}

		if err := uc.ledgerRepo.Create(ctx, tx, entry); err != nil {
			return nil, err
		}

		if err := uc.accountRepo.AdjustBalance(ctx, tx, account.ID, input.Amount, now); err != nil {
			return nil, err
		}

		return entry, nil

	default:
		return nil, err
	}
}

// MarkFailed transitions the reference's Pending entry to Failed without
// moving any balance.
func (uc *LedgerUseCase) MarkFailed(ctx context.Context, referenceID string) error {
	return uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		if err := uc.MarkFailedTx(ctx, tx, referenceID); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
}

// MarkFailedTx performs MarkFailed inside an existing transaction.
func (uc *LedgerUseCase) MarkFailedTx(ctx context.Context, tx Transaction, referenceID string) error {
	pending, err := uc.ledgerRepo.GetPendingByReferenceForUpdate(ctx, tx, referenceID)
	if err != nil {
		return err
	}

	return uc.ledgerRepo.UpdateStatus(ctx, tx, pending.ID, domain.EntryStatusFailed, nil)
}

// AdjustPendingDebitTx updates a Pending debit to a new amount and moves the
// debited account's balance by the difference, in the caller's transaction.
// Used when a booking edit changes the derived price before settlement.
func (uc *LedgerUseCase) AdjustPendingDebitTx(ctx context.Context, tx Transaction, referenceID string, amount domain.Credits) (*domain.LedgerEntry, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	pending, err := uc.ledgerRepo.GetPendingByReferenceForUpdate(ctx, tx, referenceID)
	if err != nil {
		return nil, err
	}

	delta := amount - pending.Amount
	if delta == 0 {
		return pending, nil
	}

	if err := uc.ledgerRepo.UpdateAmount(ctx, tx, pending.ID, amount); err != nil {
		return nil, err
	}

	if pending.FromAccountID != nil {
		now := time.Now().UTC()
		if err := uc.accountRepo.AdjustBalance(ctx, tx, *pending.FromAccountID, -delta, now); err != nil {
			return nil, err
		}
	}

	pending.Amount = amount

	return pending, nil
}

// GetEntriesByAccountInput represents input for listing entries.
type GetEntriesByAccountInput struct {
	AccountID string
	Limit     int
	Offset    int
}

// GetEntriesByAccount lists entries for an account.
func (uc *LedgerUseCase) GetEntriesByAccount(ctx context.Context, input GetEntriesByAccountInput) ([]*domain.LedgerEntry, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	return uc.ledgerRepo.ListByAccount(ctx, input.AccountID, limit, offset)
}

// GetEntriesByReference lists all entries recorded for a reference.
func (uc *LedgerUseCase) GetEntriesByReference(ctx context.Context, referenceID string) ([]*domain.LedgerEntry, error) {
	return uc.ledgerRepo.GetByReference(ctx, referenceID)
}
