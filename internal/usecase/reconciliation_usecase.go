package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/iho/kosherbill/internal/domain"
)

// ReconciliationUseCase verifies that each account's materialized balance
// still equals the balance recomputed from its full entry history.
type ReconciliationUseCase struct {
	accountRepo AccountRepository
	ledgerRepo  LedgerRepository
}

// NewReconciliationUseCase creates a new reconciliation use case.
func NewReconciliationUseCase(accountRepo AccountRepository, ledgerRepo LedgerRepository) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
	}
}

// ReconciliationResult represents the result of a reconciliation check.
type ReconciliationResult struct {
	AccountID         string
	RecordedBalance   domain.Credits
	CalculatedBalance domain.Credits
	Difference        domain.Credits
	IsReconciled      bool
	LastChecked       time.Time
}

// ReconcileAccount recomputes an account balance from the ledger and compares
// it to the stored projection. A mismatch blocks further ledger writes on the
// account until an operator clears it; the returned error must page, never be
// silently ignored.
func (uc *ReconciliationUseCase) ReconcileAccount(ctx context.Context, accountID string) (*ReconciliationResult, error) {
	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	calculated, err := uc.ledgerRepo.SumEffects(ctx, accountID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	result := &ReconciliationResult{
		AccountID:         accountID,
		RecordedBalance:   account.Balance,
		CalculatedBalance: calculated,
		Difference:        account.Balance - calculated,
		IsReconciled:      account.Balance == calculated,
		LastChecked:       now,
	}

	if !result.IsReconciled {
		if err := uc.accountRepo.SetWritesBlocked(ctx, accountID, true, now); err != nil {
			return result, err
		}

		return result, fmt.Errorf("%w: account %s recorded=%s calculated=%s",
			domain.ErrReconciliationMismatch, accountID,
			result.RecordedBalance, result.CalculatedBalance)
	}

	return result, nil
}

// UnblockAccount clears the write block after a successful re-check. It
// refuses to unblock while the mismatch persists.
func (uc *ReconciliationUseCase) UnblockAccount(ctx context.Context, accountID string) error {
	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return err
	}

	calculated, err := uc.ledgerRepo.SumEffects(ctx, accountID)
	if err != nil {
		return err
	}

	if account.Balance != calculated {
		return fmt.Errorf("%w: account %s still off by %s",
			domain.ErrReconciliationMismatch, accountID, account.Balance-calculated)
	}

	return uc.accountRepo.SetWritesBlocked(ctx, accountID, false, time.Now().UTC())
}

// ReconciliationReport represents a full reconciliation sweep.
type ReconciliationReport struct {
	TotalAccounts      int
	ReconciledAccounts int
	Discrepancies      []*ReconciliationResult
	CheckedAt          time.Time
}

// ReconcileAllAccounts sweeps every account. Mismatches are collected rather
// than aborting the sweep, so one bad account cannot hide another.
func (uc *ReconciliationUseCase) ReconcileAllAccounts(ctx context.Context) (*ReconciliationReport, error) {
	limit, offset := domain.ValidatePagination(1000, 0)

	report := &ReconciliationReport{
		Discrepancies: make([]*ReconciliationResult, 0),
		CheckedAt:     time.Now().UTC(),
	}

	for {
		accounts, err := uc.accountRepo.List(ctx, limit, offset)
		if err != nil {
			return nil, err
		}

		if len(accounts) == 0 {
			break
		}

		for _, account := range accounts {
			result, err := uc.ReconcileAccount(ctx, account.ID)
			if err != nil && result == nil {
				return nil, fmt.Errorf("failed to reconcile account %s: %w", account.ID, err)
			}

			report.TotalAccounts++
			if result.IsReconciled {
				report.ReconciledAccounts++
			} else {
				report.Discrepancies = append(report.Discrepancies, result)
			}
		}

		offset += limit
	}

	return report, nil
}
