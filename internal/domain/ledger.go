package domain

import "time"

// EntryStatus is the settlement state of a ledger entry.
type EntryStatus string

const (
	EntryStatusPending EntryStatus = "pending"
	EntryStatusSuccess EntryStatus = "success"
	EntryStatusFailed  EntryStatus = "failed"
)

// LedgerEntry is an immutable record of one value movement. The entry log is
// the source of truth; account balances are a materialized projection of it.
// A debit entry carries FromAccountID, a credit entry carries ToAccountID.
type LedgerEntry struct {
	ID            string
	FromAccountID *string
	ToAccountID   *string
	Amount        Credits
	ReferenceID   string
	Status        EntryStatus
	CreatedAt     time.Time
	SettledAt     *time.Time
}

// Validate checks entry invariants before persistence.
func (e *LedgerEntry) Validate() error {
	if e.Amount <= 0 {
		return ErrInvalidAmount
	}

	if e.FromAccountID == nil && e.ToAccountID == nil {
		return ErrAccountNotFound
	}

	return nil
}

// Effect returns the signed balance effect of this entry on accountID,
// mirroring how the ledger actually moves balances: a debit takes effect
// when the entry is written regardless of later status transitions, a
// credit takes effect only once settled.
func (e *LedgerEntry) Effect(accountID string) Credits {
	var effect Credits

	if e.FromAccountID != nil && *e.FromAccountID == accountID {
		effect -= e.Amount
	}

	if e.ToAccountID != nil && *e.ToAccountID == accountID && e.Status == EntryStatusSuccess {
		effect += e.Amount
	}

	return effect
}
