package domain

import "time"

// AccountKind classifies the participant behind an account.
type AccountKind string

const (
	// AccountKindClient is an establishment paying for inspections.
	AccountKindClient AccountKind = "client"
	// AccountKindWorker is a mashgiach receiving payment for work.
	AccountKindWorker AccountKind = "worker"
	// AccountKindPlatform collects platform revenue.
	AccountKindPlatform AccountKind = "platform"
)

// Account holds a participant's credit balance. Balances are mutated only
// through ledger operations; accounts are soft-disabled, never deleted.
type Account struct {
	ID            string
	UserID        string
	Name          string
	Kind          AccountKind
	Balance       Credits
	Version       int64
	Disabled      bool
	DisabledAt    *time.Time
	WritesBlocked bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CanWrite reports whether ledger mutations may touch this account.
// Writes are refused on disabled accounts and on accounts frozen by a
// reconciliation mismatch until an operator clears the block.
func (a *Account) CanWrite() error {
	if a.Disabled {
		return ErrAccountDisabled
	}

	if a.WritesBlocked {
		return ErrAccountWritesBlocked
	}

	return nil
}
