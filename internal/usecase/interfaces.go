package usecase

import (
	"context"
	"time"

	"github.com/iho/kosherbill/internal/domain"
)

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	CreateTx(ctx context.Context, tx Transaction, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByUserID(ctx context.Context, userID string) (*domain.Account, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Account, error)
	// AdjustBalance applies an atomic balance increment/decrement in the
	// store, never a read-then-write of a cached balance.
	AdjustBalance(ctx context.Context, tx Transaction, id string, delta domain.Credits, updatedAt time.Time) error
	SetWritesBlocked(ctx context.Context, id string, blocked bool, updatedAt time.Time) error
	SetDisabled(ctx context.Context, id string, disabled bool, updatedAt time.Time) error
	List(ctx context.Context, limit, offset int) ([]*domain.Account, error)
}

// LedgerRepository defines data access for ledger entries.
type LedgerRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.LedgerEntry) error
	GetByID(ctx context.Context, id string) (*domain.LedgerEntry, error)
	GetByReference(ctx context.Context, referenceID string) ([]*domain.LedgerEntry, error)
	// GetSettledByReference returns the Success entry for a reference inside
	// the current transaction, or domain.ErrEntryNotFound.
	GetSettledByReference(ctx context.Context, tx Transaction, referenceID string) (*domain.LedgerEntry, error)
	// GetPendingByReferenceForUpdate locks the Pending entry for a reference.
	GetPendingByReferenceForUpdate(ctx context.Context, tx Transaction, referenceID string) (*domain.LedgerEntry, error)
	UpdateStatus(ctx context.Context, tx Transaction, id string, status domain.EntryStatus, settledAt *time.Time) error
	// Settle promotes an entry to Success and records the receiving account.
	Settle(ctx context.Context, tx Transaction, id, toAccountID string, settledAt time.Time) error
	UpdateAmount(ctx context.Context, tx Transaction, id string, amount domain.Credits) error
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.LedgerEntry, error)
	// SumEffects recomputes an account balance from the full entry history.
	SumEffects(ctx context.Context, accountID string) (domain.Credits, error)
}

// BookingRepository defines data access for service bookings.
type BookingRepository interface {
	Create(ctx context.Context, tx Transaction, booking *domain.ServiceBooking) error
	GetByID(ctx context.Context, id string) (*domain.ServiceBooking, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.ServiceBooking, error)
	// Update persists the full derived record in one typed write.
	Update(ctx context.Context, tx Transaction, booking *domain.ServiceBooking) error
	ListByClient(ctx context.Context, clientAccountID string, limit, offset int) ([]*domain.ServiceBooking, error)
	List(ctx context.Context, limit, offset int) ([]*domain.ServiceBooking, error)
}

// TimeEntryRepository defines data access for clock entries.
type TimeEntryRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.TimeEntry) error
	// GetOpenForUpdate locks the worker's open entry, or returns
	// domain.ErrNoOpenEntry.
	GetOpenForUpdate(ctx context.Context, tx Transaction, workerAccountID string) (*domain.TimeEntry, error)
	HasClockInSince(ctx context.Context, tx Transaction, workerAccountID string, since time.Time) (bool, error)
	HasClockOutSince(ctx context.Context, tx Transaction, workerAccountID string, since time.Time) (bool, error)
	Update(ctx context.Context, tx Transaction, entry *domain.TimeEntry) error
	ListForRange(ctx context.Context, workerAccountID, storeID string, from, to time.Time) ([]*domain.TimeEntry, error)
}

// AssignmentRepository defines data access for fixed assignments.
type AssignmentRepository interface {
	Create(ctx context.Context, assignment *domain.FixedAssignment) error
	GetByID(ctx context.Context, id string) (*domain.FixedAssignment, error)
	// GetActive returns the worker's active assignment for a store, or
	// domain.ErrAssignmentNotFound.
	GetActive(ctx context.Context, workerAccountID, storeID string) (*domain.FixedAssignment, error)
	ListActiveForWorker(ctx context.Context, workerAccountID string) ([]*domain.FixedAssignment, error)
	SoftDelete(ctx context.Context, id string, deletedAt time.Time) error
}

// ReportRepository defines the read-side aggregation queries.
type ReportRepository interface {
	// SettledTotals sums Success credits into platform accounts (revenue)
	// and into worker accounts (expense) over [from, to).
	SettledTotals(ctx context.Context, from, to time.Time) (revenue, expense domain.Credits, err error)
	BookingCounts(ctx context.Context, from, to time.Time) (pending, settled int, err error)
	BookingDailySeries(ctx context.Context, from, to time.Time) ([]DailyBucket, error)
	TimeEntryDailySeries(ctx context.Context, from, to time.Time) ([]DailyBucket, error)
}

// UserRepository defines data access for users.
type UserRepository interface {
	Create(ctx context.Context, tx Transaction, user *domain.User, passwordHash string) error
	GetByEmail(ctx context.Context, email string) (*domain.User, string, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// OutboxRepository defines data access for outbox notification events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// AuditRepository defines data access for audit logs.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	CreateTx(ctx context.Context, tx Transaction, log *domain.AuditLog) error
	List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
	GetByResourceID(ctx context.Context, resourceType, resourceID string) ([]*domain.AuditLog, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier retries an operation on transient store failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

// PaymentVerifier checks a checkout session against the payment provider.
// Implementations must use a bounded timeout and surface failure as
// domain.ErrUpstreamUnavailable rather than hanging the request.
type PaymentVerifier interface {
	Verify(ctx context.Context, sessionID string) error
}
