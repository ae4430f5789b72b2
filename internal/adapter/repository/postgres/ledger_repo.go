package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/kosherbill/internal/domain"
	"github.com/iho/kosherbill/internal/usecase"
)

const ledgerColumns = `id, from_account_id, to_account_id, amount,
	reference_id, status, created_at, settled_at`

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	pool *pgxpool.Pool
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

// Create creates a new ledger entry within a transaction.
func (r *LedgerRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error {
	_, err := txQuerier(tx, r.pool).Exec(ctx, `
		INSERT INTO ledger_entries (`+ledgerColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		entry.ID,
		entry.FromAccountID,
		entry.ToAccountID,
		entry.Amount,
		entry.ReferenceID,
		entry.Status,
		entry.CreatedAt,
		entry.SettledAt,
	)

	return err
}

// GetByID retrieves a ledger entry by ID.
func (r *LedgerRepository) GetByID(ctx context.Context, id string) (*domain.LedgerEntry, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+ledgerColumns+`
		FROM ledger_entries
		WHERE id = $1`, id)

	return scanLedgerEntry(row)
}

// GetByReference retrieves all entries recorded for a reference.
func (r *LedgerRepository) GetByReference(ctx context.Context, referenceID string) ([]*domain.LedgerEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+ledgerColumns+`
		FROM ledger_entries
		WHERE reference_id = $1
		ORDER BY created_at`, referenceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectLedgerEntries(rows)
}

// GetSettledByReference retrieves the Success entry for a reference inside
// the current transaction. The partial unique index on reference_id
// guarantees at most one such row.
func (r *LedgerRepository) GetSettledByReference(ctx context.Context, tx usecase.Transaction, referenceID string) (*domain.LedgerEntry, error) {
	row := txQuerier(tx, r.pool).QueryRow(ctx, `
		SELECT `+ledgerColumns+`
		FROM ledger_entries
		WHERE reference_id = $1 AND status = $2`,
		referenceID, domain.EntryStatusSuccess)

	return scanLedgerEntry(row)
}

// GetPendingByReferenceForUpdate locks the Pending entry for a reference.
func (r *LedgerRepository) GetPendingByReferenceForUpdate(ctx context.Context, tx usecase.Transaction, referenceID string) (*domain.LedgerEntry, error) {
	row := txQuerier(tx, r.pool).QueryRow(ctx, `
		SELECT `+ledgerColumns+`
		FROM ledger_entries
		WHERE reference_id = $1 AND status = $2
		ORDER BY created_at
		LIMIT 1
		FOR UPDATE`,
		referenceID, domain.EntryStatusPending)

	return scanLedgerEntry(row)
}

// UpdateStatus updates the status of a ledger entry.
func (r *LedgerRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.EntryStatus, settledAt *time.Time) error {
	tag, err := txQuerier(tx, r.pool).Exec(ctx, `
		UPDATE ledger_entries
		SET status = $2, settled_at = $3
		WHERE id = $1`,
		id, status, settledAt)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrEntryNotFound
	}

	return nil
}

// Settle promotes an entry to Success and records the receiving account.
func (r *LedgerRepository) Settle(ctx context.Context, tx usecase.Transaction, id, toAccountID string, settledAt time.Time) error {
	tag, err := txQuerier(tx, r.pool).Exec(ctx, `
		UPDATE ledger_entries
		SET to_account_id = $2, status = $3, settled_at = $4
		WHERE id = $1`,
		id, toAccountID, domain.EntryStatusSuccess, settledAt)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrEntryNotFound
	}

	return nil
}

// UpdateAmount updates the amount of a pending ledger entry.
func (r *LedgerRepository) UpdateAmount(ctx context.Context, tx usecase.Transaction, id string, amount domain.Credits) error {
	tag, err := txQuerier(tx, r.pool).Exec(ctx, `
		UPDATE ledger_entries
		SET amount = $2
		WHERE id = $1 AND status = $3`,
		id, amount, domain.EntryStatusPending)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrEntryNotFound
	}

	return nil
}

// ListByAccount retrieves entries touching an account, newest first.
func (r *LedgerRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.LedgerEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+ledgerColumns+`
		FROM ledger_entries
		WHERE from_account_id = $1 OR to_account_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`,
		accountID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectLedgerEntries(rows)
}

// SumEffects recomputes an account balance from the full entry history.
// Debits take effect at any status because the balance moves when the entry
// is written; credits take effect only once settled.
func (r *LedgerRepository) SumEffects(ctx context.Context, accountID string) (domain.Credits, error) {
	var sum domain.Credits

	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(
			CASE WHEN from_account_id = $1 THEN -amount ELSE 0 END +
			CASE WHEN to_account_id = $1 AND status = $2 THEN amount ELSE 0 END
		), 0)
		FROM ledger_entries
		WHERE from_account_id = $1 OR to_account_id = $1`,
		accountID, domain.EntryStatusSuccess).Scan(&sum)
	if err != nil {
		return 0, err
	}

	return sum, nil
}

func scanLedgerEntry(row pgx.Row) (*domain.LedgerEntry, error) {
	var entry domain.LedgerEntry

	err := row.Scan(
		&entry.ID,
		&entry.FromAccountID,
		&entry.ToAccountID,
		&entry.Amount,
		&entry.ReferenceID,
		&entry.Status,
		&entry.CreatedAt,
		&entry.SettledAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}
		return nil, err
	}

	return &entry, nil
}

func collectLedgerEntries(rows pgx.Rows) ([]*domain.LedgerEntry, error) {
	var entries []*domain.LedgerEntry
	for rows.Next() {
		entry, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
