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

const accountColumns = `id, user_id, name, kind, balance, version,
	disabled, disabled_at, writes_blocked, created_at, updated_at`

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

// Create creates a new account.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	return r.insert(ctx, r.pool, account)
}

// CreateTx creates a new account within a transaction.
func (r *AccountRepository) CreateTx(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	return r.insert(ctx, txQuerier(tx, r.pool), account)
}

func (r *AccountRepository) insert(ctx context.Context, q querier, account *domain.Account) error {
	_, err := q.Exec(ctx, `
		INSERT INTO accounts (`+accountColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		account.ID,
		account.UserID,
		account.Name,
		account.Kind,
		account.Balance,
		account.Version,
		account.Disabled,
		account.DisabledAt,
		account.WritesBlocked,
		account.CreatedAt,
		account.UpdatedAt,
	)

	return err
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE id = $1`, id)

	return scanAccount(row)
}

// GetByUserID retrieves the account owned by a user.
func (r *AccountRepository) GetByUserID(ctx context.Context, userID string) (*domain.Account, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE user_id = $1`, userID)

	return scanAccount(row)
}

// GetByIDForUpdate retrieves an account by ID with a row lock.
func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	row := txQuerier(tx, r.pool).QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE id = $1
		FOR UPDATE`, id)

	return scanAccount(row)
}

// AdjustBalance applies a balance delta atomically in the store.
func (r *AccountRepository) AdjustBalance(ctx context.Context, tx usecase.Transaction, id string, delta domain.Credits, updatedAt time.Time) error {
	tag, err := txQuerier(tx, r.pool).Exec(ctx, `
		UPDATE accounts
		SET balance = balance + $2,
		    version = version + 1,
		    updated_at = $3
		WHERE id = $1`,
		id, delta, updatedAt)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

// SetWritesBlocked freezes or unfreezes ledger writes on the account.
func (r *AccountRepository) SetWritesBlocked(ctx context.Context, id string, blocked bool, updatedAt time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE accounts
		SET writes_blocked = $2,
		    version = version + 1,
		    updated_at = $3
		WHERE id = $1`,
		id, blocked, updatedAt)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

// SetDisabled soft-disables or re-enables the account.
func (r *AccountRepository) SetDisabled(ctx context.Context, id string, disabled bool, updatedAt time.Time) error {
	var disabledAt *time.Time
	if disabled {
		disabledAt = &updatedAt
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE accounts
		SET disabled = $2,
		    disabled_at = $3,
		    version = version + 1,
		    updated_at = $4
		WHERE id = $1`,
		id, disabled, disabledAt, updatedAt)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

// List retrieves accounts with pagination.
func (r *AccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		ORDER BY created_at
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var account domain.Account

	err := row.Scan(
		&account.ID,
		&account.UserID,
		&account.Name,
		&account.Kind,
		&account.Balance,
		&account.Version,
		&account.Disabled,
		&account.DisabledAt,
		&account.WritesBlocked,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}

	return &account, nil
}
