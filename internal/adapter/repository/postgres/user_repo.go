package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/kosherbill/internal/domain"
	"github.com/iho/kosherbill/internal/usecase"
)

// UserRepository implements usecase.UserRepository.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create creates a new user within a transaction.
func (r *UserRepository) Create(ctx context.Context, tx usecase.Transaction, user *domain.User, passwordHash string) error {
	_, err := txQuerier(tx, r.pool).Exec(ctx, `
		INSERT INTO users (id, email, name, role, account_id, password_hash,
			active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		user.ID,
		user.Email,
		user.Name,
		user.Role,
		user.AccountID,
		passwordHash,
		user.Active,
		user.CreatedAt,
		user.UpdatedAt,
	)

	return err
}

// GetByEmail retrieves a user and its password hash by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, string, error) {
	var (
		user domain.User
		hash string
	)

	err := r.pool.QueryRow(ctx, `
		SELECT id, email, name, role, account_id, password_hash,
			active, created_at, updated_at
		FROM users
		WHERE email = $1`, email).Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.Role,
		&user.AccountID,
		&hash,
		&user.Active,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", domain.ErrUserNotFound
		}
		return nil, "", err
	}

	return &user, hash, nil
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User

	err := r.pool.QueryRow(ctx, `
		SELECT id, email, name, role, account_id,
			active, created_at, updated_at
		FROM users
		WHERE id = $1`, id).Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.Role,
		&user.AccountID,
		&user.Active,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	return &user, nil
}
