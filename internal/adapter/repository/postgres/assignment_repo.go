package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/kosherbill/internal/domain"
)

const assignmentColumns = `id, worker_account_id, store_id, hourly_rate,
	deleted_at, created_at, updated_at`

// AssignmentRepository implements usecase.AssignmentRepository.
type AssignmentRepository struct {
	pool *pgxpool.Pool
}

// NewAssignmentRepository creates a new AssignmentRepository.
func NewAssignmentRepository(pool *pgxpool.Pool) *AssignmentRepository {
	return &AssignmentRepository{pool: pool}
}

// Create creates a new fixed assignment.
func (r *AssignmentRepository) Create(ctx context.Context, assignment *domain.FixedAssignment) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO fixed_assignments (`+assignmentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		assignment.ID,
		assignment.WorkerAccountID,
		assignment.StoreID,
		assignment.HourlyRate,
		assignment.DeletedAt,
		assignment.CreatedAt,
		assignment.UpdatedAt,
	)

	return err
}

// GetByID retrieves an assignment by ID, including ended ones.
func (r *AssignmentRepository) GetByID(ctx context.Context, id string) (*domain.FixedAssignment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+assignmentColumns+`
		FROM fixed_assignments
		WHERE id = $1`, id)

	return scanAssignment(row)
}

// GetActive returns the worker's active assignment for a store.
func (r *AssignmentRepository) GetActive(ctx context.Context, workerAccountID, storeID string) (*domain.FixedAssignment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+assignmentColumns+`
		FROM fixed_assignments
		WHERE worker_account_id = $1 AND store_id = $2 AND deleted_at IS NULL`,
		workerAccountID, storeID)

	return scanAssignment(row)
}

// ListActiveForWorker retrieves all of the worker's active assignments.
func (r *AssignmentRepository) ListActiveForWorker(ctx context.Context, workerAccountID string) ([]*domain.FixedAssignment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+assignmentColumns+`
		FROM fixed_assignments
		WHERE worker_account_id = $1 AND deleted_at IS NULL
		ORDER BY created_at`, workerAccountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []*domain.FixedAssignment
	for rows.Next() {
		assignment, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, assignment)
	}

	return assignments, rows.Err()
}

// SoftDelete ends an assignment. The row survives for historical rate
// lookups in monthly reports.
func (r *AssignmentRepository) SoftDelete(ctx context.Context, id string, deletedAt time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE fixed_assignments
		SET deleted_at = $2, updated_at = $2
		WHERE id = $1 AND deleted_at IS NULL`,
		id, deletedAt)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrAssignmentNotFound
	}

	return nil
}

func scanAssignment(row pgx.Row) (*domain.FixedAssignment, error) {
	var assignment domain.FixedAssignment

	err := row.Scan(
		&assignment.ID,
		&assignment.WorkerAccountID,
		&assignment.StoreID,
		&assignment.HourlyRate,
		&assignment.DeletedAt,
		&assignment.CreatedAt,
		&assignment.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAssignmentNotFound
		}
		return nil, err
	}

	return &assignment, nil
}
