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

const timeEntryColumns = `id, worker_account_id, store_id, clock_in, clock_out,
	lunch_start, lunch_end, clock_in_lat, clock_in_lng,
	clock_out_lat, clock_out_lng, created_at, updated_at`

// TimeEntryRepository implements usecase.TimeEntryRepository.
type TimeEntryRepository struct {
	pool *pgxpool.Pool
}

// NewTimeEntryRepository creates a new TimeEntryRepository.
func NewTimeEntryRepository(pool *pgxpool.Pool) *TimeEntryRepository {
	return &TimeEntryRepository{pool: pool}
}

// Create creates a new time entry within a transaction.
func (r *TimeEntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.TimeEntry) error {
	var outLat, outLng *float64
	if entry.ClockOutGeo != nil {
		outLat = &entry.ClockOutGeo.Latitude
		outLng = &entry.ClockOutGeo.Longitude
	}

	_, err := txQuerier(tx, r.pool).Exec(ctx, `
		INSERT INTO time_entries (`+timeEntryColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		entry.ID,
		entry.WorkerAccountID,
		entry.StoreID,
		entry.ClockIn,
		entry.ClockOut,
		entry.LunchStart,
		entry.LunchEnd,
		entry.ClockInGeo.Latitude,
		entry.ClockInGeo.Longitude,
		outLat,
		outLng,
		entry.CreatedAt,
		entry.UpdatedAt,
	)

	return err
}

// GetOpenForUpdate locks the worker's open entry. The partial unique index
// on worker_account_id WHERE clock_out IS NULL guarantees at most one row.
func (r *TimeEntryRepository) GetOpenForUpdate(ctx context.Context, tx usecase.Transaction, workerAccountID string) (*domain.TimeEntry, error) {
	row := txQuerier(tx, r.pool).QueryRow(ctx, `
		SELECT `+timeEntryColumns+`
		FROM time_entries
		WHERE worker_account_id = $1 AND clock_out IS NULL
		FOR UPDATE`, workerAccountID)

	entry, err := scanTimeEntry(row)
	if err != nil {
		if errors.Is(err, domain.ErrTimeEntryNotFound) {
			return nil, domain.ErrNoOpenEntry
		}
		return nil, err
	}

	return entry, nil
}

// HasClockInSince reports whether the worker recorded a clock-in after the
// given instant.
func (r *TimeEntryRepository) HasClockInSince(ctx context.Context, tx usecase.Transaction, workerAccountID string, since time.Time) (bool, error) {
	var exists bool

	err := txQuerier(tx, r.pool).QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM time_entries
			WHERE worker_account_id = $1 AND clock_in >= $2
		)`, workerAccountID, since).Scan(&exists)

	return exists, err
}

// HasClockOutSince reports whether the worker recorded a clock-out after the
// given instant.
func (r *TimeEntryRepository) HasClockOutSince(ctx context.Context, tx usecase.Transaction, workerAccountID string, since time.Time) (bool, error) {
	var exists bool

	err := txQuerier(tx, r.pool).QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM time_entries
			WHERE worker_account_id = $1 AND clock_out >= $2
		)`, workerAccountID, since).Scan(&exists)

	return exists, err
}

// Update persists the full entry record.
func (r *TimeEntryRepository) Update(ctx context.Context, tx usecase.Transaction, entry *domain.TimeEntry) error {
	var outLat, outLng *float64
	if entry.ClockOutGeo != nil {
		outLat = &entry.ClockOutGeo.Latitude
		outLng = &entry.ClockOutGeo.Longitude
	}

	tag, err := txQuerier(tx, r.pool).Exec(ctx, `
		UPDATE time_entries
		SET clock_out = $2,
		    lunch_start = $3,
		    lunch_end = $4,
		    clock_out_lat = $5,
		    clock_out_lng = $6,
		    updated_at = $7
		WHERE id = $1`,
		entry.ID,
		entry.ClockOut,
		entry.LunchStart,
		entry.LunchEnd,
		outLat,
		outLng,
		entry.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrTimeEntryNotFound
	}

	return nil
}

// ListForRange retrieves a worker's entries with a clock-in inside
// [from, to), oldest first. An empty storeID matches all stores.
func (r *TimeEntryRepository) ListForRange(ctx context.Context, workerAccountID, storeID string, from, to time.Time) ([]*domain.TimeEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+timeEntryColumns+`
		FROM time_entries
		WHERE worker_account_id = $1
		  AND ($2 = '' OR store_id = $2)
		  AND clock_in >= $3 AND clock_in < $4
		ORDER BY clock_in`,
		workerAccountID, storeID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.TimeEntry
	for rows.Next() {
		entry, err := scanTimeEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func scanTimeEntry(row pgx.Row) (*domain.TimeEntry, error) {
	var (
		entry          domain.TimeEntry
		outLat, outLng *float64
	)

	err := row.Scan(
		&entry.ID,
		&entry.WorkerAccountID,
		&entry.StoreID,
		&entry.ClockIn,
		&entry.ClockOut,
		&entry.LunchStart,
		&entry.LunchEnd,
		&entry.ClockInGeo.Latitude,
		&entry.ClockInGeo.Longitude,
		&outLat,
		&outLng,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTimeEntryNotFound
		}
		return nil, err
	}

	if outLat != nil && outLng != nil {
		entry.ClockOutGeo = &domain.Geo{Latitude: *outLat, Longitude: *outLng}
	}

	return &entry, nil
}
