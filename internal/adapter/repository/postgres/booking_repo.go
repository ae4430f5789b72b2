package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/kosherbill/internal/domain"
	"github.com/iho/kosherbill/internal/usecase"
)

const bookingColumns = `id, client_account_id, worker_account_id, store_id,
	planned_start, planned_end, actual_arrival, actual_departure,
	day_rate, night_rate, transport_fee, price, payment_status,
	deleted_at, created_at, updated_at`

// BookingRepository implements usecase.BookingRepository.
type BookingRepository struct {
	pool *pgxpool.Pool
}

// NewBookingRepository creates a new BookingRepository.
func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{pool: pool}
}

// Create creates a new booking within a transaction.
func (r *BookingRepository) Create(ctx context.Context, tx usecase.Transaction, booking *domain.ServiceBooking) error {
	_, err := txQuerier(tx, r.pool).Exec(ctx, `
		INSERT INTO service_bookings (`+bookingColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		booking.ID,
		booking.ClientAccountID,
		booking.WorkerAccountID,
		booking.StoreID,
		booking.PlannedStart,
		booking.PlannedEnd,
		booking.ActualArrival,
		booking.ActualDeparture,
		booking.DayRate,
		booking.NightRate,
		booking.TransportFee,
		booking.Price,
		booking.PaymentStatus,
		booking.DeletedAt,
		booking.CreatedAt,
		booking.UpdatedAt,
	)

	return err
}

// GetByID retrieves a booking by ID.
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.ServiceBooking, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+bookingColumns+`
		FROM service_bookings
		WHERE id = $1`, id)

	return scanBooking(row)
}

// GetByIDForUpdate retrieves a booking by ID with a row lock.
func (r *BookingRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.ServiceBooking, error) {
	row := txQuerier(tx, r.pool).QueryRow(ctx, `
		SELECT `+bookingColumns+`
		FROM service_bookings
		WHERE id = $1
		FOR UPDATE`, id)

	return scanBooking(row)
}

// Update persists the full derived record in one typed write.
func (r *BookingRepository) Update(ctx context.Context, tx usecase.Transaction, booking *domain.ServiceBooking) error {
	tag, err := txQuerier(tx, r.pool).Exec(ctx, `
		UPDATE service_bookings
		SET worker_account_id = $2,
		    planned_start = $3,
		    planned_end = $4,
		    actual_arrival = $5,
		    actual_departure = $6,
		    day_rate = $7,
		    night_rate = $8,
		    transport_fee = $9,
		    price = $10,
		    payment_status = $11,
		    deleted_at = $12,
		    updated_at = $13
		WHERE id = $1`,
		booking.ID,
		booking.WorkerAccountID,
		booking.PlannedStart,
		booking.PlannedEnd,
		booking.ActualArrival,
		booking.ActualDeparture,
		booking.DayRate,
		booking.NightRate,
		booking.TransportFee,
		booking.Price,
		booking.PaymentStatus,
		booking.DeletedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrBookingNotFound
	}

	return nil
}

// ListByClient retrieves a client's bookings, newest first. Tombstoned
// bookings are excluded.
func (r *BookingRepository) ListByClient(ctx context.Context, clientAccountID string, limit, offset int) ([]*domain.ServiceBooking, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+bookingColumns+`
		FROM service_bookings
		WHERE client_account_id = $1 AND deleted_at IS NULL
		ORDER BY planned_start DESC
		LIMIT $2 OFFSET $3`,
		clientAccountID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectBookings(rows)
}

// List retrieves bookings with pagination, excluding tombstoned rows.
func (r *BookingRepository) List(ctx context.Context, limit, offset int) ([]*domain.ServiceBooking, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+bookingColumns+`
		FROM service_bookings
		WHERE deleted_at IS NULL
		ORDER BY planned_start DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectBookings(rows)
}

func scanBooking(row pgx.Row) (*domain.ServiceBooking, error) {
	var booking domain.ServiceBooking

	err := row.Scan(
		&booking.ID,
		&booking.ClientAccountID,
		&booking.WorkerAccountID,
		&booking.StoreID,
		&booking.PlannedStart,
		&booking.PlannedEnd,
		&booking.ActualArrival,
		&booking.ActualDeparture,
		&booking.DayRate,
		&booking.NightRate,
		&booking.TransportFee,
		&booking.Price,
		&booking.PaymentStatus,
		&booking.DeletedAt,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, err
	}

	return &booking, nil
}

func collectBookings(rows pgx.Rows) ([]*domain.ServiceBooking, error) {
	var bookings []*domain.ServiceBooking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}

	return bookings, rows.Err()
}
