package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/kosherbill/internal/domain"
	"github.com/iho/kosherbill/internal/usecase"
)

// ReportRepository implements usecase.ReportRepository with read-side
// aggregation queries. All windows are half-open [from, to).
type ReportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository creates a new ReportRepository.
func NewReportRepository(pool *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{pool: pool}
}

// SettledTotals sums Success credits into platform accounts (revenue) and
// into worker accounts (expense) over the window, bucketed by settlement
// time.
func (r *ReportRepository) SettledTotals(ctx context.Context, from, to time.Time) (domain.Credits, domain.Credits, error) {
	var revenue, expense domain.Credits

	err := r.pool.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN a.kind = $3 THEN e.amount ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN a.kind = $4 THEN e.amount ELSE 0 END), 0)
		FROM ledger_entries e
		JOIN accounts a ON a.id = e.to_account_id
		WHERE e.status = $5
		  AND e.settled_at >= $1 AND e.settled_at < $2`,
		from, to,
		domain.AccountKindPlatform, domain.AccountKindWorker,
		domain.EntryStatusSuccess,
	).Scan(&revenue, &expense)
	if err != nil {
		return 0, 0, err
	}

	return revenue, expense, nil
}

// BookingCounts counts pending and settled bookings planned inside the
// window. Tombstoned bookings are excluded.
func (r *ReportRepository) BookingCounts(ctx context.Context, from, to time.Time) (int, int, error) {
	var pending, settled int

	err := r.pool.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE payment_status = $3),
			COUNT(*) FILTER (WHERE payment_status = $4)
		FROM service_bookings
		WHERE deleted_at IS NULL
		  AND planned_start >= $1 AND planned_start < $2`,
		from, to,
		domain.PaymentStatusPending, domain.PaymentStatusSuccess,
	).Scan(&pending, &settled)
	if err != nil {
		return 0, 0, err
	}

	return pending, settled, nil
}

// BookingDailySeries buckets bookings by planned day with their priced
// volume.
func (r *ReportRepository) BookingDailySeries(ctx context.Context, from, to time.Time) ([]usecase.DailyBucket, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT date_trunc('day', planned_start), COUNT(*), COALESCE(SUM(price), 0)
		FROM service_bookings
		WHERE deleted_at IS NULL
		  AND planned_start >= $1 AND planned_start < $2
		GROUP BY 1
		ORDER BY 1`,
		from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var buckets []usecase.DailyBucket
	for rows.Next() {
		var bucket usecase.DailyBucket
		if err := rows.Scan(&bucket.Date, &bucket.Count, &bucket.Amount); err != nil {
			return nil, err
		}
		buckets = append(buckets, bucket)
	}

	return buckets, rows.Err()
}

// TimeEntryDailySeries buckets clock entries by clock-in day. Every entry in
// the window counts toward the bucket's occurrences; hours accrue only for
// closed entries, net of lunch and clamped to [0, 24] per entry.
func (r *ReportRepository) TimeEntryDailySeries(ctx context.Context, from, to time.Time) ([]usecase.DailyBucket, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT date_trunc('day', clock_in), COUNT(*),
			COALESCE(SUM(CASE WHEN clock_out IS NULL THEN 0 ELSE
				LEAST(GREATEST(
					EXTRACT(EPOCH FROM (clock_out - clock_in)
						- COALESCE(lunch_end - lunch_start, interval '0')) / 3600,
				0), 24) END), 0)
		FROM time_entries
		WHERE clock_in >= $1 AND clock_in < $2
		GROUP BY 1
		ORDER BY 1`,
		from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var buckets []usecase.DailyBucket
	for rows.Next() {
		var bucket usecase.DailyBucket
		if err := rows.Scan(&bucket.Date, &bucket.Count, &bucket.Hours); err != nil {
			return nil, err
		}
		buckets = append(buckets, bucket)
	}

	return buckets, rows.Err()
}
