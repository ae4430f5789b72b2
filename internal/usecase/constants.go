package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// DuplicateTapWindow is how long after a clock event an identical event
	// is treated as an accidental double tap.
	DuplicateTapWindow = 2 * time.Hour

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// MaxWorkedHoursPerDay clamps a single entry's worked hours.
	MaxWorkedHoursPerDay = 24.0

	// ReportCacheTTL is how long aggregated report summaries stay cached.
	ReportCacheTTL = 5 * time.Minute

	// PaymentVerifyTimeout bounds the upstream payment-provider check so a
	// slow provider cannot hold the webhook request open.
	PaymentVerifyTimeout = 5 * time.Second
)
