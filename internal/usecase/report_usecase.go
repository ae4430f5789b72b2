package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/iho/kosherbill/internal/domain"
)

// Scope selects which side of the workforce a summary covers.
type Scope string

const (
	// ScopeFixed covers fixed-assignment workers and their clock entries.
	ScopeFixed Scope = "fixed"
	// ScopeFreelance covers per-booking work.
	ScopeFreelance Scope = "freelance"
	// ScopeAll covers both.
	ScopeAll Scope = "all"
)

// Valid reports whether the scope is one of the known values.
func (s Scope) Valid() bool {
	switch s {
	case ScopeFixed, ScopeFreelance, ScopeAll:
		return true
	}

	return false
}

// DailyBucket is one day of an aggregated series.
type DailyBucket struct {
	Date   time.Time      `json:"date"`
	Count  int            `json:"count"`
	Amount domain.Credits `json:"amount"`
	Hours  float64        `json:"hours"`
}

// Metrics is the financial summary over a reporting window.
type Metrics struct {
	From            time.Time      `json:"from"`
	To              time.Time      `json:"to"`
	Scope           Scope          `json:"scope"`
	Revenue         domain.Credits `json:"revenue"`
	Expense         domain.Credits `json:"expense"`
	Net             domain.Credits `json:"net"`
	PendingBookings int            `json:"pending_bookings"`
	SettledBookings int            `json:"settled_bookings"`
	Bookings        []DailyBucket  `json:"bookings"`
	TimeEntries     []DailyBucket  `json:"time_entries"`
	GeneratedAt     time.Time      `json:"generated_at"`
}

// ReportUseCase serves aggregated financial metrics. Results are cached
// for a short TTL since the underlying queries scan the full window.
type ReportUseCase struct {
	reportRepo ReportRepository
	cache      Cache
}

// NewReportUseCase creates a new ReportUseCase.
func NewReportUseCase(reportRepo ReportRepository, cache Cache) *ReportUseCase {
	return &ReportUseCase{
		reportRepo: reportRepo,
		cache:      cache,
	}
}

// SummarizeInput represents a reporting window and scope.
type SummarizeInput struct {
	From  time.Time
	To    time.Time
	Scope Scope
}

// Summarize computes revenue, expense and daily activity series over
// [from, to). Revenue is settled credits into platform accounts; expense is
// settled credits into worker accounts. Scope gates which series are
// computed: freelance covers bookings, fixed covers clock entries. Cache
// failures fall through to the store, never to the caller.
func (uc *ReportUseCase) Summarize(ctx context.Context, input SummarizeInput) (*Metrics, error) {
	if !input.From.Before(input.To) {
		return nil, domain.ErrInvalidInterval
	}

	if input.Scope == "" {
		input.Scope = ScopeAll
	}

	if !input.Scope.Valid() {
		return nil, fmt.Errorf("%w: unknown scope %q", domain.ErrInvalidInterval, input.Scope)
	}

	key := cacheKey(input.From, input.To, input.Scope)

	if cached, err := uc.cache.Get(ctx, key); err == nil && len(cached) > 0 {
		var metrics Metrics
		if err := json.Unmarshal(cached, &metrics); err == nil {
			return &metrics, nil
		}
	}

	metrics := &Metrics{
		From:        input.From,
		To:          input.To,
		Scope:       input.Scope,
		GeneratedAt: time.Now().UTC(),
	}

	revenue, expense, err := uc.reportRepo.SettledTotals(ctx, input.From, input.To)
	if err != nil {
		return nil, err
	}

	metrics.Revenue = revenue
	metrics.Expense = expense
	metrics.Net = revenue - expense

	if input.Scope == ScopeFreelance || input.Scope == ScopeAll {
		pending, settled, err := uc.reportRepo.BookingCounts(ctx, input.From, input.To)
		if err != nil {
			return nil, err
		}

		metrics.PendingBookings = pending
		metrics.SettledBookings = settled

		metrics.Bookings, err = uc.reportRepo.BookingDailySeries(ctx, input.From, input.To)
		if err != nil {
			return nil, err
		}
	}

	if input.Scope == ScopeFixed || input.Scope == ScopeAll {
		metrics.TimeEntries, err = uc.reportRepo.TimeEntryDailySeries(ctx, input.From, input.To)
		if err != nil {
			return nil, err
		}
	}

	if payload, err := json.Marshal(metrics); err == nil {
		_ = uc.cache.Set(ctx, key, payload, ReportCacheTTL)
	}

	return metrics, nil
}

// Invalidate drops the cached summaries for a window after settlement
// activity so the next read reflects the new totals.
func (uc *ReportUseCase) Invalidate(ctx context.Context, from, to time.Time) error {
	for _, scope := range []Scope{ScopeFixed, ScopeFreelance, ScopeAll} {
		if err := uc.cache.Delete(ctx, cacheKey(from, to, scope)); err != nil {
			return err
		}
	}

	return nil
}

func cacheKey(from, to time.Time, scope Scope) string {
	return fmt.Sprintf("reports:summary:%s:%d:%d", scope, from.Unix(), to.Unix())
}
