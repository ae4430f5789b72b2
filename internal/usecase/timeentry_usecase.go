package usecase

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/iho/kosherbill/internal/billing"
	"github.com/iho/kosherbill/internal/domain"
)

// TimeEntryUseCase tracks clock events for fixed-assignment workers. Per
// worker the states are Idle -> ClockedIn -> (OnLunch -> ClockedIn) -> Idle;
// the duplicate-tap checks run inside the same transaction as the write they
// guard so two concurrent taps cannot both pass.
type TimeEntryUseCase struct {
	txManager      TransactionManager
	timeEntryRepo  TimeEntryRepository
	assignmentRepo AssignmentRepository
	idGen          IDGenerator
	retrier        Retrier
	defaults       billing.Defaults
}

// NewTimeEntryUseCase creates a new TimeEntryUseCase.
func NewTimeEntryUseCase(
	txManager TransactionManager,
	timeEntryRepo TimeEntryRepository,
	assignmentRepo AssignmentRepository,
	idGen IDGenerator,
	retrier Retrier,
	defaults billing.Defaults,
) *TimeEntryUseCase {
	return &TimeEntryUseCase{
		txManager:      txManager,
		timeEntryRepo:  timeEntryRepo,
		assignmentRepo: assignmentRepo,
		idGen:          idGen,
		retrier:        retrier,
		defaults:       defaults,
	}
}

// ClockInInput represents a clock-in event.
type ClockInInput struct {
	WorkerAccountID string
	StoreID         string
	Geo             domain.Geo
}

// ClockIn opens a new time entry. It fails when the worker has no active
// fixed assignment for the store, an entry is still open, or another
// clock-in was recorded within the duplicate window.
func (uc *TimeEntryUseCase) ClockIn(ctx context.Context, input ClockInInput) (*domain.TimeEntry, error) {
	if _, err := uc.assignmentRepo.GetActive(ctx, input.WorkerAccountID, input.StoreID); err != nil {
		if errors.Is(err, domain.ErrAssignmentNotFound) {
			return nil, domain.ErrNoAssignment
		}

		return nil, err
	}

	var entry *domain.TimeEntry

	err := uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		_, err = uc.timeEntryRepo.GetOpenForUpdate(ctx, tx, input.WorkerAccountID)
		if err == nil {
			return domain.ErrDuplicateClockIn
		} else if !errors.Is(err, domain.ErrNoOpenEntry) {
			return err
		}

		now := time.Now().UTC()

		recent, err := uc.timeEntryRepo.HasClockInSince(ctx, tx, input.WorkerAccountID, now.Add(-DuplicateTapWindow))
		if err != nil {
			return err
		}

		if recent {
			return domain.ErrDuplicateClockIn
		}

		entry = &domain.TimeEntry{
			ID:              uc.idGen.Generate(),
			WorkerAccountID: input.WorkerAccountID,
			StoreID:         input.StoreID,
			ClockIn:         now,
			ClockInGeo:      input.Geo,
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		if err := uc.timeEntryRepo.Create(ctx, tx, entry); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	return entry, nil
}

// ClockOutInput represents a clock-out event.
type ClockOutInput struct {
	WorkerAccountID string
	Geo             domain.Geo
}

// ClockOut closes the worker's open entry. A lunch still in progress is
// closed at the clock-out instant so worked hours never go negative.
func (uc *TimeEntryUseCase) ClockOut(ctx context.Context, input ClockOutInput) (*domain.TimeEntry, error) {
	var entry *domain.TimeEntry

	err := uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		entry, err = uc.timeEntryRepo.GetOpenForUpdate(ctx, tx, input.WorkerAccountID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()

		recent, err := uc.timeEntryRepo.HasClockOutSince(ctx, tx, input.WorkerAccountID, now.Add(-DuplicateTapWindow))
		if err != nil {
			return err
		}

		if recent {
			return domain.ErrDuplicateClockOut
		}

		if entry.OnLunch() {
			entry.LunchEnd = &now
		}

		entry.ClockOut = &now
		entry.ClockOutGeo = &input.Geo
		entry.UpdatedAt = now

		if err := uc.timeEntryRepo.Update(ctx, tx, entry); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	return entry, nil
}

// LunchIn records the start of a lunch break on the open entry.
func (uc *TimeEntryUseCase) LunchIn(ctx context.Context, workerAccountID string) (*domain.TimeEntry, error) {
	return uc.updateOpenEntry(ctx, workerAccountID, func(entry *domain.TimeEntry, now time.Time) error {
		if !entry.CanStartLunch() {
			return domain.ErrInvalidTransition
		}

		entry.LunchStart = &now

		return nil
	})
}

// LunchOut records the end of a lunch break on the open entry.
func (uc *TimeEntryUseCase) LunchOut(ctx context.Context, workerAccountID string) (*domain.TimeEntry, error) {
	return uc.updateOpenEntry(ctx, workerAccountID, func(entry *domain.TimeEntry, now time.Time) error {
		if !entry.CanEndLunch() {
			return domain.ErrInvalidTransition
		}

		entry.LunchEnd = &now

		return nil
	})
}

func (uc *TimeEntryUseCase) updateOpenEntry(ctx context.Context, workerAccountID string, mutate func(*domain.TimeEntry, time.Time) error) (*domain.TimeEntry, error) {
	var entry *domain.TimeEntry

	err := uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		entry, err = uc.timeEntryRepo.GetOpenForUpdate(ctx, tx, workerAccountID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		if err := mutate(entry, now); err != nil {
			return err
		}

		entry.UpdatedAt = now

		if err := uc.timeEntryRepo.Update(ctx, tx, entry); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	return entry, nil
}

// MonthlyReportInput represents input for a worker's monthly hour report.
type MonthlyReportInput struct {
	WorkerAccountID string
	Month           time.Month
	Year            int
	StoreID         string
}

// DayHours is one day's worked hours and the amount billed for them.
type DayHours struct {
	Date   time.Time
	Hours  float64
	Amount domain.Credits
}

// MonthlyReport aggregates a worker's clock entries for one month.
type MonthlyReport struct {
	WorkerAccountID string
	Month           time.Month
	Year            int
	Entries         []*domain.TimeEntry
	Days            []DayHours
	TotalHours      float64
	TotalAmount     domain.Credits
	OpenEntries     int
}

// BuildMonthlyReport aggregates all entries whose clock-in falls in the
// month. Worked hours per entry are net of lunch and clamped to [0, 24];
// entries without a clock-out are excluded from hour totals but retained
// for display. The amount uses the assignment's hourly rate per store, or
// the system default rate when no active assignment carries one.
func (uc *TimeEntryUseCase) BuildMonthlyReport(ctx context.Context, input MonthlyReportInput) (*MonthlyReport, error) {
	from := time.Date(input.Year, input.Month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	entries, err := uc.timeEntryRepo.ListForRange(ctx, input.WorkerAccountID, input.StoreID, from, to)
	if err != nil {
		return nil, err
	}

	rates := map[string]domain.Credits{}

	assignments, err := uc.assignmentRepo.ListActiveForWorker(ctx, input.WorkerAccountID)
	if err != nil {
		return nil, err
	}

	for _, a := range assignments {
		rates[a.StoreID] = a.HourlyRate
	}

	report := &MonthlyReport{
		WorkerAccountID: input.WorkerAccountID,
		Month:           input.Month,
		Year:            input.Year,
		Entries:         entries,
	}

	perDay := map[time.Time]*DayHours{}

	for _, entry := range entries {
		if entry.IsOpen() {
			report.OpenEntries++
			continue
		}

		rate, ok := rates[entry.StoreID]
		if !ok {
			rate = uc.defaults.HourlyRate
		}

		hours := entry.WorkedHours()
		amount := billing.HourlyAmount(hours, rate)

		day := entry.ClockIn.Truncate(24 * time.Hour)
		bucket, ok := perDay[day]
		if !ok {
			bucket = &DayHours{Date: day}
			perDay[day] = bucket
		}

		bucket.Hours += hours
		bucket.Amount += amount

		report.TotalHours += hours
		report.TotalAmount += amount
	}

	report.Days = make([]DayHours, 0, len(perDay))
	for _, bucket := range perDay {
		report.Days = append(report.Days, *bucket)
	}

	sort.Slice(report.Days, func(i, j int) bool {
		return report.Days[i].Date.Before(report.Days[j].Date)
	})

	return report, nil
}
