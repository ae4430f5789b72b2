package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/iho/kosherbill/internal/billing"
	"github.com/iho/kosherbill/internal/domain"
	"github.com/iho/kosherbill/internal/usecase"
	"github.com/iho/kosherbill/internal/usecase/mocks"
)

type timeEntryFixture struct {
	uc             *usecase.TimeEntryUseCase
	timeEntryRepo  *mocks.MockTimeEntryRepository
	assignmentRepo *mocks.MockAssignmentRepository
}

func newTimeEntryFixture() *timeEntryFixture {
	timeEntryRepo := mocks.NewMockTimeEntryRepository()
	assignmentRepo := mocks.NewMockAssignmentRepository()

	defaults := billing.Defaults{
		DayRate:    5000,
		NightRate:  7500,
		HourlyRate: 3940,
		DayWindow:  billing.DefaultDayWindow,
	}

	return &timeEntryFixture{
		uc: usecase.NewTimeEntryUseCase(
			mocks.NewMockTransactionManager(),
			timeEntryRepo,
			assignmentRepo,
			mocks.NewMockIDGenerator(),
			mocks.NewMockRetrier(),
			defaults,
		),
		timeEntryRepo:  timeEntryRepo,
		assignmentRepo: assignmentRepo,
	}
}

func (f *timeEntryFixture) withAssignment() *timeEntryFixture {
	f.assignmentRepo.Seed(&domain.FixedAssignment{
		ID:              "assign-1",
		WorkerAccountID: "worker-1",
		StoreID:         "store-1",
		HourlyRate:      4200,
	})
	return f
}

func TestTimeEntryUseCase_ClockIn(t *testing.T) {
	f := newTimeEntryFixture().withAssignment()

	entry, err := f.uc.ClockIn(context.Background(), usecase.ClockInInput{
		WorkerAccountID: "worker-1",
		StoreID:         "store-1",
		Geo:             domain.Geo{Latitude: 32.08, Longitude: 34.78},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !entry.IsOpen() {
		t.Error("expected an open entry")
	}

	if entry.ClockIn.IsZero() {
		t.Error("expected clock-in timestamp")
	}
}

func TestTimeEntryUseCase_ClockIn_NoAssignment(t *testing.T) {
	f := newTimeEntryFixture()

	_, err := f.uc.ClockIn(context.Background(), usecase.ClockInInput{
		WorkerAccountID: "worker-1",
		StoreID:         "store-1",
	})
	if !errors.Is(err, domain.ErrNoAssignment) {
		t.Errorf("expected ErrNoAssignment, got %v", err)
	}
}

func TestTimeEntryUseCase_ClockIn_OpenEntry(t *testing.T) {
	f := newTimeEntryFixture().withAssignment()

	input := usecase.ClockInInput{WorkerAccountID: "worker-1", StoreID: "store-1"}

	if _, err := f.uc.ClockIn(context.Background(), input); err != nil {
		t.Fatalf("first clock-in failed: %v", err)
	}

	_, err := f.uc.ClockIn(context.Background(), input)
	if !errors.Is(err, domain.ErrDuplicateClockIn) {
		t.Errorf("expected ErrDuplicateClockIn, got %v", err)
	}
}

func TestTimeEntryUseCase_ClockIn_RecentTap(t *testing.T) {
	f := newTimeEntryFixture().withAssignment()

	// A closed entry clocked in an hour ago still trips the duplicate window.
	in := time.Now().UTC().Add(-time.Hour)
	out := time.Now().UTC().Add(-30 * time.Minute)
	f.timeEntryRepo.Seed(&domain.TimeEntry{
		ID:              "entry-1",
		WorkerAccountID: "worker-1",
		StoreID:         "store-1",
		ClockIn:         in,
		ClockOut:        &out,
	})

	_, err := f.uc.ClockIn(context.Background(), usecase.ClockInInput{
		WorkerAccountID: "worker-1",
		StoreID:         "store-1",
	})
	if !errors.Is(err, domain.ErrDuplicateClockIn) {
		t.Errorf("expected ErrDuplicateClockIn, got %v", err)
	}
}

func TestTimeEntryUseCase_ClockOut(t *testing.T) {
	f := newTimeEntryFixture().withAssignment()

	// Clocked in outside the duplicate window so the clock-out passes.
	in := time.Now().UTC().Add(-9 * time.Hour)
	f.timeEntryRepo.Seed(&domain.TimeEntry{
		ID:              "entry-1",
		WorkerAccountID: "worker-1",
		StoreID:         "store-1",
		ClockIn:         in,
	})

	entry, err := f.uc.ClockOut(context.Background(), usecase.ClockOutInput{
		WorkerAccountID: "worker-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if entry.ClockOut == nil {
		t.Fatal("expected clock-out timestamp")
	}

	if entry.IsOpen() {
		t.Error("expected the entry closed")
	}
}

func TestTimeEntryUseCase_ClockOut_NoOpenEntry(t *testing.T) {
	f := newTimeEntryFixture()

	_, err := f.uc.ClockOut(context.Background(), usecase.ClockOutInput{WorkerAccountID: "worker-1"})
	if !errors.Is(err, domain.ErrNoOpenEntry) {
		t.Errorf("expected ErrNoOpenEntry, got %v", err)
	}
}

func TestTimeEntryUseCase_ClockOut_ClosesOpenLunch(t *testing.T) {
	f := newTimeEntryFixture().withAssignment()

	in := time.Now().UTC().Add(-9 * time.Hour)
	lunch := time.Now().UTC().Add(-4 * time.Hour)
	f.timeEntryRepo.Seed(&domain.TimeEntry{
		ID:              "entry-1",
		WorkerAccountID: "worker-1",
		StoreID:         "store-1",
		ClockIn:         in,
		LunchStart:      &lunch,
	})

	entry, err := f.uc.ClockOut(context.Background(), usecase.ClockOutInput{WorkerAccountID: "worker-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if entry.LunchEnd == nil {
		t.Error("expected the open lunch closed at clock-out")
	}

	if entry.WorkedHours() < 0 {
		t.Errorf("worked hours must not go negative, got %f", entry.WorkedHours())
	}
}

func TestTimeEntryUseCase_LunchTransitions(t *testing.T) {
	f := newTimeEntryFixture().withAssignment()

	in := time.Now().UTC().Add(-3 * time.Hour)
	f.timeEntryRepo.Seed(&domain.TimeEntry{
		ID:              "entry-1",
		WorkerAccountID: "worker-1",
		StoreID:         "store-1",
		ClockIn:         in,
	})

	// Lunch out before lunch in is not a legal transition.
	if _, err := f.uc.LunchOut(context.Background(), "worker-1"); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}

	entry, err := f.uc.LunchIn(context.Background(), "worker-1")
	if err != nil {
		t.Fatalf("lunch in failed: %v", err)
	}

	if !entry.OnLunch() {
		t.Error("expected entry on lunch")
	}

	// A second lunch in while on lunch is refused.
	if _, err := f.uc.LunchIn(context.Background(), "worker-1"); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}

	entry, err = f.uc.LunchOut(context.Background(), "worker-1")
	if err != nil {
		t.Fatalf("lunch out failed: %v", err)
	}

	if entry.OnLunch() {
		t.Error("expected lunch ended")
	}

	// One lunch per entry.
	if _, err := f.uc.LunchIn(context.Background(), "worker-1"); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition after lunch taken, got %v", err)
	}
}

func TestTimeEntryUseCase_BuildMonthlyReport(t *testing.T) {
	f := newTimeEntryFixture().withAssignment()

	shift := func(id string, dayOfMonth, fromHour, toHour int, lunch bool) {
		in := time.Date(2024, time.March, dayOfMonth, fromHour, 0, 0, 0, time.UTC)
		out := time.Date(2024, time.March, dayOfMonth, toHour, 0, 0, 0, time.UTC)
		e := &domain.TimeEntry{
			ID:              id,
			WorkerAccountID: "worker-1",
			StoreID:         "store-1",
			ClockIn:         in,
			ClockOut:        &out,
		}
		if lunch {
			ls := in.Add(4 * time.Hour)
			le := ls.Add(time.Hour)
			e.LunchStart = &ls
			e.LunchEnd = &le
		}
		f.timeEntryRepo.Seed(e)
	}

	shift("e1", 4, 9, 17, true)  // 7h net of lunch
	shift("e2", 5, 9, 12, false) // 3h
	f.timeEntryRepo.Seed(&domain.TimeEntry{
		ID:              "e3",
		WorkerAccountID: "worker-1",
		StoreID:         "store-1",
		ClockIn:         time.Date(2024, time.March, 6, 9, 0, 0, 0, time.UTC),
	})

	report, err := f.uc.BuildMonthlyReport(context.Background(), usecase.MonthlyReportInput{
		WorkerAccountID: "worker-1",
		Month:           time.March,
		Year:            2024,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.TotalHours != 10 {
		t.Errorf("expected 10 total hours, got %f", report.TotalHours)
	}

	// 10h at the assignment rate of 42.00.
	if report.TotalAmount != 42000 {
		t.Errorf("expected total amount 42000, got %d", report.TotalAmount)
	}

	if report.OpenEntries != 1 {
		t.Errorf("expected 1 open entry excluded from totals, got %d", report.OpenEntries)
	}

	if len(report.Days) != 2 {
		t.Fatalf("expected 2 day buckets, got %d", len(report.Days))
	}

	if report.Days[0].Hours != 7 || report.Days[1].Hours != 3 {
		t.Errorf("unexpected day buckets: %+v", report.Days)
	}
}

func TestTimeEntryUseCase_BuildMonthlyReport_DefaultRate(t *testing.T) {
	f := newTimeEntryFixture()

	// No active assignment carries a rate, so the default 39.40 applies.
	in := time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC)
	out := in.Add(3 * time.Hour)
	f.timeEntryRepo.Seed(&domain.TimeEntry{
		ID:              "e1",
		WorkerAccountID: "worker-1",
		StoreID:         "store-9",
		ClockIn:         in,
		ClockOut:        &out,
	})

	report, err := f.uc.BuildMonthlyReport(context.Background(), usecase.MonthlyReportInput{
		WorkerAccountID: "worker-1",
		Month:           time.March,
		Year:            2024,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.TotalAmount != 11820 {
		t.Errorf("expected 3h at 39.40 = 118.20, got %d", report.TotalAmount)
	}
}
