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

type bookingFixture struct {
	uc          *usecase.BookingUseCase
	accountRepo *mocks.MockAccountRepository
	ledgerRepo  *mocks.MockLedgerRepository
	bookingRepo *mocks.MockBookingRepository
	auditRepo   *mocks.MockAuditRepository
	outboxRepo  *mocks.MockOutboxRepository
}

func newBookingFixture() *bookingFixture {
	accountRepo := mocks.NewMockAccountRepository()
	ledgerRepo := mocks.NewMockLedgerRepository()
	bookingRepo := mocks.NewMockBookingRepository()
	auditRepo := mocks.NewMockAuditRepository()
	outboxRepo := mocks.NewMockOutboxRepository()
	txManager := mocks.NewMockTransactionManager()
	idGen := mocks.NewMockIDGenerator()
	retrier := mocks.NewMockRetrier()

	defaults := billing.Defaults{
		DayRate:    5000,
		NightRate:  7500,
		HourlyRate: 3940,
		DayWindow:  billing.DefaultDayWindow,
	}

	ledgerUC := usecase.NewLedgerUseCase(txManager, accountRepo, ledgerRepo, idGen, retrier)

	return &bookingFixture{
		uc: usecase.NewBookingUseCase(
			txManager, bookingRepo, ledgerUC, auditRepo, outboxRepo, idGen, retrier,
			billing.NewCalculator(defaults.DayWindow), defaults,
		),
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		bookingRepo: bookingRepo,
		auditRepo:   auditRepo,
		outboxRepo:  outboxRepo,
	}
}

func day(hour, min int) time.Time {
	return time.Date(2024, time.March, 5, hour, min, 0, 0, time.UTC)
}

func TestBookingUseCase_CreateBooking_PricesAndDebits(t *testing.T) {
	f := newBookingFixture()
	f.accountRepo.Seed(&domain.Account{ID: "client-1", Kind: domain.AccountKindClient})

	// 20:00-23:30 at default rates: 2h day + 1.5h night = 100.00 + 112.50.
	booking, err := f.uc.CreateBooking(context.Background(), usecase.CreateBookingInput{
		ClientAccountID: "client-1",
		StoreID:         "store-1",
		PlannedStart:    day(20, 0),
		PlannedEnd:      day(23, 30),
		ActorUserID:     "user-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if booking.Price != 21250 {
		t.Errorf("expected price 21250, got %d", booking.Price)
	}

	if booking.PaymentStatus != domain.PaymentStatusPending {
		t.Errorf("expected pending payment status, got %s", booking.PaymentStatus)
	}

	client, _ := f.accountRepo.GetByID(context.Background(), "client-1")
	if client.Balance != -21250 {
		t.Errorf("expected client debited 21250, got balance %d", client.Balance)
	}

	pending, err := f.ledgerRepo.GetPendingByReferenceForUpdate(context.Background(), nil, booking.ID)
	if err != nil {
		t.Fatalf("expected pending entry for booking: %v", err)
	}

	if pending.Amount != 21250 {
		t.Errorf("expected pending amount 21250, got %d", pending.Amount)
	}

	if len(f.auditRepo.Logs()) != 1 {
		t.Errorf("expected one audit record, got %d", len(f.auditRepo.Logs()))
	}
}

func TestBookingUseCase_CreateBooking_InvalidInterval(t *testing.T) {
	f := newBookingFixture()

	_, err := f.uc.CreateBooking(context.Background(), usecase.CreateBookingInput{
		ClientAccountID: "client-1",
		PlannedStart:    day(12, 0),
		PlannedEnd:      day(12, 0),
	})
	if !errors.Is(err, domain.ErrInvalidInterval) {
		t.Errorf("expected ErrInvalidInterval, got %v", err)
	}
}

func TestBookingUseCase_UpdateBooking_RepricesFromActuals(t *testing.T) {
	f := newBookingFixture()
	f.accountRepo.Seed(&domain.Account{ID: "client-1", Kind: domain.AccountKindClient})

	booking, err := f.uc.CreateBooking(context.Background(), usecase.CreateBookingInput{
		ClientAccountID: "client-1",
		StoreID:         "store-1",
		PlannedStart:    day(8, 0),
		PlannedEnd:      day(17, 0),
		ActorUserID:     "user-1",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if booking.Price != 45000 {
		t.Fatalf("expected planned price 45000, got %d", booking.Price)
	}

	// Inspector stayed two extra day hours: 11h * 50.00 = 550.00.
	arrival := day(8, 0)
	departure := day(19, 0)

	updated, err := f.uc.UpdateBooking(context.Background(), usecase.UpdateBookingInput{
		BookingID:       booking.ID,
		ActualArrival:   &arrival,
		ActualDeparture: &departure,
		ActorUserID:     "user-1",
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if updated.Price != 55000 {
		t.Errorf("expected repriced 55000, got %d", updated.Price)
	}

	client, _ := f.accountRepo.GetByID(context.Background(), "client-1")
	if client.Balance != -55000 {
		t.Errorf("expected pending debit adjusted to 55000, got balance %d", client.Balance)
	}

	var repriced bool
	for _, l := range f.auditRepo.Logs() {
		if l.Action == string(domain.AuditActionBookingReprice) {
			repriced = true
			if l.BeforeState["price"] != "450.00" {
				t.Errorf("expected prior price 450.00 in audit, got %v", l.BeforeState["price"])
			}
		}
	}

	if !repriced {
		t.Error("expected a reprice audit record")
	}
}

func TestBookingUseCase_UpdateBooking_SettledRefused(t *testing.T) {
	f := newBookingFixture()
	f.bookingRepo.Seed(&domain.ServiceBooking{
		ID:              "booking-1",
		ClientAccountID: "client-1",
		PlannedStart:    day(8, 0),
		PlannedEnd:      day(17, 0),
		PaymentStatus:   domain.PaymentStatusSuccess,
	})

	newEnd := day(18, 0)

	_, err := f.uc.UpdateBooking(context.Background(), usecase.UpdateBookingInput{
		BookingID:  "booking-1",
		PlannedEnd: &newEnd,
	})
	if !errors.Is(err, domain.ErrBookingNotSettlable) {
		t.Errorf("expected ErrBookingNotSettlable, got %v", err)
	}
}

func TestBookingUseCase_ApproveCompletion(t *testing.T) {
	f := newBookingFixture()
	f.accountRepo.Seed(&domain.Account{ID: "client-1", Kind: domain.AccountKindClient})
	f.accountRepo.Seed(&domain.Account{ID: "worker-1", Kind: domain.AccountKindWorker})

	booking, err := f.uc.CreateBooking(context.Background(), usecase.CreateBookingInput{
		ClientAccountID: "client-1",
		StoreID:         "store-1",
		PlannedStart:    day(8, 0),
		PlannedEnd:      day(17, 0),
		ActorUserID:     "user-1",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := f.uc.AssignWorker(context.Background(), booking.ID, "worker-1"); err != nil {
		t.Fatalf("assign failed: %v", err)
	}

	settled, err := f.uc.ApproveCompletion(context.Background(), usecase.ApproveCompletionInput{
		BookingID:   booking.ID,
		ActorUserID: "admin-1",
		ActorRole:   domain.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}

	if settled.PaymentStatus != domain.PaymentStatusSuccess {
		t.Errorf("expected success payment status, got %s", settled.PaymentStatus)
	}

	worker, _ := f.accountRepo.GetByID(context.Background(), "worker-1")
	if worker.Balance != 45000 {
		t.Errorf("expected worker credited 45000, got %d", worker.Balance)
	}

	entries, _ := f.ledgerRepo.GetByReference(context.Background(), booking.ID)
	if len(entries) != 1 {
		t.Fatalf("expected one ledger entry for the booking, got %d", len(entries))
	}

	entry := entries[0]
	if entry.Status != domain.EntryStatusSuccess {
		t.Errorf("expected settled entry, got %s", entry.Status)
	}

	if entry.FromAccountID == nil || *entry.FromAccountID != "client-1" {
		t.Errorf("expected movement from client-1, got %v", entry.FromAccountID)
	}

	if entry.ToAccountID == nil || *entry.ToAccountID != "worker-1" {
		t.Errorf("expected movement to worker-1, got %v", entry.ToAccountID)
	}

	events := f.outboxRepo.Events()
	if len(events) != 1 || events[0].EventType != domain.EventTypePaymentReceived {
		t.Errorf("expected one payment.received outbox event, got %v", events)
	}
}

func TestBookingUseCase_ApproveCompletion_RequiresAdmin(t *testing.T) {
	f := newBookingFixture()

	for _, role := range []domain.Role{domain.RoleClient, domain.RoleWorker} {
		_, err := f.uc.ApproveCompletion(context.Background(), usecase.ApproveCompletionInput{
			BookingID: "booking-1",
			ActorRole: role,
		})
		if !errors.Is(err, domain.ErrInsufficientRole) {
			t.Errorf("role %s: expected ErrInsufficientRole, got %v", role, err)
		}
	}
}

func TestBookingUseCase_ApproveCompletion_Twice(t *testing.T) {
	f := newBookingFixture()
	f.accountRepo.Seed(&domain.Account{ID: "client-1", Kind: domain.AccountKindClient})
	f.accountRepo.Seed(&domain.Account{ID: "worker-1", Kind: domain.AccountKindWorker})

	booking, err := f.uc.CreateBooking(context.Background(), usecase.CreateBookingInput{
		ClientAccountID: "client-1",
		StoreID:         "store-1",
		PlannedStart:    day(8, 0),
		PlannedEnd:      day(17, 0),
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := f.uc.AssignWorker(context.Background(), booking.ID, "worker-1"); err != nil {
		t.Fatalf("assign failed: %v", err)
	}

	input := usecase.ApproveCompletionInput{
		BookingID: booking.ID,
		ActorRole: domain.RoleAdmin,
	}

	if _, err := f.uc.ApproveCompletion(context.Background(), input); err != nil {
		t.Fatalf("first approval failed: %v", err)
	}

	_, err = f.uc.ApproveCompletion(context.Background(), input)
	if !errors.Is(err, domain.ErrAlreadySettled) {
		t.Fatalf("expected ErrAlreadySettled on re-approval, got %v", err)
	}

	worker, _ := f.accountRepo.GetByID(context.Background(), "worker-1")
	if worker.Balance != 45000 {
		t.Errorf("expected the worker credited exactly once, got %d", worker.Balance)
	}
}

func TestBookingUseCase_ApproveCompletion_NoWorker(t *testing.T) {
	f := newBookingFixture()
	f.bookingRepo.Seed(&domain.ServiceBooking{
		ID:              "booking-1",
		ClientAccountID: "client-1",
		PlannedStart:    day(8, 0),
		PlannedEnd:      day(17, 0),
		PaymentStatus:   domain.PaymentStatusPending,
	})

	_, err := f.uc.ApproveCompletion(context.Background(), usecase.ApproveCompletionInput{
		BookingID: "booking-1",
		ActorRole: domain.RoleAdmin,
	})
	if !errors.Is(err, domain.ErrBookingNotAssigned) {
		t.Errorf("expected ErrBookingNotAssigned, got %v", err)
	}
}

func TestBookingUseCase_CancelBooking(t *testing.T) {
	f := newBookingFixture()
	f.accountRepo.Seed(&domain.Account{ID: "client-1", Kind: domain.AccountKindClient})

	booking, err := f.uc.CreateBooking(context.Background(), usecase.CreateBookingInput{
		ClientAccountID: "client-1",
		StoreID:         "store-1",
		PlannedStart:    day(8, 0),
		PlannedEnd:      day(17, 0),
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := f.uc.CancelBooking(context.Background(), booking.ID, "user-1"); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	cancelled, _ := f.bookingRepo.GetByID(context.Background(), booking.ID)
	if !cancelled.IsDeleted() {
		t.Error("expected booking tombstoned")
	}

	if cancelled.PaymentStatus != domain.PaymentStatusFailed {
		t.Errorf("expected failed payment status, got %s", cancelled.PaymentStatus)
	}

	entries, _ := f.ledgerRepo.GetByReference(context.Background(), booking.ID)
	if len(entries) != 1 || entries[0].Status != domain.EntryStatusFailed {
		t.Errorf("expected the pending debit marked failed, got %v", entries)
	}

	// The debit is not restored on cancellation.
	client, _ := f.accountRepo.GetByID(context.Background(), "client-1")
	if client.Balance != -45000 {
		t.Errorf("expected balance to stay at -45000, got %d", client.Balance)
	}
}
