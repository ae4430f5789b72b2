package integration

import (
	"context"
	"testing"

	"github.com/iho/kosherbill/internal/adapter/repository/postgres"
	"github.com/iho/kosherbill/internal/billing"
	"github.com/iho/kosherbill/internal/domain"
	"github.com/iho/kosherbill/internal/usecase"
	"github.com/iho/kosherbill/tests/testutil"
)

// testEnv wires the use cases against a real database, the way the server
// binary does.
type testEnv struct {
	db *testutil.TestDB

	accountRepo *postgres.AccountRepository
	ledgerRepo  *postgres.LedgerRepository
	outboxRepo  *postgres.OutboxRepository

	ledgerUC         *usecase.LedgerUseCase
	bookingUC        *usecase.BookingUseCase
	timeEntryUC      *usecase.TimeEntryUseCase
	assignmentUC     *usecase.AssignmentUseCase
	webhookUC        *usecase.WebhookUseCase
	reconciliationUC *usecase.ReconciliationUseCase
}

func testDefaults() billing.Defaults {
	return billing.Defaults{
		DayRate:    credits("50.00"),
		NightRate:  credits("75.00"),
		HourlyRate: credits("39.40"),
		DayWindow:  billing.DefaultDayWindow,
	}
}

func credits(s string) domain.Credits {
	c, err := domain.ParseCredits(s)
	if err != nil {
		panic(err)
	}

	return c
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := testutil.NewTestDB(t)
	t.Cleanup(db.Cleanup)

	pool := db.Pool
	txManager := postgres.NewTxManager(pool)
	accountRepo := postgres.NewAccountRepository(pool)
	ledgerRepo := postgres.NewLedgerRepository(pool)
	bookingRepo := postgres.NewBookingRepository(pool)
	timeEntryRepo := postgres.NewTimeEntryRepository(pool)
	assignmentRepo := postgres.NewAssignmentRepository(pool)
	auditRepo := postgres.NewAuditRepository(pool)
	outboxRepo := postgres.NewOutboxRepository(pool)
	idGen := postgres.NewULIDGenerator()
	retrier := postgres.NewRetrier()

	defaults := testDefaults()
	calculator := billing.NewCalculator(defaults.DayWindow)

	ledgerUC := usecase.NewLedgerUseCase(txManager, accountRepo, ledgerRepo, idGen, retrier)

	return &testEnv{
		db:          db,
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		outboxRepo:  outboxRepo,
		ledgerUC:    ledgerUC,
		bookingUC: usecase.NewBookingUseCase(
			txManager, bookingRepo, ledgerUC, auditRepo, outboxRepo,
			idGen, retrier, calculator, defaults),
		timeEntryUC: usecase.NewTimeEntryUseCase(
			txManager, timeEntryRepo, assignmentRepo, idGen, retrier, defaults),
		assignmentUC:     usecase.NewAssignmentUseCase(assignmentRepo, accountRepo, idGen, defaults.HourlyRate),
		webhookUC:        usecase.NewWebhookUseCase(ledgerUC, accountRepo, nil),
		reconciliationUC: usecase.NewReconciliationUseCase(accountRepo, ledgerRepo),
	}
}

func (e *testEnv) balance(ctx context.Context, t *testing.T, accountID string) domain.Credits {
	t.Helper()

	account, err := e.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		t.Fatalf("failed to load account %s: %v", accountID, err)
	}

	return account.Balance
}
