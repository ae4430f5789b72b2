package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/iho/kosherbill/internal/domain"
	"github.com/iho/kosherbill/internal/usecase"
	"github.com/iho/kosherbill/internal/usecase/gomocks"
	"github.com/iho/kosherbill/internal/usecase/mocks"
)

var (
	reportFrom = time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	reportTo   = time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)
)

func TestReportUseCase_Summarize(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reportRepo := gomocks.NewMockReportRepository(ctrl)
	reportRepo.EXPECT().SettledTotals(gomock.Any(), reportFrom, reportTo).
		Return(domain.Credits(120000), domain.Credits(80000), nil)
	reportRepo.EXPECT().BookingCounts(gomock.Any(), reportFrom, reportTo).Return(3, 7, nil)
	reportRepo.EXPECT().BookingDailySeries(gomock.Any(), reportFrom, reportTo).
		Return([]usecase.DailyBucket{{Date: reportFrom, Count: 2, Amount: 40000}}, nil)
	reportRepo.EXPECT().TimeEntryDailySeries(gomock.Any(), reportFrom, reportTo).
		Return([]usecase.DailyBucket{{Date: reportFrom, Count: 4, Hours: 28}}, nil)

	uc := usecase.NewReportUseCase(reportRepo, mocks.NewMockCache())

	metrics, err := uc.Summarize(context.Background(), usecase.SummarizeInput{
		From:  reportFrom,
		To:    reportTo,
		Scope: usecase.ScopeAll,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if metrics.Net != 40000 {
		t.Errorf("expected net 40000, got %d", metrics.Net)
	}

	if metrics.PendingBookings != 3 || metrics.SettledBookings != 7 {
		t.Errorf("unexpected booking counts: %+v", metrics)
	}

	if len(metrics.Bookings) != 1 || len(metrics.TimeEntries) != 1 {
		t.Errorf("expected both series populated, got %+v", metrics)
	}
}

func TestReportUseCase_Summarize_CachedSecondRead(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// The store is hit once; the second read must come from the cache.
	reportRepo := gomocks.NewMockReportRepository(ctrl)
	reportRepo.EXPECT().SettledTotals(gomock.Any(), reportFrom, reportTo).
		Return(domain.Credits(100), domain.Credits(50), nil).Times(1)
	reportRepo.EXPECT().BookingCounts(gomock.Any(), reportFrom, reportTo).Return(0, 1, nil).Times(1)
	reportRepo.EXPECT().BookingDailySeries(gomock.Any(), reportFrom, reportTo).
		Return(nil, nil).Times(1)
	reportRepo.EXPECT().TimeEntryDailySeries(gomock.Any(), reportFrom, reportTo).
		Return(nil, nil).Times(1)

	uc := usecase.NewReportUseCase(reportRepo, mocks.NewMockCache())

	input := usecase.SummarizeInput{From: reportFrom, To: reportTo, Scope: usecase.ScopeAll}

	if _, err := uc.Summarize(context.Background(), input); err != nil {
		t.Fatalf("first read failed: %v", err)
	}

	metrics, err := uc.Summarize(context.Background(), input)
	if err != nil {
		t.Fatalf("cached read failed: %v", err)
	}

	if metrics.Net != 50 {
		t.Errorf("expected cached net 50, got %d", metrics.Net)
	}
}

func TestReportUseCase_Summarize_ScopeGating(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// Fixed scope never touches the booking queries.
	reportRepo := gomocks.NewMockReportRepository(ctrl)
	reportRepo.EXPECT().SettledTotals(gomock.Any(), reportFrom, reportTo).
		Return(domain.Credits(0), domain.Credits(0), nil)
	reportRepo.EXPECT().TimeEntryDailySeries(gomock.Any(), reportFrom, reportTo).
		Return([]usecase.DailyBucket{{Date: reportFrom, Count: 1, Hours: 8}}, nil)

	uc := usecase.NewReportUseCase(reportRepo, mocks.NewMockCache())

	metrics, err := uc.Summarize(context.Background(), usecase.SummarizeInput{
		From:  reportFrom,
		To:    reportTo,
		Scope: usecase.ScopeFixed,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(metrics.Bookings) != 0 {
		t.Errorf("expected no booking series for fixed scope, got %v", metrics.Bookings)
	}
}

func TestReportUseCase_Summarize_InvalidWindow(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	uc := usecase.NewReportUseCase(gomocks.NewMockReportRepository(ctrl), mocks.NewMockCache())

	_, err := uc.Summarize(context.Background(), usecase.SummarizeInput{
		From: reportTo,
		To:   reportFrom,
	})
	if !errors.Is(err, domain.ErrInvalidInterval) {
		t.Errorf("expected ErrInvalidInterval, got %v", err)
	}
}

func TestReportUseCase_Summarize_CacheFailureFallsThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reportRepo := gomocks.NewMockReportRepository(ctrl)
	reportRepo.EXPECT().SettledTotals(gomock.Any(), reportFrom, reportTo).
		Return(domain.Credits(100), domain.Credits(0), nil)
	reportRepo.EXPECT().BookingCounts(gomock.Any(), reportFrom, reportTo).Return(0, 0, nil)
	reportRepo.EXPECT().BookingDailySeries(gomock.Any(), reportFrom, reportTo).Return(nil, nil)
	reportRepo.EXPECT().TimeEntryDailySeries(gomock.Any(), reportFrom, reportTo).Return(nil, nil)

	cache := mocks.NewMockCache()
	cache.GetFunc = func(ctx context.Context, key string) ([]byte, error) {
		return nil, errors.New("redis down")
	}
	cache.SetFunc = func(ctx context.Context, key string, value []byte, ttl time.Duration) error {
		return errors.New("redis down")
	}

	uc := usecase.NewReportUseCase(reportRepo, cache)

	metrics, err := uc.Summarize(context.Background(), usecase.SummarizeInput{
		From:  reportFrom,
		To:    reportTo,
		Scope: usecase.ScopeAll,
	})
	if err != nil {
		t.Fatalf("cache failure must not fail the read: %v", err)
	}

	if metrics.Revenue != 100 {
		t.Errorf("expected revenue 100, got %d", metrics.Revenue)
	}
}
