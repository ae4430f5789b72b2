package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/iho/kosherbill/internal/adapter/http/dto"
	"github.com/iho/kosherbill/internal/adapter/http/middleware"
	"github.com/iho/kosherbill/internal/domain"
	"github.com/iho/kosherbill/internal/usecase"
)

type timeEntryServiceStub struct {
	clockInFunc  func(ctx context.Context, input usecase.ClockInInput) (*domain.TimeEntry, error)
	clockOutFunc func(ctx context.Context, input usecase.ClockOutInput) (*domain.TimeEntry, error)
	lunchInFunc  func(ctx context.Context, workerAccountID string) (*domain.TimeEntry, error)
	lunchOutFunc func(ctx context.Context, workerAccountID string) (*domain.TimeEntry, error)
	reportFunc   func(ctx context.Context, input usecase.MonthlyReportInput) (*usecase.MonthlyReport, error)
}

func (s *timeEntryServiceStub) ClockIn(ctx context.Context, input usecase.ClockInInput) (*domain.TimeEntry, error) {
	return s.clockInFunc(ctx, input)
}

func (s *timeEntryServiceStub) ClockOut(ctx context.Context, input usecase.ClockOutInput) (*domain.TimeEntry, error) {
	return s.clockOutFunc(ctx, input)
}

func (s *timeEntryServiceStub) LunchIn(ctx context.Context, workerAccountID string) (*domain.TimeEntry, error) {
	return s.lunchInFunc(ctx, workerAccountID)
}

func (s *timeEntryServiceStub) LunchOut(ctx context.Context, workerAccountID string) (*domain.TimeEntry, error) {
	return s.lunchOutFunc(ctx, workerAccountID)
}

func (s *timeEntryServiceStub) BuildMonthlyReport(ctx context.Context, input usecase.MonthlyReportInput) (*usecase.MonthlyReport, error) {
	return s.reportFunc(ctx, input)
}

func testTimeEntry() *domain.TimeEntry {
	return &domain.TimeEntry{
		ID:              "entry-1",
		WorkerAccountID: "acc-worker",
		StoreID:         "store-7",
		ClockIn:         time.Date(2024, time.June, 3, 8, 0, 0, 0, time.UTC),
		ClockInGeo:      domain.Geo{Latitude: 32.08, Longitude: 34.78},
	}
}

func workerRequest(method, target string, body []byte) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}

	user := &domain.User{ID: "user-w", Role: domain.RoleWorker, AccountID: "acc-worker"}
	return req.WithContext(context.WithValue(req.Context(), middleware.UserContextKey, user))
}

func TestTimeEntryHandlerClockIn(t *testing.T) {
	var captured usecase.ClockInInput

	stub := &timeEntryServiceStub{
		clockInFunc: func(ctx context.Context, input usecase.ClockInInput) (*domain.TimeEntry, error) {
			captured = input
			return testTimeEntry(), nil
		},
	}
	h := NewTimeEntryHandler(stub)

	body := []byte(`{"store_id": "store-7", "latitude": 32.08, "longitude": 34.78}`)
	rr := httptest.NewRecorder()

	h.ClockIn(rr, workerRequest(http.MethodPost, "/clock/in", body))

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	if captured.WorkerAccountID != "acc-worker" {
		t.Fatalf("expected worker account from token, got %q", captured.WorkerAccountID)
	}

	if captured.StoreID != "store-7" || captured.Geo.Latitude != 32.08 {
		t.Fatalf("unexpected clock-in input: %+v", captured)
	}
}

func TestTimeEntryHandlerClockInWithoutUser(t *testing.T) {
	h := NewTimeEntryHandler(&timeEntryServiceStub{})

	req := httptest.NewRequest(http.MethodPost, "/clock/in", bytes.NewReader([]byte(`{}`)))
	rr := httptest.NewRecorder()

	h.ClockIn(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without context user, got %d", rr.Code)
	}
}

func TestTimeEntryHandlerClockInDuplicate(t *testing.T) {
	stub := &timeEntryServiceStub{
		clockInFunc: func(ctx context.Context, input usecase.ClockInInput) (*domain.TimeEntry, error) {
			return nil, domain.ErrDuplicateClockIn
		},
	}
	h := NewTimeEntryHandler(stub)

	rr := httptest.NewRecorder()
	h.ClockIn(rr, workerRequest(http.MethodPost, "/clock/in", []byte(`{"store_id": "store-7"}`)))

	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate clock-in, got %d", rr.Code)
	}
}

func TestTimeEntryHandlerClockOut(t *testing.T) {
	stub := &timeEntryServiceStub{
		clockOutFunc: func(ctx context.Context, input usecase.ClockOutInput) (*domain.TimeEntry, error) {
			entry := testTimeEntry()
			out := entry.ClockIn.Add(8 * time.Hour)
			entry.ClockOut = &out
			entry.ClockOutGeo = &domain.Geo{Latitude: input.Geo.Latitude, Longitude: input.Geo.Longitude}
			return entry, nil
		},
	}
	h := NewTimeEntryHandler(stub)

	body := []byte(`{"latitude": 32.09, "longitude": 34.79}`)
	rr := httptest.NewRecorder()

	h.ClockOut(rr, workerRequest(http.MethodPost, "/clock/out", body))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp dto.TimeEntryResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.WorkedHours != 8 {
		t.Fatalf("expected 8 worked hours, got %v", resp.WorkedHours)
	}
}

func TestTimeEntryHandlerClockOutNoOpenEntry(t *testing.T) {
	stub := &timeEntryServiceStub{
		clockOutFunc: func(ctx context.Context, input usecase.ClockOutInput) (*domain.TimeEntry, error) {
			return nil, domain.ErrNoOpenEntry
		},
	}
	h := NewTimeEntryHandler(stub)

	rr := httptest.NewRecorder()
	h.ClockOut(rr, workerRequest(http.MethodPost, "/clock/out", []byte(`{}`)))

	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409 without open entry, got %d", rr.Code)
	}
}

func TestTimeEntryHandlerLunch(t *testing.T) {
	stub := &timeEntryServiceStub{
		lunchInFunc: func(ctx context.Context, workerAccountID string) (*domain.TimeEntry, error) {
			if workerAccountID != "acc-worker" {
				t.Fatalf("expected worker account from token, got %q", workerAccountID)
			}
			entry := testTimeEntry()
			start := entry.ClockIn.Add(4 * time.Hour)
			entry.LunchStart = &start
			return entry, nil
		},
		lunchOutFunc: func(ctx context.Context, workerAccountID string) (*domain.TimeEntry, error) {
			return testTimeEntry(), nil
		},
	}
	h := NewTimeEntryHandler(stub)

	rr := httptest.NewRecorder()
	h.LunchIn(rr, workerRequest(http.MethodPost, "/clock/lunch/in", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 for lunch in, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	h.LunchOut(rr, workerRequest(http.MethodPost, "/clock/lunch/out", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 for lunch out, got %d", rr.Code)
	}
}

func TestTimeEntryHandlerMonthlyReport(t *testing.T) {
	var captured usecase.MonthlyReportInput

	stub := &timeEntryServiceStub{
		reportFunc: func(ctx context.Context, input usecase.MonthlyReportInput) (*usecase.MonthlyReport, error) {
			captured = input
			return &usecase.MonthlyReport{
				WorkerAccountID: input.WorkerAccountID,
				Month:           input.Month,
				Year:            input.Year,
				Days: []usecase.DayHours{
					{Date: time.Date(2024, time.June, 3, 0, 0, 0, 0, time.UTC), Hours: 8, Amount: 31520},
				},
				TotalHours:  8,
				TotalAmount: 31520,
			}, nil
		},
	}
	h := NewTimeEntryHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/workers/acc-worker/reports/monthly?month=6&year=2024", nil)
	req = setChiURLParam(req, "accountID", "acc-worker")
	rr := httptest.NewRecorder()

	h.MonthlyReport(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	if captured.WorkerAccountID != "acc-worker" || captured.Month != time.June || captured.Year != 2024 {
		t.Fatalf("unexpected report input: %+v", captured)
	}

	var resp dto.MonthlyReportResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(resp.Days) != 1 || resp.Days[0].Date != "2024-06-03" || resp.Days[0].Amount != "315.20" {
		t.Fatalf("unexpected report days: %+v", resp.Days)
	}
}
