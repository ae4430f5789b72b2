package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iho/kosherbill/internal/adapter/http/dto"
	"github.com/iho/kosherbill/internal/adapter/http/middleware"
	"github.com/iho/kosherbill/internal/domain"
	"github.com/iho/kosherbill/internal/usecase"
)

// TimeEntryService defines the behavior needed by TimeEntryHandler.
type TimeEntryService interface {
	ClockIn(ctx context.Context, input usecase.ClockInInput) (*domain.TimeEntry, error)
	ClockOut(ctx context.Context, input usecase.ClockOutInput) (*domain.TimeEntry, error)
	LunchIn(ctx context.Context, workerAccountID string) (*domain.TimeEntry, error)
	LunchOut(ctx context.Context, workerAccountID string) (*domain.TimeEntry, error)
	BuildMonthlyReport(ctx context.Context, input usecase.MonthlyReportInput) (*usecase.MonthlyReport, error)
}

// TimeEntryHandler handles clock-related HTTP requests. The acting worker
// account comes from the JWT, never from the request body, so a worker can
// only punch their own clock.
type TimeEntryHandler struct {
	timeEntryUC TimeEntryService
}

// NewTimeEntryHandler creates a new TimeEntryHandler.
func NewTimeEntryHandler(timeEntryUC TimeEntryService) *TimeEntryHandler {
	return &TimeEntryHandler{timeEntryUC: timeEntryUC}
}

// ClockIn opens a time entry for the authenticated worker.
func (h *TimeEntryHandler) ClockIn(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req dto.ClockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	entry, err := h.timeEntryUC.ClockIn(r.Context(), usecase.ClockInInput{
		WorkerAccountID: user.AccountID,
		StoreID:         req.StoreID,
		Geo:             req.Geo(),
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to clock in", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.TimeEntryFromDomain(entry))
}

// ClockOut closes the authenticated worker's open entry.
func (h *TimeEntryHandler) ClockOut(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req dto.ClockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	entry, err := h.timeEntryUC.ClockOut(r.Context(), usecase.ClockOutInput{
		WorkerAccountID: user.AccountID,
		Geo:             req.Geo(),
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to clock out", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TimeEntryFromDomain(entry))
}

// LunchIn starts a lunch break on the open entry.
func (h *TimeEntryHandler) LunchIn(w http.ResponseWriter, r *http.Request) {
	h.lunch(w, r, h.timeEntryUC.LunchIn, "failed to start lunch")
}

// LunchOut ends the lunch break on the open entry.
func (h *TimeEntryHandler) LunchOut(w http.ResponseWriter, r *http.Request) {
	h.lunch(w, r, h.timeEntryUC.LunchOut, "failed to end lunch")
}

func (h *TimeEntryHandler) lunch(w http.ResponseWriter, r *http.Request, op func(context.Context, string) (*domain.TimeEntry, error), msg string) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	entry, err := op(r.Context(), user.AccountID)
	if err != nil {
		writeError(w, mapDomainError(err), msg, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TimeEntryFromDomain(entry))
}

// MonthlyReport aggregates a worker's hours for one month.
func (h *TimeEntryHandler) MonthlyReport(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()

	report, err := h.timeEntryUC.BuildMonthlyReport(r.Context(), usecase.MonthlyReportInput{
		WorkerAccountID: chi.URLParam(r, "accountID"),
		Month:           time.Month(parseIntQuery(r, "month", int(now.Month()))),
		Year:            parseIntQuery(r, "year", now.Year()),
		StoreID:         r.URL.Query().Get("store_id"),
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to build report", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.MonthlyReportFromUseCase(report))
}
