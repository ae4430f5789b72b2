package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/kosherbill/internal/adapter/http/dto"
	"github.com/iho/kosherbill/internal/adapter/http/middleware"
	"github.com/iho/kosherbill/internal/domain"
	"github.com/iho/kosherbill/internal/usecase"
)

// BookingService defines the behavior needed by BookingHandler.
type BookingService interface {
	CreateBooking(ctx context.Context, input usecase.CreateBookingInput) (*domain.ServiceBooking, error)
	UpdateBooking(ctx context.Context, input usecase.UpdateBookingInput) (*domain.ServiceBooking, error)
	AssignWorker(ctx context.Context, bookingID, workerAccountID string) (*domain.ServiceBooking, error)
	ApproveCompletion(ctx context.Context, input usecase.ApproveCompletionInput) (*domain.ServiceBooking, error)
	CancelBooking(ctx context.Context, bookingID, actorUserID string) error
	GetBooking(ctx context.Context, id string) (*domain.ServiceBooking, error)
	ListBookings(ctx context.Context, input usecase.ListBookingsInput) ([]*domain.ServiceBooking, error)
}

// BookingHandler handles booking-related HTTP requests.
type BookingHandler struct {
	bookingUC BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(bookingUC BookingService) *BookingHandler {
	return &BookingHandler{bookingUC: bookingUC}
}

// Create schedules a new inspection booking.
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput(actorUserID(r))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid rate", err.Error())
		return
	}

	booking, err := h.bookingUC.CreateBooking(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create booking", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.BookingFromDomain(booking))
}

// Get retrieves a booking by ID.
func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	booking, err := h.bookingUC.GetBooking(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get booking", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BookingFromDomain(booking))
}

// List lists bookings, optionally scoped to one client account.
func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.bookingUC.ListBookings(r.Context(), usecase.ListBookingsInput{
		ClientAccountID: r.URL.Query().Get("client_account_id"),
		Limit:           parseIntQuery(r, "limit", 50),
		Offset:          parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list bookings", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BookingsFromDomain(bookings))
}

// Update edits a booking and reprices it from the billable window.
func (h *BookingHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput(chi.URLParam(r, "id"), actorUserID(r))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid rate", err.Error())
		return
	}

	booking, err := h.bookingUC.UpdateBooking(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to update booking", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BookingFromDomain(booking))
}

// AssignWorker attaches a worker to a booking.
func (h *BookingHandler) AssignWorker(w http.ResponseWriter, r *http.Request) {
	var req dto.AssignWorkerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	booking, err := h.bookingUC.AssignWorker(r.Context(), chi.URLParam(r, "id"), req.WorkerAccountID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to assign worker", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BookingFromDomain(booking))
}

// Approve settles a completed booking, crediting the assigned worker.
func (h *BookingHandler) Approve(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	booking, err := h.bookingUC.ApproveCompletion(r.Context(), usecase.ApproveCompletionInput{
		BookingID:   chi.URLParam(r, "id"),
		ActorUserID: user.ID,
		ActorRole:   user.Role,
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to approve booking", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BookingFromDomain(booking))
}

// Cancel tombstones a booking and fails its pending debit.
func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if err := h.bookingUC.CancelBooking(r.Context(), chi.URLParam(r, "id"), actorUserID(r)); err != nil {
		writeError(w, mapDomainError(err), "failed to cancel booking", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// actorUserID returns the authenticated user's ID, or empty when the route
// is unauthenticated.
func actorUserID(r *http.Request) string {
	if user, ok := middleware.GetUserFromContext(r.Context()); ok {
		return user.ID
	}

	return ""
}
