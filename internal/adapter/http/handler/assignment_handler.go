package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/kosherbill/internal/adapter/http/dto"
	"github.com/iho/kosherbill/internal/domain"
	"github.com/iho/kosherbill/internal/usecase"
)

// AssignmentService defines the behavior needed by AssignmentHandler.
type AssignmentService interface {
	CreateAssignment(ctx context.Context, input usecase.CreateAssignmentInput) (*domain.FixedAssignment, error)
	EndAssignment(ctx context.Context, id string) error
	ListForWorker(ctx context.Context, workerAccountID string) ([]*domain.FixedAssignment, error)
}

// AssignmentHandler handles fixed assignment HTTP requests.
type AssignmentHandler struct {
	assignmentUC AssignmentService
}

// NewAssignmentHandler creates a new AssignmentHandler.
func NewAssignmentHandler(assignmentUC AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignmentUC: assignmentUC}
}

// Create contracts a worker to a store.
func (h *AssignmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid rate", err.Error())
		return
	}

	assignment, err := h.assignmentUC.CreateAssignment(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create assignment", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.AssignmentFromDomain(assignment))
}

// End closes an assignment while keeping it for historical rate lookups.
func (h *AssignmentHandler) End(w http.ResponseWriter, r *http.Request) {
	if err := h.assignmentUC.EndAssignment(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, mapDomainError(err), "failed to end assignment", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListForWorker lists a worker's active assignments.
func (h *AssignmentHandler) ListForWorker(w http.ResponseWriter, r *http.Request) {
	assignments, err := h.assignmentUC.ListForWorker(r.Context(), chi.URLParam(r, "accountID"))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list assignments", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AssignmentsFromDomain(assignments))
}
