package usecase

import (
	"context"
	"time"

	"github.com/iho/kosherbill/internal/domain"
)

// AssignmentUseCase manages fixed worker-to-store assignments.
type AssignmentUseCase struct {
	assignmentRepo AssignmentRepository
	accountRepo    AccountRepository
	idGen          IDGenerator
	defaultRate    domain.Credits
}

// NewAssignmentUseCase creates a new AssignmentUseCase.
func NewAssignmentUseCase(
	assignmentRepo AssignmentRepository,
	accountRepo AccountRepository,
	idGen IDGenerator,
	defaultRate domain.Credits,
) *AssignmentUseCase {
	return &AssignmentUseCase{
		assignmentRepo: assignmentRepo,
		accountRepo:    accountRepo,
		idGen:          idGen,
		defaultRate:    defaultRate,
	}
}

// CreateAssignmentInput represents input for creating a fixed assignment.
type CreateAssignmentInput struct {
	WorkerAccountID string
	StoreID         string
	HourlyRate      *domain.Credits
}

// CreateAssignment contracts a worker to a store. A missing rate falls back
// to the configured default hourly rate; a second active assignment for the
// same worker and store is refused.
func (uc *AssignmentUseCase) CreateAssignment(ctx context.Context, input CreateAssignmentInput) (*domain.FixedAssignment, error) {
	account, err := uc.accountRepo.GetByID(ctx, input.WorkerAccountID)
	if err != nil {
		return nil, err
	}

	if account.Kind != domain.AccountKindWorker {
		return nil, domain.ErrNoAssignment
	}

	if err := account.CanWrite(); err != nil {
		return nil, err
	}

	rate := uc.defaultRate
	if input.HourlyRate != nil {
		rate = *input.HourlyRate
	}

	if rate < 0 {
		return nil, domain.ErrInvalidRate
	}

	if existing, err := uc.assignmentRepo.GetActive(ctx, input.WorkerAccountID, input.StoreID); err == nil && existing != nil {
		return nil, domain.ErrDuplicateAssignment
	}

	now := time.Now().UTC()
	assignment := &domain.FixedAssignment{
		ID:              uc.idGen.Generate(),
		WorkerAccountID: input.WorkerAccountID,
		StoreID:         input.StoreID,
		HourlyRate:      rate,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := uc.assignmentRepo.Create(ctx, assignment); err != nil {
		return nil, err
	}

	return assignment, nil
}

// EndAssignment soft-deletes an assignment. Historical time entries keep
// referring to it for rate lookups.
func (uc *AssignmentUseCase) EndAssignment(ctx context.Context, id string) error {
	if _, err := uc.assignmentRepo.GetByID(ctx, id); err != nil {
		return err
	}

	return uc.assignmentRepo.SoftDelete(ctx, id, time.Now().UTC())
}

// ListForWorker lists a worker's active assignments.
func (uc *AssignmentUseCase) ListForWorker(ctx context.Context, workerAccountID string) ([]*domain.FixedAssignment, error) {
	return uc.assignmentRepo.ListActiveForWorker(ctx, workerAccountID)
}
