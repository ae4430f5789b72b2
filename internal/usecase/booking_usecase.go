package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/iho/kosherbill/internal/billing"
	"github.com/iho/kosherbill/internal/domain"
)

// BookingUseCase handles freelance booking pricing and its ledger effects:
// creation debits the client for the derived price, edits adjust the pending
// debit, admin approval settles the movement into the worker's account.
type BookingUseCase struct {
	txManager   TransactionManager
	bookingRepo BookingRepository
	ledgerUC    *LedgerUseCase
	auditRepo   AuditRepository
	outboxRepo  OutboxRepository
	idGen       IDGenerator
	retrier     Retrier
	calculator  *billing.Calculator
	defaults    billing.Defaults
}

// NewBookingUseCase creates a new BookingUseCase.
func NewBookingUseCase(
	txManager TransactionManager,
	bookingRepo BookingRepository,
	ledgerUC *LedgerUseCase,
	auditRepo AuditRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	retrier Retrier,
	calculator *billing.Calculator,
	defaults billing.Defaults,
) *BookingUseCase {
	return &BookingUseCase{
		txManager:   txManager,
		bookingRepo: bookingRepo,
		ledgerUC:    ledgerUC,
		auditRepo:   auditRepo,
		outboxRepo:  outboxRepo,
		idGen:       idGen,
		retrier:     retrier,
		calculator:  calculator,
		defaults:    defaults,
	}
}

// CreateBookingInput represents input for creating a booking.
type CreateBookingInput struct {
	ClientAccountID string
	StoreID         string
	PlannedStart    time.Time
	PlannedEnd      time.Time
	DayRate         *domain.Credits
	NightRate       *domain.Credits
	TransportFee    *domain.Credits
	WorkerAccountID *string
	ActorUserID     string
}

// CreateBooking prices the booking from its rate table, persists it and
// debits the client for the price in the same transaction. The debit entry
// stays Pending until an administrator approves completion.
func (uc *BookingUseCase) CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.ServiceBooking, error) {
	rt := uc.defaults.Resolve(input.DayRate, input.NightRate, input.TransportFee)

	price, err := uc.calculator.Price(input.PlannedStart, input.PlannedEnd, rt)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	booking := &domain.ServiceBooking{
		ID:              uc.idGen.Generate(),
		ClientAccountID: input.ClientAccountID,
		WorkerAccountID: input.WorkerAccountID,
		StoreID:         input.StoreID,
		PlannedStart:    input.PlannedStart,
		PlannedEnd:      input.PlannedEnd,
		DayRate:         rt.DayRate,
		NightRate:       rt.NightRate,
		TransportFee:    rt.TransportFee,
		Price:           price,
		PaymentStatus:   domain.PaymentStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := booking.Validate(); err != nil {
		return nil, err
	}

	err = uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		if err := uc.bookingRepo.Create(ctx, tx, booking); err != nil {
			return err
		}

		if _, err := uc.ledgerUC.DebitTx(ctx, tx, DebitInput{
			AccountID:   booking.ClientAccountID,
			Amount:      booking.Price,
			ReferenceID: booking.ID,
		}); err != nil {
			return err
		}

		uc.audit(ctx, tx, input.ActorUserID, domain.AuditActionBookingCreate, booking.ID, nil, booking)

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	return booking, nil
}

// UpdateBookingInput represents a partial booking edit. Nil fields are left
// unchanged.
type UpdateBookingInput struct {
	BookingID       string
	PlannedStart    *time.Time
	PlannedEnd      *time.Time
	ActualArrival   *time.Time
	ActualDeparture *time.Time
	DayRate         *domain.Credits
	NightRate       *domain.Credits
	TransportFee    *domain.Credits
	ActorUserID     string
}

func (input UpdateBookingInput) touchesRates() bool {
	return input.PlannedStart != nil || input.PlannedEnd != nil ||
		input.ActualArrival != nil || input.ActualDeparture != nil ||
		input.DayRate != nil || input.NightRate != nil || input.TransportFee != nil
}

// UpdateBooking applies an edit, reprices the booking from the billable
// window (actual times once both are recorded, planned otherwise) and
// adjusts the pending debit by the price difference. The prior price is
// audit-logged whenever a rate-relevant field changed. Settled bookings
// cannot be edited.
func (uc *BookingUseCase) UpdateBooking(ctx context.Context, input UpdateBookingInput) (*domain.ServiceBooking, error) {
	var booking *domain.ServiceBooking

	err := uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		booking, err = uc.bookingRepo.GetByIDForUpdate(ctx, tx, input.BookingID)
		if err != nil {
			return err
		}

		if booking.IsDeleted() {
			return domain.ErrBookingDeleted
		}

		if booking.PaymentStatus == domain.PaymentStatusSuccess {
			return domain.ErrBookingNotSettlable
		}

		priorPrice := booking.Price
		applyBookingPatch(booking, input)

		if err := booking.Validate(); err != nil {
			return err
		}

		start, end := booking.BillableWindow()
		price, err := uc.calculator.Price(start, end, billing.RateTable{
			DayRate:      booking.DayRate,
			NightRate:    booking.NightRate,
			TransportFee: booking.TransportFee,
		})
		if err != nil {
			return err
		}

		booking.Price = price
		booking.UpdatedAt = time.Now().UTC()

		if price != priorPrice {
			if _, err := uc.ledgerUC.AdjustPendingDebitTx(ctx, tx, booking.ID, price); err != nil &&
				!errors.Is(err, domain.ErrEntryNotFound) {
				return err
			}
		}

		if err := uc.bookingRepo.Update(ctx, tx, booking); err != nil {
			return err
		}

		if input.touchesRates() && price != priorPrice {
			uc.audit(ctx, tx, input.ActorUserID, domain.AuditActionBookingReprice, booking.ID,
				domain.JSON{"price": priorPrice.String()},
				domain.JSON{"price": price.String()})
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	return booking, nil
}

func applyBookingPatch(b *domain.ServiceBooking, input UpdateBookingInput) {
	if input.PlannedStart != nil {
		b.PlannedStart = *input.PlannedStart
	}

	if input.PlannedEnd != nil {
		b.PlannedEnd = *input.PlannedEnd
	}

	if input.ActualArrival != nil {
		b.ActualArrival = input.ActualArrival
	}

	if input.ActualDeparture != nil {
		b.ActualDeparture = input.ActualDeparture
	}

	if input.DayRate != nil {
		b.DayRate = *input.DayRate
	}

	if input.NightRate != nil {
		b.NightRate = *input.NightRate
	}

	if input.TransportFee != nil {
		b.TransportFee = *input.TransportFee
	}
}

// AssignWorker sets the booking's worker.
func (uc *BookingUseCase) AssignWorker(ctx context.Context, bookingID, workerAccountID string) (*domain.ServiceBooking, error) {
	var booking *domain.ServiceBooking

	err := uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		booking, err = uc.bookingRepo.GetByIDForUpdate(ctx, tx, bookingID)
		if err != nil {
			return err
		}

		if booking.IsDeleted() {
			return domain.ErrBookingDeleted
		}

		booking.WorkerAccountID = &workerAccountID
		booking.UpdatedAt = time.Now().UTC()

		if err := uc.bookingRepo.Update(ctx, tx, booking); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	return booking, nil
}

// ApproveCompletionInput represents input for settling a booking.
type ApproveCompletionInput struct {
	BookingID   string
	ActorUserID string
	ActorRole   domain.Role
}

// ApproveCompletion settles a completed booking: the worker is credited for
// the booking price, the pending entry becomes Success and a payment-received
// notification is queued, all in one transaction. Only administrators may
// settle. Re-approving an already settled booking fails with
// ErrAlreadySettled and never credits twice.
func (uc *BookingUseCase) ApproveCompletion(ctx context.Context, input ApproveCompletionInput) (*domain.ServiceBooking, error) {
	if !input.ActorRole.CanSettle() {
		return nil, domain.ErrInsufficientRole
	}

	var booking *domain.ServiceBooking

	err := uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		booking, err = uc.bookingRepo.GetByIDForUpdate(ctx, tx, input.BookingID)
		if err != nil {
			return err
		}

		if booking.IsDeleted() {
			return domain.ErrBookingDeleted
		}

		if booking.PaymentStatus == domain.PaymentStatusSuccess {
			return domain.ErrAlreadySettled
		}

		if booking.WorkerAccountID == nil {
			return domain.ErrBookingNotAssigned
		}

		workerID := *booking.WorkerAccountID

		_, err = uc.ledgerUC.CreditTx(ctx, tx, CreditInput{
			AccountID:   workerID,
			Amount:      booking.Price,
			ReferenceID: booking.ID,
		})
		if err != nil && !errors.Is(err, domain.ErrAlreadySettled) {
			return err
		}

		now := time.Now().UTC()
		booking.PaymentStatus = domain.PaymentStatusSuccess
		booking.UpdatedAt = now

		if err := uc.bookingRepo.Update(ctx, tx, booking); err != nil {
			return err
		}

		event := &domain.OutboxEvent{
			ID:            uc.idGen.Generate(),
			AggregateID:   booking.ID,
			AggregateType: domain.AggregateTypeBooking,
			EventType:     domain.EventTypePaymentReceived,
			Payload: domain.JSON{
				"account_id":   workerID,
				"message":      "payment received for inspection service",
				"reference_id": booking.ID,
				"amount":       booking.Price.String(),
			},
			CreatedAt: now,
		}

		if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
			return err
		}

		uc.audit(ctx, tx, input.ActorUserID, domain.AuditActionBookingSettle, booking.ID, nil,
			domain.JSON{"worker_account_id": workerID, "amount": booking.Price.String()})

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	return booking, nil
}

// CancelBooking tombstones a booking and fails its pending debit. Settled
// bookings cannot be cancelled; the ledger entry keeps the booking row alive
// forever, only the tombstone marks it removed.
func (uc *BookingUseCase) CancelBooking(ctx context.Context, bookingID, actorUserID string) error {
	return uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		booking, err := uc.bookingRepo.GetByIDForUpdate(ctx, tx, bookingID)
		if err != nil {
			return err
		}

		if booking.IsDeleted() {
			return domain.ErrBookingDeleted
		}

		if booking.PaymentStatus == domain.PaymentStatusSuccess {
			return domain.ErrBookingNotSettlable
		}

		if err := uc.ledgerUC.MarkFailedTx(ctx, tx, booking.ID); err != nil &&
			!errors.Is(err, domain.ErrEntryNotFound) {
			return err
		}

		now := time.Now().UTC()
		booking.PaymentStatus = domain.PaymentStatusFailed
		booking.DeletedAt = &now
		booking.UpdatedAt = now

		if err := uc.bookingRepo.Update(ctx, tx, booking); err != nil {
			return err
		}

		uc.audit(ctx, tx, actorUserID, domain.AuditActionBookingCancel, booking.ID, nil, nil)

		return tx.Commit(ctx)
	})
}

// GetBooking retrieves a booking by ID.
func (uc *BookingUseCase) GetBooking(ctx context.Context, id string) (*domain.ServiceBooking, error) {
	return uc.bookingRepo.GetByID(ctx, id)
}

// ListBookingsInput represents input for listing bookings.
type ListBookingsInput struct {
	ClientAccountID string
	Limit           int
	Offset          int
}

// ListBookings lists bookings, optionally scoped to one client.
func (uc *BookingUseCase) ListBookings(ctx context.Context, input ListBookingsInput) ([]*domain.ServiceBooking, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	if input.ClientAccountID != "" {
		return uc.bookingRepo.ListByClient(ctx, input.ClientAccountID, limit, offset)
	}

	return uc.bookingRepo.List(ctx, limit, offset)
}

// audit writes an audit record inside the transaction; audit failures do not
// fail the business operation.
func (uc *BookingUseCase) audit(ctx context.Context, tx Transaction, userID string, action domain.AuditAction, resourceID string, before, after any) {
	_ = uc.auditRepo.CreateTx(ctx, tx, &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		UserID:       userID,
		Action:       string(action),
		ResourceType: domain.AggregateTypeBooking,
		ResourceID:   resourceID,
		BeforeState:  domain.MarshalState(before),
		AfterState:   domain.MarshalState(after),
		Status:       string(domain.AuditStatusSuccess),
		CreatedAt:    time.Now().UTC(),
	})
}
