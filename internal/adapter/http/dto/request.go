package dto

import (
	"time"

	"github.com/iho/kosherbill/internal/domain"
	"github.com/iho/kosherbill/internal/usecase"
)

// RegisterRequest represents a registration request.
type RegisterRequest struct {
	Email    string      `json:"email"`
	Name     string      `json:"name"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role"`
}

// ToUseCaseInput converts to use case input.
func (r *RegisterRequest) ToUseCaseInput() usecase.RegisterInput {
	return usecase.RegisterInput{
		Email:    r.Email,
		Name:     r.Name,
		Password: r.Password,
		Role:     r.Role,
	}
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateBookingRequest represents a request to schedule an inspection.
// Monetary fields travel as decimal credit strings ("212.50"); omitted
// rates fall back to the configured defaults.
type CreateBookingRequest struct {
	ClientAccountID string    `json:"client_account_id"`
	StoreID         string    `json:"store_id"`
	PlannedStart    time.Time `json:"planned_start"`
	PlannedEnd      time.Time `json:"planned_end"`
	DayRate         *string   `json:"day_rate,omitempty"`
	NightRate       *string   `json:"night_rate,omitempty"`
	TransportFee    *string   `json:"transport_fee,omitempty"`
	WorkerAccountID *string   `json:"worker_account_id,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateBookingRequest) ToUseCaseInput(actorUserID string) (usecase.CreateBookingInput, error) {
	dayRate, err := parseOptionalCredits(r.DayRate)
	if err != nil {
		return usecase.CreateBookingInput{}, err
	}

	nightRate, err := parseOptionalCredits(r.NightRate)
	if err != nil {
		return usecase.CreateBookingInput{}, err
	}

	transportFee, err := parseOptionalCredits(r.TransportFee)
	if err != nil {
		return usecase.CreateBookingInput{}, err
	}

	return usecase.CreateBookingInput{
		ClientAccountID: r.ClientAccountID,
		StoreID:         r.StoreID,
		PlannedStart:    r.PlannedStart,
		PlannedEnd:      r.PlannedEnd,
		DayRate:         dayRate,
		NightRate:       nightRate,
		TransportFee:    transportFee,
		WorkerAccountID: r.WorkerAccountID,
		ActorUserID:     actorUserID,
	}, nil
}

// UpdateBookingRequest represents a booking edit. Nil fields are left
// untouched; any present field triggers a reprice.
type UpdateBookingRequest struct {
	PlannedStart    *time.Time `json:"planned_start,omitempty"`
	PlannedEnd      *time.Time `json:"planned_end,omitempty"`
	ActualArrival   *time.Time `json:"actual_arrival,omitempty"`
	ActualDeparture *time.Time `json:"actual_departure,omitempty"`
	DayRate         *string    `json:"day_rate,omitempty"`
	NightRate       *string    `json:"night_rate,omitempty"`
	TransportFee    *string    `json:"transport_fee,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateBookingRequest) ToUseCaseInput(bookingID, actorUserID string) (usecase.UpdateBookingInput, error) {
	dayRate, err := parseOptionalCredits(r.DayRate)
	if err != nil {
		return usecase.UpdateBookingInput{}, err
	}

	nightRate, err := parseOptionalCredits(r.NightRate)
	if err != nil {
		return usecase.UpdateBookingInput{}, err
	}

	transportFee, err := parseOptionalCredits(r.TransportFee)
	if err != nil {
		return usecase.UpdateBookingInput{}, err
	}

	return usecase.UpdateBookingInput{
		BookingID:       bookingID,
		PlannedStart:    r.PlannedStart,
		PlannedEnd:      r.PlannedEnd,
		ActualArrival:   r.ActualArrival,
		ActualDeparture: r.ActualDeparture,
		DayRate:         dayRate,
		NightRate:       nightRate,
		TransportFee:    transportFee,
		ActorUserID:     actorUserID,
	}, nil
}

// AssignWorkerRequest represents a worker assignment on a booking.
type AssignWorkerRequest struct {
	WorkerAccountID string `json:"worker_account_id"`
}

// ClockRequest represents a clock-in or clock-out tap.
type ClockRequest struct {
	StoreID   string  `json:"store_id,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Geo returns the recorded location.
func (r *ClockRequest) Geo() domain.Geo {
	return domain.Geo{Latitude: r.Latitude, Longitude: r.Longitude}
}

// CreateAssignmentRequest represents a fixed worker-to-store contract.
type CreateAssignmentRequest struct {
	WorkerAccountID string  `json:"worker_account_id"`
	StoreID         string  `json:"store_id"`
	HourlyRate      *string `json:"hourly_rate,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAssignmentRequest) ToUseCaseInput() (usecase.CreateAssignmentInput, error) {
	rate, err := parseOptionalCredits(r.HourlyRate)
	if err != nil {
		return usecase.CreateAssignmentInput{}, err
	}

	return usecase.CreateAssignmentInput{
		WorkerAccountID: r.WorkerAccountID,
		StoreID:         r.StoreID,
		HourlyRate:      rate,
	}, nil
}

// CheckoutWebhookRequest represents the payment provider's checkout event.
type CheckoutWebhookRequest struct {
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID                string `json:"id"`
			ClientReferenceID string `json:"client_reference_id"`
			AmountTotal       int64  `json:"amount_total"`
		} `json:"object"`
	} `json:"data"`
}

// ToUseCaseInput converts to use case input.
func (r *CheckoutWebhookRequest) ToUseCaseInput() usecase.CheckoutCompletedInput {
	return usecase.CheckoutCompletedInput{
		EventType:        r.Type,
		SessionID:        r.Data.Object.ID,
		UserID:           r.Data.Object.ClientReferenceID,
		AmountMinorUnits: r.Data.Object.AmountTotal,
	}
}

func parseOptionalCredits(s *string) (*domain.Credits, error) {
	if s == nil {
		return nil, nil
	}

	c, err := domain.ParseCredits(*s)
	if err != nil {
		return nil, err
	}

	return &c, nil
}
