package dto

import (
	"time"

	"github.com/iho/kosherbill/internal/domain"
	"github.com/iho/kosherbill/internal/usecase"
)

// AccountResponse represents an account in API responses. Balances travel
// as decimal credit strings.
type AccountResponse struct {
	ID            string             `json:"id"`
	UserID        string             `json:"user_id"`
	Name          string             `json:"name"`
	Kind          domain.AccountKind `json:"kind"`
	Balance       string             `json:"balance"`
	Version       int64              `json:"version"`
	Disabled      bool               `json:"disabled"`
	WritesBlocked bool               `json:"writes_blocked"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:            a.ID,
		UserID:        a.UserID,
		Name:          a.Name,
		Kind:          a.Kind,
		Balance:       a.Balance.String(),
		Version:       a.Version,
		Disabled:      a.Disabled,
		WritesBlocked: a.WritesBlocked,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

// BookingResponse represents a booking in API responses.
type BookingResponse struct {
	ID              string               `json:"id"`
	ClientAccountID string               `json:"client_account_id"`
	WorkerAccountID *string              `json:"worker_account_id,omitempty"`
	StoreID         string               `json:"store_id"`
	PlannedStart    time.Time            `json:"planned_start"`
	PlannedEnd      time.Time            `json:"planned_end"`
	ActualArrival   *time.Time           `json:"actual_arrival,omitempty"`
	ActualDeparture *time.Time           `json:"actual_departure,omitempty"`
	DayRate         string               `json:"day_rate"`
	NightRate       string               `json:"night_rate"`
	TransportFee    string               `json:"transport_fee"`
	Price           string               `json:"price"`
	PaymentStatus   domain.PaymentStatus `json:"payment_status"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

// BookingFromDomain converts domain booking to response.
func BookingFromDomain(b *domain.ServiceBooking) *BookingResponse {
	return &BookingResponse{
		ID:              b.ID,
		ClientAccountID: b.ClientAccountID,
		WorkerAccountID: b.WorkerAccountID,
		StoreID:         b.StoreID,
		PlannedStart:    b.PlannedStart,
		PlannedEnd:      b.PlannedEnd,
		ActualArrival:   b.ActualArrival,
		ActualDeparture: b.ActualDeparture,
		DayRate:         b.DayRate.String(),
		NightRate:       b.NightRate.String(),
		TransportFee:    b.TransportFee.String(),
		Price:           b.Price.String(),
		PaymentStatus:   b.PaymentStatus,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

// BookingsFromDomain converts domain bookings to responses.
func BookingsFromDomain(bookings []*domain.ServiceBooking) []*BookingResponse {
	result := make([]*BookingResponse, len(bookings))
	for i, b := range bookings {
		result[i] = BookingFromDomain(b)
	}
	return result
}

// LedgerEntryResponse represents a ledger entry in API responses.
type LedgerEntryResponse struct {
	ID            string             `json:"id"`
	FromAccountID *string            `json:"from_account_id,omitempty"`
	ToAccountID   *string            `json:"to_account_id,omitempty"`
	Amount        string             `json:"amount"`
	ReferenceID   string             `json:"reference_id"`
	Status        domain.EntryStatus `json:"status"`
	CreatedAt     time.Time          `json:"created_at"`
	SettledAt     *time.Time         `json:"settled_at,omitempty"`
}

// LedgerEntryFromDomain converts domain entry to response.
func LedgerEntryFromDomain(e *domain.LedgerEntry) *LedgerEntryResponse {
	return &LedgerEntryResponse{
		ID:            e.ID,
		FromAccountID: e.FromAccountID,
		ToAccountID:   e.ToAccountID,
		Amount:        e.Amount.String(),
		ReferenceID:   e.ReferenceID,
		Status:        e.Status,
		CreatedAt:     e.CreatedAt,
		SettledAt:     e.SettledAt,
	}
}

// LedgerEntriesFromDomain converts domain entries to responses.
func LedgerEntriesFromDomain(entries []*domain.LedgerEntry) []*LedgerEntryResponse {
	result := make([]*LedgerEntryResponse, len(entries))
	for i, e := range entries {
		result[i] = LedgerEntryFromDomain(e)
	}
	return result
}

// TimeEntryResponse represents a clock entry in API responses.
type TimeEntryResponse struct {
	ID              string      `json:"id"`
	WorkerAccountID string      `json:"worker_account_id"`
	StoreID         string      `json:"store_id"`
	ClockIn         time.Time   `json:"clock_in"`
	ClockOut        *time.Time  `json:"clock_out,omitempty"`
	LunchStart      *time.Time  `json:"lunch_start,omitempty"`
	LunchEnd        *time.Time  `json:"lunch_end,omitempty"`
	ClockInGeo      domain.Geo  `json:"clock_in_geo"`
	ClockOutGeo     *domain.Geo `json:"clock_out_geo,omitempty"`
	WorkedHours     float64     `json:"worked_hours"`
}

// TimeEntryFromDomain converts domain time entry to response.
func TimeEntryFromDomain(e *domain.TimeEntry) *TimeEntryResponse {
	return &TimeEntryResponse{
		ID:              e.ID,
		WorkerAccountID: e.WorkerAccountID,
		StoreID:         e.StoreID,
		ClockIn:         e.ClockIn,
		ClockOut:        e.ClockOut,
		LunchStart:      e.LunchStart,
		LunchEnd:        e.LunchEnd,
		ClockInGeo:      e.ClockInGeo,
		ClockOutGeo:     e.ClockOutGeo,
		WorkedHours:     e.WorkedHours(),
	}
}

// TimeEntriesFromDomain converts domain time entries to responses.
func TimeEntriesFromDomain(entries []*domain.TimeEntry) []*TimeEntryResponse {
	result := make([]*TimeEntryResponse, len(entries))
	for i, e := range entries {
		result[i] = TimeEntryFromDomain(e)
	}
	return result
}

// AssignmentResponse represents a fixed assignment in API responses.
type AssignmentResponse struct {
	ID              string     `json:"id"`
	WorkerAccountID string     `json:"worker_account_id"`
	StoreID         string     `json:"store_id"`
	HourlyRate      string     `json:"hourly_rate"`
	Active          bool       `json:"active"`
	CreatedAt       time.Time  `json:"created_at"`
	EndedAt         *time.Time `json:"ended_at,omitempty"`
}

// AssignmentFromDomain converts domain assignment to response.
func AssignmentFromDomain(a *domain.FixedAssignment) *AssignmentResponse {
	return &AssignmentResponse{
		ID:              a.ID,
		WorkerAccountID: a.WorkerAccountID,
		StoreID:         a.StoreID,
		HourlyRate:      a.HourlyRate.String(),
		Active:          a.Active(),
		CreatedAt:       a.CreatedAt,
		EndedAt:         a.DeletedAt,
	}
}

// AssignmentsFromDomain converts domain assignments to responses.
func AssignmentsFromDomain(assignments []*domain.FixedAssignment) []*AssignmentResponse {
	result := make([]*AssignmentResponse, len(assignments))
	for i, a := range assignments {
		result[i] = AssignmentFromDomain(a)
	}
	return result
}

// DayHoursResponse is one day of a monthly report.
type DayHoursResponse struct {
	Date   string  `json:"date"`
	Hours  float64 `json:"hours"`
	Amount string  `json:"amount"`
}

// MonthlyReportResponse represents a worker's monthly hours report.
type MonthlyReportResponse struct {
	WorkerAccountID string               `json:"worker_account_id"`
	Month           int                  `json:"month"`
	Year            int                  `json:"year"`
	Entries         []*TimeEntryResponse `json:"entries"`
	Days            []DayHoursResponse   `json:"days"`
	TotalHours      float64              `json:"total_hours"`
	TotalAmount     string               `json:"total_amount"`
	OpenEntries     int                  `json:"open_entries"`
}

// MonthlyReportFromUseCase converts a monthly report to response.
func MonthlyReportFromUseCase(r *usecase.MonthlyReport) *MonthlyReportResponse {
	days := make([]DayHoursResponse, len(r.Days))
	for i, d := range r.Days {
		days[i] = DayHoursResponse{
			Date:   d.Date.Format("2006-01-02"),
			Hours:  d.Hours,
			Amount: d.Amount.String(),
		}
	}

	return &MonthlyReportResponse{
		WorkerAccountID: r.WorkerAccountID,
		Month:           int(r.Month),
		Year:            r.Year,
		Entries:         TimeEntriesFromDomain(r.Entries),
		Days:            days,
		TotalHours:      r.TotalHours,
		TotalAmount:     r.TotalAmount.String(),
		OpenEntries:     r.OpenEntries,
	}
}

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID        string      `json:"id"`
	Email     string      `json:"email"`
	Name      string      `json:"name"`
	Role      domain.Role `json:"role"`
	AccountID string      `json:"account_id"`
}

// UserFromDomain converts domain user to response.
func UserFromDomain(u *domain.User) *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		AccountID: u.AccountID,
	}
}

// AuthResponse represents a successful authentication.
type AuthResponse struct {
	Token string        `json:"token"`
	User  *UserResponse `json:"user"`
}

// WebhookResponse acknowledges a webhook delivery.
type WebhookResponse struct {
	Received bool `json:"received"`
	Replay   bool `json:"replay,omitempty"`
	Ignored  bool `json:"ignored,omitempty"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
