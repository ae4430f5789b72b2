package domain

import "time"

// PaymentStatus is the settlement state of a booking's payment.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusSuccess PaymentStatus = "success"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// ServiceBooking is one scheduled freelance inspection engagement, priced by
// day/night banding. Price is a derived, cached value recomputed whenever
// times or rates change; it is never negative. Bookings referenced by ledger
// entries are tombstoned, never hard-deleted.
type ServiceBooking struct {
	ID              string
	ClientAccountID string
	WorkerAccountID *string
	StoreID         string
	PlannedStart    time.Time
	PlannedEnd      time.Time
	ActualArrival   *time.Time
	ActualDeparture *time.Time
	DayRate         Credits
	NightRate       Credits
	TransportFee    Credits
	Price           Credits
	PaymentStatus   PaymentStatus
	DeletedAt       *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// BillableWindow returns the interval the booking is billed for: actual
// arrival/departure when both were recorded, otherwise the planned window.
func (b *ServiceBooking) BillableWindow() (time.Time, time.Time) {
	if b.ActualArrival != nil && b.ActualDeparture != nil {
		return *b.ActualArrival, *b.ActualDeparture
	}

	return b.PlannedStart, b.PlannedEnd
}

// Validate checks booking invariants.
func (b *ServiceBooking) Validate() error {
	start, end := b.BillableWindow()
	if !end.After(start) {
		return ErrInvalidInterval
	}

	if b.DayRate < 0 || b.NightRate < 0 || b.TransportFee < 0 {
		return ErrInvalidRate
	}

	return nil
}

// IsDeleted reports whether the booking has been tombstoned.
func (b *ServiceBooking) IsDeleted() bool {
	return b.DeletedAt != nil
}
