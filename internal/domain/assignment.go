package domain

import "time"

// FixedAssignment is a recurring worker-to-store contract billed at a flat
// hourly rate, tracked via clock-in/out rather than day/night banding.
type FixedAssignment struct {
	ID              string
	WorkerAccountID string
	StoreID         string
	HourlyRate      Credits
	DeletedAt       *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Active reports whether the assignment is still in force.
func (a *FixedAssignment) Active() bool {
	return a.DeletedAt == nil
}
