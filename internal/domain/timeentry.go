package domain

import "time"

// Geo is the location recorded with a clock event.
type Geo struct {
	Latitude  float64
	Longitude float64
}

// TimeEntry is one worker's clock cycle on a fixed assignment. A worker has
// at most one entry with a nil ClockOut at any time.
type TimeEntry struct {
	ID              string
	WorkerAccountID string
	StoreID         string
	ClockIn         time.Time
	ClockOut        *time.Time
	LunchStart      *time.Time
	LunchEnd        *time.Time
	ClockInGeo      Geo
	ClockOutGeo     *Geo
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsOpen reports whether the shift has not been clocked out yet.
func (e *TimeEntry) IsOpen() bool {
	return e.ClockOut == nil
}

// OnLunch reports whether a lunch break is in progress.
func (e *TimeEntry) OnLunch() bool {
	return e.LunchStart != nil && e.LunchEnd == nil
}

// CanStartLunch reports whether a lunch break may begin.
func (e *TimeEntry) CanStartLunch() bool {
	return e.IsOpen() && e.LunchStart == nil
}

// CanEndLunch reports whether a lunch break may end.
func (e *TimeEntry) CanEndLunch() bool {
	return e.IsOpen() && e.OnLunch()
}

// WorkedHours returns the hours worked for a closed entry, net of lunch,
// clamped to [0, 24]. Open entries contribute zero.
func (e *TimeEntry) WorkedHours() float64 {
	if e.ClockOut == nil {
		return 0
	}

	hours := e.ClockOut.Sub(e.ClockIn).Hours()
	if e.LunchStart != nil && e.LunchEnd != nil {
		hours -= e.LunchEnd.Sub(*e.LunchStart).Hours()
	}

	if hours < 0 {
		return 0
	}

	if hours > 24 {
		return 24
	}

	return hours
}
