package billing

import (
	"time"

	"github.com/iho/kosherbill/internal/domain"
)

// DayWindow defines the hours billed at the day rate, [StartHour, EndHour).
// Hours outside the window bill at the night rate.
type DayWindow struct {
	StartHour int
	EndHour   int
}

// DefaultDayWindow is the standard 06:00-22:00 day band.
var DefaultDayWindow = DayWindow{StartHour: 6, EndHour: 22}

// Contains reports whether t falls inside the day window. Windows that wrap
// midnight (StartHour > EndHour) are supported.
func (w DayWindow) Contains(t time.Time) bool {
	h := t.Hour()

	if w.StartHour <= w.EndHour {
		return h >= w.StartHour && h < w.EndHour
	}

	return h >= w.StartHour || h < w.EndHour
}

// Split divides [start, end) into day and night hours. It walks the interval
// as sub-intervals bounded by every hour-boundary crossing and classifies
// each by where its start falls; a sub-interval never spans an hour boundary,
// so the split is exact for sub-hour and multi-day intervals alike, with no
// correction step for the final partial hour.
func Split(start, end time.Time, w DayWindow) (dayHours, nightHours float64, err error) {
	if !end.After(start) {
		return 0, 0, domain.ErrInvalidInterval
	}

	cur := start
	for cur.Before(end) {
		next := cur.Truncate(time.Hour).Add(time.Hour)
		if next.After(end) {
			next = end
		}

		hours := next.Sub(cur).Hours()
		if w.Contains(cur) {
			dayHours += hours
		} else {
			nightHours += hours
		}

		cur = next
	}

	return dayHours, nightHours, nil
}
