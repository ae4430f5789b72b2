package billing_test

import (
	"math"
	"testing"
	"time"

	"github.com/iho/kosherbill/internal/billing"
	"github.com/iho/kosherbill/internal/domain"
)

func ts(day, hour, minute int) time.Time {
	return time.Date(2024, time.March, day, hour, minute, 0, 0, time.UTC)
}

func TestSplit(t *testing.T) {
	tests := []struct {
		name      string
		start     time.Time
		end       time.Time
		wantDay   float64
		wantNight float64
	}{
		{
			name:      "evening crossing into night band",
			start:     ts(10, 20, 0),
			end:       ts(10, 23, 30),
			wantDay:   2.0,
			wantNight: 1.5,
		},
		{
			name:      "fully inside day window",
			start:     ts(10, 8, 0),
			end:       ts(10, 17, 0),
			wantDay:   9.0,
			wantNight: 0,
		},
		{
			name:      "fully inside night band wrapping midnight",
			start:     ts(10, 23, 0),
			end:       ts(11, 5, 0),
			wantDay:   0,
			wantNight: 6.0,
		},
		{
			name:      "sub-hour interval",
			start:     ts(10, 9, 15),
			end:       ts(10, 9, 45),
			wantDay:   0.5,
			wantNight: 0,
		},
		{
			name:      "partial hour straddling the morning boundary",
			start:     ts(10, 5, 30),
			end:       ts(10, 6, 30),
			wantDay:   0.5,
			wantNight: 0.5,
		},
		{
			name:      "multi-day span",
			start:     ts(10, 22, 0),
			end:       ts(11, 22, 0),
			wantDay:   16.0,
			wantNight: 8.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			day, night, err := billing.Split(tt.start, tt.end, billing.DefaultDayWindow)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if math.Abs(day-tt.wantDay) > 1e-9 {
				t.Errorf("day hours = %v, want %v", day, tt.wantDay)
			}

			if math.Abs(night-tt.wantNight) > 1e-9 {
				t.Errorf("night hours = %v, want %v", night, tt.wantNight)
			}
		})
	}
}

func TestSplit_SumEqualsDuration(t *testing.T) {
	intervals := []struct {
		start time.Time
		end   time.Time
	}{
		{ts(10, 5, 59), ts(10, 6, 1)},
		{ts(10, 0, 0), ts(13, 0, 0)},
		{ts(10, 21, 59), ts(10, 22, 1)},
		{ts(10, 6, 30), ts(10, 6, 31)},
		{ts(10, 12, 17), ts(12, 3, 43)},
	}

	for _, iv := range intervals {
		day, night, err := billing.Split(iv.start, iv.end, billing.DefaultDayWindow)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := iv.end.Sub(iv.start).Hours()
		if math.Abs(day+night-want) > 1e-9 {
			t.Errorf("split(%v, %v): day+night = %v, want %v", iv.start, iv.end, day+night, want)
		}
	}
}

func TestSplit_InvalidInterval(t *testing.T) {
	_, _, err := billing.Split(ts(10, 12, 0), ts(10, 12, 0), billing.DefaultDayWindow)
	if err != domain.ErrInvalidInterval {
		t.Errorf("expected ErrInvalidInterval, got %v", err)
	}

	_, _, err = billing.Split(ts(10, 12, 0), ts(10, 11, 0), billing.DefaultDayWindow)
	if err != domain.ErrInvalidInterval {
		t.Errorf("expected ErrInvalidInterval, got %v", err)
	}
}

func TestDayWindow_Wrapping(t *testing.T) {
	// A window from 22 to 6 treats the overnight hours as "day".
	w := billing.DayWindow{StartHour: 22, EndHour: 6}

	if !w.Contains(ts(10, 23, 0)) {
		t.Error("expected 23:00 inside wrapping window")
	}

	if w.Contains(ts(10, 12, 0)) {
		t.Error("expected 12:00 outside wrapping window")
	}
}
