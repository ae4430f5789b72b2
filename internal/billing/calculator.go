package billing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/kosherbill/internal/domain"
)

// RateTable holds the per-booking hourly rates plus the optional flat
// transport fee, all in credit minor units.
type RateTable struct {
	DayRate      domain.Credits
	NightRate    domain.Credits
	TransportFee domain.Credits
}

// Defaults are the system-wide rates applied when a booking or assignment
// carries no explicit override. They are a single named configuration value,
// never a fallback scattered across call sites.
type Defaults struct {
	DayRate    domain.Credits
	NightRate  domain.Credits
	HourlyRate domain.Credits
	DayWindow  DayWindow
}

// Resolve builds the effective rate table for a booking, taking the default
// rate wherever no override is supplied.
func (d Defaults) Resolve(dayRate, nightRate, transportFee *domain.Credits) RateTable {
	rt := RateTable{
		DayRate:   d.DayRate,
		NightRate: d.NightRate,
	}

	if dayRate != nil {
		rt.DayRate = *dayRate
	}

	if nightRate != nil {
		rt.NightRate = *nightRate
	}

	if transportFee != nil {
		rt.TransportFee = *transportFee
	}

	return rt
}

// Calculator prices intervals from day/night band hours and a rate table.
type Calculator struct {
	window DayWindow
}

// NewCalculator creates a Calculator for the given day window.
func NewCalculator(window DayWindow) *Calculator {
	return &Calculator{window: window}
}

// Price computes dayHours*DayRate + nightHours*NightRate + TransportFee,
// banker-rounded to the minor unit. Negative rates are rejected before any
// arithmetic.
func (c *Calculator) Price(start, end time.Time, rt RateTable) (domain.Credits, error) {
	if rt.DayRate < 0 || rt.NightRate < 0 || rt.TransportFee < 0 {
		return 0, domain.ErrInvalidRate
	}

	dayHours, nightHours, err := Split(start, end, c.window)
	if err != nil {
		return 0, err
	}

	total := decimal.NewFromFloat(dayHours).Mul(rt.DayRate.Decimal()).
		Add(decimal.NewFromFloat(nightHours).Mul(rt.NightRate.Decimal()))

	return domain.CreditsFromDecimal(total) + rt.TransportFee, nil
}

// HourlyAmount prices worked hours at a flat hourly rate, banker-rounded to
// the minor unit. Used for fixed-assignment monthly reports.
func HourlyAmount(hours float64, rate domain.Credits) domain.Credits {
	if hours <= 0 {
		return 0
	}

	return domain.CreditsFromDecimal(decimal.NewFromFloat(hours).Mul(rate.Decimal()))
}
