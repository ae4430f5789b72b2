package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Credits is a monetary amount in minor units (1 credit = 100 minor units).
// All balances and prices are stored as integers to avoid floating drift;
// conversion to display format happens only at the API boundary.
type Credits int64

// minorUnitsPerCredit is the scale of the internal currency.
const minorUnitsPerCredit = 100

// CreditsFromDecimal converts a decimal credit amount (e.g. "212.50") to
// minor units using banker's rounding.
func CreditsFromDecimal(d decimal.Decimal) Credits {
	return Credits(d.Mul(decimal.NewFromInt(minorUnitsPerCredit)).RoundBank(0).IntPart())
}

// Decimal returns the amount as whole credits.
func (c Credits) Decimal() decimal.Decimal {
	return decimal.New(int64(c), 0).Div(decimal.NewFromInt(minorUnitsPerCredit))
}

// String formats the amount as whole credits with two fractional digits.
func (c Credits) String() string {
	return c.Decimal().StringFixed(2)
}

// IsNegative reports whether the amount is below zero.
func (c Credits) IsNegative() bool {
	return c < 0
}

// ParseCredits parses a decimal credit string into minor units.
func ParseCredits(s string) (Credits, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	return CreditsFromDecimal(d), nil
}
