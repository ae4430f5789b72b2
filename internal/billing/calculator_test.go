package billing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/kosherbill/internal/billing"
	"github.com/iho/kosherbill/internal/domain"
)

func credits(s string) domain.Credits {
	c, err := domain.ParseCredits(s)
	if err != nil {
		panic(err)
	}

	return c
}

func TestCalculator_Price(t *testing.T) {
	calc := billing.NewCalculator(billing.DefaultDayWindow)

	rt := billing.RateTable{
		DayRate:   credits("50"),
		NightRate: credits("75"),
	}

	t.Run("evening booking crossing the night boundary", func(t *testing.T) {
		// 20:00-23:30 at 50/75 = 2h day + 1.5h night = 212.50
		price, err := calc.Price(ts(10, 20, 0), ts(10, 23, 30), rt)
		require.NoError(t, err)
		assert.Equal(t, credits("212.50"), price)
	})

	t.Run("full day booking has no night hours", func(t *testing.T) {
		price, err := calc.Price(ts(10, 8, 0), ts(10, 17, 0), rt)
		require.NoError(t, err)
		assert.Equal(t, credits("450.00"), price)
	})

	t.Run("transport fee added on top", func(t *testing.T) {
		withFee := rt
		withFee.TransportFee = credits("30")

		price, err := calc.Price(ts(10, 8, 0), ts(10, 17, 0), withFee)
		require.NoError(t, err)
		assert.Equal(t, credits("480.00"), price)
	})

	t.Run("negative rate rejected", func(t *testing.T) {
		bad := billing.RateTable{DayRate: -1, NightRate: credits("75")}

		_, err := calc.Price(ts(10, 8, 0), ts(10, 17, 0), bad)
		assert.ErrorIs(t, err, domain.ErrInvalidRate)
	})

	t.Run("invalid interval rejected", func(t *testing.T) {
		_, err := calc.Price(ts(10, 17, 0), ts(10, 8, 0), rt)
		assert.ErrorIs(t, err, domain.ErrInvalidInterval)
	})
}

func TestDefaults_Resolve(t *testing.T) {
	defaults := billing.Defaults{
		DayRate:   credits("50"),
		NightRate: credits("75"),
	}

	t.Run("no overrides", func(t *testing.T) {
		rt := defaults.Resolve(nil, nil, nil)
		assert.Equal(t, credits("50"), rt.DayRate)
		assert.Equal(t, credits("75"), rt.NightRate)
		assert.Equal(t, domain.Credits(0), rt.TransportFee)
	})

	t.Run("explicit overrides win", func(t *testing.T) {
		day := credits("60")
		fee := credits("25")

		rt := defaults.Resolve(&day, nil, &fee)
		assert.Equal(t, credits("60"), rt.DayRate)
		assert.Equal(t, credits("75"), rt.NightRate)
		assert.Equal(t, credits("25"), rt.TransportFee)
	})
}

func TestHourlyAmount(t *testing.T) {
	// 3h at 39.40/h = 118.20
	assert.Equal(t, credits("118.20"), billing.HourlyAmount(3.0, credits("39.40")))
	assert.Equal(t, domain.Credits(0), billing.HourlyAmount(0, credits("39.40")))
	assert.Equal(t, domain.Credits(0), billing.HourlyAmount(-1, credits("39.40")))
}
