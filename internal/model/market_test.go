package model

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bars(closes ...float64) []PriceBar {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]PriceBar, len(closes))
	for i, c := range closes {
		out[i] = PriceBar{Time: start.AddDate(0, 0, i), Open: c, High: c, Low: c, Close: c, Volume: 100}
	}
	return out
}

func TestPriceSeriesValidate(t *testing.T) {
	t.Parallel()

	dup := bars(10, 11, 12)
	dup[2].Time = dup[1].Time

	neg := bars(10, 11, 12)
	neg[1].Low = 0

	vol := bars(10, 11)
	vol[0].Volume = -1

	cases := []struct {
		name   string
		series PriceSeries
		reason error
	}{
		{"valid", PriceSeries{Symbol: "A", Bars: bars(10, 11, 12)}, nil},
		{"empty", PriceSeries{Symbol: "A"}, ErrEmptySeries},
		{"duplicate timestamp", PriceSeries{Symbol: "A", Bars: dup}, ErrNonMonotonic},
		{"zero price", PriceSeries{Symbol: "A", Bars: neg}, ErrNonPositivePrice},
		{"negative volume", PriceSeries{Symbol: "A", Bars: vol}, ErrNegativeVolume},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.series.Validate()
			if tc.reason == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var ise *InvalidSeriesError
			require.True(t, errors.As(err, &ise))
			assert.Equal(t, "A", ise.Symbol)
			assert.ErrorIs(t, err, tc.reason)
		})
	}
}

func TestPriceSeriesAccessors(t *testing.T) {
	s := PriceSeries{Symbol: "A", Bars: bars(10, 11, 12)}
	assert.Equal(t, 12.0, s.CurrentPrice())
	prev, ok := s.PreviousClose()
	assert.True(t, ok)
	assert.Equal(t, 11.0, prev)
	assert.Equal(t, []float64{10, 11, 12}, s.Closes())

	single := PriceSeries{Symbol: "A", Bars: bars(10)}
	_, ok = single.PreviousClose()
	assert.False(t, ok)
}

func TestIndicatorSnapshotEmpty(t *testing.T) {
	assert.True(t, IndicatorSnapshot{}.Empty())
	assert.False(t, IndicatorSnapshot{ATR: Float(1)}.Empty())
}
