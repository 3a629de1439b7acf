package targets

import (
	"math"
	"testing"

	"SignalDesk/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vol(v float64) *float64 { return &v }

func TestCalculate_UpUsesLevels(t *testing.T) {
	t.Parallel()
	lv := model.Levels{
		Supports:    []model.Level{{Price: 90}, {Price: 95}},
		Resistances: []model.Level{{Price: 110}, {Price: 120}},
	}
	cfg := DefaultConfig()
	pt := Calculate(model.DirectionUp, 100, lv, vol(math.Sqrt(252)), cfg)

	// daily vol = 1% so one unit is 1.0 and the buffer 0.25.
	assert.InDelta(t, 110.25, pt.TargetPrice, 1e-9)
	assert.Equal(t, 95.0, pt.StopLoss)
	assert.True(t, pt.UsedLevelForTarget)
	assert.True(t, pt.UsedLevelForStop)
	assert.InDelta(t, 10.25/5, pt.RiskRewardRatio, 1e-9)
	assert.Equal(t, 10, pt.DaysToTarget)
}

func TestCalculate_DownMirrors(t *testing.T) {
	t.Parallel()
	lv := model.Levels{
		Supports:    []model.Level{{Price: 90}},
		Resistances: []model.Level{{Price: 104}},
	}
	pt := Calculate(model.DirectionDown, 100, lv, vol(math.Sqrt(252)), DefaultConfig())
	assert.InDelta(t, 89.75, pt.TargetPrice, 1e-9)
	assert.Equal(t, 104.0, pt.StopLoss)
	assert.Less(t, pt.TargetPrice, 100.0)
	assert.Greater(t, pt.StopLoss, 100.0)
}

func TestCalculate_FallbackWithoutLevels(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()
	for _, dir := range []model.Direction{model.DirectionUp, model.DirectionDown} {
		pt := Calculate(dir, 200, model.Levels{}, nil, cfg)
		require.False(t, pt.UsedLevelForTarget)
		require.False(t, pt.UsedLevelForStop)
		// Missing volatility falls back to 0.5% of price per unit.
		if dir == model.DirectionUp {
			assert.InDelta(t, 202, pt.TargetPrice, 1e-9)
			assert.InDelta(t, 198, pt.StopLoss, 1e-9)
		} else {
			assert.InDelta(t, 198, pt.TargetPrice, 1e-9)
			assert.InDelta(t, 202, pt.StopLoss, 1e-9)
		}
		assert.InDelta(t, 1.0, pt.RiskRewardRatio, 1e-9)
		assert.Equal(t, 2, pt.DaysToTarget)
	}
}

func TestCalculate_ZeroVolatilityUsesMinimumDistance(t *testing.T) {
	t.Parallel()
	pt := Calculate(model.DirectionNeutral, 100, model.Levels{}, vol(0), DefaultConfig())
	assert.InDelta(t, 101, pt.TargetPrice, 1e-9)
	assert.InDelta(t, 99, pt.StopLoss, 1e-9)
	assert.GreaterOrEqual(t, pt.DaysToTarget, 1)
}

func TestDailyMove_FloorsNegligibleVolatility(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()
	assert.InDelta(t, 0.5, DailyMove(100, vol(0.01), cfg), 1e-12)
	assert.InDelta(t, 2.0, DailyMove(100, vol(2*math.Sqrt(252)), cfg), 1e-9)
}

func TestRiskReward_ZeroDenominator(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 0.0, RiskReward(100, 110, 100))
	assert.Equal(t, 0.0, RiskReward(100, 110, 100.001))
	assert.InDelta(t, 2.0, RiskReward(100, 110, 95), 1e-9)
}

func TestDaysToTarget(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 1, DaysToTarget(100, 100.1, 1))
	assert.Equal(t, 5, DaysToTarget(100, 105, 1))
	assert.Equal(t, 1, DaysToTarget(100, 105, 0))
}

func TestCalculate_LevelRoundingToPriceFallsBack(t *testing.T) {
	t.Parallel()
	lv := model.Levels{
		Supports:    []model.Level{{Price: 99.997}},
		Resistances: []model.Level{{Price: 100.004}},
	}
	cfg := DefaultConfig()

	up := Calculate(model.DirectionUp, 100, lv, nil, cfg)
	assert.False(t, up.UsedLevelForStop)
	assert.False(t, up.UsedLevelForTarget)
	assert.InDelta(t, 99, up.StopLoss, 1e-9)
	assert.Less(t, model.Round2(up.StopLoss), 100.0)
	assert.Greater(t, up.RiskRewardRatio, 0.0)

	down := Calculate(model.DirectionDown, 100, lv, nil, cfg)
	assert.False(t, down.UsedLevelForStop)
	assert.Greater(t, model.Round2(down.StopLoss), 100.0)
}
