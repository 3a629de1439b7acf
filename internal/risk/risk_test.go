package risk

import (
	"testing"

	"SignalDesk/internal/model"
)

func days(d int) *int { return &d }

func TestAssess(t *testing.T) {
	cases := []struct {
		in     *int
		target int
		want   model.RiskLevel
		before bool
	}{
		{days(0), 5, model.RiskHigh, true},
		{days(3), 2, model.RiskHigh, false},
		{days(4), 5, model.RiskMedium, true},
		{days(10), 5, model.RiskMedium, false},
		{days(11), 20, model.RiskLow, true},
		{nil, 5, model.RiskUnknown, false},
	}
	for _, tc := range cases {
		got := Assess(tc.in, tc.target)
		if got.EarningsRisk != tc.want {
			t.Errorf("days=%v: expected %s, got %s", tc.in, tc.want, got.EarningsRisk)
		}
		if got.EarningsBeforeTarget != tc.before {
			t.Errorf("days=%v target=%d: expected before=%v", tc.in, tc.target, tc.before)
		}
	}
}
