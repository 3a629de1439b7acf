package model

// IndicatorSnapshot holds the technical indicators at the latest bar.
// A nil field means the series was too short for that indicator's lookback.
type IndicatorSnapshot struct {
	RSI                 *float64 `json:"rsi,omitempty"`
	RSIChange           *float64 `json:"rsi_change,omitempty"`
	MACD                *float64 `json:"macd,omitempty"`
	MACDSignal          *float64 `json:"macd_signal,omitempty"`
	MACDHistogram       *float64 `json:"macd_histogram,omitempty"`
	ADX                 *float64 `json:"adx,omitempty"`
	PlusDI              *float64 `json:"plus_di,omitempty"`
	MinusDI             *float64 `json:"minus_di,omitempty"`
	SMA20               *float64 `json:"sma_20,omitempty"`
	SMA50               *float64 `json:"sma_50,omitempty"`
	SMA200              *float64 `json:"sma_200,omitempty"`
	EMA21               *float64 `json:"ema_21,omitempty"`
	ATR                 *float64 `json:"atr,omitempty"`
	VolatilityPercent   *float64 `json:"volatility_percent,omitempty"`
	VolumeChangePercent *float64 `json:"volume_change_percent,omitempty"`

	// Flat is set when every close in the series is identical.
	Flat bool `json:"-"`
}

// Empty reports whether no indicator could be computed.
func (s IndicatorSnapshot) Empty() bool {
	for _, v := range []*float64{
		s.RSI, s.RSIChange, s.MACD, s.MACDSignal, s.MACDHistogram, s.ADX, s.PlusDI, s.MinusDI,
		s.SMA20, s.SMA50, s.SMA200, s.EMA21, s.ATR, s.VolatilityPercent, s.VolumeChangePercent,
	} {
		if v != nil {
			return false
		}
	}
	return true
}

// Float returns a pointer to v, for building snapshots.
func Float(v float64) *float64 { return &v }
