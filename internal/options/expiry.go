package options

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"SignalDesk/internal/model"
)

// MonthlyExpiry returns the last Thursday of asOf's month, or of the next
// month once that date has passed.
func MonthlyExpiry(asOf time.Time) time.Time {
	if asOf.IsZero() {
		asOf = time.Now()
	}
	day := time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, asOf.Location())
	expiry := lastThursday(day.Year(), day.Month(), day.Location())
	if day.After(expiry) {
		next := day.AddDate(0, 1, 1-day.Day())
		expiry = lastThursday(next.Year(), next.Month(), next.Location())
	}
	return expiry
}

func lastThursday(year int, month time.Month, loc *time.Location) time.Time {
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, loc)
	back := (int(last.Weekday()) - int(time.Thursday) + 7) % 7
	return last.AddDate(0, 0, -back)
}

// TradingSymbol formats an exchange monthly option symbol such as
// INFY25APR1600CE.
func TradingSymbol(symbol string, expiry time.Time, strike float64, t model.OptionType) string {
	return fmt.Sprintf("%s%s%s%s%s",
		strings.ToUpper(symbol),
		expiry.Format("06"),
		strings.ToUpper(expiry.Format("Jan")),
		strconv.FormatFloat(strike, 'f', -1, 64),
		t)
}
