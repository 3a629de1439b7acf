// Package markethours reports whether the Indian cash market is in session.
package markethours

import (
	"log"
	"time"

	"github.com/scmhub/calendar"
)

const (
	StatusOpen   = "Open"
	StatusClosed = "Closed"
)

// Clock answers session questions for NSE. When no exchange calendar is
// available it falls back to weekdays 09:15-15:30 IST with no holidays.
type Clock struct {
	Calendar *calendar.Calendar
	Fallback bool
	Location *time.Location
}

// IST returns Asia/Kolkata, or a fixed +05:30 zone when tzdata is missing.
func IST() *time.Location {
	if loc, err := time.LoadLocation("Asia/Kolkata"); err == nil {
		return loc
	}
	return time.FixedZone("IST", 5*3600+30*60)
}

// NewClock loads the NSE calendar, trying BSE before giving up.
func NewClock() *Clock {
	for _, mic := range []string{"xnse", "xbom"} {
		if cal := calendar.GetCalendar(mic); cal != nil {
			return &Clock{Calendar: cal, Location: cal.Loc}
		}
	}
	log.Println("[WARN] no exchange calendar for NSE, using weekday 09:15-15:30 IST fallback")
	return &Clock{Fallback: true, Location: IST()}
}

// IsTradingDay reports whether date is a session day.
func (c *Clock) IsTradingDay(date time.Time) bool {
	date = date.In(c.Location)
	if c.Fallback {
		wd := date.Weekday()
		return wd != time.Saturday && wd != time.Sunday
	}
	return c.Calendar.IsBusinessDay(date)
}

// IsOpen reports whether t falls inside a trading session.
func (c *Clock) IsOpen(t time.Time) bool {
	t = t.In(c.Location)
	if !c.Fallback {
		return c.Calendar.IsOpen(t)
	}
	if !c.IsTradingDay(t) {
		return false
	}
	mins := t.Hour()*60 + t.Minute()
	return mins >= 9*60+15 && mins < 15*60+30
}

// Status returns "Open" or "Closed".
func (c *Clock) Status(t time.Time) string {
	if c.IsOpen(t) {
		return StatusOpen
	}
	return StatusClosed
}
