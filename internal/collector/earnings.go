package collector

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// FileEarningsCalendar holds announced result dates loaded from YAML:
//
//	earnings:
//	  INFY: [2025-04-17, 2025-07-17]
type FileEarningsCalendar struct {
	dates map[string][]time.Time
}

// LoadEarningsCalendar reads the calendar file. A missing file yields an empty calendar.
func LoadEarningsCalendar(path string) (*FileEarningsCalendar, error) {
	cal := &FileEarningsCalendar{dates: map[string][]time.Time{}}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cal, nil
		}
		return nil, fmt.Errorf("read earnings calendar: %w", err)
	}
	var doc struct {
		Earnings map[string][]string `yaml:"earnings"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse earnings calendar: %w", err)
	}
	for sym, days := range doc.Earnings {
		for _, d := range days {
			t, err := time.Parse("2006-01-02", d)
			if err != nil {
				return nil, fmt.Errorf("earnings calendar %s: %w", sym, err)
			}
			cal.dates[strings.ToUpper(sym)] = append(cal.dates[strings.ToUpper(sym)], t)
		}
	}
	return cal, nil
}

// NextEarnings returns the first result date on or after from's calendar day.
func (c *FileEarningsCalendar) NextEarnings(symbol string, from time.Time) (time.Time, bool) {
	day := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	var best time.Time
	found := false
	for _, d := range c.dates[strings.ToUpper(symbol)] {
		if d.Before(day) {
			continue
		}
		if !found || d.Before(best) {
			best, found = d, true
		}
	}
	return best, found
}

// DaysUntil counts whole calendar days from from's date to event's date.
func DaysUntil(from, event time.Time) int {
	a := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(event.Year(), event.Month(), event.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
