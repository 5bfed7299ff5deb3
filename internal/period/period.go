// Package period models calendar months in UTC.
package period

import (
	"time"

	"syntra-bizops/internal/apperr"
	"syntra-bizops/internal/database/models"
)

type Month struct {
	Year  int
	Month time.Month
}

// New validates month in 1..12 and year in 1..9999.
func New(year, month int) (Month, error) {
	if month < 1 || month > 12 {
		return Month{}, apperr.InvalidInput("month must be between 1 and 12, got %d", month)
	}
	if year < 1 || year > 9999 {
		return Month{}, apperr.InvalidInput("year must be between 1 and 9999, got %d", year)
	}
	return Month{Year: year, Month: time.Month(month)}, nil
}

func Of(t time.Time) Month {
	t = t.UTC()
	return Month{Year: t.Year(), Month: t.Month()}
}

func (m Month) Start() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// End is the first instant of the following month.
func (m Month) End() time.Time {
	return m.Start().AddDate(0, 1, 0)
}

func (m Month) DaysIn() int {
	return m.End().AddDate(0, 0, -1).Day()
}

// DayRange returns the first and last day keys of the month.
func (m Month) DayRange() (string, string) {
	return m.Start().Format(models.DayLayout), m.End().AddDate(0, 0, -1).Format(models.DayLayout)
}

// WorkingDays counts the days of the month that are not the weekly off day.
func (m Month) WorkingDays(off time.Weekday) int {
	n := 0
	for d := m.Start(); d.Before(m.End()); d = d.AddDate(0, 0, 1) {
		if d.Weekday() != off {
			n++
		}
	}
	return n
}
