package rates

import (
	"fmt"
	"time"

	"github.com/raterudder/rateexplorer/pkg/types"
)

// IsWeekend returns true for Saturdays and Sundays. Holidays are billed as
// regular weekdays.
func IsWeekend(date time.Time) bool {
	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		return true
	}
	return false
}

// ScheduleFor returns the schedule that applies on date.
func ScheduleFor(weekday, weekend types.Schedule, date time.Time) types.Schedule {
	if IsWeekend(date) {
		return weekend
	}
	return weekday
}

// PeriodAt returns the period in effect at hour (0-23) on date. It returns
// false if the charge doesn't apply, which is different from period 0.
func PeriodAt(weekday, weekend types.Schedule, date time.Time, hour int) (int, bool) {
	return ScheduleFor(weekday, weekend, date).Period(date.Month(), hour)
}

// DaysInMonth returns the number of days from monthStart up to the same time
// one month later.
func DaysInMonth(monthStart time.Time) int {
	end := monthStart.AddDate(0, 1, 0)
	var days int
	for d := monthStart; d.Before(end); d = d.AddDate(0, 0, 1) {
		days++
	}
	return days
}

// ParseMonth parses a YYYY-MM month into its first instant in UTC. An empty
// month is the current month.
func ParseMonth(s string, now time.Time) (time.Time, error) {
	if s == "" {
		now = now.UTC()
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month (want YYYY-MM): %s", s)
	}
	return t, nil
}
