package dateutil

import (
	"time"
)

// Layout is the calendar-date layout used for serialised dates.
const Layout = "2006-01-02"

// Date builds a calendar date at UTC midnight.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Normalize strips the clock component, keeping the calendar date as seen in
// the value's own location.
func Normalize(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), t.Day())
}

// Parse reads a YYYY-MM-DD date.
func Parse(s string) (time.Time, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return time.Time{}, err
	}
	return Normalize(t), nil
}

// Format renders a date as YYYY-MM-DD.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// DaysInMonth returns the number of days in the given month
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// AddMonths adds calendar months. When the target month is shorter than the
// source day the result clamps to the target month's last day, so
// Jan 31 + 1 month is Feb 28 (Feb 29 in leap years).
func AddMonths(date time.Time, months int) time.Time {
	total := int(date.Month()) - 1 + months
	year := date.Year() + total/12
	month := total % 12
	if month < 0 {
		month += 12
		year--
	}
	m := time.Month(month + 1)
	day := date.Day()
	if last := DaysInMonth(year, m); day > last {
		day = last
	}
	return time.Date(year, m, day, date.Hour(), date.Minute(), date.Second(), date.Nanosecond(), date.Location())
}

// AddDays adds a number of days
func AddDays(date time.Time, days int) time.Time {
	return date.AddDate(0, 0, days)
}

// MonthsBetween returns the whole-month difference from one date to another,
// counting only years and months: (y2-y1)*12 + (m2-m1). Days are ignored.
func MonthsBetween(from, to time.Time) int {
	return (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
}

// DaysBetween returns the number of calendar days from one date to another.
func DaysBetween(from, to time.Time) int {
	return int(Normalize(to).Sub(Normalize(from)).Hours() / 24)
}

// Earliest returns the earliest of the given dates, or nil when none are given.
func Earliest(dates ...time.Time) *time.Time {
	var out *time.Time
	for i := range dates {
		if out == nil || dates[i].Before(*out) {
			d := dates[i]
			out = &d
		}
	}
	return out
}

// Latest returns the latest of the given dates, or nil when none are given.
func Latest(dates ...time.Time) *time.Time {
	var out *time.Time
	for i := range dates {
		if out == nil || dates[i].After(*out) {
			d := dates[i]
			out = &d
		}
	}
	return out
}
