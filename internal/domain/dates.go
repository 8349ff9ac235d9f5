package domain

import "time"

// DateLayout is the canonical day-key format used across the schedule:
// week plans, day maps, and queue scheduling all key days by this string.
const DateLayout = "2006-01-02"

// ParseDay parses a day key. Returns the zero time on failure.
func ParseDay(day string) (time.Time, error) {
	return time.Parse(DateLayout, day)
}

// FormatDay renders a time as a day key, dropping the time-of-day component.
func FormatDay(t time.Time) string {
	return t.Format(DateLayout)
}

// AddDays shifts a day key by n calendar days.
func AddDays(day string, n int) string {
	t, err := ParseDay(day)
	if err != nil {
		return day
	}
	return FormatDay(t.AddDate(0, 0, n))
}

// NextDay returns the day key immediately after day.
func NextDay(day string) string {
	return AddDays(day, 1)
}

// WeekKeyFor returns the Monday of the week containing day, which is the
// identifier of the WeekPlan covering that day.
func WeekKeyFor(day string) string {
	t, err := ParseDay(day)
	if err != nil {
		return day
	}
	offset := (int(t.Weekday()) + 6) % 7 // Monday = 0
	return FormatDay(t.AddDate(0, 0, -offset))
}

// WeekDays lists the 7 day keys of the week starting at weekKey, in order.
func WeekDays(weekKey string) []string {
	days := make([]string, 7)
	for i := range days {
		days[i] = AddDays(weekKey, i)
	}
	return days
}

// LastDayOfWeek returns the Sunday of the week starting at weekKey.
func LastDayOfWeek(weekKey string) string {
	return AddDays(weekKey, 6)
}

// DaysBetween counts whole calendar days from a to b. Negative when b
// precedes a.
func DaysBetween(a, b string) int {
	ta, errA := ParseDay(a)
	tb, errB := ParseDay(b)
	if errA != nil || errB != nil {
		return 0
	}
	return int(tb.Sub(ta).Hours() / 24)
}
