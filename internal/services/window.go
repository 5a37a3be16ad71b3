package services

import "time"

// StartOfDayUTC returns 00:00:00 UTC of the calendar day containing now.
func StartOfDayUTC(now time.Time) time.Time {
	n := now.UTC()
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)
}

// StartOfWeekUTC returns 00:00:00 UTC of the most recent Monday (ISO
// week start). On a Monday the window starts that same day.
func StartOfWeekUTC(now time.Time) time.Time {
	day := StartOfDayUTC(now)
	// time.Weekday has Sunday == 0; shift so Monday == 0.
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}
