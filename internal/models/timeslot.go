package models

import (
	"strings"
	"time"
)

// TimeSlot is a recurring weekly period identified by (day, start, end).
// Times are stored as "HH:MM" strings, day_of_week as uppercase text.
type TimeSlot struct {
	ID        int64     `db:"slot_id" json:"slot_id"`
	DayOfWeek string    `db:"day_of_week" json:"day_of_week"`
	StartTime string    `db:"start_time" json:"start_time"`
	EndTime   string    `db:"end_time" json:"end_time"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

var weekdayOrdinals = map[string]int{
	"MONDAY":    1,
	"TUESDAY":   2,
	"WEDNESDAY": 3,
	"THURSDAY":  4,
	"FRIDAY":    5,
	"SATURDAY":  6,
	"SUNDAY":    7,
}

// WeekdayOrdinal maps a day name to its calendar week position
// (Monday=1 … Sunday=7). Unknown days sort last. Day names are stored as
// text, so display ordering must never rely on string comparison.
func WeekdayOrdinal(day string) int {
	if n, ok := weekdayOrdinals[strings.ToUpper(day)]; ok {
		return n
	}
	return len(weekdayOrdinals) + 1
}

// ValidWeekday reports whether day names a calendar weekday.
func ValidWeekday(day string) bool {
	_, ok := weekdayOrdinals[strings.ToUpper(day)]
	return ok
}
