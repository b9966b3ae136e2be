// Package refdate defines the calendar-day value used for every date
// comparison in the booking flow. All dates are reduced to a single
// reference instant (09:00 in the fixed UTC+9 business timezone) so that
// "same day" means the same thing everywhere, regardless of where a
// timestamp originally came from.
package refdate

import (
	"fmt"
	"time"
)

// Location is the fixed business timezone (KST, UTC+9). The studio
// operates in one timezone; no DST handling is needed.
var Location = time.FixedZone("KST", 9*60*60)

// referenceHour anchors a day at 09:00 to keep day comparisons away
// from midnight boundary drift.
const referenceHour = 9

// Day is a calendar date at day granularity in the reference timezone.
type Day struct {
	t time.Time
}

// DayOf reduces any instant to its calendar day in the reference timezone.
func DayOf(t time.Time) Day {
	local := t.In(Location)
	return Day{t: time.Date(local.Year(), local.Month(), local.Day(), referenceHour, 0, 0, 0, Location)}
}

// Today returns the current calendar day.
func Today() Day {
	return DayOf(time.Now())
}

// Parse parses a YYYY-MM-DD date string into a Day.
func Parse(s string) (Day, error) {
	t, err := time.ParseInLocation("2006-01-02", s, Location)
	if err != nil {
		return Day{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return DayOf(t), nil
}

// Equal reports whether two values name the same calendar day.
func (d Day) Equal(other Day) bool {
	return d.t.Equal(other.t)
}

// Before reports whether d is an earlier calendar day than other.
func (d Day) Before(other Day) bool {
	return d.t.Before(other.t)
}

// After reports whether d is a later calendar day than other.
func (d Day) After(other Day) bool {
	return d.t.After(other.t)
}

// AddDays returns the day n days later (or earlier for negative n).
func (d Day) AddDays(n int) Day {
	return DayOf(d.t.AddDate(0, 0, n))
}

// DaysUntil returns the number of whole days from d until other.
func (d Day) DaysUntil(other Day) int {
	return int(other.t.Sub(d.t) / (24 * time.Hour))
}

// Weekday returns the day of week.
func (d Day) Weekday() time.Weekday {
	return d.t.Weekday()
}

// IsWeekend reports whether the day falls on Saturday or Sunday.
func (d Day) IsWeekend() bool {
	wd := d.t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// StartOfDay returns 00:00:00 of the day in the reference timezone.
func (d Day) StartOfDay() time.Time {
	return time.Date(d.t.Year(), d.t.Month(), d.t.Day(), 0, 0, 0, 0, Location)
}

// EndOfDay returns 23:59:59 of the day in the reference timezone.
func (d Day) EndOfDay() time.Time {
	return time.Date(d.t.Year(), d.t.Month(), d.t.Day(), 23, 59, 59, 0, Location)
}

// At returns the instant at the given hour of the day.
func (d Day) At(hour int) time.Time {
	return time.Date(d.t.Year(), d.t.Month(), d.t.Day(), hour, 0, 0, 0, Location)
}

// IsZero reports whether the Day is the zero value.
func (d Day) IsZero() bool {
	return d.t.IsZero()
}

// String formats the day as YYYY-MM-DD.
func (d Day) String() string {
	return d.t.Format("2006-01-02")
}

// HourOf returns the hour of the instant in the reference timezone.
func HourOf(t time.Time) int {
	return t.In(Location).Hour()
}
