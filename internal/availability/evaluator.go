// Package availability decides which dates and hour slots can be offered
// to a member, given the studio's settings document and the current time.
// All functions are pure; callers pass "now" explicitly.
package availability

import (
	"time"

	"fitbook/internal/refdate"
	"fitbook/internal/settings"
)

// DayKind classifies a date for the purpose of selecting an hour range.
type DayKind string

const (
	KindWeekday DayKind = "weekday"
	KindWeekend DayKind = "weekend"
	KindHoliday DayKind = "holiday"
)

// Slot is a single offerable hour on a date. Booked slots are flagged,
// not removed, so the UI can render them as disabled rather than absent.
type Slot struct {
	Hour   int  `json:"hour"`
	Booked bool `json:"booked"`
}

// KindOf resolves the day kind. Holiday classification takes precedence
// over the weekend classification.
func KindOf(s *settings.Settings, day refdate.Day) DayKind {
	if s.IsHoliday(day) {
		return KindHoliday
	}
	if day.IsWeekend() {
		return KindWeekend
	}
	return KindWeekday
}

func hourRange(s *settings.Settings, kind DayKind) settings.HourRange {
	switch kind {
	case KindHoliday:
		return s.AvailableHours.Holiday
	case KindWeekend:
		return s.AvailableHours.Weekend
	default:
		return s.AvailableHours.Weekday
	}
}

// IsDateSelectable reports whether any booking may be offered on the day.
// An unset reservation period means nothing is bookable (fail closed).
// When same-day booking is disabled the day must be strictly after
// today's date; past days are never selectable.
func IsDateSelectable(s *settings.Settings, day refdate.Day, now time.Time) bool {
	if !s.ReservationPeriod.IsSet() {
		return false
	}
	start, err := refdate.Parse(s.ReservationPeriod.StartDate)
	if err != nil {
		return false
	}
	end, err := refdate.Parse(s.ReservationPeriod.EndDate)
	if err != nil {
		return false
	}
	if day.Before(start) || day.After(end) {
		return false
	}

	if s.IsDisabled(day) {
		return false
	}

	today := refdate.DayOf(now)
	if day.Before(today) {
		return false
	}
	if day.Equal(today) && !s.AvailableHours.SameDay.Enabled {
		return false
	}

	return true
}

// Hours returns the offerable hours on the day in ascending order.
// For today (with same-day booking enabled) hours earlier than the
// current hour plus the policy minimum are excluded. The same-day case
// for a disabled policy never reaches here: IsDateSelectable already
// rejects the date, keeping the two checks consistent.
func Hours(s *settings.Settings, day refdate.Day, now time.Time) []int {
	if !IsDateSelectable(s, day, now) {
		return nil
	}

	r := hourRange(s, KindOf(s, day))

	floor := 0
	if day.Equal(refdate.DayOf(now)) && s.AvailableHours.SameDay.Enabled {
		floor = refdate.HourOf(now) + s.AvailableHours.SameDay.MinHoursAfter
	}

	var hours []int
	for h := r.Start; h <= r.End; h++ {
		if h < floor {
			continue
		}
		hours = append(hours, h)
	}
	return hours
}

// Slots returns the offerable hours flagged with their booked state.
func Slots(s *settings.Settings, day refdate.Day, now time.Time, booked map[int]bool) []Slot {
	hours := Hours(s, day, now)
	slots := make([]Slot, 0, len(hours))
	for _, h := range hours {
		slots = append(slots, Slot{Hour: h, Booked: booked[h]})
	}
	return slots
}

// IsHourOfferable reports whether the given hour is currently offerable
// on the day, ignoring booked state.
func IsHourOfferable(s *settings.Settings, day refdate.Day, hour int, now time.Time) bool {
	for _, h := range Hours(s, day, now) {
		if h == hour {
			return true
		}
	}
	return false
}
