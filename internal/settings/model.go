// Package settings persists the availability rules of the studio as a
// single JSON document guarded by an advisory file lock.
package settings

import (
	"fmt"

	"fitbook/internal/apperr"
	"fitbook/internal/refdate"
)

// HourRange is an inclusive range of bookable hours.
type HourRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// SameDayPolicy controls whether bookings for the current day are allowed.
type SameDayPolicy struct {
	Enabled bool `json:"enabled"`
	// MinHoursAfter is the minimum number of hours past the current hour
	// a same-day booking must start at. Valid range 1-6.
	MinHoursAfter int `json:"minHoursAfter"`
}

// AvailableHours holds hour ranges per day kind plus the notice text
// shown on the booking page.
type AvailableHours struct {
	Weekday HourRange     `json:"weekday"`
	Weekend HourRange     `json:"weekend"`
	Holiday HourRange     `json:"holiday"`
	Notice  string        `json:"notice"`
	SameDay SameDayPolicy `json:"sameDay"`
}

// Period is the inclusive window of bookable dates. Either bound empty
// means the period is not configured and nothing is bookable.
type Period struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// IsSet reports whether both bounds are configured.
func (p *Period) IsSet() bool {
	return p != nil && p.StartDate != "" && p.EndDate != ""
}

// Settings is the singleton availability document.
type Settings struct {
	DisabledDates     []string       `json:"disabledDates"`
	Holidays          []string       `json:"holidays"`
	AvailableHours    AvailableHours `json:"availableHours"`
	ReservationPeriod *Period        `json:"reservationPeriod"`
}

// Default returns the document seeded on first start.
func Default() *Settings {
	return &Settings{
		DisabledDates: []string{},
		Holidays:      []string{},
		AvailableHours: AvailableHours{
			Weekday: HourRange{Start: 14, End: 22},
			Weekend: HourRange{Start: 10, End: 17},
			Holiday: HourRange{Start: 10, End: 17},
			Notice:  "* 예약 가능 시간\n평일 - 오후 2시 ~ 오후 10시\n주말 - 오전 10시 ~ 오후 5시",
			SameDay: SameDayPolicy{Enabled: true, MinHoursAfter: 2},
		},
		ReservationPeriod: &Period{},
	}
}

// Validate checks the whole document structurally. It must pass before
// any write; a failing document is never persisted, not even partially.
func (s *Settings) Validate() error {
	if s.DisabledDates == nil || s.Holidays == nil {
		return apperr.Validation("잘못된 설정 데이터 형식")
	}

	ranges := map[string]HourRange{
		"weekday": s.AvailableHours.Weekday,
		"weekend": s.AvailableHours.Weekend,
		"holiday": s.AvailableHours.Holiday,
	}
	for kind, r := range ranges {
		if r.Start < 0 || r.Start > 23 || r.End < 0 || r.End > 23 {
			return apperr.Validation(fmt.Sprintf("잘못된 시간 값이 포함되어 있습니다 (%s)", kind))
		}
		if r.Start > r.End {
			return apperr.Validation(fmt.Sprintf("시작 시간이 종료 시간보다 늦습니다 (%s)", kind))
		}
	}

	if s.AvailableHours.SameDay.MinHoursAfter < 1 || s.AvailableHours.SameDay.MinHoursAfter > 6 {
		return apperr.Validation("당일 예약 최소 시간 설정이 올바르지 않습니다")
	}

	for _, d := range s.DisabledDates {
		if _, err := refdate.Parse(d); err != nil {
			return apperr.Validation("잘못된 예약 불가 날짜가 포함되어 있습니다")
		}
	}
	for _, d := range s.Holidays {
		if _, err := refdate.Parse(d); err != nil {
			return apperr.Validation("잘못된 공휴일 날짜가 포함되어 있습니다")
		}
	}

	if s.ReservationPeriod.IsSet() {
		start, err := refdate.Parse(s.ReservationPeriod.StartDate)
		if err != nil {
			return apperr.Validation("잘못된 예약 기간 시작일")
		}
		end, err := refdate.Parse(s.ReservationPeriod.EndDate)
		if err != nil {
			return apperr.Validation("잘못된 예약 기간 종료일")
		}
		if start.After(end) {
			return apperr.Validation("예약 기간 시작일이 종료일보다 늦습니다")
		}
	}

	return nil
}

// IsDisabled reports whether the day is in the disabled-dates set.
func (s *Settings) IsDisabled(day refdate.Day) bool {
	return containsDay(s.DisabledDates, day)
}

// IsHoliday reports whether the day is in the holiday set.
func (s *Settings) IsHoliday(day refdate.Day) bool {
	return containsDay(s.Holidays, day)
}

func containsDay(dates []string, day refdate.Day) bool {
	for _, raw := range dates {
		d, err := refdate.Parse(raw)
		if err != nil {
			continue
		}
		if d.Equal(day) {
			return true
		}
	}
	return false
}
