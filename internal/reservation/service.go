// Package reservation books training sessions against the external
// calendar and mirrors every reservation into the audit sheet.
package reservation

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"fitbook/internal/apperr"
	"fitbook/internal/availability"
	"fitbook/internal/metrics"
	"fitbook/internal/refdate"
	"fitbook/internal/settings"
)

// SessionDuration is the fixed length of one training session.
const SessionDuration = 50 * time.Minute

var (
	memberIDPattern = regexp.MustCompile(`^\d+$`)
	summaryPattern  = regexp.MustCompile(`^(.*)\((\d+)\)$`)
)

// Reservation is one booked session.
type Reservation struct {
	Date          string `json:"date"` // YYYY-MM-DD
	Time          string `json:"time"` // HH:00
	MemberID      string `json:"memberId"`
	MemberName    string `json:"memberName"`
	EventID       string `json:"eventId,omitempty"`
	ChangeHistory string `json:"changeHistory,omitempty"`
}

// Service coordinates the calendar, the audit sheet and notifications.
type Service struct {
	cal      Calendar
	audit    AuditLog
	store    *settings.Store
	notifier Notifier
	logger   zerolog.Logger

	rdb      *redis.Client
	cacheTTL time.Duration
}

// NewService creates a reservation service. notifier may be nil.
func NewService(cal Calendar, audit AuditLog, store *settings.Store, notifier Notifier, logger zerolog.Logger) *Service {
	return &Service{
		cal:      cal,
		audit:    audit,
		store:    store,
		notifier: notifier,
		logger:   logger.With().Str("component", "reservation").Logger(),
	}
}

// UseRedisCache enables short-lived caching of booked hours for the
// display path. The commit path always queries the calendar live.
func (s *Service) UseRedisCache(rdb *redis.Client, ttl time.Duration) {
	s.rdb = rdb
	s.cacheTTL = ttl
}

// BookedHours queries the calendar for the day and reduces each event to
// the set of hours it occupies: any hour with any overlap is blocked.
// An all-day event blocks every hour.
func (s *Service) BookedHours(ctx context.Context, day refdate.Day) (map[int]bool, error) {
	events, err := s.cal.ListEvents(ctx, day.StartOfDay(), day.EndOfDay())
	if err != nil {
		return nil, apperr.External("list calendar events", err)
	}

	booked := make(map[int]bool)
	for _, ev := range events {
		if ev.AllDay {
			for h := 0; h < 24; h++ {
				booked[h] = true
			}
			continue
		}

		startHour := refdate.HourOf(ev.Start)
		endHour := refdate.HourOf(ev.End)
		last := endHour - 1
		if ev.End.In(refdate.Location).Minute() > 0 {
			last = endHour
		}
		for h := startHour; h <= last; h++ {
			booked[h] = true
		}
	}
	return booked, nil
}

// BookedHoursForDisplay is BookedHours behind the optional cache. Only
// the booking-page display uses it; stale data here is corrected by the
// live re-validation at commit time.
func (s *Service) BookedHoursForDisplay(ctx context.Context, day refdate.Day) (map[int]bool, error) {
	key := cacheKey(day)
	if s.rdb != nil && s.cacheTTL > 0 {
		if val, err := s.rdb.Get(ctx, key).Result(); err == nil {
			var cached map[int]bool
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				return cached, nil
			}
		}
	}

	booked, err := s.BookedHours(ctx, day)
	if err != nil {
		return nil, err
	}

	if s.rdb != nil && s.cacheTTL > 0 {
		if data, err := json.Marshal(booked); err == nil {
			_ = s.rdb.Set(ctx, key, data, s.cacheTTL).Err()
		}
	}
	return booked, nil
}

func (s *Service) invalidateDay(ctx context.Context, day refdate.Day) {
	if s.rdb == nil {
		return
	}
	_ = s.rdb.Del(ctx, cacheKey(day)).Err()
}

func cacheKey(day refdate.Day) string {
	return "booked:" + day.String()
}

// Slots returns the offerable slots for the day, booked ones flagged.
func (s *Service) Slots(ctx context.Context, day refdate.Day) ([]availability.Slot, error) {
	cfg, err := s.store.Load()
	if err != nil {
		return nil, err
	}

	booked, err := s.BookedHoursForDisplay(ctx, day)
	if err != nil {
		return nil, err
	}
	return availability.Slots(cfg, day, time.Now(), booked), nil
}

// Create books a session at startAt. The target hour is re-validated
// against the settings and a fresh calendar query at commit time, so the
// first writer wins and the second caller gets apperr.ErrConflict.
func (s *Service) Create(ctx context.Context, startAt time.Time, memberName, memberID string) (*Reservation, error) {
	if err := validateMember(memberName, memberID); err != nil {
		return nil, err
	}

	cfg, err := s.store.Load()
	if err != nil {
		return nil, err
	}

	day := refdate.DayOf(startAt)
	hour := refdate.HourOf(startAt)
	now := time.Now()

	if !availability.IsHourOfferable(cfg, day, hour, now) {
		return nil, apperr.Validation("예약 가능한 시간이 아닙니다.")
	}

	booked, err := s.BookedHours(ctx, day)
	if err != nil {
		return nil, err
	}
	if booked[hour] {
		metrics.IncReservationConflict()
		return nil, apperr.ErrConflict
	}

	start := day.At(hour)
	ev, err := s.cal.InsertEvent(ctx, EventInput{
		Summary:     fmt.Sprintf("%s(%s)", memberName, memberID),
		Description: "운동 예약",
		Start:       start,
		End:         start.Add(SessionDuration),
	})
	if err != nil {
		return nil, apperr.External("insert calendar event", err)
	}

	res := Reservation{
		Date:       day.String(),
		Time:       fmt.Sprintf("%02d:00", hour),
		MemberID:   memberID,
		MemberName: memberName,
		EventID:    ev.ID,
	}

	s.invalidateDay(ctx, day)
	metrics.IncReservationCreated()

	if err := s.audit.Append(ctx, AuditRow{
		Date:       res.Date,
		Time:       res.Time,
		MemberID:   memberID,
		MemberName: memberName,
	}); err != nil {
		// Partial commit: the calendar event exists but the audit row
		// does not. Known gap; logged, not reconciled.
		s.logger.Error().Err(err).
			Str("event_id", ev.ID).
			Str("date", res.Date).
			Msg("calendar event created but audit row append failed")
		return nil, apperr.External("append audit row", err)
	}

	s.notifyCreated(ctx, res)
	return &res, nil
}

// Reschedule moves an existing reservation to newStart. A reservation
// whose current stored date is today cannot be changed, independent of
// the same-day booking policy. The matching audit row is updated in
// place; a missing row is apperr.ErrNotFound, never a new append.
func (s *Service) Reschedule(ctx context.Context, eventID string, newStart time.Time, memberName, memberID string) (*Reservation, error) {
	if err := validateMember(memberName, memberID); err != nil {
		return nil, err
	}
	if eventID == "" {
		return nil, apperr.Validation("이벤트 ID가 누락되었습니다.")
	}

	current, err := s.cal.GetEvent(ctx, eventID)
	if err != nil {
		return nil, apperr.External("get calendar event", err)
	}

	oldDay := refdate.DayOf(current.Start)
	oldHour := refdate.HourOf(current.Start)
	if oldDay.Equal(refdate.Today()) {
		return nil, apperr.Validation("당일 예약은 변경할 수 없습니다.")
	}

	newDay := refdate.DayOf(newStart)
	newHour := refdate.HourOf(newStart)
	start := newDay.At(newHour)

	updated, err := s.cal.UpdateEvent(ctx, eventID, EventInput{
		Summary:     fmt.Sprintf("%s(%s)", memberName, memberID),
		Description: "운동 예약",
		Start:       start,
		End:         start.Add(SessionDuration),
	})
	if err != nil {
		return nil, apperr.External("update calendar event", err)
	}

	oldDate := oldDay.String()
	oldTime := fmt.Sprintf("%02d:00", oldHour)
	next := Reservation{
		Date:       newDay.String(),
		Time:       fmt.Sprintf("%02d:00", newHour),
		MemberID:   memberID,
		MemberName: memberName,
		EventID:    updated.ID,
	}

	s.invalidateDay(ctx, oldDay)
	s.invalidateDay(ctx, newDay)

	rows, err := s.audit.Rows(ctx)
	if err != nil {
		return nil, apperr.External("read audit rows", err)
	}

	idx := -1
	for i, row := range rows {
		if row.MemberID == memberID && row.Date == oldDate && row.Time == oldTime {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.logger.Warn().
			Str("member_id", memberID).
			Str("date", oldDate).
			Str("time", oldTime).
			Msg("calendar event updated but audit row not found")
		return nil, apperr.ErrNotFound
	}

	history := fmt.Sprintf("%s %s → %s %s", oldDate, oldTime, next.Date, next.Time)
	if err := s.audit.Update(ctx, idx, AuditRow{
		Date:          next.Date,
		Time:          next.Time,
		MemberID:      memberID,
		MemberName:    memberName,
		ChangeHistory: history,
	}); err != nil {
		return nil, apperr.External("update audit row", err)
	}
	next.ChangeHistory = history

	metrics.IncReservationRescheduled()

	prev := Reservation{
		Date:       oldDate,
		Time:       oldTime,
		MemberID:   memberID,
		MemberName: memberName,
		EventID:    eventID,
	}
	s.notifyRescheduled(ctx, prev, next)
	return &next, nil
}

// MemberReservations returns all future reservations of the member,
// newest last, with change history joined in from the audit sheet.
func (s *Service) MemberReservations(ctx context.Context, memberID string) ([]Reservation, error) {
	if !memberIDPattern.MatchString(memberID) {
		return nil, apperr.Validation("회원번호가 올바르지 않습니다.")
	}

	now := time.Now()
	events, err := s.cal.ListEvents(ctx, now, time.Time{})
	if err != nil {
		return nil, apperr.External("list calendar events", err)
	}

	rows, err := s.audit.Rows(ctx)
	if err != nil {
		return nil, apperr.External("read audit rows", err)
	}

	result := make([]Reservation, 0)
	for _, ev := range events {
		if ev.AllDay || ev.Start.Before(now) {
			continue
		}
		m := summaryPattern.FindStringSubmatch(ev.Summary)
		if m == nil || m[2] != memberID {
			continue
		}

		day := refdate.DayOf(ev.Start)
		res := Reservation{
			Date:       day.String(),
			Time:       fmt.Sprintf("%02d:00", refdate.HourOf(ev.Start)),
			MemberID:   m[2],
			MemberName: m[1],
			EventID:    ev.ID,
		}
		for _, row := range rows {
			if row.MemberID == res.MemberID && row.Date == res.Date && row.Time == res.Time {
				res.ChangeHistory = row.ChangeHistory
				break
			}
		}
		result = append(result, res)
	}
	return result, nil
}

func validateMember(memberName, memberID string) error {
	if memberName == "" {
		return apperr.Validation("회원명이 누락되었습니다.")
	}
	if !memberIDPattern.MatchString(memberID) {
		return apperr.Validation("회원번호가 올바르지 않습니다.")
	}
	return nil
}

func (s *Service) notifyCreated(ctx context.Context, r Reservation) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.ReservationCreated(ctx, r); err != nil {
		metrics.IncNotifyFailure()
		s.logger.Error().Err(err).Msg("failed to send creation notification")
	}
}

func (s *Service) notifyRescheduled(ctx context.Context, prev, next Reservation) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.ReservationRescheduled(ctx, prev, next); err != nil {
		metrics.IncNotifyFailure()
		s.logger.Error().Err(err).Msg("failed to send reschedule notification")
	}
}
