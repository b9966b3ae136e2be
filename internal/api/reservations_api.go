package api

import (
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"fitbook/internal/metrics"
	"fitbook/internal/refdate"
)

// ReservationRequest is the body for creating or rescheduling a booking.
type ReservationRequest struct {
	EventID    string `json:"eventId,omitempty"`
	DateTime   string `json:"dateTime"`
	MemberName string `json:"memberName"`
	MemberID   string `json:"memberId"`
}

// handleReservations serves the reservation resource.
// POST creates, PUT reschedules, GET queries by ?date= or ?memberId=.
func (s *HTTPServer) handleReservations(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("reservations")

	switch r.Method {
	case http.MethodPost:
		s.handleCreateReservation(w, r)
	case http.MethodPut:
		s.handleRescheduleReservation(w, r)
	case http.MethodGet:
		s.handleQueryReservations(w, r)
	default:
		w.Header().Set("Allow", "POST, GET, PUT")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleCreateReservation(w http.ResponseWriter, r *http.Request) {
	req, startAt, ok := s.decodeReservationRequest(w, r)
	if !ok {
		return
	}

	res, err := s.reservations.Create(r.Context(), startAt, req.MemberName, req.MemberID)
	if err != nil {
		s.writeBookingError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message":     "예약이 완료되었습니다.",
		"reservation": res,
	})
}

func (s *HTTPServer) handleRescheduleReservation(w http.ResponseWriter, r *http.Request) {
	req, startAt, ok := s.decodeReservationRequest(w, r)
	if !ok {
		return
	}

	res, err := s.reservations.Reschedule(r.Context(), req.EventID, startAt, req.MemberName, req.MemberID)
	if err != nil {
		s.writeBookingError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":            "예약이 변경되었습니다.",
		"updatedReservation": res,
	})
}

func (s *HTTPServer) decodeReservationRequest(w http.ResponseWriter, r *http.Request) (*ReservationRequest, time.Time, bool) {
	var req ReservationRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return nil, time.Time{}, false
	}

	startAt, err := time.Parse(time.RFC3339, req.DateTime)
	if err != nil {
		writeError(w, http.StatusBadRequest, "dateTime must be RFC3339")
		return nil, time.Time{}, false
	}
	return &req, startAt, true
}

func (s *HTTPServer) handleQueryReservations(w http.ResponseWriter, r *http.Request) {
	if memberID := r.URL.Query().Get("memberId"); memberID != "" {
		s.handleMemberReservations(w, r, memberID)
		return
	}
	if date := r.URL.Query().Get("date"); date != "" {
		s.handleBookedTimes(w, r, date)
		return
	}
	writeError(w, http.StatusBadRequest, "필수 매개변수가 누락되었습니다.")
}

func (s *HTTPServer) handleBookedTimes(w http.ResponseWriter, r *http.Request, date string) {
	day, err := refdate.Parse(date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date format; expected YYYY-MM-DD")
		return
	}

	booked, err := s.reservations.BookedHoursForDisplay(r.Context(), day)
	if err != nil {
		s.writeBookingError(w, err)
		return
	}

	hours := make([]int, 0, len(booked))
	for h := range booked {
		hours = append(hours, h)
	}
	sort.Ints(hours)

	writeJSON(w, http.StatusOK, map[string][]int{"bookedTimes": hours})
}

func (s *HTTPServer) handleMemberReservations(w http.ResponseWriter, r *http.Request, memberID string) {
	reservations, err := s.reservations.MemberReservations(r.Context(), memberID)
	if err != nil {
		s.writeBookingError(w, err)
		return
	}

	// Each reservation is returned as the ordered tuple
	// (date, time, memberId, name, eventId, changeHistory).
	tuples := make([][]interface{}, 0, len(reservations))
	for _, res := range reservations {
		var history interface{}
		if res.ChangeHistory != "" {
			history = res.ChangeHistory
		}
		tuples = append(tuples, []interface{}{
			res.Date, res.Time, res.MemberID, res.MemberName, res.EventID, history,
		})
	}
	writeJSON(w, http.StatusOK, tuples)
}

// handleSlots returns the offerable hour slots for a date, booked slots
// flagged so the booking page can render them as disabled.
func (s *HTTPServer) handleSlots(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("slots")

	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use GET")
		return
	}

	day, err := refdate.Parse(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date format; expected YYYY-MM-DD")
		return
	}

	slots, err := s.reservations.Slots(r.Context(), day)
	if err != nil {
		s.writeBookingError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"slots": slots})
}
