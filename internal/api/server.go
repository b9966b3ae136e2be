// Package api exposes the booking, settings, content and auth resources
// over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"fitbook/internal/apperr"
	"fitbook/internal/auth"
	"fitbook/internal/content"
	"fitbook/internal/export"
	"fitbook/internal/reservation"
	"fitbook/internal/settings"
)

// HTTPServer holds the services behind the API routes.
type HTTPServer struct {
	settings     *settings.Store
	reservations *reservation.Service
	content      *content.Store
	auth         *auth.Service
	exporter     *export.Exporter
	logger       zerolog.Logger
}

// New creates the API server.
func New(
	settingsStore *settings.Store,
	reservations *reservation.Service,
	contentStore *content.Store,
	authService *auth.Service,
	exporter *export.Exporter,
	logger zerolog.Logger,
) *HTTPServer {
	return &HTTPServer{
		settings:     settingsStore,
		reservations: reservations,
		content:      contentStore,
		auth:         authService,
		exporter:     exporter,
		logger:       logger.With().Str("component", "api").Logger(),
	}
}

// Router builds the HTTP handler with all routes registered.
func (s *HTTPServer) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/settings", s.handleSettings)
	mux.HandleFunc("/api/reservations", s.handleReservations)
	mux.HandleFunc("/api/slots", s.handleSlots)
	mux.HandleFunc("/api/intro-content", s.handleIntroContent)
	mux.HandleFunc("/api/auth/verify-admin", s.handleVerifyAdmin)
	mux.HandleFunc("/api/auth/check-auth", s.handleCheckAuth)
	mux.HandleFunc("/api/admin/export", s.requireAdmin(s.handleExport))
	return mux
}

// requireAdmin rejects requests without a live admin session cookie.
func (s *HTTPServer) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(adminCookieName)
		if err != nil || !s.auth.Check(cookie.Value) {
			writeError(w, http.StatusUnauthorized, "관리자 인증이 필요합니다.")
			return
		}
		next(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeBookingError maps domain errors of the booking flow to statuses.
func (s *HTTPServer) writeBookingError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperr.ErrConflict):
		writeError(w, http.StatusConflict, "이미 예약된 시간입니다.")
	case errors.Is(err, apperr.ErrNotFound):
		writeError(w, http.StatusNotFound, "기존 예약을 찾을 수 없습니다.")
	case apperr.IsValidation(err):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error().Err(err).Msg("booking request failed")
		writeError(w, http.StatusInternalServerError, "예약 처리에 실패했습니다.")
	}
}
