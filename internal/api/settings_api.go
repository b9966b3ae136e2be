package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"fitbook/internal/apperr"
	"fitbook/internal/metrics"
	"fitbook/internal/settings"
)

// handleSettings serves the availability settings document.
// GET returns the full document; POST replaces it (admin only).
func (s *HTTPServer) handleSettings(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("settings")

	switch r.Method {
	case http.MethodGet:
		cfg, err := s.settings.Load()
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to load settings")
			writeError(w, http.StatusInternalServerError, "설정을 불러오는데 실패했습니다.")
			return
		}
		writeJSON(w, http.StatusOK, cfg)

	case http.MethodPost:
		s.requireAdmin(s.handleSaveSettings)(w, r)

	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	var cfg settings.Settings
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&cfg); err != nil {
		writeError(w, http.StatusBadRequest, "잘못된 설정 데이터 형식")
		return
	}

	err := s.settings.Save(&cfg)
	switch {
	case err == nil:
		metrics.IncSettingsSave("ok")
		writeJSON(w, http.StatusOK, map[string]string{"message": "설정이 저장되었습니다."})
	case errors.Is(err, apperr.ErrBusy):
		metrics.IncSettingsSave("busy")
		writeError(w, http.StatusLocked, "다른 요청이 처리 중입니다.")
	case apperr.IsValidation(err):
		// Validation failures surface the message verbatim with a 500,
		// matching the contract the admin page expects.
		metrics.IncSettingsSave("invalid")
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		metrics.IncSettingsSave("error")
		s.logger.Error().Err(err).Msg("failed to save settings")
		writeError(w, http.StatusInternalServerError, "설정 저장에 실패했습니다.")
	}
}
