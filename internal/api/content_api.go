package api

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"fitbook/internal/apperr"
	"fitbook/internal/export"
	"fitbook/internal/metrics"
)

// maxContentBytes caps the intro-content payload size.
const maxContentBytes = 1 << 20

// handleIntroContent serves the landing page content document.
// GET is public; POST replaces it (admin only).
func (s *HTTPServer) handleIntroContent(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("intro_content")

	switch r.Method {
	case http.MethodGet:
		doc, err := s.content.Load()
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to load intro content")
			writeError(w, http.StatusInternalServerError, "서버 오류가 발생했습니다.")
			return
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(doc)

	case http.MethodPost:
		s.requireAdmin(s.handleSaveIntroContent)(w, r)

	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "허용되지 않는 메소드입니다.")
	}
}

func (s *HTTPServer) handleSaveIntroContent(w http.ResponseWriter, r *http.Request) {
	doc, err := io.ReadAll(io.LimitReader(r.Body, maxContentBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.content.Save(doc); err != nil {
		if apperr.IsValidation(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error().Err(err).Msg("failed to save intro content")
		writeError(w, http.StatusInternalServerError, "서버 오류가 발생했습니다.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "성공적으로 저장되었습니다."})
}

// handleExport streams the reservation audit sheet as an Excel file.
func (s *HTTPServer) handleExport(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("export")

	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use GET")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(time.Now())))

	if err := s.exporter.Export(r.Context(), w); err != nil {
		s.logger.Error().Err(err).Msg("reservation export failed")
		// Headers are already out; nothing more to report to the client.
	}
}
