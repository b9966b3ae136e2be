package api

import (
	"encoding/json"
	"net/http"

	"fitbook/internal/metrics"
)

const adminCookieName = "adminToken"

// handleVerifyAdmin checks the admin password and issues the session
// cookie on success.
func (s *HTTPServer) handleVerifyAdmin(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("verify_admin")

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use POST")
		return
	}

	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	token, ok := s.auth.Verify(req.Password)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]bool{"isValid": false})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     adminCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	writeJSON(w, http.StatusOK, map[string]bool{"isValid": true})
}

// handleCheckAuth reports whether the request carries a live session.
func (s *HTTPServer) handleCheckAuth(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("check_auth")

	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use GET")
		return
	}

	cookie, err := r.Cookie(adminCookieName)
	if err != nil || !s.auth.Check(cookie.Value) {
		writeJSON(w, http.StatusUnauthorized, map[string]bool{"isAuthenticated": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"isAuthenticated": true})
}
