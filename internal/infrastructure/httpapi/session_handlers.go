package httpapi

import (
	"net/http"
)

type notFoundBody struct {
	Error string `json:"error"`
}

// handleLastSession serves GET /api/session: the last stored summary, or 404.
func (d *Deps) handleLastSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "use GET", nil)
		return
	}
	rec, ok, err := d.Svc.Last(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "SESSION_GET_FAILED", err.Error(), nil)
		return
	}
	if !ok {
		writeJSON(w, http.StatusNotFound, notFoundBody{Error: "No session data available."})
		return
	}
	w.Header().Set("X-Session-Id", rec.SessionID)
	writeJSON(w, http.StatusOK, rec.Summary)
}
