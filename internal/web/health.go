package web

import (
	"encoding/json"
	"net/http"

	"github.com/desertthunder/lyrix/internal/server"
)

type healthStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

func (a *App) healthz(w http.ResponseWriter, r *http.Request) {
	writeHealth(w, http.StatusOK, healthStatus{Status: "ok"})
}

// readyz reports whether the backend answers at all. Any HTTP response counts, including 401 for the anonymous probe.
func (a *App) readyz(w http.ResponseWriter, r *http.Request) {
	if _, err := a.api.Get(r.Context(), "/users/me"); err != nil {
		a.logger.Warn("backend not reachable", "error", err, "request_id", server.RequestIDFrom(r.Context()))
		writeHealth(w, http.StatusServiceUnavailable, healthStatus{Status: "unavailable", Error: "backend unreachable"})
		return
	}
	writeHealth(w, http.StatusOK, healthStatus{Status: "ready"})
}

func writeHealth(w http.ResponseWriter, status int, body healthStatus) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
