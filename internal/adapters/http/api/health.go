package api

import (
	"encoding/json"
	"net/http"
)

// Health is the body of GET /healthz.
type Health struct {
	Status       string `json:"status"`
	LeaguesDone  int    `json:"leagues_done"`
	LeaguesTotal int    `json:"leagues_total"`
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	progress Progress
}

// NewHealthHandler creates a new health handler. p may be nil.
func NewHealthHandler(p Progress) *HealthHandler {
	return &HealthHandler{progress: p}
}

// HandleHealth handles GET /healthz. Status is "running" until every
// submitted league has finished.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body := Health{Status: "ok"}
	if h.progress != nil {
		body.LeaguesDone, body.LeaguesTotal = h.progress.Progress()
		if body.LeaguesDone < body.LeaguesTotal {
			body.Status = "running"
		}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}
