// Package api serves the operational HTTP endpoints of a rating run.
package api

import (
	"net/http"

	"github.com/okian/handball-elo/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Progress reports finished and submitted leagues.
type Progress interface {
	Progress() (done, total int)
}

// Server wires the health and metrics routes.
type Server struct {
	healthHandler *HealthHandler
}

// NewServer creates a new API server.
func NewServer(p Progress) *Server {
	return &Server{healthHandler: NewHealthHandler(p)}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
}
