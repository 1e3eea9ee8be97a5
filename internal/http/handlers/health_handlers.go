package handlers

import (
	"context"
	"net/http"
	"time"
)

// HealthHandler godoc
// @Summary Liveness check
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /healthz [get]
func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	status, resp := http.StatusOK, HealthResponse{Status: "ok"}

	if s.pinger != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.pinger.PingContext(ctx); err != nil {
			s.logger.Error("health check failed", "error", err)
			status, resp = http.StatusServiceUnavailable, HealthResponse{Status: "database unreachable"}
		}
	}

	if err := writeJSON(w, status, resp); err != nil {
		s.logger.Error("failed to write JSON response", "error", err)
	}
}
