package http

import (
	"context"
	"net/http"
	"time"

	"github.com/Shaikat-CSE/goldennicheims/internal/storage/db"
)

type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

type healthHandler struct {
	checks map[string]db.HealthChecker
}

func newHealthHandler(checks map[string]db.HealthChecker) *healthHandler {
	return &healthHandler{checks: checks}
}

func (h *healthHandler) Health(w http.ResponseWriter, r *http.Request) error {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	res := HealthResponse{Status: "ok", Checks: make(map[string]string, len(h.checks))}
	for name, hc := range h.checks {
		ok, err := hc.IsHealthy(ctx)
		switch {
		case err != nil:
			res.Checks[name] = err.Error()
			res.Status = "unavailable"
		case !ok:
			res.Checks[name] = "unhealthy"
			res.Status = "unavailable"
		default:
			res.Checks[name] = "ok"
		}
	}

	status := http.StatusOK
	if res.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	return writeJSON(w, status, res)
}
