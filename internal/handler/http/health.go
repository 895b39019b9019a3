package http

import (
	"context"
	"net/http"
	"time"

	"github.com/cmlabs-hris/timekeeper-go/internal/handler/http/response"
)

// HealthCheck reports whether one dependency is reachable.
type HealthCheck func(ctx context.Context) bool

type HealthHandler interface {
	Healthz(w http.ResponseWriter, r *http.Request)
}

type healthHandlerImpl struct {
	checks map[string]HealthCheck
}

func NewHealthHandler(checks map[string]HealthCheck) HealthHandler {
	return &healthHandlerImpl{checks: checks}
}

// Healthz answers 200 when every dependency is up, 503 otherwise.
func (h *healthHandlerImpl) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := make(map[string]string, len(h.checks))
	healthy := true
	for name, check := range h.checks {
		if check(ctx) {
			status[name] = "up"
			continue
		}
		status[name] = "down"
		healthy = false
	}

	if !healthy {
		response.ServiceUnavailable(w, "Service degraded", status)
		return
	}
	response.Success(w, status)
}
