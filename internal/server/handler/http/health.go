package http

import (
	"net/http"

	"github.com/pinhsin/worksite/internal/models"
)

// HealthHandler answers the warmup probe. It reports healthy as soon as
// the process serves requests; hosting that suspends idle instances
// only needs proof the instance is awake.
type HealthHandler struct{}

// Health handles GET /health.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, models.HealthStatus{Status: models.HealthyStatus})
}
