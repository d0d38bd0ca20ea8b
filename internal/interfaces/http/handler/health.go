package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/orderportal/backend/internal/interfaces/http/dto"
)

// Pinger reports whether a dependency is reachable
type Pinger interface {
	Ping() error
}

// HealthHandler serves the liveness endpoint
type HealthHandler struct {
	service string
	checks  map[string]Pinger
}

// NewHealthHandler creates a HealthHandler. Each named check is pinged per
// request; a failing check turns the response into a 503.
func NewHealthHandler(service string, checks map[string]Pinger) *HealthHandler {
	return &HealthHandler{service: service, checks: checks}
}

// Health godoc
//
//	@ID				health
//
//	@Summary		Liveness check
//	@Description	Reports service liveness and the state of each dependency check
//	@Tags			system
//	@Produce		json
//	@Success		200	{object}	dto.HealthResponse
//	@Failure		503	{object}	dto.HealthResponse
//	@Router			/health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	resp := dto.HealthResponse{
		Status:  "ok",
		Service: h.service,
		Time:    time.Now().UTC(),
	}
	status := http.StatusOK

	if len(h.checks) > 0 {
		resp.Checks = make(map[string]string, len(h.checks))
		for name, p := range h.checks {
			if err := p.Ping(); err != nil {
				resp.Checks[name] = "down"
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "up"
		}
	}

	c.JSON(status, resp)
}
