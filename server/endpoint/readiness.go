package endpoint

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/transcriptiond/component"
)

// ReadinessResponse is the /ready payload.
type ReadinessResponse struct {
	Status    string    `json:"status"`
	Service   string    `json:"service"`
	Timestamp time.Time `json:"timestamp"`
	// Failing names the unhealthy components keeping the service out of rotation.
	Failing []string `json:"failing,omitempty"`
}

// Readiness answers 503 while any component is unhealthy. Degraded
// components do not block readiness.
func Readiness(serviceName string, checker HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp := ReadinessResponse{Status: "ready", Service: serviceName, Timestamp: time.Now().UTC()}
		if checker != nil {
			for _, h := range checker(c.Request.Context()) {
				if h.Status == component.StatusUnhealthy {
					resp.Failing = append(resp.Failing, h.Name)
				}
			}
		}
		code := http.StatusOK
		if len(resp.Failing) > 0 {
			resp.Status, code = "not_ready", http.StatusServiceUnavailable
		}
		c.JSON(code, resp)
	}
}
