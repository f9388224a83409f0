package endpoint

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/transcriptiond/version"
)

// InfoResponse is the /info payload.
type InfoResponse struct {
	Service string `json:"service"`
	*version.Info
	StartedAt time.Time `json:"started_at"`
	Uptime    string    `json:"uptime"`
}

// Info serves build metadata for serviceName together with the time the
// process has been up since startedAt.
func Info(serviceName string, startedAt time.Time) gin.HandlerFunc {
	build := version.GetVersionInfo()
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, InfoResponse{
			Service:   serviceName,
			Info:      build,
			StartedAt: startedAt.UTC(),
			Uptime:    time.Since(startedAt).Round(time.Second).String(),
		})
	}
}
