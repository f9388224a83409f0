package endpoint

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
)

// RuntimeStats is the /metrics payload. Request and job counters are
// exported over OTLP; this endpoint only covers the Go runtime.
type RuntimeStats struct {
	Goroutines   int     `json:"goroutines"`
	CPUs         int     `json:"cpus"`
	HeapAlloc    uint64  `json:"heap_alloc_bytes"`
	HeapObjects  uint64  `json:"heap_objects"`
	Sys          uint64  `json:"sys_bytes"`
	GCRuns       uint32  `json:"gc_runs"`
	LastGCPause  float64 `json:"last_gc_pause_ms"`
	NextGCTarget uint64  `json:"next_gc_bytes"`
}

// ReadRuntimeStats samples the runtime. It stops the world briefly.
func ReadRuntimeStats() RuntimeStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	var pause time.Duration
	if m.NumGC > 0 {
		pause = time.Duration(m.PauseNs[(m.NumGC+255)%256])
	}
	return RuntimeStats{
		Goroutines:   runtime.NumGoroutine(),
		CPUs:         runtime.NumCPU(),
		HeapAlloc:    m.HeapAlloc,
		HeapObjects:  m.HeapObjects,
		Sys:          m.Sys,
		GCRuns:       m.NumGC,
		LastGCPause:  float64(pause) / float64(time.Millisecond),
		NextGCTarget: m.NextGC,
	}
}

func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, ReadRuntimeStats())
	}
}
