package middleware

import (
	"net/http"
	"time"

	"github.com/kbukum/transcriptiond/logger"
	"github.com/kbukum/transcriptiond/observability"
)

var quietPaths = map[string]bool{
	"/health":  true,
	"/ready":   true,
	"/metrics": true,
}

// RequestLogger logs each request once it completes and records it in
// metrics. Probe and metrics endpoints are not logged.
func RequestLogger(log *logger.Logger, metrics *observability.Metrics) Middleware {
	if metrics == nil {
		metrics = observability.NoopMetrics()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if quietPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			rec := record(w)
			next.ServeHTTP(rec, r)
			duration := time.Since(start)
			status := rec.Status()

			route := r.URL.Path
			if status == http.StatusNotFound {
				route = "unmatched"
			}
			metrics.RecordRequest(r.Context(), r.Method, route, status, duration)

			fields := logger.Fields(
				"method", r.Method,
				logger.FieldPath, r.URL.Path,
				logger.FieldStatus, status,
				logger.FieldDuration, duration.Milliseconds(),
				"bytes", rec.bytes,
			)
			if id := logger.RequestIDFromContext(r.Context()); id != "" {
				fields[logger.FieldRequestID] = id
			}
			logByStatus(log, fields, status)
		})
	}
}

// logByStatus logs request fields at a level matching the status class.
func logByStatus(log *logger.Logger, fields map[string]interface{}, status int) {
	switch {
	case status >= 500:
		log.Error("Request completed", fields)
	case status >= 400:
		log.Warn("Request completed", fields)
	default:
		log.Debug("Request completed", fields)
	}
}
