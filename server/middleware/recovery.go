package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	apperrors "github.com/kbukum/transcriptiond/errors"
	"github.com/kbukum/transcriptiond/logger"
)

// Recovery returns middleware that recovers from handler panics, logs the
// stack and answers 500 with the internal error envelope.
func Recovery(log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				log.Error("Panic recovered", logger.Fields(
					logger.FieldError, fmt.Sprint(rec),
					"stack", string(debug.Stack()),
					"method", r.Method,
					logger.FieldPath, r.URL.Path,
					logger.FieldRequestID, logger.RequestIDFromContext(r.Context()),
				))
				writeError(w, apperrors.Internal(fmt.Errorf("panic: %v", rec)))
			}()
			next.ServeHTTP(w, r)
		})
	}
}
