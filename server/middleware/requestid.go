package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/kbukum/transcriptiond/logger"
	"github.com/kbukum/transcriptiond/util"
)

// HeaderRequestID is the header carrying the request id in both directions.
const HeaderRequestID = "X-Request-Id"

const maxRequestIDLen = 128

// RequestID propagates the client's X-Request-Id or generates one. The id is
// echoed on the response and stored in the request context for loggers.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := util.SanitizeString(r.Header.Get(HeaderRequestID))
			if id == "" || len(id) > maxRequestIDLen {
				id = uuid.NewString()
			}
			r.Header.Set(HeaderRequestID, id)
			w.Header().Set(HeaderRequestID, id)
			next.ServeHTTP(w, r.WithContext(logger.ContextWithRequestID(r.Context(), id)))
		})
	}
}
