package middleware

import (
	"errors"
	"net/http"

	apperrors "github.com/kbukum/transcriptiond/errors"
)

// BodySizeLimit returns middleware that restricts request bodies to limit
// bytes. Requests announcing a larger Content-Length are refused with 413
// up front; streamed bodies fail on read with *http.MaxBytesError. A
// non-positive limit disables the check.
func BodySizeLimit(limit int64) Middleware {
	return func(next http.Handler) http.Handler {
		if limit <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				writeError(w, apperrors.PayloadTooLarge(limit))
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}

// BodyTooLarge reports whether err came from a body exceeding the limit and
// returns that limit.
func BodyTooLarge(err error) (int64, bool) {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return mbe.Limit, true
	}
	return 0, false
}
