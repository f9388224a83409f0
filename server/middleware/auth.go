package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/transcriptiond/auth"
	"github.com/kbukum/transcriptiond/auth/authctx"
	apperrors "github.com/kbukum/transcriptiond/errors"
)

// Auth returns a gin middleware that requires a valid Bearer token. The
// validated claims are stored in the request context (see authctx). A nil
// validator lets every request through.
func Auth(validator auth.TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if validator == nil {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		if header == "" {
			abort(c, apperrors.Unauthorized("Authorization header required."))
			return
		}
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			abort(c, apperrors.Unauthorized("Invalid authorization header format."))
			return
		}

		claims, err := validator.ValidateToken(token)
		switch {
		case errors.Is(err, auth.ErrTokenExpired):
			abort(c, apperrors.TokenExpired())
			return
		case err != nil:
			abort(c, apperrors.InvalidToken())
			return
		}

		c.Request = c.Request.WithContext(authctx.Set(c.Request.Context(), claims))
		c.Next()
	}
}

func abort(c *gin.Context, err *apperrors.AppError) {
	c.AbortWithStatusJSON(err.HTTPStatus, err.ToResponse())
}
