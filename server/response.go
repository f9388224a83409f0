package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/transcriptiond/errors"
	"github.com/kbukum/transcriptiond/logger"
)

// RespondWithError renders err as the AppError envelope. Errors that are not
// AppErrors become a generic 500 and are logged with their cause.
func RespondWithError(c *gin.Context, err error) {
	appErr := apperrors.FromError(err)
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		logger.Get("server").WithContext(c.Request.Context()).Error("Request failed", logger.Fields(
			logger.FieldPath, c.Request.URL.Path,
			logger.FieldError, err.Error(),
		))
	}
	c.JSON(appErr.HTTPStatus, appErr.ToResponse())
}

// RespondOK sends a 200 JSON response.
func RespondOK(c *gin.Context, body any) {
	c.JSON(http.StatusOK, body)
}
