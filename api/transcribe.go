package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/transcriptiond/errors"
	"github.com/kbukum/transcriptiond/job"
	"github.com/kbukum/transcriptiond/logger"
	"github.com/kbukum/transcriptiond/server"
	"github.com/kbukum/transcriptiond/server/middleware"
	"github.com/kbukum/transcriptiond/transcription"
	"github.com/kbukum/transcriptiond/validation"
)

// TranscribeParams are the options of POST /transcribe, read from the query
// string or the multipart form.
type TranscribeParams struct {
	Model     string `form:"model" validate:"omitempty,max=64,modelname"`
	OutFormat string `form:"out_format" validate:"omitempty,oneof=txt json"`
}

// Transcribe accepts an audio upload and starts a job if the slot is free.
func (h *Handler) Transcribe(c *gin.Context) {
	defer func() {
		if f := c.Request.MultipartForm; f != nil {
			_ = f.RemoveAll()
		}
	}()

	var params TranscribeParams
	if err := c.ShouldBindQuery(&params); err != nil {
		server.RespondWithError(c, apperrors.Validation("invalid query parameters"))
		return
	}
	if err := validation.Validate(params); err != nil {
		server.RespondWithError(c, err)
		return
	}

	// Fast path: refuse before reading a possibly large body. Submit makes
	// the authoritative decision.
	if h.jobs.Status().Occupied {
		respondBusy(c)
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		server.RespondWithError(c, uploadError(err))
		return
	}
	if params.Model == "" {
		params.Model = c.PostForm("model")
	}
	if params.OutFormat == "" {
		params.OutFormat = c.PostForm("out_format")
	}
	if err := validation.Validate(params); err != nil {
		server.RespondWithError(c, err)
		return
	}
	if params.OutFormat == "" {
		params.OutFormat = string(transcription.FormatText)
	}

	file, err := fh.Open()
	if err != nil {
		server.RespondWithError(c, apperrors.Internal(err))
		return
	}
	defer file.Close()

	j, err := h.jobs.Submit(c.Request.Context(), job.Submission{
		Filename: fh.Filename,
		Body:     file,
		Model:    params.Model,
		Format:   transcription.Format(params.OutFormat),
	})
	switch {
	case err == nil:
	case isBusy(err):
		respondBusy(c)
		return
	case errors.Is(err, job.ErrClosed):
		server.RespondWithError(c, apperrors.ServiceUnavailable("transcription service"))
		return
	case errors.Is(err, transcription.ErrUnknownFormat):
		server.RespondWithError(c, apperrors.InvalidInput("out_format", err.Error()))
		return
	case errors.Is(err, job.ErrUpload):
		server.RespondWithError(c, apperrors.StorageError("upload", err))
		return
	default:
		server.RespondWithError(c, apperrors.Internal(err))
		return
	}

	h.log.WithContext(c.Request.Context()).Debug("transcription accepted", logger.Fields(logger.FieldJobID, j.ID))
	c.JSON(http.StatusOK, AcceptedResponse{Status: "accepted", Job: "running", JobID: j.ID})
}

// uploadError maps a multipart read failure to a client error.
func uploadError(err error) *apperrors.AppError {
	if limit, ok := middleware.BodyTooLarge(err); ok {
		return apperrors.PayloadTooLarge(limit)
	}
	if errors.Is(err, http.ErrMissingFile) {
		return apperrors.MissingField("file")
	}
	return apperrors.InvalidInput("file", "Expected a multipart/form-data body with a file field.")
}
