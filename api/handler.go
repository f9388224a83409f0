package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/transcriptiond/errors"
	"github.com/kbukum/transcriptiond/job"
	"github.com/kbukum/transcriptiond/logger"
	"github.com/kbukum/transcriptiond/transcript"
)

// JobService is the part of job.Service the handlers use.
type JobService interface {
	Submit(ctx context.Context, sub job.Submission) (job.Job, error)
	Status() job.SlotState
	Latest() (transcript.Result, bool)
}

var _ JobService = (*job.Service)(nil)

// Handler serves the transcription endpoints.
type Handler struct {
	jobs JobService
	log  *logger.Logger
}

// NewHandler returns a Handler backed by jobs.
func NewHandler(jobs JobService) *Handler {
	return &Handler{jobs: jobs, log: logger.Get("api")}
}

// Register mounts the endpoints on r. The auth middleware, if any, guards
// only POST /transcribe.
func (h *Handler) Register(r gin.IRouter, auth ...gin.HandlerFunc) {
	r.POST("/transcribe", append(auth, h.Transcribe)...)
	r.GET("/status", h.Status)
	r.GET("/transcription", h.Transcription)
}

const busyMessage = "A transcription is already running."

// BusyResponse is the 409 body.
type BusyResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// AcceptedResponse is the 200 body of POST /transcribe.
type AcceptedResponse struct {
	Status string `json:"status"`
	Job    string `json:"job"`
	JobID  string `json:"job_id"`
}

// StatusResponse is the body of GET /status. CurrentJobID is null until the
// first job is accepted.
type StatusResponse struct {
	Status       string  `json:"status"`
	CurrentJobID *string `json:"current_job_id"`
}

// respondBusy keeps the {"status":"busy"} body clients already parse
// instead of the error envelope.
func respondBusy(c *gin.Context) {
	e := apperrors.Busy(busyMessage)
	c.JSON(e.HTTPStatus, BusyResponse{Status: "busy", Message: e.Message})
}

// Status reports whether a job is running and the last claimed job id.
func (h *Handler) Status(c *gin.Context) {
	st := h.jobs.Status()
	resp := StatusResponse{Status: "idle"}
	if st.Occupied {
		resp.Status = "running"
	}
	if st.CurrentJobID != "" {
		id := st.CurrentJobID
		resp.CurrentJobID = &id
	}
	c.JSON(http.StatusOK, resp)
}

func isBusy(err error) bool { return errors.Is(err, job.ErrBusy) }
