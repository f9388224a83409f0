package job

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/kbukum/transcriptiond/component"
	"github.com/kbukum/transcriptiond/logger"
	"github.com/kbukum/transcriptiond/observability"
	"github.com/kbukum/transcriptiond/storage"
	"github.com/kbukum/transcriptiond/transcript"
	"github.com/kbukum/transcriptiond/transcription"
	"github.com/kbukum/transcriptiond/util"
)

// Submit errors.
var (
	// ErrBusy is returned while another job holds the slot.
	ErrBusy = errors.New("a transcription is already running")
	// ErrUpload wraps a failure to store the uploaded audio.
	ErrUpload = errors.New("store upload")
)

// UploadStore keeps uploaded audio where the engine can read it by path.
type UploadStore interface {
	storage.Storage
	storage.LocalPather
}

// Submission is a request to transcribe one uploaded file.
type Submission struct {
	Filename string
	Body     io.Reader
	// Model defaults to the service's configured model when empty.
	Model  string
	Format transcription.Format
}

// Service is the single entry point for starting jobs and reading their
// outcome.
type Service struct {
	slot         *Slot
	group        *Group
	runner       *Runner
	store        *transcript.Store
	uploads      UploadStore
	invoker      transcription.Provider
	defaultModel string
	metrics      *observability.Metrics
	log          *logger.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithEventSink publishes job lifecycle events to sink.
func WithEventSink(sink EventSink) ServiceOption {
	return func(s *Service) {
		if sink != nil {
			s.runner.sink = sink
		}
	}
}

// WithMetrics records job metrics.
func WithMetrics(m *observability.Metrics) ServiceOption {
	return func(s *Service) {
		s.metrics = m
		s.runner.metrics = m
	}
}

// WithDefaultModel sets the model used when a submission names none.
func WithDefaultModel(model string) ServiceOption {
	return func(s *Service) { s.defaultModel = model }
}

// NewService wires a Service.
func NewService(cfg Config, invoker transcription.Provider, store *transcript.Store, uploads UploadStore, opts ...ServiceOption) *Service {
	s := &Service{
		slot:         NewSlot(),
		group:        NewGroup(),
		runner:       NewRunner(cfg, invoker, store, uploads, nil, nil),
		store:        store,
		uploads:      uploads,
		invoker:      invoker,
		defaultModel: transcription.DefaultModel,
		metrics:      observability.NoopMetrics(),
		log:          logger.Get("job"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit claims the slot, stores the upload and starts the job. It returns
// ErrBusy without touching the body when a job is already running.
func (s *Service) Submit(ctx context.Context, sub Submission) (Job, error) {
	if s.group.Closed() {
		return Job{}, ErrClosed
	}
	format, err := transcription.ParseFormat(string(sub.Format))
	if err != nil {
		return Job{}, err
	}
	model := sub.Model
	if model == "" {
		model = s.defaultModel
	}

	h, ok := s.slot.TryClaim()
	if !ok {
		s.metrics.JobRejected(ctx)
		return Job{}, ErrBusy
	}

	j := Job{
		ID:           h.JobID(),
		OriginalName: sub.Filename,
		Model:        model,
		Format:       format,
		AcceptedAt:   time.Now().UTC(),
	}
	j.UploadKey = j.ID + "_" + util.SanitizeFilename(sub.Filename, "upload")

	if err := s.uploads.Upload(ctx, j.UploadKey, sub.Body); err != nil {
		h.Release()
		return Job{}, fmt.Errorf("%w: %w", ErrUpload, err)
	}
	if j.InputPath, err = s.uploads.Path(j.UploadKey); err != nil {
		s.discardUpload(j)
		h.Release()
		return Job{}, fmt.Errorf("%w: resolve path: %w", ErrUpload, err)
	}

	if err := s.group.Go("job "+j.ID, func(ctx context.Context) {
		s.runner.Run(ctx, j, h)
	}); err != nil {
		s.discardUpload(j)
		h.Release()
		return Job{}, err
	}

	s.log.Info("job accepted", logger.Fields(
		logger.FieldJobID, j.ID,
		logger.FieldModel, j.Model,
		logger.FieldFormat, string(j.Format),
		"filename", sub.Filename,
	))
	return j, nil
}

func (s *Service) discardUpload(j Job) {
	if err := s.uploads.Delete(context.Background(), j.UploadKey); err != nil {
		s.log.Warn("failed to remove upload", logger.Fields(logger.FieldJobID, j.ID, logger.FieldError, err.Error()))
	}
}

// Status returns the slot state.
func (s *Service) Status() SlotState { return s.slot.Snapshot() }

// Latest returns the most recent completed transcription.
func (s *Service) Latest() (transcript.Result, bool) { return s.store.Get() }

var (
	_ component.Component   = (*Service)(nil)
	_ component.Describable = (*Service)(nil)
)

func (s *Service) Name() string { return "jobs" }

func (s *Service) Start(context.Context) error { return nil }

// Stop refuses new jobs and waits for the running one until ctx ends,
// then cancels it.
func (s *Service) Stop(ctx context.Context) error {
	if err := s.group.Shutdown(ctx); err != nil {
		return fmt.Errorf("jobs: %w", err)
	}
	return nil
}

// Health is degraded when the transcription backend is unreachable.
func (s *Service) Health(ctx context.Context) component.Health {
	st := s.slot.Snapshot()
	msg := "idle"
	if st.Occupied {
		msg = "running " + st.CurrentJobID
	}
	if !s.invoker.IsAvailable(ctx) {
		return component.Health{Name: s.Name(), Status: component.StatusDegraded, Message: msg + "; backend " + s.invoker.Name() + " unavailable"}
	}
	return component.Health{Name: s.Name(), Status: component.StatusHealthy, Message: msg}
}

func (s *Service) Describe() component.Description {
	return component.Description{
		Name:    "Jobs",
		Type:    "worker",
		Details: fmt.Sprintf("backend=%s model=%s concurrency=1", s.invoker.Name(), s.defaultModel),
	}
}
