package job

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/kbukum/transcriptiond/logger"
	"github.com/kbukum/transcriptiond/observability"
	"github.com/kbukum/transcriptiond/storage"
	"github.com/kbukum/transcriptiond/transcript"
	"github.com/kbukum/transcriptiond/transcription"
)

// Job is one accepted transcription request.
type Job struct {
	ID           string
	UploadKey    string
	InputPath    string
	OriginalName string
	Model        string
	Format       transcription.Format
	AcceptedAt   time.Time
}

// Runner executes one job from invocation to release.
type Runner struct {
	cfg     Config
	invoker transcription.Provider
	store   *transcript.Store
	uploads storage.Storage
	sink    EventSink
	metrics *observability.Metrics
	log     *logger.Logger
}

// NewRunner creates a Runner. sink may be nil.
func NewRunner(cfg Config, invoker transcription.Provider, store *transcript.Store, uploads storage.Storage, sink EventSink, metrics *observability.Metrics) *Runner {
	if sink == nil {
		sink = Sinks(nil)
	}
	if metrics == nil {
		metrics = observability.NoopMetrics()
	}
	return &Runner{
		cfg:     cfg,
		invoker: invoker,
		store:   store,
		uploads: uploads,
		sink:    sink,
		metrics: metrics,
		log:     logger.Get("job.runner"),
	}
}

// Run executes j and releases h exactly once, even if the job panics.
func (r *Runner) Run(ctx context.Context, j Job, h *Handle) {
	defer h.Release()

	start := time.Now()
	ctx, span := observability.StartSpan(ctx, "job.run")
	defer span.End()
	observability.SetSpanAttributes(ctx,
		observability.AttrJobID, j.ID,
		observability.AttrModel, j.Model,
		observability.AttrFormat, string(j.Format),
	)

	log := r.log.WithFields(logger.Fields(
		logger.FieldJobID, j.ID,
		logger.FieldModel, j.Model,
		logger.FieldFormat, string(j.Format),
	))

	r.metrics.JobStarted(ctx)
	r.sink.Publish(ctx, r.event(EventStarted, j, nil, 0))
	log.Info("transcription started", logger.Fields(logger.FieldPath, j.InputPath))

	defer func() {
		if rec := recover(); rec != nil {
			err := fmt.Errorf("job panicked: %v", rec)
			log.Error("transcription fault", logger.Fields(
				logger.FieldError, err.Error(),
				"stack", string(debug.Stack()),
			))
			r.finish(ctx, j, h, start, err)
		}
	}()

	err := r.execute(ctx, j, log)
	if err != nil {
		log.Error("transcription failed", logger.Fields(
			logger.FieldError, err.Error(),
			logger.FieldDuration, time.Since(start).String(),
		))
		var ie *transcription.InvocationError
		if errors.As(err, &ie) && ie.Detail != "" {
			log.Warn("engine output", logger.Fields(logger.FieldExitCode, ie.ExitCode, "stderr", ie.Detail))
		}
	} else {
		log.Info("transcription completed", logger.Fields(logger.FieldDuration, time.Since(start).String()))
	}
	r.finish(ctx, j, h, start, err)
}

func (r *Runner) execute(ctx context.Context, j Job, log *logger.Logger) error {
	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}

	workDir, err := filepath.Abs(filepath.Join(r.cfg.WorkDir, j.ID))
	if err != nil {
		return fmt.Errorf("resolve work dir: %w", err)
	}
	if err := os.MkdirAll(workDir, 0o750); err != nil {
		return fmt.Errorf("create work dir: %w", err)
	}
	if r.cfg.Cleanup {
		defer r.cleanup(j, workDir, log)
	}

	art, err := r.invoker.Execute(ctx, transcription.Request{
		JobID:     j.ID,
		InputPath: j.InputPath,
		Model:     j.Model,
		Format:    j.Format,
		WorkDir:   workDir,
	})
	if err != nil {
		return err
	}

	data, err := os.ReadFile(art.Path)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("read artifact %s: %w", art.Path, transcription.ErrArtifactMissing)
	}
	if err != nil {
		return fmt.Errorf("read artifact: %w", err)
	}

	// The result is complete at this point; persist it even if shutdown
	// cancelled ctx meanwhile.
	return r.store.Set(context.WithoutCancel(ctx), transcript.Result{
		Text:   string(data),
		Format: art.Format,
		JobID:  j.ID,
	})
}

// finish releases the slot before the terminal event goes out, so a
// client reacting to it can submit the next job right away.
func (r *Runner) finish(ctx context.Context, j Job, h *Handle, start time.Time, err error) {
	d := time.Since(start)
	status := "succeeded"
	eventType := EventSucceeded
	if err != nil {
		status = "failed"
		eventType = EventFailed
		observability.SetSpanError(ctx, err)
	}
	r.metrics.JobFinished(ctx, status, d)
	h.Release()
	r.sink.Publish(ctx, r.event(eventType, j, err, d))
}

func (r *Runner) cleanup(j Job, workDir string, log *logger.Logger) {
	if err := os.RemoveAll(workDir); err != nil {
		log.Warn("failed to remove work dir", logger.ErrorFields("cleanup", err))
	}
	if r.uploads != nil && j.UploadKey != "" {
		if err := r.uploads.Delete(context.Background(), j.UploadKey); err != nil {
			log.Warn("failed to remove upload", logger.ErrorFields("cleanup", err))
		}
	}
}

func (r *Runner) event(t EventType, j Job, err error, d time.Duration) Event {
	e := Event{
		Type:       t,
		JobID:      j.ID,
		Model:      j.Model,
		Format:     string(j.Format),
		DurationMS: d.Milliseconds(),
		Timestamp:  time.Now().UTC(),
	}
	if err != nil {
		e.Error = err.Error()
	}
	return e
}
