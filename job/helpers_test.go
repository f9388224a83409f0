package job

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kbukum/transcriptiond/storage/local"
	"github.com/kbukum/transcriptiond/transcript"
	"github.com/kbukum/transcriptiond/transcription"
)

type fakeInvoker struct {
	calls atomic.Int32
	fn    func(ctx context.Context, req transcription.Request) (*transcription.Artifact, error)
}

func (f *fakeInvoker) Name() string                     { return "fake" }
func (f *fakeInvoker) IsAvailable(context.Context) bool { return true }
func (f *fakeInvoker) Execute(ctx context.Context, req transcription.Request) (*transcription.Artifact, error) {
	f.calls.Add(1)
	return f.fn(ctx, req)
}

// writes returns an invoker body that produces text as the artifact.
func writes(text string) func(context.Context, transcription.Request) (*transcription.Artifact, error) {
	return func(_ context.Context, req transcription.Request) (*transcription.Artifact, error) {
		path := transcription.ArtifactPath(req.WorkDir, req.InputPath, req.Format)
		if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
			return nil, err
		}
		return &transcription.Artifact{Path: path, Format: req.Format}, nil
	}
}

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) Publish(_ context.Context, e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) types() []EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]EventType, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

func (r *recorder) last() Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[len(r.events)-1]
}

type fixture struct {
	cfg     Config
	uploads *local.Storage
	results *local.Storage
	store   *transcript.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	uploads, err := local.NewStorage(dir + "/uploads")
	if err != nil {
		t.Fatal(err)
	}
	results, err := local.NewStorage(dir + "/results")
	if err != nil {
		t.Fatal(err)
	}
	cfg := Config{UploadsDir: dir + "/uploads", WorkDir: dir + "/work"}
	cfg.ApplyDefaults()
	return &fixture{cfg: cfg, uploads: uploads, results: results, store: transcript.NewStore(results)}
}

func waitIdle(t *testing.T, s *Slot) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for s.IsOccupied() {
		if time.Now().After(deadline) {
			t.Fatal("slot was not released")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
