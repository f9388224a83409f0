// Package stub is a deterministic transcription backend for development
// and tests. It writes a fixed transcript after an optional delay.
package stub

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/kbukum/transcriptiond/transcription"
)

// Name is the registered backend name.
const Name = transcription.BackendStub

func init() {
	transcription.Register(Name, func(cfg transcription.Config) (transcription.Provider, error) {
		return New(cfg.Stub), nil
	})
}

// Backend writes cfg.Text as the artifact for every request.
type Backend struct {
	cfg transcription.StubConfig
}

func New(cfg transcription.StubConfig) *Backend { return &Backend{cfg: cfg} }

func (b *Backend) Name() string                     { return Name }
func (b *Backend) IsAvailable(context.Context) bool { return true }

func (b *Backend) Execute(ctx context.Context, req transcription.Request) (*transcription.Artifact, error) {
	if b.cfg.Delay > 0 {
		t := time.NewTimer(b.cfg.Delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return nil, &transcription.InvocationError{Backend: Name, ExitCode: -1, Reason: "cancelled", Err: ctx.Err()}
		case <-t.C:
		}
	}

	out := []byte(b.cfg.Text)
	if req.Format == transcription.FormatJSON {
		var err error
		out, err = json.Marshal(map[string]any{
			"text":     b.cfg.Text,
			"model":    req.Model,
			"segments": []map[string]any{{"start": 0, "end": 0, "text": b.cfg.Text}},
		})
		if err != nil {
			return nil, err
		}
	}

	path := transcription.ArtifactPath(req.WorkDir, req.InputPath, req.Format)
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return nil, &transcription.InvocationError{Backend: Name, ExitCode: -1, Reason: "write artifact", Err: err}
	}
	return &transcription.Artifact{Path: path, Format: req.Format}, nil
}
