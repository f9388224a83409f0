// Package whisper sends audio to a faster-whisper HTTP sidecar and writes
// the returned transcript as the job's artifact.
package whisper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/kbukum/transcriptiond/transcription"
)

// Name is the registered backend name.
const Name = transcription.BackendWhisper

func init() {
	transcription.Register(Name, func(cfg transcription.Config) (transcription.Provider, error) {
		return New(cfg.Whisper), nil
	})
}

// Backend is the HTTP sidecar transcription backend.
type Backend struct {
	cfg    transcription.WhisperConfig
	client *http.Client
}

// New creates a Backend; cfg is expected to have defaults applied.
func New(cfg transcription.WhisperConfig) *Backend {
	return &Backend{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

func (b *Backend) Name() string { return Name }

// IsAvailable checks if the sidecar answers its health endpoint.
func (b *Backend) IsAvailable(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.cfg.URL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := b.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// Execute streams the input to the sidecar and writes the response as
// plain text or JSON depending on req.Format.
func (b *Backend) Execute(ctx context.Context, req transcription.Request) (*transcription.Artifact, error) {
	audio, err := os.Open(req.InputPath)
	if err != nil {
		return nil, b.fail("open input", err)
	}
	defer audio.Close()

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		pw.CloseWithError(b.writeForm(mw, audio, req))
	}()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, b.cfg.URL+"/transcribe", pr)
	if err != nil {
		pr.Close()
		return nil, b.fail("create request", err)
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := b.client.Do(httpReq)
	if err != nil {
		return nil, b.fail("request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &transcription.InvocationError{
			Backend:  Name,
			ExitCode: -1,
			Reason:   fmt.Sprintf("sidecar status %d", resp.StatusCode),
			Detail:   strings.TrimSpace(string(body)),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, b.fail("read response", err)
	}

	// JSON artifacts keep the sidecar body verbatim.
	out := body
	switch req.Format {
	case transcription.FormatJSON:
		if !json.Valid(body) {
			return nil, b.fail("decode response", errors.New("sidecar returned invalid JSON"))
		}
	default:
		var result whisperResponse
		if err := json.Unmarshal(body, &result); err != nil {
			return nil, b.fail("decode response", err)
		}
		out = []byte(strings.TrimSpace(result.Text) + "\n")
	}

	path := transcription.ArtifactPath(req.WorkDir, req.InputPath, req.Format)
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return nil, b.fail("write artifact", err)
	}
	return &transcription.Artifact{Path: path, Format: req.Format}, nil
}

func (b *Backend) writeForm(mw *multipart.Writer, audio io.Reader, req transcription.Request) error {
	part, err := mw.CreateFormFile("audio", filepath.Base(req.InputPath))
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, audio); err != nil {
		return err
	}
	if err := mw.WriteField("model", req.Model); err != nil {
		return err
	}
	if b.cfg.Language != "" {
		if err := mw.WriteField("language", b.cfg.Language); err != nil {
			return err
		}
	}
	return mw.Close()
}

func (b *Backend) fail(reason string, err error) error {
	return &transcription.InvocationError{Backend: Name, ExitCode: -1, Reason: reason, Err: err}
}

type whisperResponse struct {
	Text     string           `json:"text"`
	Segments []whisperSegment `json:"segments"`
	Language string           `json:"language"`
}

type whisperSegment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}
