// Package transcript holds the most recently completed transcription and
// persists it so that it survives restarts.
package transcript

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kbukum/transcriptiond/logger"
	"github.com/kbukum/transcriptiond/storage"
	"github.com/kbukum/transcriptiond/transcription"
)

// Persisted object keys. Each format keeps its own last result. KeyCurrent
// names the format written most recently; without it text takes precedence
// on load.
const (
	KeyText    = "last_transcription.txt"
	KeyJSON    = "last_transcription.json"
	KeyCurrent = "last_transcription.current"
)

// Result is a completed transcription.
type Result struct {
	Text   string
	Format transcription.Format
	// JobID and CompletedAt are not persisted.
	JobID       string
	CompletedAt time.Time
}

// Key returns the storage key for a format.
func Key(f transcription.Format) string {
	if f == transcription.FormatJSON {
		return KeyJSON
	}
	return KeyText
}

// Store is the latest-result holder. Reads never block; writes are
// serialized and become visible only after they are durable.
type Store struct {
	backend storage.Storage
	log     *logger.Logger

	mu     sync.Mutex
	latest atomic.Pointer[Result]
}

// NewStore creates an empty store persisting through backend.
func NewStore(backend storage.Storage) *Store {
	return &Store{backend: backend, log: logger.Get("transcript")}
}

// Get returns the latest result, if any.
func (s *Store) Get() (Result, bool) {
	r := s.latest.Load()
	if r == nil {
		return Result{}, false
	}
	return *r, true
}

// Set persists r and then publishes it. On a persistence error the
// previous result stays current.
func (s *Store) Set(ctx context.Context, r Result) error {
	if _, err := transcription.ParseFormat(string(r.Format)); err != nil {
		return err
	}
	if r.CompletedAt.IsZero() {
		r.CompletedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.Upload(ctx, Key(r.Format), bytes.NewReader([]byte(r.Text))); err != nil {
		return fmt.Errorf("transcript: persist %s: %w", Key(r.Format), err)
	}
	s.latest.Store(&r)

	if err := s.backend.Upload(ctx, KeyCurrent, strings.NewReader(string(r.Format))); err != nil {
		s.log.Warn("failed to record current transcription format", logger.Fields(
			"key", KeyCurrent,
			logger.FieldError, err.Error(),
		))
	}
	return nil
}

// Load restores the persisted result: the format named by KeyCurrent when
// present, otherwise text first. A missing result is not an error.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	order := []transcription.Format{transcription.FormatText, transcription.FormatJSON}
	if f, ok := s.currentFormat(ctx); ok && f == transcription.FormatJSON {
		order = []transcription.Format{transcription.FormatJSON, transcription.FormatText}
	}

	for _, f := range order {
		data, err := storage.ReadAll(ctx, s.backend, Key(f))
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return fmt.Errorf("transcript: load %s: %w", Key(f), err)
		}
		s.latest.Store(&Result{Text: string(data), Format: f})
		s.log.Info("restored last transcription", logger.Fields(
			logger.FieldFormat, string(f),
			"bytes", len(data),
		))
		return nil
	}
	return nil
}

func (s *Store) currentFormat(ctx context.Context) (transcription.Format, bool) {
	data, err := storage.ReadAll(ctx, s.backend, KeyCurrent)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.log.Warn("failed to read current transcription format", logger.ErrorFields("load", err))
		}
		return "", false
	}
	f, err := transcription.ParseFormat(strings.TrimSpace(string(data)))
	if err != nil {
		return "", false
	}
	return f, true
}
