// Package transcription is the boundary to the external speech-to-text
// engine: a request names an input file, a model and an output format; a
// backend produces an artifact file or an InvocationError.
package transcription

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/kbukum/transcriptiond/provider"
)

// Format is the artifact format requested from the engine.
type Format string

const (
	FormatText Format = "txt"
	FormatJSON Format = "json"
)

// ErrUnknownFormat is returned by ParseFormat for values outside the enum.
var ErrUnknownFormat = errors.New("out_format must be 'txt' or 'json'")

// ParseFormat validates s as a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatText, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("%w (got %q)", ErrUnknownFormat, s)
	}
}

// Ext returns the artifact file extension including the dot.
func (f Format) Ext() string { return "." + string(f) }

func (f Format) String() string { return string(f) }

// Request is a single invocation of the engine.
type Request struct {
	JobID     string
	InputPath string
	Model     string
	Format    Format
	// WorkDir is a job-private directory the backend writes its artifact to.
	WorkDir string
}

// Artifact is the output file produced for a request.
type Artifact struct {
	Path   string
	Format Format
}

// Provider is implemented by every transcription backend.
type Provider = provider.RequestResponse[Request, *Artifact]

// ArtifactPath returns where a backend places the artifact for an input:
// the input's base name with its extension replaced, inside workDir.
func ArtifactPath(workDir, inputPath string, f Format) string {
	base := filepath.Base(inputPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(workDir, stem+f.Ext())
}
