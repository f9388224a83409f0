package transcription

import (
	"bytes"
	"errors"
	"fmt"
)

// ErrArtifactMissing marks an engine run that reported success without
// producing the expected artifact.
var ErrArtifactMissing = errors.New("transcription artifact missing")

// InvocationError describes a failed engine invocation.
type InvocationError struct {
	Backend string
	// ExitCode is set for subprocess backends; -1 when killed.
	ExitCode int
	Reason   string
	// Detail is a bounded tail of the engine's diagnostic output.
	Detail string
	Err    error
}

func (e *InvocationError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Backend, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *InvocationError) Unwrap() error { return e.Err }

// IsInvocationError reports whether err carries an InvocationError.
func IsInvocationError(err error) bool {
	var ie *InvocationError
	return errors.As(err, &ie)
}

// Tail returns at most n trailing bytes of b as a trimmed string.
func Tail(b []byte, n int) string {
	if len(b) > n {
		b = b[len(b)-n:]
	}
	return string(bytes.TrimSpace(b))
}
