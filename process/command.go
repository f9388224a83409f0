// Package process runs external commands in their own process group with
// graceful termination on context cancellation.
package process

import (
	"io"
	"time"
)

// DefaultGracePeriod is the delay between SIGTERM and SIGKILL.
const DefaultGracePeriod = 5 * time.Second

// DefaultMaxOutput caps how many trailing bytes of each stream are kept.
const DefaultMaxOutput = 64 * 1024

// Command configures a subprocess to execute.
type Command struct {
	// Binary is the executable path or name resolved via PATH.
	Binary string
	Args   []string
	// Dir is the working directory; empty means the current directory.
	Dir string
	// Env is appended to the parent environment.
	Env   []string
	Stdin io.Reader
	// GracePeriod is how long to wait after SIGTERM before SIGKILL.
	GracePeriod time.Duration
	// MaxOutput bounds captured stdout and stderr; older bytes are dropped.
	MaxOutput int
}

// Result holds the output and status of a completed subprocess.
type Result struct {
	Stdout []byte
	Stderr []byte
	// ExitCode is -1 when the process was killed or never started.
	ExitCode int
	Duration time.Duration
}
