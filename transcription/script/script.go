// Package script runs the transcription engine as a subprocess:
//
//	<interpreter> <script> <input> --model <m> --out_format <f> --overwrite
//
// The process runs in the job's work directory and writes
// <input stem>.<format> there. The access token named by TokenEnv must be
// present in the service environment and is forwarded to the child.
package script

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/kbukum/transcriptiond/process"
	"github.com/kbukum/transcriptiond/transcription"
)

// Name is the registered backend name.
const Name = transcription.BackendScript

const stderrTail = 2048

func init() {
	transcription.Register(Name, func(cfg transcription.Config) (transcription.Provider, error) {
		return New(cfg.Script)
	})
}

// Backend is the subprocess transcription backend.
type Backend struct {
	cfg transcription.ScriptConfig
	// lookupEnv is os.LookupEnv outside tests.
	lookupEnv func(string) (string, bool)
}

// New validates cfg and returns a Backend. It fails when the token
// variable is unset so misconfiguration surfaces at startup.
func New(cfg transcription.ScriptConfig) (*Backend, error) {
	return newBackend(cfg, os.LookupEnv)
}

func newBackend(cfg transcription.ScriptConfig, lookup func(string) (string, bool)) (*Backend, error) {
	if cfg.Interpreter == "" || cfg.Script == "" {
		return nil, fmt.Errorf("script backend: interpreter and script are required")
	}
	if cfg.TokenEnv != "" {
		if v, ok := lookup(cfg.TokenEnv); !ok || v == "" {
			return nil, fmt.Errorf("script backend: environment variable %s is not set", cfg.TokenEnv)
		}
	}
	// The child runs in the job directory, so relative paths are pinned
	// to the service's working directory here.
	script, err := filepath.Abs(cfg.Script)
	if err != nil {
		return nil, fmt.Errorf("script backend: resolve script: %w", err)
	}
	cfg.Script = script
	if strings.ContainsRune(cfg.Interpreter, filepath.Separator) {
		if cfg.Interpreter, err = filepath.Abs(cfg.Interpreter); err != nil {
			return nil, fmt.Errorf("script backend: resolve interpreter: %w", err)
		}
	}
	return &Backend{cfg: cfg, lookupEnv: lookup}, nil
}

func (b *Backend) Name() string { return Name }

// IsAvailable reports whether the interpreter resolves on PATH.
func (b *Backend) IsAvailable(context.Context) bool {
	_, err := exec.LookPath(b.cfg.Interpreter)
	return err == nil
}

// Execute runs the engine for req and returns the artifact it produced.
func (b *Backend) Execute(ctx context.Context, req transcription.Request) (*transcription.Artifact, error) {
	var env []string
	if b.cfg.TokenEnv != "" {
		token, ok := b.lookupEnv(b.cfg.TokenEnv)
		if !ok || token == "" {
			return nil, &transcription.InvocationError{
				Backend:  Name,
				ExitCode: -1,
				Reason:   b.cfg.TokenEnv + " is not set",
			}
		}
		env = append(env, b.cfg.TokenEnv+"="+token)
	}

	input, err := filepath.Abs(req.InputPath)
	if err != nil {
		return nil, fmt.Errorf("script: resolve input: %w", err)
	}
	workDir, err := filepath.Abs(req.WorkDir)
	if err != nil {
		return nil, fmt.Errorf("script: resolve work dir: %w", err)
	}

	args := []string{b.cfg.Script, input, "--model", req.Model, "--out_format", string(req.Format), "--overwrite"}
	args = append(args, b.cfg.ExtraArgs...)

	res, err := process.Run(ctx, process.Command{
		Binary:      b.cfg.Interpreter,
		Args:        args,
		Dir:         workDir,
		Env:         env,
		GracePeriod: b.cfg.GracePeriod,
	})
	if err != nil {
		ie := &transcription.InvocationError{Backend: Name, ExitCode: -1, Err: err}
		if res != nil {
			ie.ExitCode = res.ExitCode
			ie.Detail = transcription.Tail(res.Stderr, stderrTail)
		}
		switch {
		case errors.Is(err, process.ErrKilled):
			ie.Reason = "cancelled"
		case ie.ExitCode > 0:
			ie.Reason = fmt.Sprintf("exit code %d", ie.ExitCode)
		default:
			ie.Reason = "failed to start"
		}
		return nil, ie
	}

	path := transcription.ArtifactPath(workDir, input, req.Format)
	if _, err := os.Stat(path); err != nil {
		return nil, &transcription.InvocationError{
			Backend: Name,
			Reason:  "no artifact at " + path,
			Detail:  transcription.Tail(res.Stderr, stderrTail),
			Err:     transcription.ErrArtifactMissing,
		}
	}
	return &transcription.Artifact{Path: path, Format: req.Format}, nil
}
