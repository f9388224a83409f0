package transcription

import (
	"fmt"
	"time"
)

// Backend names.
const (
	BackendScript  = "script"
	BackendWhisper = "whisper"
	BackendStub    = "stub"
)

// DefaultModel is used when a request names no model.
const DefaultModel = "medium"

// Config selects and configures the engine backend.
type Config struct {
	Backend      string        `yaml:"backend" mapstructure:"backend"`
	DefaultModel string        `yaml:"default_model" mapstructure:"default_model"`
	Script       ScriptConfig  `yaml:"script" mapstructure:"script"`
	Whisper      WhisperConfig `yaml:"whisper" mapstructure:"whisper"`
	Stub         StubConfig    `yaml:"stub" mapstructure:"stub"`
}

// ScriptConfig configures the subprocess backend:
//
//	<interpreter> <script> <input> --model <m> --out_format <f> --overwrite
type ScriptConfig struct {
	Interpreter string        `yaml:"interpreter" mapstructure:"interpreter"`
	Script      string        `yaml:"script" mapstructure:"script"`
	ExtraArgs   []string      `yaml:"extra_args" mapstructure:"extra_args"`
	TokenEnv    string        `yaml:"token_env" mapstructure:"token_env"`
	GracePeriod time.Duration `yaml:"grace_period" mapstructure:"grace_period"`
}

// WhisperConfig configures the HTTP sidecar backend.
type WhisperConfig struct {
	URL      string        `yaml:"url" mapstructure:"url"`
	Language string        `yaml:"language" mapstructure:"language"`
	Timeout  time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// StubConfig configures the deterministic development backend.
type StubConfig struct {
	Text  string        `yaml:"text" mapstructure:"text"`
	Delay time.Duration `yaml:"delay" mapstructure:"delay"`
}

// ApplyDefaults fills in zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Backend == "" {
		c.Backend = BackendScript
	}
	if c.DefaultModel == "" {
		c.DefaultModel = DefaultModel
	}
	if c.Script.Interpreter == "" {
		c.Script.Interpreter = "python3"
	}
	if c.Script.Script == "" {
		c.Script.Script = "transcription_gpu.py"
	}
	if c.Script.TokenEnv == "" {
		c.Script.TokenEnv = "HF_TOKEN"
	}
	if c.Script.GracePeriod == 0 {
		c.Script.GracePeriod = 10 * time.Second
	}
	if c.Whisper.URL == "" {
		c.Whisper.URL = "http://localhost:8387"
	}
	if c.Whisper.Timeout == 0 {
		c.Whisper.Timeout = 30 * time.Minute
	}
	if c.Stub.Text == "" {
		c.Stub.Text = "stub transcription"
	}
}

// Validate checks the selected backend's settings.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendScript:
		if c.Script.Script == "" || c.Script.Interpreter == "" {
			return fmt.Errorf("transcription.script: interpreter and script are required")
		}
	case BackendWhisper:
		if c.Whisper.URL == "" {
			return fmt.Errorf("transcription.whisper.url is required")
		}
	case BackendStub:
	default:
		return fmt.Errorf("transcription.backend must be one of [%s %s %s] (got: %s)",
			BackendScript, BackendWhisper, BackendStub, c.Backend)
	}
	return nil
}
