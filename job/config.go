package job

import (
	"fmt"
	"time"
)

// Config controls where job files live and how long a job may run.
type Config struct {
	// UploadsDir receives uploaded audio as <job id>_<file name>.
	UploadsDir string `yaml:"uploads_dir" mapstructure:"uploads_dir"`
	// WorkDir holds one private directory per job for engine output.
	WorkDir string `yaml:"work_dir" mapstructure:"work_dir"`
	// Timeout bounds a single transcription; zero means no limit.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
	// Cleanup removes the upload and the job directory after the job.
	Cleanup bool `yaml:"cleanup" mapstructure:"cleanup"`
	// EventTimeout bounds event delivery to external sinks.
	EventTimeout time.Duration `yaml:"event_timeout" mapstructure:"event_timeout"`
}

func (c *Config) ApplyDefaults() {
	if c.UploadsDir == "" {
		c.UploadsDir = "./uploads"
	}
	if c.WorkDir == "" {
		c.WorkDir = "./outputs/jobs"
	}
	if c.EventTimeout == 0 {
		c.EventTimeout = 5 * time.Second
	}
}

func (c *Config) Validate() error {
	if c.Timeout < 0 {
		return fmt.Errorf("jobs.timeout must not be negative")
	}
	if c.UploadsDir == c.WorkDir {
		return fmt.Errorf("jobs.uploads_dir and jobs.work_dir must differ")
	}
	return nil
}
