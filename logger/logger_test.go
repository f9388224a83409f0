package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func newJSONLogger(buf *bytes.Buffer) *Logger {
	return NewWithWriter(&Config{Level: "debug", Format: "json"}, "transcriptiond", buf)
}

func TestJSONOutputCarriesFields(t *testing.T) {
	var buf bytes.Buffer
	l := newJSONLogger(&buf).WithComponent("job")

	l.Info("job accepted", Fields(FieldJobID, "abc", FieldModel, "medium"))

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%s)", err, buf.String())
	}
	for key, want := range map[string]string{
		"message":      "job accepted",
		"service":      "transcriptiond",
		FieldComponent: "job",
		FieldJobID:     "abc",
		FieldModel:     "medium",
		"level":        "info",
	} {
		if got := entry[key]; got != want {
			t.Errorf("%s = %v, want %q", key, got, want)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "warn", Format: "json"}, "svc", &buf)

	l.Info("hidden")
	l.Warn("shown")

	if strings.Contains(buf.String(), "hidden") {
		t.Error("info message should be filtered at warn level")
	}
	if !strings.Contains(buf.String(), "shown") {
		t.Error("warn message should be written")
	}
}

func TestInvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "loud", Format: "json"}, "svc", &buf)
	l.Debug("debug")
	l.Info("info")
	if strings.Contains(buf.String(), `"debug"`) {
		t.Error("debug should be filtered when level falls back to info")
	}
	if !strings.Contains(buf.String(), `"info"`) {
		t.Error("info should be written")
	}
}

func TestWithContextAddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	l := newJSONLogger(&buf)

	ctx := ContextWithRequestID(context.Background(), "req-1")
	l.WithContext(ctx).Info("handled")

	if !strings.Contains(buf.String(), `"request_id":"req-1"`) {
		t.Errorf("request id missing: %s", buf.String())
	}
	if got := l.WithContext(context.Background()); got != l {
		t.Error("WithContext without a request id should return the same logger")
	}
}

func TestWithErrorAndMergeWithError(t *testing.T) {
	var buf bytes.Buffer
	l := newJSONLogger(&buf)

	l.WithError(errors.New("boom")).Error("failed", MergeWithError(nil, errors.New("inner")))
	out := buf.String()
	if !strings.Contains(out, "boom") || !strings.Contains(out, "inner") {
		t.Errorf("expected both errors in output: %s", out)
	}
}

func TestGetCachesNamedLoggers(t *testing.T) {
	SetGlobalLogger(Nop())
	a := Get("api")
	b := Get("api")
	if a != b {
		t.Error("Get should return the same logger for the same name")
	}
	if Get("job") == a {
		t.Error("different names should yield different loggers")
	}
}

func TestConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "info", Format: "console", NoColor: true}, "transcriptiond", &buf)
	l.Info("hello", Fields("k", "v"))
	out := buf.String()
	if !strings.Contains(out, "[TRA][INF]") {
		t.Errorf("expected service and level tags: %q", out)
	}
	if !strings.Contains(out, "k:v") {
		t.Errorf("expected field in output: %q", out)
	}
}

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Level != "info" || cfg.Format != "console" || cfg.Output != "stdout" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if !cfg.Timestamp {
		t.Error("expected Timestamp to be true")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{Level: "info", Format: "json"}, false},
		{"valid pretty", Config{Level: "debug", Format: "pretty"}, false},
		{"invalid level", Config{Level: "bad", Format: "json"}, true},
		{"invalid format", Config{Level: "info", Format: "xml"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestFields(t *testing.T) {
	f := Fields("a", 1, "b")
	if len(f) != 1 || f["a"] != 1 {
		t.Errorf("unexpected fields: %v", f)
	}
}
