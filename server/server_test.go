package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/transcriptiond/component"
	"github.com/kbukum/transcriptiond/logger"
)

func newTestServer(t *testing.T, cfg Config, checker func(context.Context) []component.Health) *Server {
	t.Helper()
	cfg.ApplyDefaults()
	s := New(cfg, logger.Nop())
	if err := s.ApplyDefaults("transcriptiond", checker, nil); err != nil {
		t.Fatalf("ApplyDefaults: %v", err)
	}
	return s
}

func TestConfigDefaultsAndValidate(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.Port != 8080 || cfg.MaxBodySize != "1GB" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if got := strings.Join(cfg.CORS.AllowedMethods, ","); got != "GET,POST,OPTIONS" {
		t.Fatalf("cors methods = %s", got)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if n, _ := cfg.BodyLimit(); n != 1<<30 {
		t.Fatalf("body limit = %d", n)
	}

	cfg.MaxBodySize = "lots"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected invalid max_body_size to fail")
	}
	cfg.MaxBodySize = "1MB"
	cfg.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected invalid port to fail")
	}
}

func TestHealthEndpoint(t *testing.T) {
	tests := []struct {
		name       string
		components []component.Health
		wantCode   int
		wantStatus string
	}{
		{"healthy", []component.Health{{Name: "jobs", Status: component.StatusHealthy}}, http.StatusOK, "healthy"},
		{"degraded", []component.Health{{Name: "jobs", Status: component.StatusDegraded}}, http.StatusOK, "degraded"},
		{"unhealthy", []component.Health{
			{Name: "jobs", Status: component.StatusDegraded},
			{Name: "storage", Status: component.StatusUnhealthy},
		}, http.StatusServiceUnavailable, "unhealthy"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestServer(t, Config{}, func(context.Context) []component.Health { return tc.components })

			rr := httptest.NewRecorder()
			s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", http.NoBody))

			if rr.Code != tc.wantCode {
				t.Fatalf("status = %d, want %d", rr.Code, tc.wantCode)
			}
			var body struct {
				Status string `json:"status"`
			}
			if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Status != tc.wantStatus {
				t.Fatalf("status field = %q, want %q", body.Status, tc.wantStatus)
			}
		})
	}
}

func TestReadinessEndpoint(t *testing.T) {
	s := newTestServer(t, Config{}, func(context.Context) []component.Health {
		return []component.Health{{Name: "storage", Status: component.StatusUnhealthy}}
	})
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ready", http.NoBody))
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rr.Code)
	}
}

func TestMiddlewareCoversMountedHandlers(t *testing.T) {
	s := newTestServer(t, Config{}, nil)
	s.Handle("/events", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "stream")
	}))

	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/events", http.NoBody))

	if rr.Body.String() != "stream" {
		t.Fatalf("unexpected body %q", rr.Body.String())
	}
	if rr.Header().Get("X-Request-Id") == "" {
		t.Fatal("request id middleware did not run for the mounted handler")
	}
}

func TestBodyLimitApplied(t *testing.T) {
	s := newTestServer(t, Config{MaxBodySize: "4B"}, nil)
	s.Engine().POST("/transcribe", func(c *gin.Context) { c.Status(http.StatusOK) })

	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/transcribe", strings.NewReader("too large")))

	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", rr.Code)
	}
}

func TestRespondWithError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rr := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rr)
	c.Request = httptest.NewRequest(http.MethodGet, "/transcription", http.NoBody)

	RespondWithError(c, io.ErrUnexpectedEOF)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rr.Code)
	}
	if strings.Contains(rr.Body.String(), "unexpected EOF") {
		t.Fatal("internal cause leaked to the client")
	}
}

func TestStartStopAndRoutes(t *testing.T) {
	cfg := Config{Host: "127.0.0.1"}
	cfg.ApplyDefaults()
	cfg.Port = 0
	s := New(cfg, logger.Nop())
	if err := s.ApplyDefaults("transcriptiond", nil, nil); err != nil {
		t.Fatalf("ApplyDefaults: %v", err)
	}
	s.Engine().POST("/transcribe", func(c *gin.Context) { c.Status(http.StatusOK) })
	comp := NewComponent(s)

	if h := comp.Health(context.Background()); h.Status != component.StatusUnhealthy {
		t.Fatalf("health before start = %s", h.Status)
	}
	if err := comp.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() { _ = comp.Stop(context.Background()) })

	if h := comp.Health(context.Background()); h.Status != component.StatusHealthy {
		t.Fatalf("health after start = %s", h.Status)
	}

	resp, err := http.Get("http://" + s.Addr() + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	routes := comp.Routes()
	if len(routes) == 0 || routes[0].Path != "/transcribe" {
		t.Fatalf("API routes should sort first: %+v", routes)
	}
}

func TestFormatHandlerName(t *testing.T) {
	tests := map[string]string{
		"github.com/kbukum/transcriptiond/api.(*Handler).Transcribe-fm":        "Handler.Transcribe",
		"github.com/kbukum/transcriptiond/server/endpoint.Health.func1":        "Health",
		"github.com/kbukum/transcriptiond/server.TestStartStopAndRoutes.func2": "TestStartStopAndRoutes",
	}
	for in, want := range tests {
		if got := formatHandlerName(in); got != want {
			t.Errorf("formatHandlerName(%q) = %q, want %q", in, got, want)
		}
	}
}
