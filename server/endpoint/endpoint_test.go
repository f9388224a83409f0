package endpoint

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/transcriptiond/component"
)

func init() { gin.SetMode(gin.TestMode) }

func serve(t *testing.T, h gin.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	r := gin.New()
	r.GET("/x", h)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	return w
}

func checker(hs ...component.Health) HealthChecker {
	return func(context.Context) []component.Health { return hs }
}

func TestReadinessListsFailingComponents(t *testing.T) {
	w := serve(t, Readiness("transcriptiond", checker(
		component.Health{Name: "results", Status: component.StatusUnhealthy},
		component.Health{Name: "kafka", Status: component.StatusDegraded},
		component.Health{Name: "jobs", Status: component.StatusHealthy},
	)))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", w.Code)
	}
	var resp ReadinessResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != "not_ready" || len(resp.Failing) != 1 || resp.Failing[0] != "results" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestReadinessIgnoresDegraded(t *testing.T) {
	w := serve(t, Readiness("transcriptiond", checker(
		component.Health{Name: "kafka", Status: component.StatusDegraded},
	)))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", w.Code, w.Body)
	}
}

func TestInfoReportsUptime(t *testing.T) {
	started := time.Now().Add(-90 * time.Second)
	w := serve(t, Info("transcriptiond", started))
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["service"] != "transcriptiond" {
		t.Errorf("service = %v", body["service"])
	}
	if body["version"] == nil || body["go_version"] == nil {
		t.Errorf("build fields missing: %v", body)
	}
	if up, _ := body["uptime"].(string); up != "1m30s" {
		t.Errorf("uptime = %v", body["uptime"])
	}
}

func TestMetricsReportsRuntime(t *testing.T) {
	w := serve(t, Metrics())
	var stats RuntimeStats
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
		t.Fatal(err)
	}
	if stats.Goroutines == 0 || stats.CPUs == 0 || stats.Sys == 0 {
		t.Errorf("stats = %+v", stats)
	}
}
