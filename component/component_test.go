package component

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
)

type fakeComponent struct {
	name     string
	startErr error
	stopErr  error
	status   HealthStatus
	log      *[]string
}

func (f *fakeComponent) Name() string { return f.name }

func (f *fakeComponent) Start(context.Context) error {
	*f.log = append(*f.log, "start:"+f.name)
	return f.startErr
}

func (f *fakeComponent) Stop(context.Context) error {
	*f.log = append(*f.log, "stop:"+f.name)
	return f.stopErr
}

func (f *fakeComponent) Health(context.Context) Health {
	return Health{Name: f.name, Status: f.status}
}

func TestStartStopOrder(t *testing.T) {
	var calls []string
	r := NewRegistry()
	for _, n := range []string{"store", "jobs", "http"} {
		if err := r.Register(&fakeComponent{name: n, log: &calls}); err != nil {
			t.Fatal(err)
		}
	}

	if err := r.StartAll(context.Background()); err != nil {
		t.Fatalf("StartAll: %v", err)
	}
	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll: %v", err)
	}

	want := []string{"start:store", "start:jobs", "start:http", "stop:http", "stop:jobs", "stop:store"}
	if !slices.Equal(calls, want) {
		t.Errorf("calls = %v, want %v", calls, want)
	}
}

func TestStartFailureRollsBack(t *testing.T) {
	var calls []string
	r := NewRegistry()
	r.Register(&fakeComponent{name: "store", log: &calls})
	r.Register(&fakeComponent{name: "jobs", startErr: errors.New("no token"), log: &calls})
	r.Register(&fakeComponent{name: "http", log: &calls})

	err := r.StartAll(context.Background())
	if err == nil {
		t.Fatal("expected start error")
	}
	want := []string{"start:store", "start:jobs", "stop:store"}
	if !slices.Equal(calls, want) {
		t.Errorf("calls = %v, want %v", calls, want)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	var calls []string
	r := NewRegistry()
	r.Register(&fakeComponent{name: "db", log: &calls})
	if err := r.Register(&fakeComponent{name: "db", log: &calls}); err == nil {
		t.Error("expected error for duplicate registration")
	}
}

func TestStopAllJoinsErrors(t *testing.T) {
	var calls []string
	r := NewRegistry()
	r.Register(&fakeComponent{name: "a", stopErr: errors.New("a failed"), log: &calls})
	r.Register(&fakeComponent{name: "b", stopErr: errors.New("b failed"), log: &calls})
	r.StartAll(context.Background())

	err := r.StopAll(context.Background())
	if err == nil {
		t.Fatal("expected joined error")
	}
	if got := err.Error(); !containsAll(got, "a failed", "b failed") {
		t.Errorf("error %q should mention both failures", got)
	}
}

func TestHealthAllAndGet(t *testing.T) {
	var calls []string
	r := NewRegistry()
	r.Register(&fakeComponent{name: "a", status: StatusHealthy, log: &calls})
	r.Register(&fakeComponent{name: "b", status: StatusDegraded, log: &calls})

	h := r.HealthAll(context.Background())
	if len(h) != 2 || h[1].Status != StatusDegraded {
		t.Errorf("unexpected health: %+v", h)
	}
	if r.Get("a") == nil || r.Get("missing") != nil {
		t.Error("Get returned unexpected result")
	}
	if len(r.All()) != 2 {
		t.Error("All should return both components")
	}
}

func containsAll(s string, subs ...string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}
