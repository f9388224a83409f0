package job

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestGroupRunsAndRecovers(t *testing.T) {
	g := NewGroup()
	var ran atomic.Bool

	if err := g.Go("panics", func(context.Context) { panic("boom") }); err != nil {
		t.Fatal(err)
	}
	if err := g.Go("works", func(context.Context) { ran.Store(true) }); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := g.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if !ran.Load() {
		t.Error("task did not run")
	}
}

func TestGroupRejectsAfterShutdown(t *testing.T) {
	g := NewGroup()
	if err := g.Shutdown(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !g.Closed() {
		t.Error("group should report closed")
	}
	if err := g.Go("late", func(context.Context) {}); !errors.Is(err, ErrClosed) {
		t.Fatalf("Go after shutdown = %v, want ErrClosed", err)
	}
}

func TestGroupShutdownCancelsStragglers(t *testing.T) {
	g := NewGroup()
	cancelled := make(chan struct{})
	_ = g.Go("slow", func(ctx context.Context) {
		<-ctx.Done()
		close(cancelled)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := g.Shutdown(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Shutdown = %v, want deadline exceeded", err)
	}
	select {
	case <-cancelled:
	default:
		t.Fatal("straggler should have observed cancellation before Shutdown returned")
	}
}
