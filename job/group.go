package job

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/kbukum/transcriptiond/logger"
)

// ErrClosed is returned when work is submitted after shutdown began.
var ErrClosed = errors.New("job: service is shutting down")

// Group supervises background tasks. Tasks receive a context that is
// cancelled when the group is shut down; panics are recovered and logged.
type Group struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	log    *logger.Logger

	mu     sync.Mutex
	closed bool
}

// NewGroup creates an open group.
func NewGroup() *Group {
	ctx, cancel := context.WithCancel(context.Background())
	return &Group{ctx: ctx, cancel: cancel, log: logger.Get("job.group")}
}

// Go runs fn in a new goroutine unless the group is closed.
func (g *Group) Go(name string, fn func(ctx context.Context)) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return ErrClosed
	}
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				g.log.Error("task panicked", logger.Fields(
					"task", name,
					logger.FieldError, fmt.Sprint(r),
					"stack", string(debug.Stack()),
				))
			}
		}()
		fn(g.ctx)
	}()
	return nil
}

// Closed reports whether Shutdown has been called.
func (g *Group) Closed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.closed
}

// Shutdown stops accepting tasks and waits for running ones until ctx is
// done. Tasks still running then are cancelled and awaited.
func (g *Group) Shutdown(ctx context.Context) error {
	g.mu.Lock()
	g.closed = true
	g.mu.Unlock()

	done := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		g.cancel()
		return nil
	case <-ctx.Done():
		g.log.Warn("cancelling running tasks", logger.Fields(logger.FieldError, ctx.Err().Error()))
		g.cancel()
		<-done
		return ctx.Err()
	}
}
