// Package bootstrap runs the service lifecycle: start components, run
// configure and ready hooks, wait for a shutdown signal, then stop
// everything within a graceful timeout.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kbukum/transcriptiond/component"
	"github.com/kbukum/transcriptiond/logger"
)

// Hook is a lifecycle callback.
type Hook func(ctx context.Context) error

// App is a long-running service with a typed config.
type App[C Config] struct {
	Name       string
	Version    string
	Cfg        C
	Components *component.Registry
	Logger     *logger.Logger

	gracefulTimeout time.Duration
	onConfigure     []func(ctx context.Context, app *App[C]) error
	onStart         []Hook
	onReady         []Hook
	onStop          []Hook
	startedAt       time.Time
}

// Option configures the App during creation.
type Option func(*options)

type options struct {
	logger          *logger.Logger
	gracefulTimeout time.Duration
}

// WithLogger overrides the logger initialised from config.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithGracefulTimeout sets the maximum duration for graceful shutdown.
func WithGracefulTimeout(d time.Duration) Option {
	return func(o *options) { o.gracefulTimeout = d }
}

// NewApp applies defaults, validates cfg and initialises logging.
func NewApp[C Config](cfg C, opts ...Option) (*App[C], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	base := cfg.GetServiceConfig()

	o := options{gracefulTimeout: 15 * time.Second}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		logger.Init(base.Logging)
		o.logger = logger.GetGlobalLogger()
	} else {
		logger.SetGlobalLogger(o.logger)
	}

	return &App[C]{
		Name:            base.Name,
		Version:         base.Version,
		Cfg:             cfg,
		Components:      component.NewRegistry(),
		Logger:          o.logger,
		gracefulTimeout: o.gracefulTimeout,
	}, nil
}

// RegisterComponent adds a component to the application's registry.
func (a *App[C]) RegisterComponent(c component.Component) error {
	return a.Components.Register(c)
}

// OnConfigure registers a callback run after components have started.
func (a *App[C]) OnConfigure(fn func(ctx context.Context, app *App[C]) error) {
	a.onConfigure = append(a.onConfigure, fn)
}

// OnStart registers a hook run right after components have started.
func (a *App[C]) OnStart(h Hook) { a.onStart = append(a.onStart, h) }

// OnReady registers a hook run once the service is ready.
func (a *App[C]) OnReady(h Hook) { a.onReady = append(a.onReady, h) }

// OnStop registers a hook run before components are stopped.
func (a *App[C]) OnStop(h Hook) { a.onStop = append(a.onStop, h) }

// ReadyCheck reports an error naming every unhealthy component.
func (a *App[C]) ReadyCheck(ctx context.Context) error {
	var unhealthy []string
	for _, h := range a.Components.HealthAll(ctx) {
		if h.Status == component.StatusHealthy {
			continue
		}
		detail := h.Name + "=" + string(h.Status)
		if h.Message != "" {
			detail += "(" + h.Message + ")"
		}
		unhealthy = append(unhealthy, detail)
	}
	if len(unhealthy) > 0 {
		return fmt.Errorf("unhealthy components: %v", unhealthy)
	}
	return nil
}

// Run starts the service, blocks until a signal or ctx cancellation and then
// shuts down gracefully.
func (a *App[C]) Run(ctx context.Context) error {
	if err := a.Start(ctx); err != nil {
		return err
	}
	a.WaitForSignal(ctx)
	return a.Shutdown()
}

// Start runs the startup sequence without blocking.
func (a *App[C]) Start(ctx context.Context) error {
	a.startedAt = time.Now()
	a.Logger.Info("Starting application", logger.Fields("name", a.Name, "version", a.Version))

	if err := a.Components.StartAll(ctx); err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}
	if err := runHooks(ctx, a.onStart); err != nil {
		return a.abort(fmt.Errorf("onStart hook failed: %w", err))
	}
	for _, fn := range a.onConfigure {
		if err := fn(ctx, a); err != nil {
			return a.abort(fmt.Errorf("configuration failed: %w", err))
		}
	}
	if err := a.ReadyCheck(ctx); err != nil {
		a.Logger.Warn("Ready check reported issues", logger.Fields(logger.FieldError, err.Error()))
	}
	if err := runHooks(ctx, a.onReady); err != nil {
		return a.abort(fmt.Errorf("onReady hook failed: %w", err))
	}

	a.displaySummary(time.Since(a.startedAt))
	return nil
}

func (a *App[C]) abort(err error) error {
	if stopErr := a.Shutdown(); stopErr != nil {
		return errors.Join(err, stopErr)
	}
	return err
}

// WaitForSignal blocks until SIGINT, SIGTERM or ctx cancellation.
func (a *App[C]) WaitForSignal(ctx context.Context) os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		a.Logger.Info("Received shutdown signal", logger.Fields("signal", sig.String()))
		return sig
	case <-ctx.Done():
		a.Logger.Info("Context canceled, shutting down")
		return nil
	}
}

// Shutdown runs stop hooks then stops all components within the graceful
// timeout.
func (a *App[C]) Shutdown() error {
	a.Logger.Info("Shutting down application", logger.Fields("timeout", a.gracefulTimeout.String()))

	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	var errs []error
	if err := runHooks(ctx, a.onStop); err != nil {
		a.Logger.Error("OnStop hook error", logger.Fields(logger.FieldError, err.Error()))
		errs = append(errs, err)
	}
	if err := a.Components.StopAll(ctx); err != nil {
		a.Logger.Error("Shutdown completed with errors", logger.Fields(logger.FieldError, err.Error()))
		errs = append(errs, err)
	}

	a.Logger.Info("Application shutdown complete")
	return errors.Join(errs...)
}

func runHooks(ctx context.Context, hooks []Hook) error {
	for _, h := range hooks {
		if err := h(ctx); err != nil {
			return err
		}
	}
	return nil
}
