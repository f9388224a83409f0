package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/kbukum/transcriptiond/logger"
	"github.com/kbukum/transcriptiond/observability"
	"github.com/kbukum/transcriptiond/server/endpoint"
	"github.com/kbukum/transcriptiond/server/middleware"
)

// Server is an HTTP server backed by gin, mounted on a root ServeMux so that
// plain http.Handlers (the SSE stream) share the port and middleware.
type Server struct {
	httpServer  *http.Server
	engine      *gin.Engine
	mux         *http.ServeMux
	config      Config
	log         *logger.Logger
	middlewares []middleware.Middleware
	startedAt   time.Time

	mu       sync.Mutex
	listener net.Listener
}

// New creates a Server. No middleware is applied yet; call ApplyDefaults or
// Use before Start.
func New(cfg Config, log *logger.Logger) *Server {
	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.HandleMethodNotAllowed = true
	mux := http.NewServeMux()
	mux.Handle("/", engine)

	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.Addr(),
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: 30 * time.Second,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       cfg.IdleTimeout,
		},
		engine:    engine,
		mux:       mux,
		config:    cfg,
		log:       log.WithComponent("server"),
		startedAt: time.Now(),
	}
}

// Engine returns the gin engine for route registration.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Handle mounts an http.Handler at pattern on the root ServeMux.
func (s *Server) Handle(pattern string, handler http.Handler) {
	s.mux.Handle(pattern, handler)
	s.log.Debug("Handler mounted", logger.Fields("pattern", pattern))
}

// Use appends server-level middleware. The first registered runs outermost.
func (s *Server) Use(mw ...middleware.Middleware) {
	s.middlewares = append(s.middlewares, mw...)
}

// Handler returns the fully wrapped handler: middleware chain around the mux,
// behind h2c.
func (s *Server) Handler() http.Handler {
	h2s := &http2.Server{
		MaxConcurrentStreams: 250,
		IdleTimeout:          s.config.IdleTimeout,
	}
	return h2c.NewHandler(middleware.Chain(s.middlewares...)(s.mux), h2s)
}

// Start binds the port and begins serving. It returns once the listener is
// bound; serving continues in a goroutine.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("server failed to bind %s: %w", s.httpServer.Addr, err)
	}
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	s.httpServer.Handler = s.Handler()
	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("Server error", logger.Fields(logger.FieldError, err.Error()))
		}
	}()

	s.log.Info("HTTP server started", logger.Fields("addr", listener.Addr().String()))
	return nil
}

// Stop gracefully shuts down the server within the configured shutdown
// timeout.
func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("Shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.log.Error("Server shutdown error", logger.Fields(logger.FieldError, err.Error()))
		return fmt.Errorf("server shutdown error: %w", err)
	}
	s.log.Info("HTTP server shut down successfully")
	return nil
}

// Addr returns the bound address once started, the configured one before.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.httpServer.Addr
}

// ApplyMiddleware installs the standard stack: recovery, request id, CORS,
// body-size limit and request logging.
func (s *Server) ApplyMiddleware(metrics *observability.Metrics) error {
	limit, err := s.config.BodyLimit()
	if err != nil {
		return err
	}
	s.Use(
		middleware.Recovery(s.log),
		middleware.RequestID(),
		middleware.CORS(s.config.CORS),
		middleware.BodySizeLimit(limit),
		middleware.RequestLogger(s.log, metrics),
	)
	return nil
}

// RegisterDefaultEndpoints registers /health, /ready, /info and /metrics.
func (s *Server) RegisterDefaultEndpoints(serviceName string, checker endpoint.HealthChecker) {
	s.engine.GET("/health", endpoint.Health(serviceName, checker))
	s.engine.GET("/ready", endpoint.Readiness(serviceName, checker))
	s.engine.GET("/info", endpoint.Info(serviceName, s.startedAt))
	s.engine.GET("/metrics", endpoint.Metrics())
}

// ApplyDefaults applies the standard middleware stack and registers the
// default endpoints.
func (s *Server) ApplyDefaults(serviceName string, checker endpoint.HealthChecker, metrics *observability.Metrics) error {
	if err := s.ApplyMiddleware(metrics); err != nil {
		return err
	}
	s.RegisterDefaultEndpoints(serviceName, checker)
	return nil
}
