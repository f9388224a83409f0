package main

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/transcriptiond/api"
	"github.com/kbukum/transcriptiond/auth"
	"github.com/kbukum/transcriptiond/bootstrap"
	"github.com/kbukum/transcriptiond/component"
	"github.com/kbukum/transcriptiond/job"
	"github.com/kbukum/transcriptiond/kafka/producer"
	"github.com/kbukum/transcriptiond/logger"
	"github.com/kbukum/transcriptiond/observability"
	"github.com/kbukum/transcriptiond/server"
	"github.com/kbukum/transcriptiond/server/middleware"
	"github.com/kbukum/transcriptiond/sse"
	"github.com/kbukum/transcriptiond/storage"
	"github.com/kbukum/transcriptiond/storage/local"
	"github.com/kbukum/transcriptiond/transcript"
	"github.com/kbukum/transcriptiond/transcription"

	// Backends register themselves with their factories.
	_ "github.com/kbukum/transcriptiond/storage/s3"
	_ "github.com/kbukum/transcriptiond/transcription/script"
	_ "github.com/kbukum/transcriptiond/transcription/stub"
	_ "github.com/kbukum/transcriptiond/transcription/whisper"
)

// wire builds every component from the app config and registers them in
// start order. The registry stops them in reverse, so the HTTP server stops
// taking uploads before the job service drains.
func wire(ctx context.Context, app *bootstrap.App[*Config]) (*server.Server, error) {
	cfg := app.Cfg
	log := app.Logger

	var components []component.Component
	components = append(components, observability.NewComponent(cfg.Observability, observability.Resource{
		ServiceName:    cfg.Name,
		ServiceVersion: cfg.Version,
		Environment:    cfg.Environment,
	}))
	metrics, err := observability.GlobalMetrics()
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}

	results, err := storage.New(ctx, cfg.Storage, log)
	if err != nil {
		return nil, fmt.Errorf("result storage: %w", err)
	}
	components = append(components, storage.NewComponent("results", results, cfg.Storage))
	store := transcript.NewStore(results)
	if err := store.Load(ctx); err != nil {
		return nil, err
	}

	uploads, err := local.NewStorage(cfg.Jobs.UploadsDir)
	if err != nil {
		return nil, fmt.Errorf("uploads: %w", err)
	}

	invoker, err := transcription.New(cfg.Transcription, log, metrics)
	if err != nil {
		return nil, fmt.Errorf("transcription backend: %w", err)
	}

	events := sse.NewComponent(cfg.Events.SSEPath)
	components = append(components, events)
	sinks := job.Sinks{job.BroadcastSink(events.Hub())}

	if cfg.Events.Kafka.Enabled {
		p, err := producer.New(cfg.Events.Kafka, log)
		if err != nil {
			return nil, fmt.Errorf("kafka producer: %w", err)
		}
		components = append(components, p)
		sinks = append(sinks, job.TopicSink(p, cfg.Jobs.EventTimeout))
	}

	jobs := job.NewService(cfg.Jobs, invoker, store, uploads,
		job.WithEventSink(sinks),
		job.WithMetrics(metrics),
		job.WithDefaultModel(cfg.Transcription.DefaultModel),
	)
	components = append(components, jobs)

	validator, err := auth.NewValidator(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("auth: %w", err)
	}
	var guards []gin.HandlerFunc
	if validator != nil {
		guards = append(guards, middleware.Auth(validator))
	}

	srv := server.New(cfg.Server, log)
	if err := srv.ApplyDefaults(app.Name, app.Components.HealthAll, metrics); err != nil {
		return nil, err
	}
	api.NewHandler(jobs).Register(srv.Engine(), guards...)
	srv.Handle(cfg.Events.SSEPath, sse.Handler(events.Hub()))
	components = append(components, server.NewComponent(srv))

	for _, c := range components {
		if err := app.RegisterComponent(c); err != nil {
			return nil, err
		}
	}

	log.Info("transcription service wired", logger.Fields(
		logger.FieldBackend, cfg.Transcription.Backend,
		logger.FieldModel, cfg.Transcription.DefaultModel,
		"storage", cfg.Storage.Provider,
		"auth", cfg.Auth.Describe(),
		"kafka", cfg.Events.Kafka.Enabled,
	))
	return srv, nil
}
