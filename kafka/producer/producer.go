// Package producer publishes JSON messages to a Kafka topic and runs as a
// lifecycle component.
package producer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/kbukum/transcriptiond/component"
	"github.com/kbukum/transcriptiond/kafka"
	"github.com/kbukum/transcriptiond/logger"
	"github.com/kbukum/transcriptiond/resilience"
)

// ErrClosed is returned by sends after Close.
var ErrClosed = errors.New("kafka producer is closed")

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Stats() kafkago.WriterStats
	Close() error
}

// Producer writes to the configured topic with bounded retries.
type Producer struct {
	cfg    kafka.Config
	writer  messageWriter
	log     *logger.Logger
	backoff resilience.Backoff

	mu     sync.RWMutex
	closed bool
}

// New builds a producer; the connection is established on first write.
func New(cfg kafka.Config, log *logger.Logger) (*Producer, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("kafka producer config: %w", err)
	}
	transport, err := kafka.CreateTransport(&cfg)
	if err != nil {
		return nil, fmt.Errorf("kafka producer transport: %w", err)
	}

	p := &Producer{cfg: cfg, log: log.WithComponent("kafka.producer"), backoff: resilience.DefaultBackoff()}
	p.writer = &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Transport:              transport,
		Balancer:               &kafkago.Hash{},
		BatchTimeout:           cfg.BatchTimeout,
		WriteTimeout:           cfg.WriteTimeout,
		RequiredAcks:           kafkago.RequiredAcks(cfg.RequiredAcks),
		Compression:            kafka.ResolveCompression(cfg.Compression),
		AllowAutoTopicCreation: true,
		ErrorLogger: kafkago.LoggerFunc(func(msg string, args ...interface{}) {
			p.log.Error("writer: "+fmt.Sprintf(msg, args...))
		}),
	}
	return p, nil
}

func newWithWriter(cfg kafka.Config, w messageWriter) *Producer {
	cfg.ApplyDefaults()
	return &Producer{
		cfg:     cfg,
		writer:  w,
		log:     logger.Nop(),
		backoff: resilience.Backoff{Initial: time.Millisecond, Max: 5 * time.Millisecond, Factor: 2},
	}
}

// Topic returns the destination topic.
func (p *Producer) Topic() string { return p.cfg.Topic }

// SendJSON marshals v and writes it under key.
func (p *Producer) SendJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	return p.write(ctx, kafkago.Message{
		Key:   []byte(key),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "content-type", Value: []byte("application/json")},
		},
	})
}

func (p *Producer) write(ctx context.Context, msgs ...kafkago.Message) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}

	backoff := p.backoff
	backoff.MaxAttempts = p.cfg.Retries
	backoff.OnRetry = func(attempt int, err error, wait time.Duration) {
		p.log.Warn("kafka write failed, retrying", logger.Fields(
			"attempt", attempt,
			"wait", wait.String(),
			logger.FieldError, err.Error(),
		))
	}
	err := resilience.Do(ctx, backoff, func(ctx context.Context) error {
		return p.writer.WriteMessages(ctx, msgs...)
	})
	if err != nil {
		return fmt.Errorf("write to %s: %w", p.cfg.Topic, err)
	}
	return nil
}

// Close flushes pending messages and closes the writer.
func (p *Producer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	return p.writer.Close()
}

var (
	_ component.Component   = (*Producer)(nil)
	_ component.Describable = (*Producer)(nil)
)

func (p *Producer) Name() string { return "kafka" }

func (p *Producer) Start(context.Context) error {
	p.log.Info("kafka producer ready", logger.Fields(
		"brokers", p.cfg.Brokers,
		"topic", p.cfg.Topic,
		"compression", p.cfg.Compression,
	))
	return nil
}

func (p *Producer) Stop(context.Context) error {
	stats := p.writer.Stats()
	p.log.Info("kafka producer closing", logger.Fields("messages", stats.Messages, "errors", stats.Errors))
	return p.Close()
}

// Health dials the first broker and reads cluster metadata.
func (p *Producer) Health(ctx context.Context) component.Health {
	dialer, err := kafka.CreateDialer(&p.cfg)
	if err != nil {
		return component.Health{Name: p.Name(), Status: component.StatusUnhealthy, Message: err.Error()}
	}
	conn, err := dialer.DialContext(ctx, "tcp", p.cfg.Brokers[0])
	if err != nil {
		return component.Health{Name: p.Name(), Status: component.StatusDegraded, Message: fmt.Sprintf("dial: %v", err)}
	}
	defer conn.Close()
	if _, err := conn.Brokers(); err != nil {
		return component.Health{Name: p.Name(), Status: component.StatusDegraded, Message: fmt.Sprintf("broker metadata: %v", err)}
	}
	return component.Health{Name: p.Name(), Status: component.StatusHealthy}
}

func (p *Producer) Describe() component.Description {
	return component.Description{
		Name:    "Kafka",
		Type:    "kafka",
		Details: fmt.Sprintf("brokers=%v topic=%s", p.cfg.Brokers, p.cfg.Topic),
	}
}
