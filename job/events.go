package job

import (
	"context"
	"encoding/json"
	"time"

	"github.com/kbukum/transcriptiond/logger"
)

// EventType names a job lifecycle transition.
type EventType string

const (
	EventStarted   EventType = "job.started"
	EventSucceeded EventType = "job.succeeded"
	EventFailed    EventType = "job.failed"
)

// Event describes a lifecycle transition of one job.
type Event struct {
	Type       EventType `json:"type"`
	JobID      string    `json:"job_id"`
	Model      string    `json:"model"`
	Format     string    `json:"format"`
	Error      string    `json:"error,omitempty"`
	DurationMS int64     `json:"duration_ms,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// EventSink receives job events. Publish must not block the runner for
// long; failures are the sink's to log.
type EventSink interface {
	Publish(ctx context.Context, e Event)
}

// SinkFunc adapts a function to EventSink.
type SinkFunc func(ctx context.Context, e Event)

func (f SinkFunc) Publish(ctx context.Context, e Event) { f(ctx, e) }

// Sinks fans an event out to every sink in order.
type Sinks []EventSink

func (s Sinks) Publish(ctx context.Context, e Event) {
	for _, sink := range s {
		if sink != nil {
			sink.Publish(ctx, e)
		}
	}
}

// Broadcaster delivers a named event to subscribers of a topic.
type Broadcaster interface {
	Broadcast(topic, event string, data []byte) bool
}

// BroadcastSink publishes events to a Broadcaster using the job id as the
// topic.
func BroadcastSink(b Broadcaster) EventSink {
	log := logger.Get("job.events")
	return SinkFunc(func(_ context.Context, e Event) {
		data, err := json.Marshal(e)
		if err != nil {
			log.Error("failed to encode event", logger.ErrorFields("broadcast", err))
			return
		}
		b.Broadcast(e.JobID, string(e.Type), data)
	})
}

// JSONSender writes a keyed JSON message, e.g. to a Kafka topic.
type JSONSender interface {
	SendJSON(ctx context.Context, key string, v any) error
}

// TopicSink sends events through s keyed by job id. The send uses a
// context detached from the job so a cancelled job still reports.
func TopicSink(s JSONSender, timeout time.Duration) EventSink {
	log := logger.Get("job.events")
	return SinkFunc(func(ctx context.Context, e Event) {
		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
		defer cancel()
		if err := s.SendJSON(sendCtx, e.JobID, e); err != nil {
			log.Warn("failed to send job event", logger.Fields(
				logger.FieldJobID, e.JobID,
				"event", string(e.Type),
				logger.FieldError, err.Error(),
			))
		}
	})
}
