package job

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

type captureBroadcaster struct {
	topic, event string
	data         []byte
}

func (c *captureBroadcaster) Broadcast(topic, event string, data []byte) bool {
	c.topic, c.event, c.data = topic, event, data
	return true
}

func TestBroadcastSink(t *testing.T) {
	b := &captureBroadcaster{}
	BroadcastSink(b).Publish(context.Background(), Event{Type: EventSucceeded, JobID: "j1", Format: "txt"})

	if b.topic != "j1" || b.event != "job.succeeded" {
		t.Fatalf("broadcast topic=%q event=%q", b.topic, b.event)
	}
	var e Event
	if err := json.Unmarshal(b.data, &e); err != nil || e.JobID != "j1" {
		t.Errorf("payload %s (%v)", b.data, err)
	}
}

type sender struct {
	key    string
	v      any
	err    error
	hasDDL bool
}

func (s *sender) SendJSON(ctx context.Context, key string, v any) error {
	s.key, s.v = key, v
	_, s.hasDDL = ctx.Deadline()
	return s.err
}

func TestTopicSinkDetachesFromJobContext(t *testing.T) {
	s := &sender{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	TopicSink(s, time.Second).Publish(ctx, Event{Type: EventFailed, JobID: "j2"})
	if s.key != "j2" || !s.hasDDL {
		t.Errorf("key=%q deadline=%v", s.key, s.hasDDL)
	}

	s.err = errors.New("broker down")
	TopicSink(s, time.Second).Publish(context.Background(), Event{Type: EventFailed, JobID: "j3"})
}

func TestSinksFanOut(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	Sinks{a, nil, b}.Publish(context.Background(), Event{Type: EventStarted})
	if len(a.types()) != 1 || len(b.types()) != 1 {
		t.Error("every sink should receive the event")
	}
}
