package sse

import (
	"path/filepath"
	"sync"

	"github.com/kbukum/transcriptiond/logger"
)

const clientBuffer = 64

// Frame is one event delivered to a client.
type Frame struct {
	Event string
	Data  []byte
}

// Client is a connected subscriber.
type Client struct {
	id     string
	topic  string
	frames chan Frame
	once   sync.Once
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTopic restricts the client to topics matching pattern.
func WithTopic(pattern string) ClientOption {
	return func(c *Client) {
		if pattern != "" {
			c.topic = pattern
		}
	}
}

// NewClient creates a client subscribed to all topics unless WithTopic is
// given.
func NewClient(id string, opts ...ClientOption) *Client {
	c := &Client{id: id, topic: "*", frames: make(chan Frame, clientBuffer)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) ID() string    { return c.id }
func (c *Client) Topic() string { return c.topic }

// Frames returns the client's delivery channel. It is closed when the
// client is unregistered or the hub stops.
func (c *Client) Frames() <-chan Frame { return c.frames }

// Matches reports whether the client subscribes to topic.
func (c *Client) Matches(topic string) bool {
	ok, err := filepath.Match(c.topic, topic)
	return err == nil && ok
}

// Send queues f without blocking; it reports false when the client is
// too slow and the frame was dropped.
func (c *Client) Send(f Frame) bool {
	select {
	case c.frames <- f:
		return true
	default:
		return false
	}
}

func (c *Client) close() {
	c.once.Do(func() { close(c.frames) })
}

type message struct {
	topic string
	frame Frame
}

// Hub owns the client set. All mutations go through Run's loop.
type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan message
	done       chan struct{}
	stopOnce   sync.Once
	mu         sync.RWMutex
	log        *logger.Logger
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan message, 256),
		done:       make(chan struct{}),
		log:        logger.Get("sse"),
	}
}

// Run processes registrations and broadcasts until Stop is called.
func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			h.closeAll()
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c.id] = c
			n := len(h.clients)
			h.mu.Unlock()
			h.log.Debug("client registered", logger.Fields("client_id", c.id, "topic", c.topic, "total_clients", n))

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c.id]; ok {
				delete(h.clients, c.id)
				c.close()
			}
			n := len(h.clients)
			h.mu.Unlock()
			h.log.Debug("client unregistered", logger.Fields("client_id", c.id, "total_clients", n))

		case m := <-h.broadcast:
			h.deliver(m)
		}
	}
}

// Stop shuts the hub down and closes every client. Safe to call twice.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

// Register adds c; it returns false once the hub is stopped.
func (h *Hub) Register(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		c.close()
		return false
	}
}

// Unregister removes c and closes its channel.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Broadcast queues an event for every client subscribed to topic. It
// never blocks: frames are dropped when the queue is full or the hub is
// stopped.
func (h *Hub) Broadcast(topic, event string, data []byte) bool {
	select {
	case <-h.done:
		return false
	default:
	}
	select {
	case h.broadcast <- message{topic: topic, frame: Frame{Event: event, Data: data}}:
		return true
	default:
		h.log.Warn("broadcast queue full, dropping event", logger.Fields("topic", topic, "event", event))
		return false
	}
}

func (h *Hub) deliver(m message) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	sent := 0
	for _, c := range h.clients {
		if !c.Matches(m.topic) {
			continue
		}
		if c.Send(m.frame) {
			sent++
		} else {
			h.log.Warn("client too slow, dropping event", logger.Fields("client_id", c.id, "event", m.frame.Event))
		}
	}
	h.log.Debug("event broadcast", logger.Fields("topic", m.topic, "event", m.frame.Event, "match_count", sent))
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		c.close()
		delete(h.clients, id)
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
