package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/transcriptiond/logger"
)

// Event names written by the handler itself.
const (
	EventConnected = "connected"
)

// KeepAliveInterval is how often a comment line is sent to idle clients.
var KeepAliveInterval = 30 * time.Second

// Handler subscribes the caller to hub. The optional "topic" query
// parameter is a glob over topics; the default receives everything.
func Handler(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		client := NewClient(uuid.NewString(), WithTopic(r.URL.Query().Get("topic")))
		Serve(hub, w, r, client)
	}
}

// Serve streams frames for client until the request ends or the hub
// closes the client.
func Serve(hub *Hub, w http.ResponseWriter, r *http.Request, client *Client) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	// Long-lived stream: the server's WriteTimeout must not apply.
	rc := http.NewResponseController(w)
	if err := rc.SetWriteDeadline(time.Time{}); err != nil {
		hub.log.Debug("could not clear write deadline", logger.Fields("client_id", client.id, logger.FieldError, err.Error()))
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	if !hub.Register(client) {
		http.Error(w, "shutting down", http.StatusServiceUnavailable)
		return
	}
	defer hub.Unregister(client)

	hello, _ := json.Marshal(map[string]string{"client_id": client.id, "topic": client.topic})
	writeFrame(w, Frame{Event: EventConnected, Data: hello})
	flusher.Flush()

	keepAlive := time.NewTicker(KeepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case f, ok := <-client.Frames():
			if !ok {
				return
			}
			writeFrame(w, f)
			flusher.Flush()
		case <-keepAlive.C:
			_, _ = fmt.Fprintf(w, ": keepalive %d\n\n", time.Now().Unix())
			flusher.Flush()
		}
	}
}

func writeFrame(w http.ResponseWriter, f Frame) {
	if f.Event != "" {
		_, _ = fmt.Fprintf(w, "event: %s\n", f.Event)
	}
	_, _ = fmt.Fprintf(w, "data: %s\n\n", f.Data)
}
