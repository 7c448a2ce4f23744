package httpapi

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Lifecycle event types published on the monitor feed.
const (
	EventSessionStarted   = "session_started"
	EventSessionSaved     = "session_saved"
	EventSessionDiscarded = "session_discarded"
	EventSessionEnded     = "session_ended"
)

// MonitorEvent announces a session lifecycle change. It never carries readings.
type MonitorEvent struct {
	Type  string `json:"type"`
	ID    string `json:"id"`
	Ticks int    `json:"ticks,omitempty"`
	Ref   string `json:"ref,omitempty"`
}

// monitorQueue bounds how many undelivered events a monitor client may lag behind.
const monitorQueue = 64

// MonitorHub fans lifecycle events out to monitor sockets and in-process
// subscribers. Broadcast never waits on a peer: each socket has its own
// queue drained by a writer goroutine, and a full queue drops the event.
type MonitorHub struct {
	mu       sync.RWMutex
	clients  map[*websocket.Conn]chan []byte
	upgrader websocket.Upgrader
	// in-process subscribers
	lmu       sync.RWMutex
	listeners map[chan MonitorEvent]struct{}
}

func NewMonitorHub() *MonitorHub {
	return &MonitorHub{
		clients:   make(map[*websocket.Conn]chan []byte),
		upgrader:  websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		listeners: make(map[chan MonitorEvent]struct{}),
	}
}

func (h *MonitorHub) HandleWS(w http.ResponseWriter, r *http.Request) {
	c, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	queue := make(chan []byte, monitorQueue)
	h.mu.Lock()
	h.clients[c] = queue
	h.mu.Unlock()

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for data := range queue {
			_ = c.SetWriteDeadline(time.Now().Add(2 * time.Second))
			if err := c.WriteMessage(websocket.TextMessage, data); err != nil {
				// unblock the reader below
				_ = c.Close()
				for range queue {
				}
				return
			}
		}
	}()

	for {
		// reads only detect the client going away
		if _, _, err := c.ReadMessage(); err != nil {
			break
		}
	}
	h.mu.Lock()
	delete(h.clients, c)
	close(queue)
	h.mu.Unlock()
	<-writerDone
	_ = c.Close()
}

// Broadcast queues ev for every monitor socket and subscriber without blocking.
func (h *MonitorHub) Broadcast(ev MonitorEvent) {
	data, _ := json.Marshal(ev)
	// hold the read lock while sending so HandleWS cannot close a queue under us
	h.mu.RLock()
	for _, queue := range h.clients {
		select {
		case queue <- data:
		default: // slow client, drop
		}
	}
	h.mu.RUnlock()
	h.lmu.RLock()
	subs := make([]chan MonitorEvent, 0, len(h.listeners))
	for ch := range h.listeners {
		subs = append(subs, ch)
	}
	h.lmu.RUnlock()
	for _, ch := range subs {
		select {
		case ch <- ev:
		default: // drop if slow
		}
	}
}

// clientCount reports connected monitor sockets.
func (h *MonitorHub) clientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Subscribe returns a channel receiving monitor events. Caller must Unsubscribe.
func (h *MonitorHub) Subscribe() chan MonitorEvent {
	ch := make(chan MonitorEvent, 256)
	h.lmu.Lock()
	h.listeners[ch] = struct{}{}
	h.lmu.Unlock()
	return ch
}

func (h *MonitorHub) Unsubscribe(ch chan MonitorEvent) {
	h.lmu.Lock()
	if _, ok := h.listeners[ch]; ok {
		delete(h.listeners, ch)
		close(ch)
	}
	h.lmu.Unlock()
}
