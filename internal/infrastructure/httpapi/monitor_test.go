package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dialMonitor(t *testing.T, h *MonitorHub) (*websocket.Conn, func()) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(h.HandleWS))
	u := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		srv.Close()
		t.Fatalf("dial monitor: %v", err)
	}
	return conn, func() {
		conn.Close()
		srv.Close()
	}
}

func waitClients(t *testing.T, h *MonitorHub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for h.clientCount() != n {
		if time.Now().After(deadline) {
			t.Fatalf("monitor clients: want %d, got %d", n, h.clientCount())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestBroadcastDoesNotWaitOnStalledClient(t *testing.T) {
	h := NewMonitorHub()
	_, closeStalled := dialMonitor(t, h)
	defer closeStalled()
	waitClients(t, h, 1)

	// The stalled client never reads; its socket buffers fill long before
	// this loop ends.
	big := strings.Repeat("x", 64<<10)
	start := time.Now()
	for i := 0; i < 200; i++ {
		h.Broadcast(MonitorEvent{Type: EventSessionStarted, ID: "s", Ref: big})
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("broadcast blocked for %v", elapsed)
	}
}

func TestBroadcastReachesReadingClient(t *testing.T) {
	h := NewMonitorHub()
	_, closeStalled := dialMonitor(t, h)
	defer closeStalled()
	reader, closeReader := dialMonitor(t, h)
	defer closeReader()
	waitClients(t, h, 2)

	h.Broadcast(MonitorEvent{Type: EventSessionSaved, ID: "abc", Ticks: 3})

	_ = reader.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := reader.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var ev MonitorEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ev.Type != EventSessionSaved || ev.ID != "abc" || ev.Ticks != 3 {
		t.Fatalf("unexpected event %+v", ev)
	}
}

func TestMonitorClientRemovedOnClose(t *testing.T) {
	h := NewMonitorHub()
	conn, closeAll := dialMonitor(t, h)
	defer closeAll()
	waitClients(t, h, 1)
	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	conn.Close()
	waitClients(t, h, 0)
	// a broadcast after removal must not touch the closed queue
	h.Broadcast(MonitorEvent{Type: EventSessionEnded, ID: "gone"})
}
