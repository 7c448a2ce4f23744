package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"heartrate-monitor/internal/domain"
	"heartrate-monitor/internal/usecase"
	"heartrate-monitor/pkg/shared/id"
)

// wsSink writes tick messages as JSON text frames. Only the stream loop writes.
type wsSink struct {
	conn    *websocket.Conn
	timeout time.Duration
}

func (s *wsSink) Send(ctx context.Context, msg domain.TickMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_ = s.conn.SetWriteDeadline(time.Now().Add(s.timeout))
	return s.conn.WriteJSON(msg)
}

// handleStream upgrades GET /ws and streams ticks until the client goes away
// or the server shuts down. The summary is stored before the socket is released.
func (d *Deps) handleStream(w http.ResponseWriter, r *http.Request) {
	if r.Context().Err() != nil || !d.beginStream() {
		writeError(w, http.StatusServiceUnavailable, "SHUTTING_DOWN", "server is shutting down", nil)
		return
	}
	defer d.streams.Done()

	upgrader := newUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// the upgrader already replied with an HTTP error
		d.Metrics.StreamErrorsTotal.WithLabelValues("upgrade").Inc()
		d.Logger.Warn().Err(err).Str("client", clientHost(r.RemoteAddr)).Msg("websocket upgrade failed")
		return
	}
	sessionID := id.New()
	log := d.Logger.With().Str("session", sessionID).Str("client", clientHost(r.RemoteAddr)).Logger()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// The client never sends payloads; reading only surfaces close frames and errors.
	clientGone := make(chan struct{})
	go func() {
		defer close(clientGone)
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	d.Metrics.ActiveSessions.Inc()
	d.Monitor.Broadcast(MonitorEvent{Type: EventSessionStarted, ID: sessionID})
	log.Info().Msg("stream started")

	res, err := d.Stream.Run(ctx, sessionID, &wsSink{conn: conn, timeout: d.Cfg.WriteTimeout})

	reason := string(res.Reason)
	if res.Reason == usecase.EndCanceled {
		reason = "client_closed"
		if r.Context().Err() != nil {
			reason = "shutdown"
		}
	}
	switch {
	case err != nil:
		d.Metrics.StreamErrorsTotal.WithLabelValues("summary").Inc()
		d.Metrics.SessionsTotal.WithLabelValues("failed").Inc()
		log.Error().Err(err).Int("ticks", res.Ticks).Msg("session summary not stored")
	case res.Saved:
		d.Metrics.SessionsTotal.WithLabelValues("saved").Inc()
		d.Monitor.Broadcast(MonitorEvent{Type: EventSessionSaved, ID: sessionID, Ticks: res.Ticks})
	default:
		d.Metrics.SessionsTotal.WithLabelValues("discarded").Inc()
		d.Monitor.Broadcast(MonitorEvent{Type: EventSessionDiscarded, ID: sessionID})
	}
	if res.SendErr != nil {
		d.Metrics.StreamErrorsTotal.WithLabelValues("send").Inc()
		log.Debug().Err(res.SendErr).Msg("send failed")
	}

	if reason == "shutdown" {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"), time.Now().Add(time.Second))
	}
	_ = conn.Close()
	<-clientGone

	d.Metrics.ActiveSessions.Dec()
	d.Monitor.Broadcast(MonitorEvent{Type: EventSessionEnded, ID: sessionID, Ticks: res.Ticks, Ref: reason})
	log.Info().
		Int("ticks", res.Ticks).
		Bool("saved", res.Saved).
		Str("reason", reason).
		Dur("duration", res.EndedAt.Sub(res.StartedAt)).
		Msg("stream ended")
}

func clientHost(remote string) string {
	if i := strings.LastIndexByte(remote, ':'); i > 0 {
		return remote[:i]
	}
	return remote
}
