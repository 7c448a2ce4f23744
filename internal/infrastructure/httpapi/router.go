package httpapi

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"heartrate-monitor/internal/infrastructure/config"
	obs "heartrate-monitor/internal/infrastructure/observability"
	"heartrate-monitor/internal/usecase"
)

const rootMessage = "Heart Rate Monitor backend is running"

type Deps struct {
	Cfg     config.Config
	Logger  *zerolog.Logger
	Metrics *obs.Metrics
	Svc     *usecase.SessionService
	Stream  *usecase.StreamService
	Monitor *MonitorHub

	streamsMu sync.Mutex
	closing   bool
	streams   sync.WaitGroup
}

// beginStream registers a new stream unless WaitStreams has been called.
func (d *Deps) beginStream() bool {
	d.streamsMu.Lock()
	defer d.streamsMu.Unlock()
	if d.closing {
		return false
	}
	d.streams.Add(1)
	return true
}

// WaitStreams refuses new streams, then blocks until every open stream has
// stored its summary and released its socket, or ctx is done.
func (d *Deps) WaitStreams(ctx context.Context) error {
	d.streamsMu.Lock()
	d.closing = true
	d.streamsMu.Unlock()

	done := make(chan struct{})
	go func() {
		d.streams.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func NewRouterWithDeps(d *Deps) http.Handler {
	return withCORS(d.Cfg, buildBaseMux(d))
}

func buildBaseMux(d *Deps) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "resource not found", nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": rootMessage})
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	mux.Handle("/metrics", promhttp.HandlerFor(d.Metrics.Registry(), promhttp.HandlerOpts{}))

	mux.HandleFunc("/api/version", func(w http.ResponseWriter, r *http.Request) {
		info := obs.Build()
		writeJSON(w, http.StatusOK, map[string]any{
			"name":    info.Name,
			"version": info.Version,
			"commit":  info.Commit,
			"time":    time.Now().UTC(),
		})
	})

	mux.HandleFunc("/api/session", d.handleLastSession)
	mux.HandleFunc("/ws", d.handleStream)
	mux.HandleFunc("/api/monitor/ws", d.Monitor.HandleWS)

	return mux
}

// newUpgrader accepts any origin.
func newUpgrader() websocket.Upgrader {
	return websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
}

func withCORS(cfg config.Config, h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", cfg.CORSAllowOrigin)
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Sec-WebSocket-Protocol")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		h.ServeHTTP(w, r)
	})
}
