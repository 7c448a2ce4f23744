package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"heartrate-monitor/internal/adapters/generator"
	"heartrate-monitor/internal/adapters/storage/memory"
	"heartrate-monitor/internal/domain"
	cfgpkg "heartrate-monitor/internal/infrastructure/config"
	httpapi "heartrate-monitor/internal/infrastructure/httpapi"
	obs "heartrate-monitor/internal/infrastructure/observability"
	"heartrate-monitor/internal/usecase"
)

func main() {
	cfg := cfgpkg.FromEnv()

	logger := obs.NewLogger(cfg.LogLevel)
	logger.Info().Str("addr", cfg.Addr).Dur("tick", cfg.TickInterval).Msg("starting heartrate-monitor")

	metrics := obs.NewMetrics()

	store := memory.NewStore()
	svc := usecase.NewSessionService(store)
	stream := usecase.NewStreamService(generator.NewRandom(cfg.RandomSeed), svc, cfg.TickInterval)
	stream.OnTick = func(string, domain.TickMessage) { metrics.TicksTotal.Inc() }
	deps := &httpapi.Deps{Cfg: cfg, Logger: logger, Metrics: metrics, Svc: svc, Stream: stream, Monitor: httpapi.NewMonitorHub()}

	// Streams are hijacked connections that Shutdown does not track; they
	// stop when baseCtx is canceled.
	baseCtx, stopStreams := context.WithCancel(context.Background())
	defer stopStreams()

	// No WriteTimeout: /ws responses live as long as the stream.
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpapi.NewRouterWithDeps(deps),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return baseCtx },
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("server error")
			os.Exit(1)
		}
	}()

	// Best-effort browser launch
	go func() {
		time.Sleep(300 * time.Millisecond)
		if cfg.DevMode || !cfg.OpenBrowser {
			return
		}
		if err := openBrowser(browserURL(cfg.Addr)); err != nil {
			logger.Debug().Err(err).Msg("open browser failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	// Close the listener first so no stream can start while we wait.
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("server shutdown error")
	}
	stopStreams()
	if err := deps.WaitStreams(ctx); err != nil {
		logger.Error().Err(err).Msg("streams did not finish")
	}
	logger.Info().Msg("heartrate-monitor stopped")
}

func browserURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr + "/"
	}
	if !strings.HasPrefix(addr, "http") {
		return fmt.Sprintf("http://%s/", addr)
	}
	return addr + "/"
}

func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	cmd.Stdout = nil
	cmd.Stderr = nil
	return cmd.Start()
}
