package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"

	"github.com/thenoetrevino/tablero/internal/daemon"
	"github.com/thenoetrevino/tablero/internal/events"
)

func main() {
	metricsAddr := pflag.String("metrics-addr", "", "serve prometheus metrics on this address (e.g. 127.0.0.1:9464)")
	socketFlag := pflag.String("socket", "", "unix socket path (default ~/.tablero/tablero.sock)")
	pflag.Parse()

	ctx, cancel := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer cancel()

	socketPath := *socketFlag
	if socketPath == "" {
		var err error
		socketPath, err = events.DefaultSocketPath()
		if err != nil {
			slog.Error("failed to get home directory", "error", err)
			os.Exit(1)
		}
	}
	if err := os.MkdirAll(filepath.Dir(socketPath), 0700); err != nil {
		slog.Error("failed to create state directory", "error", err)
		os.Exit(1)
	}

	metrics := daemon.NewMetrics()
	server, err := daemon.NewServer(socketPath, daemon.WithMetrics(metrics))
	if err != nil {
		slog.Error("failed to create daemon", "error", err)
		os.Exit(1)
	}

	if *metricsAddr != "" {
		reg := prometheus.NewRegistry()
		metrics.Register(reg)
		reg.MustRegister(prometheus.NewGoCollector())

		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		srv := &http.Server{Addr: *metricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

		go func() {
			slog.Info("serving metrics", "addr", *metricsAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server failed", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, done := context.WithTimeout(context.Background(), 2*time.Second)
			defer done()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	slog.Info("tablero daemon starting", "socket_path", socketPath, "pid", os.Getpid())

	if err := server.Start(ctx); err != nil {
		slog.Error("daemon error", "error", err)
		os.Exit(1)
	}

	slog.Info("tablero daemon stopped")
}
