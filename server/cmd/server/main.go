package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/honeyraes/honeyraes/server/internal/api"
	"github.com/honeyraes/honeyraes/server/internal/config"
	"github.com/honeyraes/honeyraes/server/internal/metrics"
	"github.com/honeyraes/honeyraes/server/internal/notify"
	"github.com/honeyraes/honeyraes/server/internal/store"
	"github.com/honeyraes/honeyraes/server/internal/ws"
)

func main() {
	configPath := flag.StringP("config", "c", "", "path to config file; empty uses defaults and environment only")
	envFile := flag.String("env-file", ".env", "dotenv file loaded into the environment when present")
	flag.Parse()

	level := new(slog.LevelVar)
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	slog.Info("honeyraes-server starting", "config", *configPath)

	cfg, err := config.Load(*configPath, *envFile)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	level.Set(cfg.Server.Level())

	slog.Info("config loaded",
		"http_port", cfg.Server.HTTPPort,
		"log_level", cfg.Server.LogLevel,
		"seed_file", cfg.Server.SeedFile,
		"stream_interval", cfg.Server.Stream.Interval,
		"webhooks", len(cfg.Server.Notify.Webhooks),
	)

	seed := store.DefaultSeed()
	if cfg.Server.SeedFile != "" {
		if seed, err = store.LoadSeed(cfg.Server.SeedFile); err != nil {
			slog.Error("failed to load seed", "err", err)
			os.Exit(1)
		}
	}
	st := store.New(seed)
	slog.Info("store seeded",
		"customers", len(seed.Customers),
		"employees", len(seed.Employees),
		"service_tickets", len(seed.Tickets),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	notifier := notify.New(cfg.Server.Notify)

	if *configPath != "" {
		go func() {
			err := config.Watch(ctx, *configPath, *envFile, func(next *config.Config) {
				level.Set(next.Server.Level())
				notifier.SetWebhooks(next.Server.Notify.Webhooks)
			})
			if err != nil {
				slog.Error("config watch stopped", "err", err)
			}
		}()
	}

	hub := ws.New(st, cfg.Server.Stream.Interval)
	st.OnChange(hub.Changed)
	go hub.Run(ctx)

	mux := http.NewServeMux()
	mux.Handle("/", api.New(st, notifier))
	mux.Handle("/metrics", metrics.Handler(st))
	mux.Handle("/ws/stream", hub)

	httpSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		slog.Info("HTTP server listening", "port", cfg.Server.HTTPPort)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server stopped", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Info("honeyraes-server shutting down")

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP shutdown", "err", err)
	}
	notifier.Wait()
}
