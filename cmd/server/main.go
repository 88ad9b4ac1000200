// UAV Review - Geospatial Detection Review Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/uavreview

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/uavreview/internal/api"
	"github.com/tomtom215/uavreview/internal/config"
	"github.com/tomtom215/uavreview/internal/filter"
	"github.com/tomtom215/uavreview/internal/logging"
	"github.com/tomtom215/uavreview/internal/store"
	"github.com/tomtom215/uavreview/internal/supervisor"
	"github.com/tomtom215/uavreview/internal/supervisor/services"
	"github.com/tomtom215/uavreview/internal/tator"
	"github.com/tomtom215/uavreview/internal/timeline"
	ws "github.com/tomtom215/uavreview/internal/websocket"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	configPath := config.FindConfigFile()
	cfg, err := config.LoadFile(configPath)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(loggingConfig(cfg))
	logging.Info().
		Str("version", version).
		Str("tator_host", cfg.Tator.Host).
		Int("project", cfg.Tator.Project).
		Int("box_type", cfg.Tator.BoxType).
		Msg("Starting UAV review server")

	if configPath != "" {
		watchLogLevel(configPath)
	}

	corrector, err := filter.CorrectorByName(cfg.Filter.LongitudeCorrection)
	if err != nil {
		logging.Fatal().Err(err).Msg("Invalid longitude correction")
	}

	client := tator.NewClient(cfg.Tator)
	upstream := tator.NewService(client, cfg.Tator, cfg.Graphics)

	st := store.New(
		store.WithSource(upstream),
		store.WithEngine(filter.NewEngine(corrector)),
		store.WithPageSize(cfg.Gallery.PageSize),
	)
	tl := timeline.New(st,
		timeline.WithStep(cfg.Playback.Step),
		timeline.WithInterval(cfg.Playback.Interval),
	)

	hub := ws.NewHub()
	hub.SetSnapshot(func() any { return st.Snapshot() })
	unbind := hub.BindStore(st)
	defer unbind()
	hub.BindTimeline(tl)

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (RATE_LIMIT_DISABLED=true)")
	}
	for _, origin := range cfg.Security.CORSOrigins {
		if origin == "*" {
			logging.Warn().Msg("CORS allows any origin (CORS_ORIGINS=*); set explicit origins in production")
			break
		}
	}

	handler := api.NewHandler(api.Deps{
		Store:     st,
		Upstream:  upstream,
		Breakers:  client,
		Timeline:  tl,
		Hub:       hub,
		WebSocket: ws.NewHandler(hub, cfg.Security.CORSOrigins),
		Version:   version,
	})
	router := api.NewRouter(handler, api.NewChiMiddlewareFromConfig(cfg.Security))

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		IdleTimeout:       120 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.TreeConfigFromServer(cfg.Server))
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	load := func(ctx context.Context) error {
		// A concurrent /refresh or /reload already committed newer data.
		if err := st.Load(ctx); err != nil && !errors.Is(err, store.ErrSuperseded) {
			return err
		}
		return nil
	}
	seed := func() {
		status := tl.SetMissions(st.Missions())
		logging.Info().
			Int("detections", len(st.Detections())).
			Int("media", len(st.Media())).
			Int("missions", len(st.Missions())).
			Time("range_start", status.Start).
			Time("range_end", status.End).
			Msg("Review data loaded")
	}
	loadTimeout := cfg.Tator.Timeout * time.Duration(cfg.Tator.MaxRetries+1) * 2

	tree.AddDataService(services.NewLoaderService(load, seed, services.WithLoadTimeout(loadTimeout)))
	tree.AddDataService(services.NewRoutineService("graphics-cache-cleanup", upstream.Graphics().RunCacheCleanup))
	tree.AddMessagingService(hub)
	tree.AddMessagingService(tl)
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}
	logging.Info().Msg("Server stopped")
}

func loggingConfig(cfg *config.Config) logging.Config {
	return logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Service:   "uavreview",
	}
}

// watchLogLevel reloads the config file on change and applies its logging
// section. Other settings need a restart.
func watchLogLevel(path string) {
	err := config.WatchConfigFile(path, func() {
		cfg, err := config.LoadFile(path)
		if err != nil {
			logging.Warn().Err(err).Str("path", path).Msg("Ignoring invalid config change")
			return
		}
		logging.Init(loggingConfig(cfg))
		logging.Info().Str("level", cfg.Logging.Level).Msg("Logging configuration reloaded")
	})
	if err != nil {
		logging.Warn().Err(err).Str("path", path).Msg("Config file watching disabled")
	}
}
