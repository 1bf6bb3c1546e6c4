// MDBList Scrobbler - Kodi playback progress reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mdblist-scrobbler

// Package main is the entry point for the MDBList scrobbler.
//
// The scrobbler runs next to Kodi, listens for player notifications on
// Kodi's WebSocket JSON-RPC port and reports watch progress to MDBList.
//
// # Startup
//
//  1. Configuration: defaults, config.yaml, then environment (Koanf v2)
//  2. Logging: zerolog global logger
//  3. Kodi: JSON-RPC client for queries and on-screen notifications
//  4. MDBList: scrobble client, behind a circuit breaker when enabled
//  5. Monitor: playback session state machine
//  6. Listener: Kodi notification socket feeding the monitor
//  7. HTTP: /healthz and /metrics (optional)
//  8. Supervisor tree: runs everything until SIGINT or SIGTERM
//
// # Example
//
//	export KODI_URL=http://127.0.0.1:8080/jsonrpc
//	export KODI_WS_URL=ws://127.0.0.1:9090/jsonrpc
//	export MDBLIST_API_KEY=your-api-key
//	./mdblist-scrobbler
//
// Build with a version string:
//
//	go build -ldflags "-X main.version=1.2.0" ./cmd/scrobbler
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/tomtom215/mdblist-scrobbler/internal/api"
	"github.com/tomtom215/mdblist-scrobbler/internal/config"
	"github.com/tomtom215/mdblist-scrobbler/internal/kodi"
	"github.com/tomtom215/mdblist-scrobbler/internal/logging"
	"github.com/tomtom215/mdblist-scrobbler/internal/metrics"
	"github.com/tomtom215/mdblist-scrobbler/internal/monitor"
	"github.com/tomtom215/mdblist-scrobbler/internal/scrobble"
	"github.com/tomtom215/mdblist-scrobbler/internal/supervisor"
	"github.com/tomtom215/mdblist-scrobbler/internal/supervisor/services"
)

// version is set at build time and sent as app_version.
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})
	metrics.SetBuildInfo(version)

	logging.Info().Str("version", version).Msg("Starting MDBList Scrobbler")
	logging.Info().
		Str("kodi_url", logging.RedactQuery(cfg.Kodi.URL)).
		Str("kodi_ws_url", logging.RedactQuery(cfg.Kodi.WebSocketURL)).
		Str("mdblist_url", cfg.BaseURL()).
		Str("api_key", logging.SanitizeToken(cfg.MDBList.APIKey)).
		Int("interval", cfg.Interval).
		Bool("breaker", cfg.Breaker.Enabled).
		Msg("Configuration loaded")

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("Scrobbler stopped with error")
	}
	logging.Info().Msg("Stopping MDBList Scrobbler")
}

func run(cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	kodiClient := kodi.NewClient(&cfg.Kodi)

	var scrobbler scrobble.Scrobbler = scrobble.NewClient(&cfg.MDBList)
	var breakerStatus api.BreakerStatus
	if cfg.Breaker.Enabled {
		breaker := scrobble.NewBreakerClient(scrobbler, &cfg.Breaker)
		scrobbler = breaker
		breakerStatus = breaker
	}

	mon := monitor.New(cfg, kodiClient, scrobbler, version)
	listener := kodi.NewListener(&cfg.Kodi, mon)

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	})
	if err != nil {
		return err
	}

	tree.AddHostService(listener)
	tree.AddSessionService(mon)

	if cfg.Metrics.Enabled {
		handler := api.NewHandler(api.HandlerOptions{
			Listener:   listener,
			Breaker:    breakerStatus,
			Session:    mon,
			Configured: cfg.BaseURL() != "" && strings.TrimSpace(cfg.MDBList.APIKey) != "",
			Version:    version,
		})
		server := &http.Server{
			Handler:           api.NewRouter(handler),
			ReadHeaderTimeout: 5 * time.Second,
		}
		tree.AddAPIService(services.NewHTTPServerService(server, cfg.Metrics.Addr, 5*time.Second))
		logging.Info().Str("addr", cfg.Metrics.Addr).Msg("Health and metrics endpoint enabled")
	}

	logging.Info().Msg("Starting supervisor tree")
	err = <-tree.ServeBackground(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
	}
	return nil
}
