// Copyright (C) 2026 Meridian DMS (engineering@meridiandms.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/sync/errgroup"

	"github.com/MeridianDMS/MeridianCore/pkg/logging"
	"github.com/MeridianDMS/MeridianCore/pkg/telemetry"
	"github.com/MeridianDMS/MeridianCore/services/depgraph/badgerstore"
	"github.com/MeridianDMS/MeridianCore/services/registry"
)

// shutdownGrace bounds how long in-flight requests may run after a
// termination signal.
const shutdownGrace = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the registry HTTP API",
	Long: `Starts the registry HTTP API over the configured store.

The server exposes document registration, dependency management, chain
queries, obsolescence checks, and the corpus cycle scan under
/v1/registry, plus /metrics for Prometheus scraping and /health and
/ready probes.

Examples:
  meridian serve
  meridian serve --config /etc/meridian/registry.yaml`,
	RunE: runServeCommand,
}

func runServeCommand(cmd *cobra.Command, args []string) error {
	logger := logging.New(logging.Config{
		Level:   logging.ParseLevel(cfg.Log.Level),
		LogDir:  cfg.Log.Dir,
		Service: "registry",
		JSON:    cfg.Log.JSON,
	})
	defer func() { _ = logger.Close() }()
	slogger := logger.Slog()

	traceCfg := telemetry.DefaultConfig("meridian-registry")
	if cfg.Trace.Exporter != "" {
		traceCfg.Exporter = cfg.Trace.Exporter
	}
	if cfg.Trace.Endpoint != "" {
		traceCfg.OTLPEndpoint = cfg.Trace.Endpoint
	}
	traceCfg.OTLPInsecure = cfg.Trace.Insecure

	shutdownTracing, err := telemetry.Init(cmd.Context(), traceCfg)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			slogger.Warn("trace pipeline shutdown failed", slog.String("error", err.Error()))
		}
	}()

	storeCfg := badgerstore.DefaultConfig(cfg.Store.Path)
	storeCfg.InMemory = cfg.Store.InMemory
	storeCfg.SyncWrites = cfg.Store.SyncWrites
	if cfg.Store.GCInterval > 0 {
		storeCfg.GCInterval = time.Duration(cfg.Store.GCInterval)
	}

	store, err := badgerstore.Open(storeCfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	svc, err := registry.NewService(store, slogger)
	if err != nil {
		return err
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("meridian-registry"))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	registry.RegisterRoutes(router, registry.NewHandlers(svc, slogger), cfg.RateLimit)

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var gc *badgerstore.GCRunner
	if !cfg.Store.InMemory && storeCfg.GCInterval > 0 {
		gc, err = badgerstore.NewGCRunner(store.DB(), storeCfg.GCInterval, storeCfg.GCDiscardRatio, slogger)
		if err != nil {
			return err
		}
		gc.Start()
		defer gc.Stop()
	}

	group, gctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		slogger.Info("registry listening", slog.String("addr", cfg.ListenAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-gctx.Done()
		slogger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return group.Wait()
}
