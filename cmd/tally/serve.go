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

	"github.com/coder/quartz"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rpggio/tally/internal/config"
	"github.com/rpggio/tally/internal/domain/activity"
	"github.com/rpggio/tally/internal/domain/stats"
	"github.com/rpggio/tally/internal/domain/tracker"
	"github.com/rpggio/tally/internal/domain/tracking"
	"github.com/rpggio/tally/internal/mcp"
	"github.com/rpggio/tally/internal/metrics"
	"github.com/rpggio/tally/internal/sqlite"
	"github.com/rpggio/tally/internal/transport"
)

const shutdownTimeout = 5 * time.Second

// NewServeCommand creates the serve command.
func NewServeCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the tally server",
		Long: `Run the tally server.

In http mode the server exposes JSON-RPC at /rpc, MCP at /mcp, /health and
/metrics. In stdio mode it speaks MCP over stdin/stdout as a single local
user.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts.cfg)
		},
	}
}

func runServe(cmd *cobra.Command, cfg config.Config) error {
	logger, logCloser, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("log file error: %w", err)
	}
	defer logCloser.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := openDB(cmd, cfg.DB.Path)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return err
	}
	defer db.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder, err := metrics.New(registry)
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	activityRepo := sqlite.NewActivityRepository(db)
	apiKeys := sqlite.NewAPIKeyRepository(db)

	trackerSvc := tracker.NewService(sqlite.NewTrackerRepository(db), tracker.StaticAuthority(cfg.Catalog.Authority), activityRepo, recorder, logger)
	statsSvc := stats.NewService(sqlite.NewStatsRepository(db), trackerSvc, logger)
	services := mcp.Services{
		Trackers: trackerSvc,
		Tracking: tracking.NewService(sqlite.NewTrackingRepository(db), statsSvc, trackerSvc, logger,
			tracking.WithClock(quartz.NewReal()),
			tracking.WithActivity(activityRepo),
			tracking.WithRecorder(recorder),
		),
		Stats:    statsSvc,
		Activity: activity.NewService(activityRepo, logger),
	}

	mcpServer := mcp.NewServer(mcp.Config{
		Services:      services,
		Resolver:      apiKeys,
		AuthEnabled:   cfg.Auth.Enabled,
		TransportMode: cfg.Transport.Mode,
		DefaultUser:   cfg.Catalog.Authority,
		Version:       version,
		Logger:        logger,
	})

	if cfg.Transport.Mode == config.TransportStdio {
		return runStdioMode(ctx, logger, mcpServer)
	}

	authMiddleware := transport.AuthMiddleware(apiKeys)
	if !cfg.Auth.Enabled {
		authMiddleware = transport.StaticUserMiddleware(cfg.Catalog.Authority)
	}
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(r *http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{
			SessionTimeout: 30 * time.Minute,
		},
	)
	router := transport.NewServer(mcp.NewHandler(services), authMiddleware,
		transport.WithMCP(mcpHandler),
		transport.WithMetrics(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})),
		transport.WithLogger(logger),
	)

	return runHTTPMode(ctx, logger, router, fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port), cfg.Auth.Enabled)
}

func runStdioMode(ctx context.Context, logger *slog.Logger, mcpServer *sdkmcp.Server) error {
	logger.Info("starting stdio transport", "auth", "disabled")

	// Run blocks until stdin closes or context is canceled
	if err := mcpServer.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("stdio server error", "error", err)
		return err
	}
	logger.Info("shutting down")
	return nil
}

func runHTTPMode(ctx context.Context, logger *slog.Logger, handler http.Handler, addr string, authEnabled bool) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server listening", "addr", addr, "auth", authEnabled)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped", "error", err)
		return err
	}
	return nil
}
