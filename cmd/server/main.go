package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/rpggio/loom/internal/app"
	"github.com/rpggio/loom/internal/config"
	"github.com/rpggio/loom/internal/domain/audit"
	"github.com/rpggio/loom/internal/events"
	"github.com/rpggio/loom/internal/logger"
	"github.com/rpggio/loom/internal/mcp"
	"github.com/rpggio/loom/internal/metrics"
	"github.com/rpggio/loom/internal/redisstore"
	"github.com/rpggio/loom/internal/sqlite"
	"github.com/rpggio/loom/internal/transport"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// Logs always go to stderr, keeping stdout clean for stdio MCP.
	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Error("server exited", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg config.Config, log *zap.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repos, closeStore, err := openStore(ctx, cfg.Store, log)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, closeStore()) }()

	publisher, closePublisher, err := openPublisher(cfg.Events, log)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, closePublisher()) }()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	svcs := app.NewServices(repos, app.Deps{Publisher: publisher, Metrics: m, Logger: log})

	if cfg.Seed.Path != "" {
		if _, err := svcs.Seeder(cfg.Server.DefaultRegion, log.Named("seed")).LoadFile(ctx, cfg.Seed.Path); err != nil {
			return err
		}
	}

	var mcpServer *sdkmcp.Server
	if cfg.MCP.Mode != "off" {
		mcpServer = mcp.NewServer(mcp.Config{
			Services:      svcs.MCP(),
			DefaultRegion: cfg.Server.DefaultRegion,
			Version:       version,
			Logger:        log.Named("mcp"),
		})
	}

	opts := transport.Options{
		DefaultRegion: cfg.Server.DefaultRegion,
		Logger:        log.Named("http"),
		Metrics:       m,
		Gatherer:      reg,
	}
	if cfg.MCP.Mode == "http" {
		handler := mcp.NewHTTPHandler(mcpServer)
		opts.Mount = func(r chi.Router) {
			r.Handle("/mcp", handler)
			r.Handle("/mcp/*", handler)
		}
	}
	router, err := transport.NewServer(svcs.Transport(), opts)
	if err != nil {
		return err
	}

	listener, err := net.Listen("tcp", cfg.Server.Addr())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.Server.Addr(), err)
	}
	httpServer := &http.Server{Handler: router, ReadHeaderTimeout: 10 * time.Second}

	errCh := make(chan error, 2)
	go func() {
		log.Info("server listening",
			zap.String("addr", listener.Addr().String()),
			zap.String("store", cfg.Store.Driver),
			zap.String("mcp", cfg.MCP.Mode))
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	if cfg.MCP.Mode == "stdio" {
		go func() {
			log.Info("starting stdio transport")
			// Run returns when stdin closes; that ends the process too.
			err := mcpServer.Run(ctx, &sdkmcp.StdioTransport{})
			if ctx.Err() == nil {
				errCh <- err
			}
		}()
	}

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			log.Error("serve error", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	log.Info("shutting down")
	return httpServer.Shutdown(shutdownCtx)
}

func openStore(ctx context.Context, cfg config.StoreConfig, log *zap.Logger) (app.Repositories, func() error, error) {
	switch cfg.Driver {
	case "redis":
		client, err := redisstore.Open(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return app.Repositories{}, nil, err
		}
		log.Info("using redis store", zap.String("addr", cfg.RedisAddr), zap.Int("db", cfg.RedisDB))
		return app.RedisRepositories(client, cfg.RedisPrefix), client.Close, nil
	default:
		if err := ensureDBDir(cfg.SQLitePath); err != nil {
			return app.Repositories{}, nil, fmt.Errorf("prepare database path: %w", err)
		}
		db, err := sqlite.New(cfg.SQLitePath)
		if err != nil {
			return app.Repositories{}, nil, err
		}
		if err := db.RunMigrations(); err != nil {
			return app.Repositories{}, nil, multierr.Append(err, db.Close())
		}
		log.Info("using sqlite store", zap.String("path", cfg.SQLitePath))
		return app.SQLiteRepositories(db), db.Close, nil
	}
}

func openPublisher(cfg config.EventsConfig, log *zap.Logger) (audit.Publisher, func() error, error) {
	if cfg.NATSURL == "" {
		return events.Nop{}, func() error { return nil }, nil
	}
	pub, err := events.Connect(cfg.NATSURL, cfg.SubjectPrefix, log.Named("events"))
	if err != nil {
		return nil, nil, err
	}
	return pub, pub.Close, nil
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
