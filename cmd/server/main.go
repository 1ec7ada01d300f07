package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"mintguard/internal/platform/config"
	"mintguard/internal/platform/httpserver"
	"mintguard/internal/platform/logger"
	"mintguard/internal/platform/middleware"
	"mintguard/internal/platform/postgres"
	"mintguard/internal/platform/redis"
	"mintguard/internal/registry/handler"
	"mintguard/internal/registry/metrics"
	"mintguard/internal/registry/service"
	"mintguard/internal/registry/store/asset"
	"mintguard/internal/registry/store/record"
	"mintguard/internal/registry/store/seed"
	"mintguard/pkg/platform/audit/publisher"
)

// main wires the dependency graph and owns the process lifecycle. Business
// logic lives under internal/registry; everything here is plumbing.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.Debug)

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var records service.RecordStore = record.NewMemory()
	var seeds service.SeedStore = seed.NewMemory()

	db, err := postgres.Open(ctx, cfg.PostgresURL)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
		if err := postgres.Migrate(ctx, db, record.Schema, seed.Schema); err != nil {
			return err
		}
		records = record.NewPostgres(db)
		seeds = seed.NewPostgres(db)
		log.Info("postgres persistence enabled")
	} else {
		log.Warn("no postgres URL configured, state is in-memory only")
	}

	cache, err := redis.New(ctx, cfg.RedisURL)
	if err != nil {
		return err
	}
	if cache != nil {
		defer cache.Close()
		records = record.NewCache(records, cache.Client, cfg.RecordCacheTTL, log)
		log.Info("record cache enabled", "ttl", cfg.RecordCacheTTL)
	}

	opts := []service.Option{
		service.WithLogger(log),
		service.WithMetrics(metrics.New(prometheus.DefaultRegisterer)),
	}
	if len(cfg.KafkaSeeds) > 0 {
		auditor, err := publisher.NewKafka(cfg.KafkaSeeds, cfg.AuditTopic, publisher.WithLogger(log))
		if err != nil {
			return err
		}
		defer func() {
			flushCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()
			if err := auditor.Close(flushCtx); err != nil {
				log.Error("audit publisher close failed", "error", err)
			}
		}()
		opts = append(opts, service.WithAuditPublisher(auditor))
		log.Info("kafka audit trail enabled", "topic_prefix", cfg.AuditTopic)
	}

	svc, err := service.New(asset.NewMemory(), records, seeds, opts...)
	if err != nil {
		return err
	}

	guard := middleware.Passthrough
	if cfg.JWTSigningKey != "" {
		guard = middleware.AdminJWT(cfg.JWTSigningKey, log)
	} else {
		log.Warn("no JWT signing key configured, admin routes are unprotected")
	}

	router := handler.NewRouter(handler.New(svc, log), guard)
	srv := httpserver.New(cfg.Addr, middleware.RequestMetadata(router))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting mintguard", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
