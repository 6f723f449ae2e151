package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"vouch/internal/audit"
	"vouch/internal/blobstore"
	"vouch/internal/platform/config"
	"vouch/internal/platform/httpserver"
	"vouch/internal/platform/logger"
	"vouch/internal/platform/metrics"
	"vouch/internal/platform/middleware"
	"vouch/internal/platform/postgres"
	platformredis "vouch/internal/platform/redis"
	transactionhandler "vouch/internal/transaction/handler"
	transactionservice "vouch/internal/transaction/service"
	"vouch/internal/transaction/store"
	"vouch/internal/verification"
	verificationhandler "vouch/internal/verification/handler"
	"vouch/pkg/platform/middleware/metadata"
)

// main wires dependencies and owns the process lifecycle. Business logic
// lives in the internal services packages.
func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	log := logger.New(cfg.LogLevel)
	m := metrics.New()

	txnStore, storeHealth, cleanupStore, err := buildStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanupStore()

	blobs, err := buildBlobStore(ctx, cfg)
	if err != nil {
		return err
	}

	sink, cleanupSink, err := buildAuditSink(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanupSink()

	events := make(chan audit.Event, 256)
	recorder := audit.NewRecorder(events, log)
	worker := audit.NewWorker(sink, events, log)

	txnService := transactionservice.New(txnStore, log, m, recorder)
	intakeService := verification.NewService(txnStore, blobs, verification.NewSimulatedVerifier(), log, m, recorder)

	router := chi.NewRouter()
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestID)
	router.Use(metadata.ClientMetadata)
	router.Use(middleware.RequestLogger(log))
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if storeHealth != nil {
			if err := storeHealth(r.Context()); err != nil {
				log.Error("health check failed", "error", err)
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte("store unavailable"))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Handle("/metrics", promhttp.Handler())
	transactionhandler.New(txnService, log).Register(router)
	verificationhandler.New(intakeService, log).Register(router)

	srv := httpserver.New(cfg.Addr, router)
	log.Info("starting vouch",
		"addr", cfg.Addr,
		"store_backend", cfg.StoreBackend,
		"blob_backend", cfg.BlobBackend,
		"audit_kafka", len(cfg.Kafka.Brokers) > 0,
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := worker.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return httpserver.Run(gctx, srv, cfg.ShutdownTimeout)
	})
	return g.Wait()
}

// buildStore selects the transaction store backend. The returned health
// func is nil for the in-memory backend.
func buildStore(ctx context.Context, cfg config.Config) (store.Store, func(context.Context) error, func(), error) {
	switch cfg.StoreBackend {
	case config.StorePostgres:
		db, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, nil, err
		}
		st := store.NewPostgres(db)
		if err := st.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, nil, err
		}
		return st, db.PingContext, func() { _ = db.Close() }, nil
	case config.StoreRedis:
		client, err := platformredis.New(cfg.Redis)
		if err != nil {
			return nil, nil, nil, err
		}
		return store.NewRedis(client.Client), client.Health, func() { _ = client.Close() }, nil
	default:
		return store.NewMemory(), nil, func() {}, nil
	}
}

// buildBlobStore selects the document blob backend.
func buildBlobStore(ctx context.Context, cfg config.Config) (blobstore.Store, error) {
	switch cfg.BlobBackend {
	case config.BlobGCS:
		return blobstore.NewGCS(ctx, cfg.GCSBucket)
	case config.BlobLocalFS:
		return blobstore.NewLocalFS(cfg.LocalDir)
	default:
		return blobstore.NewMemory(), nil
	}
}

// buildAuditSink connects the Kafka sink when brokers are configured and
// falls back to the in-memory store otherwise.
func buildAuditSink(ctx context.Context, cfg config.Config) (audit.Sink, func(), error) {
	if len(cfg.Kafka.Brokers) == 0 {
		return audit.NewMemoryStore(), func() {}, nil
	}
	sink, err := audit.NewKafkaSink(ctx, cfg.Kafka.Brokers, cfg.Kafka.Topic)
	if err != nil {
		return nil, nil, err
	}
	return sink, sink.Close, nil
}
