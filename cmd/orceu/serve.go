package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/orceu/orceu-api-saas/internal/config"
	"github.com/orceu/orceu-api-saas/internal/httpapi"
	"github.com/orceu/orceu-api-saas/internal/importer"
	"github.com/orceu/orceu-api-saas/internal/logging"
	"github.com/orceu/orceu-api-saas/internal/metrics"
	"github.com/orceu/orceu-api-saas/internal/queue"
	"github.com/orceu/orceu-api-saas/internal/store"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the import HTTP service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	log := logging.FromContext(ctx)

	st, closeStore, err := openStore(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer closeStore()

	q, consumer, closeQueue, err := openQueue(ctx, cfg.Queue)
	if err != nil {
		return err
	}
	defer closeQueue()

	var m *metrics.Metrics
	metricsPath := ""
	if cfg.Metrics.Enabled {
		m = metrics.New()
		metricsPath = cfg.Metrics.Path
	}

	svc := importer.NewService(st, q, m, importer.Config{
		MaxFileSize:   cfg.Upload.MaxFileSizeBytes(),
		MaxConcurrent: cfg.Upload.MaxConcurrent,
		MaxWait:       cfg.Upload.MaxWaitTime,
		TmpDir:        cfg.Upload.TmpDir,
	})
	srv := httpapi.NewServer(svc, m, httpapi.Options{
		MaxFileSize:    cfg.Upload.MaxFileSizeBytes(),
		RequestTimeout: cfg.Server.RequestTimeout,
		MetricsPath:    metricsPath,
	})

	workerDone := make(chan error, 1)
	go func() {
		workerDone <- queue.RunWorker(ctx, consumer, logTask)
	}()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start(cfg.Server)
	}()

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		log.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("shutdown incomplete")
	}
	if err := <-workerDone; err != nil {
		log.WithError(err).Warn("import worker stopped")
	}
	return nil
}

// logTask is the default downstream consumer: it records that an import
// left the queue.
func logTask(ctx context.Context, task queue.Task) error {
	logging.WithFields(ctx, logrus.Fields{
		"import_id": task.ImportID,
		"tenant_id": task.TenantID,
		"kind":      task.Kind,
		"file":      task.FileName,
	}).Info("import dequeued")
	return nil
}

func openStore(ctx context.Context, cfg config.StoreConfig) (store.Store, func(), error) {
	switch cfg.Driver {
	case "dynamodb":
		client, err := store.NewDynamoClient(ctx, store.DynamoConfig{
			Region:          cfg.AWSRegion,
			Endpoint:        cfg.DynamoDBEndpoint,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretKey,
		})
		if err != nil {
			return nil, nil, err
		}
		return store.NewDynamoStore(client, cfg.Table), func() {}, nil
	case "postgres":
		pool, err := store.NewPostgresPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		pg := store.NewPostgresStore(pool, cfg.Table)
		if err := pg.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return pg, pool.Close, nil
	default:
		return store.NewMemoryStore(), func() {}, nil
	}
}

func openQueue(ctx context.Context, cfg config.QueueConfig) (queue.Queue, queue.Consumer, func(), error) {
	switch cfg.Driver {
	case "redis":
		client, err := queue.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, err
		}
		q := queue.NewRedisQueue(client, cfg.Key)
		return q, q, func() { _ = client.Close() }, nil
	default:
		q := queue.NewMemoryQueue(cfg.Capacity)
		return q, q, func() {}, nil
	}
}
