// Package server assembles the capsule server: storage backend, event sinks,
// metrics endpoint and the gRPC service, and runs them until shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/gophcapsule/internal/clock"
	"github.com/dmitrijs2005/gophcapsule/internal/logging"
	"github.com/dmitrijs2005/gophcapsule/internal/server/config"
	"github.com/dmitrijs2005/gophcapsule/internal/server/eventsink"
	"github.com/dmitrijs2005/gophcapsule/internal/server/metrics"
	"github.com/dmitrijs2005/gophcapsule/internal/server/services"
	"github.com/dmitrijs2005/gophcapsule/internal/server/storage"
	"github.com/prometheus/client_golang/prometheus"

	gs "github.com/dmitrijs2005/gophcapsule/internal/server/grpc"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	store    storage.Store
	metrics  *metrics.Metrics
	admin    *services.AdminService
	capsules *services.CapsuleService
}

// openPostgres is a seam for tests.
var openPostgres = func(ctx context.Context, dsn string) (storage.Store, error) {
	s, err := storage.OpenPostgres(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// newS3Sink is a seam for tests.
var newS3Sink = func(ctx context.Context, st eventsink.S3Settings) (eventsink.Sink, error) {
	s, err := eventsink.NewS3Sink(ctx, st)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	store, err := openStore(ctx, c)
	if err != nil {
		return nil, err
	}

	sinks := eventsink.Fanout{eventsink.NewLogSink(logger)}
	if c.EventArchiveEnabled {
		s3, err := newS3Sink(ctx, eventsink.S3Settings{
			User:     c.S3RootUser,
			Password: c.S3RootPassword,
			Bucket:   c.S3Bucket,
			Region:   c.S3Region,
			Endpoint: c.S3BaseEndpoint,
		})
		if err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("event archive init error: %w", err)
		}
		sinks = append(sinks, s3)
	}

	m := metrics.New(prometheus.NewRegistry())

	return &App{
		config:  c,
		logger:  logger,
		store:   store,
		metrics: m,
		admin:   services.NewAdminService(store, logger),
		capsules: services.NewCapsuleService(store, clock.Real(), sinks, m, logger, services.CapsuleOptions{
			RentPerByte: c.RentPerByte,
			UserIndex:   c.UserIndexEnabled,
		}),
	}, nil
}

func openStore(ctx context.Context, c *config.Config) (storage.Store, error) {
	switch c.Storage {
	case config.StorageMemory:
		return storage.NewMemoryStore(), nil
	case config.StoragePostgres:
		s, err := openPostgres(ctx, c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage %q", c.Storage)
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) error {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.admin, app.capsules, app.metrics, app.config.SecretKey)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
		return err
	}
	return nil
}

func (app *App) startMetricsServer(ctx context.Context, cancelFunc context.CancelFunc) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", app.metrics.Handler())
	srv := &http.Server{Addr: app.config.EndpointAddrMetrics, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	app.logger.Info(ctx, "Starting metrics server", "address", app.config.EndpointAddrMetrics)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
		return err
	}
	return nil
}

// Run serves until ctx is canceled, a signal arrives or a server fails.
// The store is closed before Run returns.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "storage", app.config.Storage, "user_index", app.config.UserIndexEnabled)

	app.initSignalHandler(cancelFunc)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	run := func(fn func(context.Context, context.CancelFunc) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(ctx, cancelFunc); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}()
	}

	run(app.startGRPCServer)
	if app.config.EndpointAddrMetrics != "" {
		run(app.startMetricsServer)
	}

	wg.Wait()

	if err := app.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close store: %w", err))
	}
	app.logger.Info(context.Background(), "App stopped")
	return errors.Join(errs...)
}
