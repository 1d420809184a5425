package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/blogsphere-api/internal/config"
	"github.com/Nazarious-ucu/blogsphere-api/internal/metrics"
	"github.com/Nazarious-ucu/blogsphere-api/internal/models"
	"github.com/Nazarious-ucu/blogsphere-api/internal/repository"
	"github.com/Nazarious-ucu/blogsphere-api/internal/repository/mongo"
	"github.com/Nazarious-ucu/blogsphere-api/internal/repository/sqlite"
)

const (
	timeoutDuration = 5 * time.Second
	metricsNS       = "blogsphere"
)

// FormStore is the persistence layer shared by all request handlers.
type FormStore interface {
	CreateSubscription(ctx context.Context, email string) (models.NewsletterSubscription, error)
	CreateContactMessage(ctx context.Context, fields models.ContactFields) (models.ContactMessage, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type ServiceContainer struct {
	Store  FormStore
	Router *gin.Engine
	Srv    *http.Server
	M      *metrics.Metrics
}

type App struct {
	cfg config.Config
	l   zerolog.Logger
}

func New(cfg config.Config, logger zerolog.Logger) *App {
	logger = logger.With().Str("component", "App").Logger()
	return &App{cfg: cfg, l: logger}
}

// Start serves HTTP until ctx is cancelled, then shuts down gracefully.
func (a *App) Start(ctx context.Context) error {
	srvContainer := a.init(ctx)

	errCh := make(chan error, 1)
	go func() {
		a.l.Info().Str("http_addr", a.cfg.ServerAddress()).Msg("HTTP server listening")
		if err := srvContainer.Srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		a.l.Info().Msg("Shutdown signal received")
	case err := <-errCh:
		if err != nil {
			a.l.Error().Err(err).Msg("HTTP server error")
			_ = a.Stop(srvContainer)
			return err
		}
	}

	return a.Stop(srvContainer)
}

func (a *App) Stop(srvContainer ServiceContainer) error {
	a.l.Info().Msg("Stopping application")

	ctx, cancel := context.WithTimeout(context.Background(), timeoutDuration)
	defer cancel()

	if err := srvContainer.Srv.Shutdown(ctx); err != nil {
		a.l.Error().Err(err).Msg("HTTP shutdown error")
	} else {
		a.l.Info().Msg("HTTP server stopped")
	}

	if err := srvContainer.Store.Close(ctx); err != nil {
		a.l.Error().Err(err).Msg("Store close error")
	} else {
		a.l.Info().Msg("Store closed")
	}

	a.l.Info().Msg("Application shutdown complete")
	return nil
}

func (a *App) init(ctx context.Context) ServiceContainer {
	a.l.Info().
		Str("http_addr", a.cfg.ServerAddress()).
		Str("driver", a.cfg.DB.Driver).
		Str("public_dir", a.cfg.Server.PublicDir).
		Msg("Initializing application")

	m := metrics.NewMetrics(metricsNS)
	store := a.openStore(ctx, m)

	pingCtx, cancel := context.WithTimeout(ctx, timeoutDuration)
	defer cancel()
	if err := store.Ping(pingCtx); err != nil {
		a.l.Error().Err(err).Msg("Document store unreachable, requests will fail until it recovers")
	} else {
		a.l.Info().Str("driver", a.cfg.DB.Driver).Msg("Document store connected")
	}

	router := NewRouter(store, a.l, m, a.cfg.Server)

	httpSrv := &http.Server{
		Addr:        a.cfg.ServerAddress(),
		Handler:     router,
		ReadTimeout: time.Duration(a.cfg.Server.ReadTimeout) * time.Second,
	}

	return ServiceContainer{
		Store:  store,
		Router: router,
		Srv:    httpSrv,
		M:      m,
	}
}

// openStore never fails: a store that cannot be created is replaced by one
// whose writes all return repository.ErrStorage.
func (a *App) openStore(ctx context.Context, m *metrics.Metrics) FormStore {
	switch a.cfg.DB.Driver {
	case config.DriverSQLite:
		openCtx, cancel := context.WithTimeout(ctx, timeoutDuration)
		defer cancel()

		db, err := sqlite.Open(openCtx, a.cfg.DB.SQLitePath)
		if err != nil {
			a.l.Error().Err(err).Str("path", a.cfg.DB.SQLitePath).Msg("SQLite open error")
			return repository.Unavailable{Cause: err}
		}
		m.Registry.MustRegister(collectors.NewDBStatsCollector(db, a.cfg.DB.SQLitePath))
		return sqlite.NewFormStore(db, a.l, m)
	default:
		store, err := mongo.NewFormStore(a.cfg.DB.MongoURI, a.cfg.DB.MongoDatabase, a.l, m)
		if err != nil {
			a.l.Error().Err(err).Msg("MongoDB client error")
			return repository.Unavailable{Cause: err}
		}
		return store
	}
}
