package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/GlebRadaev/affiliator/internal/config"
	"github.com/GlebRadaev/affiliator/internal/confirm"
	"github.com/GlebRadaev/affiliator/internal/domain"
	"github.com/GlebRadaev/affiliator/internal/events"
	"github.com/GlebRadaev/affiliator/internal/handlers"
	"github.com/GlebRadaev/affiliator/internal/metrics"
	"github.com/GlebRadaev/affiliator/internal/pg"
	"github.com/GlebRadaev/affiliator/internal/repo"
	"github.com/GlebRadaev/affiliator/internal/service"
	"github.com/GlebRadaev/affiliator/pkg/logger"
)

type ApplicationI interface {
	Start(ctx context.Context) error
	Wait(ctx context.Context, cancel context.CancelFunc) error
}

type Application struct {
	cfg       *config.Config
	api       *handlers.Handlers
	srv       *service.Services
	repo      *repo.Repositories
	confirmer *confirm.Service
	publisher events.Publisher
	registry  *prometheus.Registry
	pool      *pgxpool.Pool

	errCh chan error
	wg    sync.WaitGroup
	ready bool
}

func New() *Application {
	return &Application{
		errCh: make(chan error),
	}
}

func (a *Application) Start(ctx context.Context) error {
	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("can't load config: %w", err)
	}

	err = logger.InitLogger(cfg)
	if err != nil {
		return fmt.Errorf("can't init logger: %w", err)
	}
	if cfg.JWTSecret == config.DefaultJWTSecret {
		zap.L().Warn("JWT_SECRET is not set, using the development secret")
	}

	pool, err := getPgxpool(ctx, cfg)
	if err != nil {
		zap.L().Error("build pgx pool failed: ", zap.Error(err))
		return fmt.Errorf("can't build pgx pool: %w", err)
	}
	if err := pg.RunMigrations(pool); err != nil {
		pool.Close()
		zap.L().Error("migrations failed: ", zap.Error(err))
		return fmt.Errorf("can't run migrations: %w", err)
	}
	a.pool = pool
	txManager := pg.NewTXManager(pool)

	a.registry = prometheus.NewRegistry()
	a.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(a.registry)

	a.cfg = cfg
	a.publisher = newPublisher(cfg)
	a.repo = repo.New(pg.New(pool))
	a.srv, err = service.New(a.repo, txManager, a.publisher, m, cfg)
	if err != nil {
		return fmt.Errorf("can't build services: %w", err)
	}
	a.api = handlers.New(a.srv, cfg, promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))
	a.confirmer = confirm.New(a.srv.ConfirmLedger, m, cfg.CommissionHoldPeriod, cfg.ConfirmInterval)

	if err := a.provisionUsers(ctx); err != nil {
		return fmt.Errorf("can't provision users: %w", err)
	}

	if err = a.startHTTPServer(ctx); err != nil {
		return fmt.Errorf("can't start http server: %w", err)
	}

	a.startConfirmWorker(ctx)

	a.ready = true
	zap.L().Info("all systems started successfully")
	return nil
}

func newPublisher(cfg *config.Config) events.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		zap.L().Info("KAFKA_BROKERS is empty, domain events are dropped")
		return events.Noop{}
	}
	zap.L().Info("publishing domain events", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTopic))
	return events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
}

// provisionUsers creates the configured admin and order-system accounts.
func (a *Application) provisionUsers(ctx context.Context) error {
	accounts := []struct {
		login, password string
		role            domain.Role
	}{
		{a.cfg.AdminLogin, a.cfg.AdminPassword, domain.RoleAdmin},
		{a.cfg.SystemLogin, a.cfg.SystemPassword, domain.RoleSystem},
	}
	for _, acc := range accounts {
		if acc.login == "" {
			continue
		}
		if acc.password == "" {
			return fmt.Errorf("password for %s account %q is empty", acc.role, acc.login)
		}
		if _, err := a.srv.UserProvisioner.EnsureUser(ctx, acc.login, acc.password, acc.role); err != nil {
			return err
		}
		zap.L().Info("account provisioned", zap.String("login", acc.login), zap.String("role", string(acc.role)))
	}
	return nil
}

func getPgxpool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	cfgpool, err := pgxpool.ParseConfig(cfg.Database)
	if err != nil {
		return nil, err
	}
	dbpool, err := pgxpool.NewWithConfig(ctx, cfgpool)
	if err != nil {
		return nil, err
	}
	if err = dbpool.Ping(ctx); err != nil {
		return nil, err
	}
	return dbpool, nil
}

func (a *Application) startHTTPServer(ctx context.Context) error {
	router := chi.NewRouter()
	a.api.InitRoutes(router)
	server := http.Server{
		Addr:              a.cfg.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		<-ctx.Done()

		sCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(sCtx); err != nil {
			zap.L().Error("http server shutdown failed", zap.Error(err))
		}
	}()

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		zap.L().Info("starting http server on port", zap.String("port", a.cfg.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.errCh <- fmt.Errorf("http server exited with error: %w", err)
		}
	}()

	return nil
}

func (a *Application) startConfirmWorker(ctx context.Context) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.confirmer.Start(ctx)
	}()
}

// release closes what the running goroutines shared; call it once they have stopped.
func (a *Application) release() {
	if c, ok := a.publisher.(io.Closer); ok {
		if err := c.Close(); err != nil {
			zap.L().Error("can't close event publisher", zap.Error(err))
		}
	}
	if a.pool != nil {
		a.pool.Close()
	}
}

func (a *Application) Wait(ctx context.Context, cancel context.CancelFunc) error {
	var appErr error

	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()

		for err := range a.errCh {
			cancel()
			zap.L().Error(err.Error())
			appErr = err
		}
	}()

	<-ctx.Done()
	a.wg.Wait()
	a.release()
	close(a.errCh)
	wg.Wait()

	return appErr
}
