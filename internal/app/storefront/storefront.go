package storefront

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/storefront/internal/cache"
	"github.com/magabrotheeeer/storefront/internal/config"
	grpchealth "github.com/magabrotheeeer/storefront/internal/grpc/health"
	"github.com/magabrotheeeer/storefront/internal/http/middlewarectx"
	"github.com/magabrotheeeer/storefront/internal/lib/jwt"
	"github.com/magabrotheeeer/storefront/internal/lib/sl"
	"github.com/magabrotheeeer/storefront/internal/migrations"
	"github.com/magabrotheeeer/storefront/internal/rabbitmq"
	authservice "github.com/magabrotheeeer/storefront/internal/services/auth"
	catalogservice "github.com/magabrotheeeer/storefront/internal/services/catalog"
	orderservice "github.com/magabrotheeeer/storefront/internal/services/order"
	usersservice "github.com/magabrotheeeer/storefront/internal/services/users"
	"github.com/magabrotheeeer/storefront/internal/storage/repository"
)

const shutdownTimeout = 15 * time.Second

type App struct {
	server    *http.Server
	health    *grpchealth.Server
	logger    *slog.Logger
	db        *repository.Storage
	cache     *cache.Cache
	limiter   *middlewarectx.IPRateLimiter
	amqpConn  *amqp.Connection
	publisher *rabbitmq.Publisher
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(ctx, cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err = db.CheckDatabaseReady(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	app := &App{
		logger:  logger,
		db:      db,
		cache:   cacheRedis,
		limiter: middlewarectx.NewIPRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window),
		health:  grpchealth.New(cfg.AddressGRPC, logger),
	}

	// publisher остаётся nil, если брокер выключен: заказы оформляются без событий
	var publisher orderservice.EventPublisher
	if cfg.RabbitMQEnabled {
		conn, err := rabbitmq.Connect(ctx, cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
		if err != nil {
			app.closeStores()
			return nil, err
		}
		ch, err := rabbitmq.SetupChannel(conn, rabbitmq.OrderQueues())
		if err != nil {
			_ = conn.Close()
			app.closeStores()
			return nil, err
		}
		app.amqpConn = conn
		app.publisher = rabbitmq.NewPublisher(ch, rabbitmq.OrdersExchange)
		publisher = app.publisher
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	authService := authservice.New(db, cacheRedis, jwtMaker)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, Services{
		Auth:    authService,
		Catalog: catalogservice.New(logger, db, cacheRedis),
		Orders:  orderservice.New(logger, db, db, publisher),
		Users:   usersservice.New(db, authService),
		DB:      db,
		Limiter: app.limiter,
	})

	app.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return app, nil
}

func (a *App) Run(ctx context.Context) error {
	go func() {
		if err := a.health.Run(ctx); err != nil {
			a.logger.Error("gRPC health server stopped", sl.Err(err))
		}
	}()
	go a.sweepLimiter(ctx)

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()
	a.health.SetServing(true)

	select {
	case err := <-errCh:
		a.health.SetServing(false)
		a.closeAll()
		return err
	case <-ctx.Done():
		a.health.SetServing(false)
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.closeAll()
		return err
	}
}

func (a *App) sweepLimiter(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.limiter.Sweep()
		}
	}
}

func (a *App) closeAll() {
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Warn("failed to close rabbitmq channel", sl.Err(err))
		}
	}
	if a.amqpConn != nil {
		if err := a.amqpConn.Close(); err != nil {
			a.logger.Warn("failed to close rabbitmq connection", sl.Err(err))
		}
	}
	a.closeStores()
}

func (a *App) closeStores() {
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Warn("failed to close redis", sl.Err(err))
		}
	}
	if err := a.db.Close(); err != nil {
		a.logger.Warn("failed to close database", sl.Err(err))
	}
}
