// Package app wires configuration, stores, services and the HTTP router
// into a runnable process.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/madezdev/ecommerce-api/internal/api"
	"github.com/madezdev/ecommerce-api/internal/api/handler"
	"github.com/madezdev/ecommerce-api/internal/core/authz"
	"github.com/madezdev/ecommerce-api/internal/core/domain"
	"github.com/madezdev/ecommerce-api/internal/core/ports"
	"github.com/madezdev/ecommerce-api/internal/core/service"
	"github.com/madezdev/ecommerce-api/internal/infrastructure/config"
	"github.com/madezdev/ecommerce-api/internal/infrastructure/crypto"
	mongodb "github.com/madezdev/ecommerce-api/internal/infrastructure/db/mongo"
	redisdb "github.com/madezdev/ecommerce-api/internal/infrastructure/db/redis"
	"github.com/madezdev/ecommerce-api/internal/infrastructure/http/handlers"
	"github.com/madezdev/ecommerce-api/internal/infrastructure/mail"
	"github.com/madezdev/ecommerce-api/internal/infrastructure/queue"
	"github.com/madezdev/ecommerce-api/internal/infrastructure/token"
)

const (
	serviceName     = "ecommerce-api"
	shutdownTimeout = 15 * time.Second
)

// App owns every long-lived resource of the process.
type App struct {
	cfg *config.Config
	log zerolog.Logger

	mongo *mongo.Client
	redis *goredis.Client

	indexers   []mongodb.Indexer
	auth       *service.AuthService
	dispatcher *queue.Dispatcher
	server     *echo.Echo
}

// New connects to MongoDB and Redis and builds the object graph.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	fields, err := domain.ParsePersonalFields(cfg.ProfileRequiredFields)
	if err != nil {
		return nil, fmt.Errorf("profile fields: %w", err)
	}
	evaluator, err := domain.NewProfileEvaluator(fields...)
	if err != nil {
		return nil, fmt.Errorf("profile fields: %w", err)
	}

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:         cfg.Mongo.URI,
		Database:    cfg.Mongo.Database,
		AppName:     serviceName,
		MaxPoolSize: cfg.Mongo.MaxPoolSize,
	})
	if err != nil {
		return nil, err
	}
	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:       cfg.Redis.Addr,
		Password:   cfg.Redis.Password,
		DB:         cfg.Redis.DB,
		ClientName: serviceName,
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	a := &App{cfg: cfg, log: log, mongo: client, redis: rdb}
	a.build(db, rdb, evaluator)
	return a, nil
}

func (a *App) build(db *mongo.Database, rdb *goredis.Client, evaluator *domain.ProfileEvaluator) {
	cfg, log := a.cfg, a.log

	// --- Stores ---
	users := mongodb.NewUserRepository(db)
	carts := mongodb.NewCartRepository(db)
	orders := mongodb.NewOrderRepository(db)
	products := mongodb.NewProductRepository(db)
	questions := mongodb.NewQuestionRepository(db)
	resets := mongodb.NewPasswordResetRepository(db)
	a.indexers = []mongodb.Indexer{users, carts, orders, products, questions, resets}
	revocations := redisdb.NewRevocationStore(rdb)

	// --- Collaborators ---
	jwt := token.NewJWT(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	hasher := crypto.NewBcryptHasher(crypto.DefaultCost)

	var mailer ports.Mailer = mail.NewLogMailer(log)
	if cfg.SMTP.Host != "" {
		mailer = mail.NewSMTPMailer(mail.Config{
			Host:     cfg.SMTP.Host,
			Port:     strconv.Itoa(cfg.SMTP.Port),
			Username: cfg.SMTP.User,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
	}
	a.dispatcher = queue.NewDispatcher(cfg.NotifyWorkers, service.NewNotificationService(mailer, log), log)
	mailbox := service.NewMailbox(a.dispatcher, log)

	// --- Services ---
	promoter := service.NewPromotionService(users, evaluator, log)
	a.auth = service.NewAuthService(service.AuthDeps{
		Users:     users,
		Carts:     carts,
		Hasher:    hasher,
		Tokens:    jwt,
		Verifier:  jwt,
		Revoked:   revocations,
		Promoter:  promoter,
		Evaluator: evaluator,
	}, log)

	a.server = api.NewRouter(api.Deps{
		Auth:      a.auth,
		Passwords: service.NewPasswordResetService(users, resets, hasher, mailbox, cfg.PublicBaseURL, log),
		Users:     service.NewUserService(users, carts, promoter, evaluator, log),
		Carts: service.NewCartService(service.CartDeps{
			Carts:    carts,
			Products: products,
			Orders:   orders,
			Users:    users,
			Mail:     mailbox,
		}, log),
		Orders:    service.NewOrderService(orders, users, mailbox, log),
		Products:  service.NewProductService(products, log),
		Questions: service.NewQuestionService(questions, products, log),
		Resolver:  service.NewTokenResolver(jwt, revocations, users, log),
		Guard:     authz.NewGuard(carts, orders, log),
		Health: map[string]handlers.Checker{
			"mongodb": handlers.MongoChecker(db),
			"redis":   handlers.RedisChecker(rdb),
		},
		Cookie:      handler.CookieOptions{TTL: jwt.TTL(), Secure: cfg.IsProduction()},
		DebugErrors: cfg.DebugErrors,
	}, log)
}

// Run prepares the stores, starts the notification workers and serves HTTP
// until ctx is cancelled, then shuts everything down.
func (a *App) Run(ctx context.Context) error {
	if err := mongodb.EnsureIndexes(ctx, a.indexers...); err != nil {
		return err
	}
	if err := a.auth.SeedAdmin(ctx, a.cfg.Admin.Email, a.cfg.Admin.Password); err != nil {
		return err
	}

	a.dispatcher.Start(context.Background())

	serveErr := make(chan error, 1)
	go func() {
		a.log.Info().Str("port", a.cfg.Port).Msg("http server listening")
		if err := a.server.Start(":" + a.cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-serveErr:
	}

	a.log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.log.Error().Err(err).Msg("http shutdown")
	}
	if err := a.dispatcher.Shutdown(shutdownCtx); err != nil {
		a.log.Error().Err(err).Msg("notification queue not drained")
	}
	a.close(shutdownCtx)
	return runErr
}

func (a *App) close(ctx context.Context) {
	if err := a.redis.Close(); err != nil {
		a.log.Error().Err(err).Msg("redis close")
	}
	if err := a.mongo.Disconnect(ctx); err != nil {
		a.log.Error().Err(err).Msg("mongo disconnect")
	}
}
