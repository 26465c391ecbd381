// Command api runs the e-commerce HTTP service.
//
//	@title						E-commerce API
//	@version					1.0
//	@description				Catalog, carts, orders and accounts with profile-based role promotion.
//	@BasePath					/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Type "Bearer" followed by a space and the JWT.
package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/madezdev/ecommerce-api/internal/app"
	"github.com/madezdev/ecommerce-api/internal/infrastructure/config"
	"github.com/madezdev/ecommerce-api/pkg/logger"
)

const serviceName = "ecommerce-api"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		l := logger.Init(logger.Options{})
		l.Fatal().Err(err).Msg("load .env")
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		l := logger.Init(logger.Options{})
		l.Fatal().Err(err).Msg("load configuration")
	}

	log := logger.Init(logger.FromEnv(serviceName, cfg.Env, cfg.LogLevel))

	application, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}

	if err := application.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
	log.Info().Msg("server stopped")
}
