package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/userhub/user-service/internal/api"
	"github.com/userhub/user-service/internal/api/handler"
	"github.com/userhub/user-service/internal/core/auth"
	"github.com/userhub/user-service/internal/core/service"
	mongodb "github.com/userhub/user-service/internal/infrastructure/db/mongo"
	redisdb "github.com/userhub/user-service/internal/infrastructure/db/redis"
	"github.com/userhub/user-service/internal/pkg/config"
	"github.com/userhub/user-service/pkg/logger"
)

const serviceName = "user-service"

// @title                       User Service API
// @version                     1.0
// @description                 User registration, authentication and role-based administration.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		File:    cfg.LogFile,
		Service: serviceName,
	})

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("user service stopped")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		Timeout:  cfg.Mongo.Timeout,
	})
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(disconnectCtx); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect failed")
		}
	}()
	log.Info().Str("database", cfg.Mongo.Database).Msg("mongo connected")

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()
	log.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected")

	userRepo := mongodb.NewUserRepository(db, redisdb.NewEntityCache(rdb))
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		return err
	}

	tokens, err := auth.NewTokenManager(cfg.Auth.SecretKey, cfg.Auth.Algorithm)
	if err != nil {
		return err
	}

	userService := service.NewUserService(userRepo, auth.NewBcryptHasher(cfg.Auth.BcryptCost), log)
	authService := service.NewAuthService(userService, tokens, cfg.Auth.TokenTTL(), log)

	e := api.NewRouter(api.Dependencies{
		Users:          userService,
		Auth:           authService,
		Verifier:       tokens,
		Readiness:      handler.NewHealthDependenciesHandler(db, rdb),
		Log:            log,
		RequestTimeout: cfg.RequestTimeout,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Msg("user service listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		log.Info().Msg("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info().Msg("user service stopped gracefully")
	return nil
}
