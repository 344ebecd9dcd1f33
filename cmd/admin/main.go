// Command user-admin bootstraps administrator accounts. Public registration
// only ever creates plain users, so the first admin is created here.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/rs/zerolog"

	"github.com/userhub/user-service/internal/core/auth"
	"github.com/userhub/user-service/internal/core/ports"
	"github.com/userhub/user-service/internal/core/service"
	mongodb "github.com/userhub/user-service/internal/infrastructure/db/mongo"
	redisdb "github.com/userhub/user-service/internal/infrastructure/db/redis"
	"github.com/userhub/user-service/internal/pkg/config"
	"github.com/userhub/user-service/pkg/logger"
)

func main() {
	if err := newRootCmd(openUserService).ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// openUserService connects to the same stores the API uses. The returned
// cleanup closes both connections.
func openUserService(ctx context.Context) (ports.UserService, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  true,
		Output:  os.Stderr,
		Service: "user-admin",
	})

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		Timeout:  cfg.Mongo.Timeout,
	})
	if err != nil {
		return nil, nil, err
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		_ = mongoClient.Disconnect(ctx)
		return nil, nil, err
	}

	cleanup := func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = rdb.Close()
		if err := mongoClient.Disconnect(disconnectCtx); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect failed")
		}
	}

	repo := mongodb.NewUserRepository(db, redisdb.NewEntityCache(rdb))
	if err := repo.EnsureIndexes(ctx); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("ensure indexes: %w", err)
	}

	return service.NewUserService(repo, auth.NewBcryptHasher(cfg.Auth.BcryptCost), zerolog.Nop()), cleanup, nil
}
