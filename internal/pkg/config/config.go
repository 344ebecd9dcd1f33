package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port            string        `env:"PORT,             default=8080"`
	Env             string        `env:"ENV,              default=development"`
	LogLevel        string        `env:"LOG_LEVEL,        default=info"`
	LogFile         string        `env:"LOG_FILE"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT,  default=15s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=10s"`

	Mongo MongoConfig
	Redis RedisConfig
	Auth  AuthConfig
}

type MongoConfig struct {
	URI      string        `env:"MONGO_URI,     default=mongodb://localhost:27017"`
	Database string        `env:"MONGO_DB,      default=users"`
	Timeout  time.Duration `env:"MONGO_TIMEOUT, default=10s"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

type AuthConfig struct {
	SecretKey     string `env:"ACCESS_TOKEN_SECRET_KEY,     required"`
	Algorithm     string `env:"ACCESS_TOKEN_ALGORITHM,      default=HS256"`
	ExpireMinutes int    `env:"ACCESS_TOKEN_EXPIRE_MINUTES, default=30"`
	BcryptCost    int    `env:"BCRYPT_COST,                 default=10"`
}

// TokenTTL is the access token lifetime.
func (a AuthConfig) TokenTTL() time.Duration {
	return time.Duration(a.ExpireMinutes) * time.Minute
}

// IsDevelopment reports whether the service runs in a local environment.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development" || c.Env == "local"
}

// Load reads a .env file when present, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return LoadWith(context.Background(), envconfig.OsLookuper())
}

// LoadWith resolves configuration from an arbitrary lookuper.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if cfg.Auth.SecretKey == "" {
		return nil, errors.New("config: ACCESS_TOKEN_SECRET_KEY must not be empty")
	}
	if cfg.Auth.ExpireMinutes <= 0 {
		return nil, fmt.Errorf("config: ACCESS_TOKEN_EXPIRE_MINUTES must be positive, got %d", cfg.Auth.ExpireMinutes)
	}
	return &cfg, nil
}
