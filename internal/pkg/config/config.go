package config

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	APIBaseURL  string        `env:"API_BASE_URL, default=http://localhost:8585"`
	Env         string        `env:"ENV,          default=development"`
	LogLevel    string        `env:"LOG_LEVEL,    default=info"`
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT, default=15s"`

	// TokenBackend selects where the bearer token is persisted: "file"
	// (default) or "redis".
	TokenBackend string `env:"TOKEN_BACKEND, default=file"`
	// TokenPath overrides the token file location. Empty means
	// <user config dir>/storefront/jwt.
	TokenPath string `env:"TOKEN_PATH"`

	Redis RedisConfig
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR,      default=localhost:6379"`
	DB   int    `env:"REDIS_DB,        default=0"`
	Key  string `env:"REDIS_TOKEN_KEY, default=storefront:jwt"`
}

// Load reads configuration from the environment using go-envconfig, after
// loading a .env file when one is present.
func Load() *Config {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
