package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=5000"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// CORSAllowOrigins is a comma-separated origin list; "*" allows any origin.
	CORSAllowOrigins string `env:"CORS_ALLOW_ORIGINS, default=*"`

	Mongo MongoConfig
	Redis RedisConfig
	Claim ClaimConfig
}

type MongoConfig struct {
	URI string `env:"MONGODB_URI, default=mongodb://localhost:27017/leaderboard"`
	// Database overrides the database named in URI.
	Database string `env:"MONGO_DB"`
}

// RedisConfig is optional; an empty Addr disables idempotent claim replay.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

type ClaimConfig struct {
	Workers        int           `env:"CLAIM_WORKERS,   default=8"`
	IdempotencyTTL time.Duration `env:"IDEMPOTENCY_TTL, default=1h"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadFrom(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadFrom reads configuration through the given lookuper.
func LoadFrom(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsDevelopment reports whether the service runs in a local environment.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// AllowOrigins splits CORSAllowOrigins into individual origins.
func (c *Config) AllowOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSAllowOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
