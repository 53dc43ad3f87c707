package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the process-wide configuration, loaded from environment
// variables with sane local-development defaults.
type Config struct {
	Addr     string `env:"ADDR" envDefault:":8080"`
	MongoURI string `env:"MONGODB_URI" envDefault:"mongodb://localhost:27017"`

	// RedisAddr empty disables the redis caches entirely; everything
	// still works, just slower
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	JWTSecret string `env:"JWT_SECRET" envDefault:"dev-secret-change-me"`

	// Ephemeral session tier bounds
	SessionLimit int           `env:"SESSION_LIMIT" envDefault:"4096"`
	SessionTTL   time.Duration `env:"SESSION_TTL" envDefault:"2h"`

	// Budget for the completion summary step before it fails with a
	// timeout instead of a generation error
	SummaryTimeout time.Duration `env:"SUMMARY_TIMEOUT" envDefault:"30s"`

	AllowedOrigins string `env:"ALLOWED_ORIGINS" envDefault:"*"`
}

// Load parses configuration from the environment
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
