package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	Port         string        `env:"PORT,          default=8080"`
	GinMode      string        `env:"GIN_MODE,      default=debug"`
	LogLevel     string        `env:"LOG_LEVEL,     default=info"`
	LogPretty    bool          `env:"LOG_PRETTY,    default=false"`
	StartingCash string        `env:"STARTING_CASH, default=10000.00"`
	SessionStore string        `env:"SESSION_STORE, default=memory"`
	SessionTTL   time.Duration `env:"SESSION_TTL,   default=24h"`
	SecureCookie bool          `env:"SECURE_COOKIE, default=false"`

	DB     DBConfig
	Redis  RedisConfig
	Quotes QuoteConfig
}

type DBConfig struct {
	Driver   string `env:"DB_DRIVER,   default=postgres"`
	Host     string `env:"DB_HOST,     default=localhost"`
	Port     string `env:"DB_PORT,     default=5433"`
	User     string `env:"DB_USER,     default=trader"`
	Password string `env:"DB_PASSWORD, default=trading123"`
	Name     string `env:"DB_NAME,     default=trading_db"`
	Path     string `env:"DB_PATH,     default=finance.db"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type QuoteConfig struct {
	Provider      string `env:"QUOTE_PROVIDER,  default=simulated"`
	PolygonAPIKey string `env:"POLYGON_API_KEY"`
}

// Load reads configuration from the environment.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// Cash returns the starting balance credited to new accounts.
func (c *Config) Cash() decimal.Decimal {
	d, err := decimal.NewFromString(c.StartingCash)
	if err != nil {
		return decimal.NewFromInt(10000)
	}
	return d
}

func (c *Config) validate() error {
	switch c.DB.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}
	switch c.SessionStore {
	case "memory", "redis":
	default:
		return fmt.Errorf("unsupported SESSION_STORE %q", c.SessionStore)
	}
	switch c.Quotes.Provider {
	case "simulated":
	case "polygon":
		if c.Quotes.PolygonAPIKey == "" {
			return fmt.Errorf("POLYGON_API_KEY is required for the polygon quote provider")
		}
	default:
		return fmt.Errorf("unsupported QUOTE_PROVIDER %q", c.Quotes.Provider)
	}
	if _, err := decimal.NewFromString(c.StartingCash); err != nil {
		return fmt.Errorf("STARTING_CASH: %w", err)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	return nil
}
