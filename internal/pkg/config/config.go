package config

import (
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	LogLevel          string        `env:"LOG_LEVEL" envDefault:"info"`
	ServerAddr        string        `env:"SERVER_ADDR" envDefault:":8080"`
	AdminAddr         string        `env:"ADMIN_ADDR" envDefault:":9091"`
	PostgresURL       string        `env:"POSTGRES_URL,required"`
	RedisURL          string        `env:"REDIS_URL,required"`
	JWTSecret         string        `env:"JWT_SECRET,required"`
	CacheTTL          time.Duration `env:"CACHE_TTL" envDefault:"300s"`
	ShopAPIVersion    string        `env:"SHOP_API_VERSION" envDefault:"2025-01"`
	UpstreamTimeout   time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"10s"`
	UpstreamRPS       float64       `env:"UPSTREAM_RPS" envDefault:"2"`
	RefreshTimeout    time.Duration `env:"REFRESH_TIMEOUT" envDefault:"15s"`
	TopCustomersLimit int           `env:"TOP_CUSTOMERS_LIMIT" envDefault:"5"`
	RecentOrdersLimit int           `env:"RECENT_ORDERS_LIMIT" envDefault:"5"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	// Attempt to load .env file for local development.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
