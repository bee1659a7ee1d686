package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool

	// Remote rate service
	RatesAPIURL     string
	RatesAPITimeout time.Duration

	// Conversion engine
	HubCurrency     string // intermediate for rate triangulation
	ResolveWorkers  int    // bound on concurrent rate resolutions
	DefaultCurrency string // seed value for a fresh database

	// HTTP surface
	RateLimitPerSecond int64
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("RATES_API_URL", "http://localhost:8000")
	viper.SetDefault("RATES_API_TIMEOUT", "10s")
	viper.SetDefault("HUB_CURRENCY", "USD")
	viper.SetDefault("RESOLVE_WORKERS", 4)
	viper.SetDefault("DEFAULT_CURRENCY", "USD")
	viper.SetDefault("RATE_LIMIT_PER_SECOND", 20)

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.RatesAPIURL = viper.GetString("RATES_API_URL")

	timeoutStr := viper.GetString("RATES_API_TIMEOUT")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		timeout = 10 * time.Second
		log.Printf("Warning: Invalid value for RATES_API_TIMEOUT (%q). Defaulting to %s.\n", timeoutStr, timeout)
	}
	cfg.RatesAPITimeout = timeout

	cfg.HubCurrency = viper.GetString("HUB_CURRENCY")
	if len(cfg.HubCurrency) != 3 {
		log.Printf("Warning: Invalid HUB_CURRENCY (%q). Defaulting to USD.\n", cfg.HubCurrency)
		cfg.HubCurrency = "USD"
	}

	cfg.ResolveWorkers = viper.GetInt("RESOLVE_WORKERS")
	if cfg.ResolveWorkers < 1 {
		log.Printf("Warning: RESOLVE_WORKERS must be at least 1, got %d. Defaulting to 4.\n", cfg.ResolveWorkers)
		cfg.ResolveWorkers = 4
	}

	cfg.DefaultCurrency = viper.GetString("DEFAULT_CURRENCY")
	if len(cfg.DefaultCurrency) != 3 {
		log.Printf("Warning: Invalid DEFAULT_CURRENCY (%q). Defaulting to USD.\n", cfg.DefaultCurrency)
		cfg.DefaultCurrency = "USD"
	}

	cfg.RateLimitPerSecond = viper.GetInt64("RATE_LIMIT_PER_SECOND")
	if cfg.RateLimitPerSecond < 1 {
		cfg.RateLimitPerSecond = 20
	}

	return cfg, nil
}
