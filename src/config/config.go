package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port               string `env:"PORT" envDefault:"3000"`
	LogLevel           string `env:"LOG_LEVEL" envDefault:"info"`
	JWTSecret          string `env:"JWT_SECRET"` // Enables bearer auth on the report routes
	CORSOrigin         string `env:"CORS_ORIGIN" envDefault:"http://localhost:5173"`
	MaxUploadSizeBytes int64  `env:"MAX_UPLOAD_SIZE_BYTES" envDefault:"52428800"`

	// Inbound throttling of the whole API.
	RequestRateLimit float64 `env:"REQUEST_RATE_LIMIT" envDefault:"10"` // requests per second
	RequestBurst     int     `env:"REQUEST_BURST" envDefault:"30"`

	LocalCurrency        string        `env:"LOCAL_CURRENCY" envDefault:"UAH"`
	NBUBaseURL           string        `env:"NBU_BASE_URL" envDefault:"https://bank.gov.ua"`
	NBURequestsPerSecond float64       `env:"NBU_REQUESTS_PER_SECOND" envDefault:"5"`
	NBUTimeout           time.Duration `env:"NBU_TIMEOUT" envDefault:"20s"`
	RateCacheTTL         time.Duration `env:"RATE_CACHE_TTL" envDefault:"24h"`
	RateDBPath           string        `env:"RATE_DB_PATH"`          // SQLite rate table, empty disables
	HistoricalRatesPath  string        `env:"HISTORICAL_RATES_PATH"` // Offline rate table, replaces NBU when set

	ReadTimeout  time.Duration `env:"READ_TIMEOUT" envDefault:"30s"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT" envDefault:"120s"`
	IdleTimeout  time.Duration `env:"IDLE_TIMEOUT" envDefault:"60s"`
}

var Cfg *AppConfig

// LoadConfig reads .env (if any) and the process environment into Cfg.
func LoadConfig() error {
	if errEnv := godotenv.Load(); errEnv != nil {
		log.Println("Info: No .env file found or error loading .env file. Relying on OS environment variables and defaults. Error (if any):", errEnv)
	} else {
		log.Println(".env file loaded successfully.")
	}

	cfg, err := Parse()
	if err != nil {
		return err
	}
	Cfg = cfg

	log.Printf("Configuration loaded: Port=%s, LogLevel=%s, LocalCurrency=%s, NBU=%s, RateDB=%q, HistoricalRates=%q, Auth=%t",
		Cfg.Port, Cfg.LogLevel, Cfg.LocalCurrency, Cfg.NBUBaseURL, Cfg.RateDBPath, Cfg.HistoricalRatesPath, Cfg.JWTSecret != "")
	return nil
}

// Parse builds an AppConfig from the environment without touching Cfg.
func Parse() (*AppConfig, error) {
	cfg := &AppConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *AppConfig) validate() error {
	if c.JWTSecret != "" && len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 bytes long, got %d", len(c.JWTSecret))
	}
	if c.MaxUploadSizeBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_SIZE_BYTES must be positive, got %d", c.MaxUploadSizeBytes)
	}
	if c.NBURequestsPerSecond <= 0 {
		return fmt.Errorf("NBU_REQUESTS_PER_SECOND must be positive, got %v", c.NBURequestsPerSecond)
	}
	if c.LocalCurrency == "" {
		return fmt.Errorf("LOCAL_CURRENCY must not be empty")
	}
	return nil
}
