package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Storage drivers.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Notification providers.
const (
	NotifyAMQP = "amqp"
	NotifyLog  = "log"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool
	JWTSecret     string
	StorageDriver string

	// Rank cache
	RedisURL     string
	RankCacheTTL time.Duration

	// Notifications
	NotifyProvider   string
	AMQPURL          string
	NotifyExchange   string
	NotifyRoutingKey string

	// Submission rate limit, ulule formatted (e.g. "30-M")
	RateLimit string

	// Rate suggestions
	DefaultEURRate decimal.Decimal
	DefaultUSDRate decimal.Decimal
	NBPAPIURL      string

	CORSAllowedOrigins []string
	MigrationsPath     string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("STORAGE_DRIVER", StoragePostgres)
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("RANK_CACHE_TTL", "30s")
	viper.SetDefault("NOTIFY_PROVIDER", NotifyLog)
	viper.SetDefault("AMQP_URL", "")
	viper.SetDefault("NOTIFY_EXCHANGE", "auction.notifications")
	viper.SetDefault("NOTIFY_ROUTING_KEY", "mail")
	viper.SetDefault("RATE_LIMIT", "30-M")
	viper.SetDefault("DEFAULT_EUR_RATE", "4.30")
	viper.SetDefault("DEFAULT_USD_RATE", "4.00")
	viper.SetDefault("NBP_API_URL", "http://api.nbp.pl/api/exchangerates/rates/a/")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")

	viper.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:      viper.GetString("PGSQL_URL"),
		Port:             viper.GetString("PORT"),
		IsProduction:     viper.GetBool("IS_PRODUCTION"),
		EnableDBCheck:    viper.GetBool("ENABLE_DB_CHECK"),
		JWTSecret:        viper.GetString("JWT_SECRET"),
		StorageDriver:    strings.ToLower(viper.GetString("STORAGE_DRIVER")),
		RedisURL:         viper.GetString("REDIS_URL"),
		NotifyProvider:   strings.ToLower(viper.GetString("NOTIFY_PROVIDER")),
		AMQPURL:          viper.GetString("AMQP_URL"),
		NotifyExchange:   viper.GetString("NOTIFY_EXCHANGE"),
		NotifyRoutingKey: viper.GetString("NOTIFY_ROUTING_KEY"),
		RateLimit:        viper.GetString("RATE_LIMIT"),
		NBPAPIURL:        viper.GetString("NBP_API_URL"),
		MigrationsPath:   viper.GetString("MIGRATIONS_PATH"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}
	if cfg.StorageDriver == StoragePostgres && cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	ttlStr := viper.GetString("RANK_CACHE_TTL")
	ttl, err := time.ParseDuration(ttlStr)
	if err != nil || ttl <= 0 {
		ttl = 30 * time.Second
		log.Printf("Warning: Invalid value for RANK_CACHE_TTL ('%s'). Defaulting to %s.\n", ttlStr, ttl)
	}
	cfg.RankCacheTTL = ttl

	cfg.DefaultEURRate = rateOrDefault("DEFAULT_EUR_RATE", decimal.RequireFromString("4.30"))
	cfg.DefaultUSDRate = rateOrDefault("DEFAULT_USD_RATE", decimal.RequireFromString("4.00"))

	for _, origin := range strings.Split(viper.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	if cfg.NotifyProvider == NotifyAMQP && cfg.AMQPURL == "" {
		log.Println("Warning: NOTIFY_PROVIDER is amqp but AMQP_URL is not set. Falling back to log dispatcher.")
		cfg.NotifyProvider = NotifyLog
	}

	return cfg, nil
}

func rateOrDefault(key string, def decimal.Decimal) decimal.Decimal {
	raw := viper.GetString(key)
	rate, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(raw), ",", "."))
	if err != nil || !rate.IsPositive() {
		log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, def)
		return def
	}
	return rate
}
