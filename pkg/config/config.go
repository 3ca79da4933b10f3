package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/kontoflow/kontoflow_backend/internal/core/domain"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// LoginRateLimit is a ulule/limiter formatted rate, e.g. "5-M".
	LoginRateLimit string

	Split domain.SplitConfig
}

// LoadConfig loads configuration from environment variables and a .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "kontoflow-backend")
	viper.SetDefault("LOGIN_RATE_LIMIT", "5-M")
	viper.SetDefault("SPLIT_MODE", string(domain.SplitMonthlyOrFixed))
	viper.SetDefault("SPLIT_MAX_ENTRIES", 50)
	viper.SetDefault("SPLIT_MONTHLY_THRESHOLD", 50)
	viper.SetDefault("SPLIT_MIN_ENTRIES", 5)

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET not set. Using default insecure key.")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiry, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiry = time.Hour
		log.Printf("Warning: Invalid JWT_EXPIRY_DURATION (%q). Defaulting to %s.\n", jwtExpiryStr, jwtExpiry)
	}
	cfg.JWTExpiryDuration = jwtExpiry
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.LoginRateLimit = viper.GetString("LOGIN_RATE_LIMIT")

	cfg.Split = domain.SplitConfig{
		Mode:                  domain.SplitMode(viper.GetString("SPLIT_MODE")),
		MaxEntriesPerDraft:    viper.GetInt("SPLIT_MAX_ENTRIES"),
		MonthlySplitThreshold: viper.GetInt("SPLIT_MONTHLY_THRESHOLD"),
		MinEntriesPerDraft:    viper.GetInt("SPLIT_MIN_ENTRIES"),
	}
	switch cfg.Split.Mode {
	case domain.SplitMonthly, domain.SplitFixedSize, domain.SplitMonthlyOrFixed:
	default:
		log.Printf("Warning: Invalid SPLIT_MODE (%q). Defaulting to %s.\n", cfg.Split.Mode, domain.SplitMonthlyOrFixed)
		cfg.Split.Mode = domain.SplitMonthlyOrFixed
	}

	return cfg, nil
}
