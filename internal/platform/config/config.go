package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers accepted by STORAGE_DRIVER.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config holds application configuration.
type Config struct {
	Port           string
	IsProduction   bool
	StorageDriver  string
	DatabaseURL    string
	MigrationsPath string
	RunMigrations  bool

	JWTSecret string
	JWTIssuer string

	EntryNumberPrefix string
	EntryNumberWidth  int

	RateLimit          string
	CORSAllowedOrigins []string
	MetricsEnabled     bool
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("STORAGE_DRIVER", StoragePostgres)
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("RUN_MIGRATIONS", true)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_ISSUER", "")
	v.SetDefault("ENTRY_NUMBER_PREFIX", "JE-")
	v.SetDefault("ENTRY_NUMBER_WIDTH", 6)
	v.SetDefault("RATE_LIMIT", "100-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("METRICS_ENABLED", true)
	v.AutomaticEnv()

	cfg := &Config{
		Port:              v.GetString("PORT"),
		IsProduction:      v.GetBool("IS_PRODUCTION"),
		StorageDriver:     strings.ToLower(v.GetString("STORAGE_DRIVER")),
		DatabaseURL:       v.GetString("PGSQL_URL"),
		MigrationsPath:    v.GetString("MIGRATIONS_PATH"),
		RunMigrations:     v.GetBool("RUN_MIGRATIONS"),
		JWTSecret:         v.GetString("JWT_SECRET"),
		JWTIssuer:         v.GetString("JWT_ISSUER"),
		EntryNumberPrefix: v.GetString("ENTRY_NUMBER_PREFIX"),
		EntryNumberWidth:  v.GetInt("ENTRY_NUMBER_WIDTH"),
		RateLimit:         v.GetString("RATE_LIMIT"),
		MetricsEnabled:    v.GetBool("METRICS_ENABLED"),
	}
	for _, origin := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if o := strings.TrimSpace(origin); o != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
		}
	}

	switch cfg.StorageDriver {
	case StoragePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("PGSQL_URL must be set when STORAGE_DRIVER=%s", StoragePostgres)
		}
	case StorageMemory:
		log.Println("Warning: STORAGE_DRIVER=memory, ledger data will not survive a restart.")
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	if cfg.JWTSecret == "" {
		if cfg.IsProduction {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	if cfg.EntryNumberWidth < 1 {
		log.Printf("Warning: invalid ENTRY_NUMBER_WIDTH %d. Defaulting to 6.\n", cfg.EntryNumberWidth)
		cfg.EntryNumberWidth = 6
	}

	return cfg, nil
}
