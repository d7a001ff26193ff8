package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the runtime configuration read from the environment
// (after godotenv has loaded .env).
type Config struct {
	Port           string        `mapstructure:"PORT"`
	DatabaseURL    string        `mapstructure:"DATABASE_URL"`
	RedisURL       string        `mapstructure:"REDIS_URL"`
	InstancePath   string        `mapstructure:"INSTANCE_PATH"`
	FleetPath      string        `mapstructure:"FLEET_PATH"`
	SeedPath       string        `mapstructure:"SEED_PATH"`
	ORSAPIKey      string        `mapstructure:"ORS_API_KEY"`
	ORSRatePerSec  float64       `mapstructure:"ORS_RATE_PER_SEC"`
	FuelPrice      float64       `mapstructure:"FUEL_PRICE"`
	Strategy       string        `mapstructure:"STRATEGY"`
	Improvement    string        `mapstructure:"IMPROVEMENT"`
	FullnessWeight float64       `mapstructure:"FULLNESS_WEIGHT"`
	MaxMoves       int           `mapstructure:"MAX_MOVES"`
	SearchTimeout  time.Duration `mapstructure:"SEARCH_TIMEOUT"`
	PlanTTL        time.Duration `mapstructure:"PLAN_TTL"`
	LogLevel       string        `mapstructure:"LOG_LEVEL"`
}

var defaults = map[string]any{
	"PORT":             "8080",
	"DATABASE_URL":     "",
	"REDIS_URL":        "",
	"INSTANCE_PATH":    "data/instance.json",
	"FLEET_PATH":       "data/fleet.yaml",
	"SEED_PATH":        "data/instance.json",
	"ORS_API_KEY":      "",
	"ORS_RATE_PER_SEC": 0.6,
	"FUEL_PRICE":       0.0,
	"STRATEGY":         "tier-tracked",
	"IMPROVEMENT":      "vnd",
	"FULLNESS_WEIGHT":  0.0,
	"MAX_MOVES":        0,
	"SEARCH_TIMEOUT":   "30s",
	"PLAN_TTL":         "24h",
	"LOG_LEVEL":        "info",
}

// Load reads every known key from the environment, falling back to defaults.
func Load() (Config, error) {
	v := viper.New()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	cfg.DatabaseURL = strings.TrimSpace(cfg.DatabaseURL)
	cfg.RedisURL = strings.TrimSpace(cfg.RedisURL)
	cfg.ORSAPIKey = strings.TrimSpace(cfg.ORSAPIKey)

	if cfg.FullnessWeight < 0 || cfg.FullnessWeight > 1 {
		return Config{}, fmt.Errorf("load config: FULLNESS_WEIGHT must be within [0,1], got %v", cfg.FullnessWeight)
	}
	if cfg.MaxMoves < 0 {
		return Config{}, fmt.Errorf("load config: MAX_MOVES must be non-negative, got %d", cfg.MaxMoves)
	}
	return cfg, nil
}

// Get returns the environment value for key, or fallback when unset or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
