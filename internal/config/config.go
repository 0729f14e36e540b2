package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"

	"github.com/riteshkumar/building-ledger/internal/models"
	"github.com/riteshkumar/building-ledger/internal/money"
	"github.com/riteshkumar/building-ledger/internal/repository/postgres"
)

// Store drivers selectable with STORE_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverFile     = "file"
	DriverMemory   = "memory"
)

// Config holds all configuration for the server.
type Config struct {
	StoreDriver string
	Postgres    postgres.Config
	MongoURI    string
	MongoDB     string
	DataFile    string
	ServerPort  string

	Location          *time.Location
	OpeningBalance    money.Amount
	DuesMonthlyAmount money.Amount
	DuesStart         models.PeriodKey
	RolloverSchedule  string

	LogLevel slog.Level
}

// Load reads the environment after merging in envFiles, or ".env" when none are
// given. A missing default .env is not an error. Variables already set in the
// environment win over file values.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && len(envFiles) > 0 {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	cfg := &Config{
		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", DriverPostgres)),
		Postgres: postgres.Config{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "password"),
			Name:     getEnv("DB_NAME", "building_ledger"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		MongoURI:         getEnv("MONGODB_URI", ""),
		MongoDB:          getEnv("MONGODB_DB", "building_ledger"),
		DataFile:         getEnv("DATA_FILE", "data/ledger.json"),
		ServerPort:       getEnv("SERVER_PORT", "8080"),
		RolloverSchedule: getEnv("PERIOD_ROLLOVER_SCHEDULE", "0 9 1 * *"),
	}

	switch cfg.StoreDriver {
	case DriverPostgres, DriverFile, DriverMemory:
	case DriverMongo:
		if cfg.MongoURI == "" {
			return nil, fmt.Errorf("MONGODB_URI not set")
		}
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	var err error
	if cfg.Location, err = time.LoadLocation(getEnv("LEDGER_TIMEZONE", "Asia/Kolkata")); err != nil {
		return nil, fmt.Errorf("invalid LEDGER_TIMEZONE: %w", err)
	}
	if cfg.OpeningBalance, err = money.Parse(getEnv("LEDGER_OPENING_BALANCE", "0")); err != nil {
		return nil, fmt.Errorf("invalid LEDGER_OPENING_BALANCE: %w", err)
	}
	if cfg.DuesMonthlyAmount, err = money.Parse(getEnv("DUES_MONTHLY_AMOUNT", "0")); err != nil {
		return nil, fmt.Errorf("invalid DUES_MONTHLY_AMOUNT: %w", err)
	}
	if cfg.DuesMonthlyAmount < 0 || cfg.DuesMonthlyAmount > money.MaxAmount {
		return nil, fmt.Errorf("invalid DUES_MONTHLY_AMOUNT: out of range")
	}
	if cfg.DuesStart, err = models.ParsePeriodID(getEnv("DUES_START", "2025-04")); err != nil {
		return nil, fmt.Errorf("invalid DUES_START: %w", err)
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	return cfg, nil
}

// getEnv fetches environment variable or returns default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
