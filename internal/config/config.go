package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	App      AppConfig
	Matching MatchingConfig
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type ServerConfig struct {
	Port            string
	AllowedOrigins  []string
	ShutdownTimeout time.Duration
}

type AppConfig struct {
	LogLevel    string
	StoreDriver string
}

// MatchingConfig holds the deployment-level tolerance window of the matcher.
type MatchingConfig struct {
	AmountTolerance   decimal.Decimal
	DateToleranceDays int
}

// Load reads the configuration from the environment. A .env file in the working
// directory, if present, is loaded first without overriding variables already set.
func Load() (*Config, error) {
	_ = godotenv.Load()

	amountTolerance, err := decimal.NewFromString(getEnv("AMOUNT_TOLERANCE", "0.01"))
	if err != nil {
		return nil, fmt.Errorf("invalid AMOUNT_TOLERANCE: %w", err)
	}
	if amountTolerance.IsNegative() {
		return nil, fmt.Errorf("AMOUNT_TOLERANCE must not be negative")
	}

	dateTolerance, err := strconv.Atoi(getEnv("DATE_TOLERANCE_DAYS", "1"))
	if err != nil {
		return nil, fmt.Errorf("invalid DATE_TOLERANCE_DAYS: %w", err)
	}
	if dateTolerance < 0 {
		return nil, fmt.Errorf("DATE_TOLERANCE_DAYS must not be negative")
	}

	shutdownSeconds, err := strconv.Atoi(getEnv("SHUTDOWN_TIMEOUT_SECONDS", "15"))
	if err != nil {
		shutdownSeconds = 15
	}

	driver := strings.ToLower(getEnv("STORE_DRIVER", StorePostgres))
	if driver != StorePostgres && driver != StoreMemory {
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", driver)
	}

	return &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "settlement_db"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Server: ServerConfig{
			Port:            getEnv("SERVER_PORT", "8080"),
			AllowedOrigins:  splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
			ShutdownTimeout: time.Duration(shutdownSeconds) * time.Second,
		},
		App: AppConfig{
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			StoreDriver: driver,
		},
		Matching: MatchingConfig{
			AmountTolerance:   amountTolerance,
			DateToleranceDays: dateTolerance,
		},
	}, nil
}

func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
