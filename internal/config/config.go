package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all configuration for our application
type Config struct {
	Port                  string
	Origin                string
	Environment           string
	JWTSecret             string
	Database              DatabaseConfig
	JWTExpirationMinutes  int
	RefreshExpirationDays int
	RefreshCookieName     string
	LedgerRetentionDays   int
}

// DatabaseConfig holds database connection details
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Name     string
	DSN      string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load database configuration
	dbConfig := DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "3306"),
		Username: getEnv("DB_USERNAME", "root"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "business"),
	}

	// Build DSN (Data Source Name) for MySQL connection
	dbConfig.DSN = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		dbConfig.Username, dbConfig.Password, dbConfig.Host, dbConfig.Port, dbConfig.Name)

	jwtExpMinutes, err := strconv.Atoi(getEnv("JWT_EXPIRATION_MINUTES", "15"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRATION_MINUTES: %w", err)
	}

	refreshExpDays, err := strconv.Atoi(getEnv("REFRESH_EXPIRATION_DAYS", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid REFRESH_EXPIRATION_DAYS: %w", err)
	}

	ledgerRetentionDays, err := strconv.Atoi(getEnv("LEDGER_RETENTION_DAYS", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid LEDGER_RETENTION_DAYS: %w", err)
	}

	// Return complete configuration
	return &Config{
		Port:                  getEnv("PORT", "3001"),
		Origin:                getEnv("ORIGIN", "http://localhost:3000"),
		Environment:           getEnv("NODE_ENV", "development"),
		JWTSecret:             getEnv("JWT_SECRET", "default_jwt_secret"),
		Database:              dbConfig,
		JWTExpirationMinutes:  jwtExpMinutes,
		RefreshExpirationDays: refreshExpDays,
		RefreshCookieName:     getEnv("REFRESH_COOKIE_NAME", "refresh_token"),
		LedgerRetentionDays:   ledgerRetentionDays,
	}, nil
}

// Helper function to get environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
