package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string
	Port        string
	Host        string

	DataDir  string
	SeedFile string

	LedgerBaseURL string
	LedgerTimeout time.Duration

	CORSOrigins []string
}

func Load() (*Config, error) {
	// Load .env file if exists (ignore error in production)
	_ = godotenv.Load()

	cfg := &Config{
		Environment:   getEnv("ENVIRONMENT", "development"),
		Port:          getEnv("PORT", "8080"),
		Host:          getEnv("HOST", "0.0.0.0"),
		DataDir:       getEnv("DATA_DIR", "./data"),
		SeedFile:      getEnv("SEED_FILE", "./data/devices.json"),
		LedgerBaseURL: getEnv("LEDGER_BASE_URL", ""),
		CORSOrigins:   splitList(getEnv("CORS_ORIGINS", "http://localhost:5173,http://localhost:3000")),
	}

	// Parse duration
	if timeout := getEnv("LEDGER_TIMEOUT", "10s"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid LEDGER_TIMEOUT: %w", err)
		}
		cfg.LedgerTimeout = d
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
