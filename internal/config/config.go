package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds service configuration sourced from environment variables.
type Config struct {
	SnapshotsDir string
	BaseCurrency string
	ServerPort   string

	HistoryDefaultDays  int
	HistoryMaxDays      int
	HistoryCacheTTL     time.Duration
	FXLookbackBufferDay int
}

// Load builds a Config from the environment. A .env file in the working
// directory is read first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		SnapshotsDir: getEnv("SNAPSHOTS_DIR", "data/snapshots"),
		BaseCurrency: strings.ToUpper(getEnv("BASE_CURRENCY", "USD")),
		ServerPort:   getEnv("SERVER_PORT", "8080"),

		HistoryDefaultDays:  getEnvInt("PRICE_HISTORY_DEFAULT_DAYS", 30),
		HistoryMaxDays:      getEnvInt("PRICE_HISTORY_MAX_DAYS", 180),
		HistoryCacheTTL:     time.Duration(getEnvInt("PRICE_HISTORY_TTL_SECONDS", 45)) * time.Second,
		FXLookbackBufferDay: getEnvInt("FX_LOOKBACK_BUFFER_DAYS", 7),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
