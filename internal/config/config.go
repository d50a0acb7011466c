package config

import (
	"os"
	"strconv"
)

// ============================================================
// Configuration
// ============================================================

type Config struct {
	Port         string
	Environment  string
	ReadTimeout  int
	WriteTimeout int
	DBPath       string
	MaxShapes    int
}

// Load reads the service configuration from the environment.
func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "3001"),
		Environment:  getEnv("ENV", "development"),
		ReadTimeout:  getEnvAsInt("READ_TIMEOUT", 10),
		WriteTimeout: getEnvAsInt("WRITE_TIMEOUT", 30),
		DBPath:       getEnv("CIRCLES_DB_PATH", "data/db/circles.db"),
		MaxShapes:    getEnvAsInt("MAX_SHAPES", 5000),
	}
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}
