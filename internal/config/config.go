package config

import (
	"os"
	"strconv"
)

// Config holds the host settings. Every field can be overridden by a
// command line flag.
type Config struct {
	System        string
	SnapTolerance float64
	SnapLayer     string
	DBPath        string
	Set           string
	LogFile       string
	LogLevel      string
}

// Load reads the configuration from GEODRAW_* environment variables.
func Load() *Config {
	return &Config{
		System:        getEnv("GEODRAW_SYSTEM", "geodetic"),
		SnapTolerance: getEnvAsFloat("GEODRAW_SNAP_TOLERANCE", 10),
		SnapLayer:     getEnv("GEODRAW_SNAP_LAYER", ""),
		DBPath:        getEnv("GEODRAW_DB", "geodraw.db"),
		Set:           getEnv("GEODRAW_SET", "default"),
		LogFile:       getEnv("GEODRAW_LOG_FILE", ""),
		LogLevel:      getEnv("GEODRAW_LOG_LEVEL", "info"),
	}
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsFloat(key string, defaultVal float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
