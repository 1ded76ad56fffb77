package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads variables from .env files into the environment. Variables
// already set win. A missing file is not an error.
func LoadDotEnv(filenames ...string) {
	if err := godotenv.Load(filenames...); err != nil {
		log.Println("Warn loading .env file:", err)
	}
}

func GetEnv(key string, fallback string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	return value
}

// GetEnvBool parses key as a bool, falling back on absence or a bad value.
func GetEnvBool(key string, fallback bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("[CONFIG] Invalid boolean for %s=%q, using %v", key, value, fallback)
		return fallback
	}
	return b
}

// GetEnvDuration accepts Go duration strings ("10s") or a plain number of seconds.
func GetEnvDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	log.Printf("[CONFIG] Invalid duration for %s=%q, using %s", key, value, fallback)
	return fallback
}
