package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Addr            string
	LogLevel        string
	DevMode         bool
	CORSAllowOrigin string
	// Pause between two ticks of a stream
	TickInterval time.Duration
	// Deadline for writing one tick to the socket
	WriteTimeout time.Duration
	// Generator seed; 0 seeds from the clock
	RandomSeed uint64
	// Open the default browser on start (ignored in dev mode)
	OpenBrowser bool
}

func FromEnv() Config {
	cfg := Config{
		Addr:            getEnv("ADDR", ":8000"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		CORSAllowOrigin: getEnv("CORS_ALLOW_ORIGIN", "*"),
	}
	cfg.DevMode = getEnvBool("DEV_MODE", false)
	cfg.TickInterval = time.Duration(getEnvInt("TICK_INTERVAL_MS", 1000)) * time.Millisecond
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = time.Second
	}
	cfg.WriteTimeout = time.Duration(getEnvInt("WRITE_TIMEOUT_MS", 5000)) * time.Millisecond
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 5 * time.Second
	}
	if v := os.Getenv("RANDOM_SEED"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.RandomSeed = n
		}
	}
	cfg.OpenBrowser = getEnvBool("OPEN_BROWSER", true)
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// getEnvBool accepts 1/true and 0/false; anything else keeps def.
func getEnvBool(key string, def bool) bool {
	switch os.Getenv(key) {
	case "1", "true":
		return true
	case "0", "false":
		return false
	}
	return def
}
