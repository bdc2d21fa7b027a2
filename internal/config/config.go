package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Fanout websocket server
	FanoutHost string
	FanoutPort int

	// Simulation
	TickRate        int // physics ticks per second
	SnapshotsPerSec int // state snapshot broadcasts per second
	RespawnDelay    time.Duration

	// Content
	CoursePath string
	TuningPath string // optional override of the embedded rider profiles

	// Persistence
	FallLogPath string

	// Telemetry
	LogLevel string
}

func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		FanoutHost: envStr("RIDERSIM_FANOUT_HOST", "0.0.0.0"),
		FanoutPort: envInt("RIDERSIM_FANOUT_PORT", 8090),

		TickRate:        envInt("RIDERSIM_TICK_RATE", 60),
		SnapshotsPerSec: envInt("RIDERSIM_SNAPSHOTS_PER_SEC", 10),
		RespawnDelay:    time.Duration(envFloat("RIDERSIM_RESPAWN_DELAY_SEC", 2.0) * float64(time.Second)),

		CoursePath: envStr("RIDERSIM_COURSE_PATH", "courses/ridge.yaml"),
		TuningPath: envStr("RIDERSIM_TUNING_PATH", ""),

		FallLogPath: envStr("RIDERSIM_FALL_LOG_PATH", "data/falls.db"),

		LogLevel: envStr("LOG_LEVEL", "info"),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
