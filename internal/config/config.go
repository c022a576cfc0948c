package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"climate-data-platform/internal/climate"
)

type AppConfig struct {
	Port    string
	DataDir string

	// GridStep is the resolution of synthesized fields in degrees.
	GridStep float64

	// PregenerateDates are the dates the scheduler keeps materialized.
	PregenerateDates []time.Time

	// ScheduleInterval controls how often pre-generation runs.
	ScheduleInterval time.Duration

	// Job runner sizing.
	JobWorkers   int
	JobQueueSize int

	// In-memory field cache retention.
	CacheMaxFields int
	CacheMaxAge    time.Duration
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.Port = getenvDefault("PORT", "8080")
	cfg.DataDir = getenvDefault("DATA_DIR", "data")

	stepStr := getenvDefault("GRID_STEP_DEGREES", "2.5")
	step, err := strconv.ParseFloat(stepStr, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid GRID_STEP_DEGREES: %w", err)
	}
	cfg.GridStep = step

	// Pre-generation interval: default 1 hour.
	intervalStr := getenvDefault("SCHEDULE_INTERVAL", "1h")
	interval, err := time.ParseDuration(intervalStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SCHEDULE_INTERVAL: %w", err)
	}
	cfg.ScheduleInterval = interval

	cfg.JobWorkers = getenvInt("JOB_WORKERS", 2)
	cfg.JobQueueSize = getenvInt("JOB_QUEUE_SIZE", 64)

	// Cache retention.
	cfg.CacheMaxFields = getenvInt("CACHE_MAX_FIELDS", 16)

	maxAgeStr := getenvDefault("CACHE_MAX_AGE", "24h")
	maxAge, err := time.ParseDuration(maxAgeStr)
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_MAX_AGE: %w", err)
	}
	cfg.CacheMaxAge = maxAge

	dates, err := loadPregenerateDates()
	if err != nil {
		return nil, err
	}
	cfg.PregenerateDates = dates

	return cfg, nil
}

// loadPregenerateDates parses PREGENERATE_DATES, a comma-separated list of
// YYYY-MM-DD dates. The defaults are one northern-winter and one
// northern-summer date so both seasonal extremes are on disk.
func loadPregenerateDates() ([]time.Time, error) {
	raw := getenvDefault("PREGENERATE_DATES", "2024-01-01,2024-07-01")

	var dates []time.Time
	for _, s := range strings.Split(raw, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		d, err := climate.ParseDate(s)
		if err != nil {
			return nil, fmt.Errorf("invalid PREGENERATE_DATES entry %q: %w", s, err)
		}
		dates = append(dates, d)
	}
	return dates, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}
