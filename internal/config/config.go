// Package config loads the collector configuration from environment
// variables and validates it before any querying begins.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hareeshnagaraj/poiseed/internal/domain/model"
)

// Config is the full run configuration.
type Config struct {
	// Mode is "grid" (area-covering) or "spiral" (outward from a point).
	Mode string

	// Grid mode: free-text locale to geocode into a bounding box.
	Area string

	// Spiral mode: start coordinate and walk parameters.
	StartLat   float64
	StartLng   float64
	StepMeters float64
	MaxSteps   int

	// Sampling and termination.
	Target        int
	MaxPoints     int
	RadiusMeters  int
	CenterDensity float64
	EdgeDensity   float64
	QueryDelay    time.Duration

	// Category allow-list; empty admits every category.
	Categories []model.Category

	// Ingestion.
	BatchSize      int
	DryRun         bool
	StorageBackend string // "supabase" (default) or "postgres"

	// Collaborator credentials. GeminiAPIKey empty disables the AI stage.
	GoogleMapsAPIKey string
	GeminiAPIKey     string

	// Optional extras.
	FirestoreProjectID string
	StatusPort         string
	GeocodeCachePath   string
}

// Load reads the environment into a Config with defaults applied.
func Load() *Config {
	cfg := &Config{
		Mode:           getEnv("POISEED_MODE", "grid"),
		Area:           os.Getenv("POISEED_AREA"),
		StartLat:       getEnvFloat("POISEED_START_LAT", 0),
		StartLng:       getEnvFloat("POISEED_START_LNG", 0),
		StepMeters:     getEnvFloat("POISEED_STEP_METERS", 500),
		MaxSteps:       getEnvInt("POISEED_MAX_STEPS", 200),
		Target:         getEnvInt("POISEED_TARGET", 0),
		MaxPoints:      getEnvInt("POISEED_MAX_POINTS", 100),
		RadiusMeters:   getEnvInt("POISEED_RADIUS_METERS", 500),
		CenterDensity:  getEnvFloat("POISEED_CENTER_DENSITY", 400),
		EdgeDensity:    getEnvFloat("POISEED_EDGE_DENSITY", 800),
		QueryDelay:     getEnvDuration("POISEED_QUERY_DELAY", 300*time.Millisecond),
		BatchSize:      getEnvInt("POISEED_BATCH_SIZE", 100),
		DryRun:         getEnvBool("POISEED_DRY_RUN", false),
		StorageBackend: getEnv("STORAGE_BACKEND", "supabase"),

		GoogleMapsAPIKey: os.Getenv("GOOGLE_MAPS_API_KEY"),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),

		FirestoreProjectID: os.Getenv("FIRESTORE_PROJECT_ID"),
		StatusPort:         os.Getenv("STATUS_PORT"),
		GeocodeCachePath:   os.Getenv("GEOCODE_CACHE_PATH"),
	}

	if raw := os.Getenv("POISEED_CATEGORIES"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				cfg.Categories = append(cfg.Categories, model.Category(part))
			}
		}
	}

	return cfg
}

// Validate rejects configurations that would fail mid-run. Any error here is
// fatal before querying begins.
func (c *Config) Validate() error {
	if c.GoogleMapsAPIKey == "" {
		return fmt.Errorf("GOOGLE_MAPS_API_KEY is required")
	}

	switch c.Mode {
	case "grid":
		if c.Area == "" {
			return fmt.Errorf("POISEED_AREA is required in grid mode")
		}
	case "spiral":
		start := model.Coordinate{Latitude: c.StartLat, Longitude: c.StartLng}
		if !start.Valid() {
			return fmt.Errorf("spiral start coordinate %.5f,%.5f is out of range", c.StartLat, c.StartLng)
		}
		if c.StepMeters <= 0 {
			return fmt.Errorf("POISEED_STEP_METERS must be positive, got %f", c.StepMeters)
		}
	default:
		return fmt.Errorf("unknown mode %q (want grid or spiral)", c.Mode)
	}

	if c.RadiusMeters <= 0 || c.RadiusMeters > 50000 {
		return fmt.Errorf("POISEED_RADIUS_METERS must be in (0, 50000], got %d", c.RadiusMeters)
	}
	if c.CenterDensity <= 0 || c.EdgeDensity <= 0 {
		return fmt.Errorf("grid densities must be positive")
	}

	for _, cat := range c.Categories {
		if !model.IsValidCategory(string(cat)) {
			return fmt.Errorf("unknown category %q in POISEED_CATEGORIES", cat)
		}
	}

	switch c.StorageBackend {
	case "supabase", "postgres":
	default:
		return fmt.Errorf("unknown storage backend %q (want supabase or postgres)", c.StorageBackend)
	}

	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
