package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hareeshnagaraj/poiseed/internal/domain/model"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GOOGLE_MAPS_API_KEY", "key")
	t.Setenv("POISEED_AREA", "Kyoto")

	cfg := Load()

	assert.Equal(t, "grid", cfg.Mode)
	assert.Equal(t, 100, cfg.BatchSize)
	assert.Equal(t, 500, cfg.RadiusMeters)
	assert.Equal(t, 400.0, cfg.CenterDensity)
	assert.Equal(t, 800.0, cfg.EdgeDensity)
	assert.Equal(t, 300*time.Millisecond, cfg.QueryDelay)
	assert.Equal(t, "supabase", cfg.StorageBackend)
	require.NoError(t, cfg.Validate())
}

func TestValidateRequiresAPIKey(t *testing.T) {
	cfg := &Config{Mode: "grid", Area: "Kyoto", RadiusMeters: 500, CenterDensity: 400, EdgeDensity: 800, StorageBackend: "supabase"}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GOOGLE_MAPS_API_KEY")
}

func TestValidateGridRequiresArea(t *testing.T) {
	cfg := &Config{Mode: "grid", GoogleMapsAPIKey: "key", RadiusMeters: 500, CenterDensity: 400, EdgeDensity: 800, StorageBackend: "supabase"}

	require.Error(t, cfg.Validate())
}

func TestValidateSpiralCoordinateRange(t *testing.T) {
	cfg := &Config{
		Mode: "spiral", GoogleMapsAPIKey: "key",
		StartLat: 91, StartLng: 0, StepMeters: 500,
		RadiusMeters: 500, CenterDensity: 400, EdgeDensity: 800,
		StorageBackend: "supabase",
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestValidateRejectsUnknownCategory(t *testing.T) {
	cfg := &Config{
		Mode: "grid", Area: "Kyoto", GoogleMapsAPIKey: "key",
		RadiusMeters: 500, CenterDensity: 400, EdgeDensity: 800,
		StorageBackend: "supabase",
		Categories:     []model.Category{"castle"},
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "castle")
}

func TestLoadParsesCategoryList(t *testing.T) {
	t.Setenv("GOOGLE_MAPS_API_KEY", "key")
	t.Setenv("POISEED_AREA", "Kyoto")
	t.Setenv("POISEED_CATEGORIES", "park, cafe,restaurant")

	cfg := Load()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, []model.Category{
		model.CategoryPark, model.CategoryCafe, model.CategoryRestaurant,
	}, cfg.Categories)
}

func TestValidateRejectsUnknownMode(t *testing.T) {
	cfg := &Config{Mode: "random", GoogleMapsAPIKey: "key", StorageBackend: "supabase"}

	require.Error(t, cfg.Validate())
}
