// Package geocache is a local sqlite cache of geocoding results, so repeated
// runs over the same area do not re-query the geocoder.
package geocache

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hareeshnagaraj/poiseed/internal/domain/model"
	"github.com/hareeshnagaraj/poiseed/internal/infrastructure/geocode"
)

const schema = `
CREATE TABLE IF NOT EXISTS geocode_cache (
	locale        TEXT PRIMARY KEY,
	lat           REAL NOT NULL,
	lng           REAL NOT NULL,
	sw_lat        REAL,
	sw_lng        REAL,
	ne_lat        REAL,
	ne_lng        REAL,
	formatted     TEXT NOT NULL,
	cached_at     TIMESTAMP DEFAULT CURRENT_TIMESTAMP
)`

// Cache wraps a Geocoder with a read-through sqlite cache keyed on the
// lowercased locale string.
type Cache struct {
	db    *sql.DB
	inner geocode.Geocoder
}

// Open opens (or creates) the cache database at path and wraps inner.
func Open(path string, inner geocode.Geocoder) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open geocode cache: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create geocode cache table: %w", err)
	}
	return &Cache{db: db, inner: inner}, nil
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Geocode returns the cached result when present, otherwise queries the
// wrapped geocoder and stores the answer. A cache write failure is logged
// and does not fail the lookup.
func (c *Cache) Geocode(ctx context.Context, locale string) (*model.GeocodeResult, error) {
	key := strings.ToLower(strings.TrimSpace(locale))

	if result, ok := c.lookup(ctx, key); ok {
		log.Printf("✅ geocode cache hit for %q", locale)
		return result, nil
	}

	result, err := c.inner.Geocode(ctx, locale)
	if err != nil {
		return nil, err
	}
	if err := c.store(ctx, key, result); err != nil {
		log.Printf("⚠️ failed to cache geocode result for %q: %v", locale, err)
	}
	return result, nil
}

func (c *Cache) lookup(ctx context.Context, key string) (*model.GeocodeResult, bool) {
	row := c.db.QueryRowContext(ctx, `
		SELECT lat, lng, sw_lat, sw_lng, ne_lat, ne_lng, formatted
		FROM geocode_cache WHERE locale = ?`, key)

	var lat, lng float64
	var swLat, swLng, neLat, neLng sql.NullFloat64
	var formatted string
	if err := row.Scan(&lat, &lng, &swLat, &swLng, &neLat, &neLng, &formatted); err != nil {
		return nil, false
	}

	result := &model.GeocodeResult{
		Center:        model.Coordinate{Latitude: lat, Longitude: lng},
		FormattedName: formatted,
	}
	if swLat.Valid && swLng.Valid && neLat.Valid && neLng.Valid {
		result.Bounds = &model.BoundingBox{
			SouthWest: model.Coordinate{Latitude: swLat.Float64, Longitude: swLng.Float64},
			NorthEast: model.Coordinate{Latitude: neLat.Float64, Longitude: neLng.Float64},
		}
	}
	return result, true
}

func (c *Cache) store(ctx context.Context, key string, result *model.GeocodeResult) error {
	var swLat, swLng, neLat, neLng interface{}
	if b := result.Bounds; b != nil {
		swLat, swLng = b.SouthWest.Latitude, b.SouthWest.Longitude
		neLat, neLng = b.NorthEast.Latitude, b.NorthEast.Longitude
	}
	_, err := c.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO geocode_cache
		(locale, lat, lng, sw_lat, sw_lng, ne_lat, ne_lng, formatted, cached_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		key, result.Center.Latitude, result.Center.Longitude,
		swLat, swLng, neLat, neLng, result.FormattedName, time.Now().UTC())
	return err
}
