package sampling

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hareeshnagaraj/poiseed/internal/domain/model"
)

func TestSpiralWalkerFirstStepIsStart(t *testing.T) {
	start := model.Coordinate{Latitude: 37.7749, Longitude: -122.4194}
	w := NewSpiralWalker(start, 100)

	assert.Equal(t, start, w.Next())
}

func TestSpiralWalkerStepsAreDistinct(t *testing.T) {
	start := model.Coordinate{Latitude: 37.7749, Longitude: -122.4194}
	w := NewSpiralWalker(start, 250)

	seen := make(map[string]struct{})
	for i := 0; i < 60; i++ {
		c := w.Next()
		key := fmt.Sprintf("%.9f,%.9f", c.Latitude, c.Longitude)
		_, dup := seen[key]
		require.False(t, dup, "step %d revisited %s", i, key)
		seen[key] = struct{}{}
	}
}

// TestSpiralWalkerLegSchedule verifies the square-spiral walk order: legs of
// length 1,1,2,2,3,3,... rotating east, north, west, south. Leg length grows
// only after two completed direction changes.
func TestSpiralWalkerLegSchedule(t *testing.T) {
	start := model.Coordinate{Latitude: 0, Longitude: 0}
	w := NewSpiralWalker(start, 100)

	prev := w.Next()
	var moves []string
	for i := 0; i < 12; i++ {
		c := w.Next()
		switch {
		case c.Longitude > prev.Longitude:
			moves = append(moves, "E")
		case c.Latitude > prev.Latitude:
			moves = append(moves, "N")
		case c.Longitude < prev.Longitude:
			moves = append(moves, "W")
		default:
			moves = append(moves, "S")
		}
		prev = c
	}

	assert.Equal(t,
		[]string{"E", "N", "W", "W", "S", "S", "E", "E", "E", "N", "N", "N"},
		moves)
}

func TestSpiralWalkerRecomputesAtCurrentLatitude(t *testing.T) {
	// Eastward legs of this spiral run along its southern edge. Starting at
	// a high latitude, those later east steps happen closer to the equator,
	// where a fixed step in meters spans fewer degrees of longitude than the
	// very first east step did.
	start := model.Coordinate{Latitude: 60, Longitude: 0}
	w := NewSpiralWalker(start, 10000)

	w.Next() // start
	first := w.Next()
	eastDeltaNearStart := first.Longitude - start.Longitude

	var prev model.Coordinate = first
	var eastDeltaLater float64
	for i := 0; i < 200; i++ {
		c := w.Next()
		if c.Longitude > prev.Longitude && c.Latitude < start.Latitude-0.3 {
			eastDeltaLater = c.Longitude - prev.Longitude
			break
		}
		prev = c
	}

	require.NotZero(t, eastDeltaLater, "no eastward step observed far enough south")
	assert.Less(t, eastDeltaLater, eastDeltaNearStart)
}
