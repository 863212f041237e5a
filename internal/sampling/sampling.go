// Package sampling generates candidate query coordinates for the collector:
// a concentric-ring grid covering a bounding box, and an expanding square
// spiral for outward search from a fixed point.
package sampling

import "math"

// metersPerDegreeLat: one degree of latitude is roughly 111.32 km everywhere.
const metersPerDegreeLat = 111320.0

// offsetDegrees converts a north/east offset in meters to degree deltas using
// the equirectangular approximation at the given latitude. Longitude degrees
// shrink with distance from the equator.
func offsetDegrees(northMeters, eastMeters, atLatitude float64) (dLat, dLon float64) {
	dLat = northMeters / metersPerDegreeLat
	cosLat := math.Cos(atLatitude * math.Pi / 180)
	if cosLat < 1e-9 {
		cosLat = 1e-9
	}
	dLon = eastMeters / (metersPerDegreeLat * cosLat)
	return dLat, dLon
}
