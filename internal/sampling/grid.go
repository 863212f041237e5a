package sampling

import (
	"math"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	"github.com/hareeshnagaraj/poiseed/internal/domain/model"
)

// GridSampler produces query points covering a rectangular bounding box with
// concentric rings around the centroid. Ring spacing starts at CenterDensity
// meters and blends toward EdgeDensity as the ring radius approaches the
// box's half-diagonal, so coverage is densest near the center.
type GridSampler struct {
	Bounds        model.BoundingBox
	CenterDensity float64 // ring spacing near the centroid, meters
	EdgeDensity   float64 // ring spacing near the box edge, meters
	MaxPoints     int
}

// NewGridSampler creates a sampler for the given box.
func NewGridSampler(bounds model.BoundingBox, centerDensity, edgeDensity float64, maxPoints int) *GridSampler {
	return &GridSampler{
		Bounds:        bounds,
		CenterDensity: centerDensity,
		EdgeDensity:   edgeDensity,
		MaxPoints:     maxPoints,
	}
}

// Points generates up to MaxPoints query points, sorted by descending
// priority. The centroid is always element 0 with priority 1.0. A caller
// that queries only a prefix still gets the densest coverage near the center.
func (g *GridSampler) Points() []model.QueryPoint {
	center := g.Bounds.Center()
	points := []model.QueryPoint{{Location: center, Priority: 1.0}}

	halfDiagonal := geo.Distance(
		orb.Point{center.Longitude, center.Latitude},
		orb.Point{g.Bounds.NorthEast.Longitude, g.Bounds.NorthEast.Latitude},
	)
	if halfDiagonal <= 0 {
		return points
	}

	for radius := g.CenterDensity; radius <= halfDiagonal && len(points) < g.MaxPoints; {
		frac := radius / halfDiagonal
		density := g.CenterDensity + (g.EdgeDensity-g.CenterDensity)*frac
		priority := 1.0 - 0.5*frac

		circumference := 2 * math.Pi * radius
		count := int(circumference / density)
		if count < 4 {
			count = 4
		}

		for i := 0; i < count && len(points) < g.MaxPoints; i++ {
			angle := 2 * math.Pi * float64(i) / float64(count)
			dLat, dLon := offsetDegrees(radius*math.Sin(angle), radius*math.Cos(angle), center.Latitude)
			candidate := model.Coordinate{
				Latitude:  center.Latitude + dLat,
				Longitude: center.Longitude + dLon,
			}
			if !g.Bounds.Contains(candidate) {
				continue
			}
			points = append(points, model.QueryPoint{Location: candidate, Priority: priority})
		}

		radius += density
	}

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Priority > points[j].Priority
	})
	return points
}
