package sampling

import "github.com/hareeshnagaraj/poiseed/internal/domain/model"

// spiral walk directions, in rotation order: east, north, west, south.
var spiralDirections = [4][2]float64{
	{0, 1},  // east
	{1, 0},  // north
	{0, -1}, // west
	{-1, 0}, // south
}

// SpiralWalker walks an expanding square spiral outward from a start
// coordinate. Next never restarts: each call advances one step of StepMeters
// along the current leg, rotating direction when the leg completes. Leg
// length grows by one step after every two completed legs, which is what
// makes the spiral square.
//
// The meters-to-degrees conversion is recomputed at the walker's current
// latitude on every step, so the spiral compresses longitudinally as it
// moves away from the equator.
type SpiralWalker struct {
	current    model.Coordinate
	stepMeters float64

	started    bool
	direction  int
	legLength  int
	stepsInLeg int
	legsDone   int
}

// NewSpiralWalker creates a walker anchored at start.
func NewSpiralWalker(start model.Coordinate, stepMeters float64) *SpiralWalker {
	return &SpiralWalker{
		current:    start,
		stepMeters: stepMeters,
		legLength:  1,
	}
}

// Next returns the next coordinate on the spiral. The first call returns the
// start coordinate unchanged.
func (w *SpiralWalker) Next() model.Coordinate {
	if !w.started {
		w.started = true
		return w.current
	}

	dir := spiralDirections[w.direction]
	dLat, dLon := offsetDegrees(dir[0]*w.stepMeters, dir[1]*w.stepMeters, w.current.Latitude)
	w.current.Latitude += dLat
	w.current.Longitude += dLon

	w.stepsInLeg++
	if w.stepsInLeg >= w.legLength {
		w.stepsInLeg = 0
		w.direction = (w.direction + 1) % 4
		w.legsDone++
		if w.legsDone >= 2 {
			w.legsDone = 0
			w.legLength++
		}
	}

	return w.current
}
