package model

// Coordinate is a latitude/longitude pair in degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude" validate:"required,min=-90,max=90"`
	Longitude float64 `json:"longitude" validate:"required,min=-180,max=180"`
}

// Valid reports whether the coordinate lies in the valid lat/lon ranges.
func (c Coordinate) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

// BoundingBox is a rectangular geographic area.
type BoundingBox struct {
	SouthWest Coordinate `json:"southwest"`
	NorthEast Coordinate `json:"northeast"`
}

// Contains reports whether the coordinate falls inside the box (inclusive).
func (b BoundingBox) Contains(c Coordinate) bool {
	return c.Latitude >= b.SouthWest.Latitude && c.Latitude <= b.NorthEast.Latitude &&
		c.Longitude >= b.SouthWest.Longitude && c.Longitude <= b.NorthEast.Longitude
}

// Center returns the centroid of the box.
func (b BoundingBox) Center() Coordinate {
	return Coordinate{
		Latitude:  (b.SouthWest.Latitude + b.NorthEast.Latitude) / 2,
		Longitude: (b.SouthWest.Longitude + b.NorthEast.Longitude) / 2,
	}
}

// QueryPoint is a single sampling target. Higher priority points are queried first.
type QueryPoint struct {
	Location Coordinate
	Priority float64
}

// GeocodeResult is what the geocoder returns for a free-text locale name.
// Bounds is nil when the provider returned no viewport.
type GeocodeResult struct {
	Center        Coordinate
	Bounds        *BoundingBox
	FormattedName string
}
