package model

import "fmt"

// RawPlace is one result row from the places gateway, before classification.
type RawPlace struct {
	ExternalID string     `json:"external_id,omitempty"` // provider place ID, may be empty
	Name       string     `json:"name"`
	Tags       []string   `json:"tags"` // provider type strings
	Vicinity   string     `json:"vicinity,omitempty"`
	Rating     *float64   `json:"rating,omitempty"`
	PriceLevel *int       `json:"price_level,omitempty"`
	Location   Coordinate `json:"location"`
}

// HasTag reports whether the place carries the given provider tag.
func (p *RawPlace) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// ClassifiedPlace is a validated, categorized POI record produced by the pipeline.
type ClassifiedPlace struct {
	ExternalID  string               `json:"external_id,omitempty"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Location    Coordinate           `json:"location"`
	Category    Category             `json:"category"`
	Confidence  float64              `json:"confidence"` // [0,1]
	Reasoning   string               `json:"reasoning"`
	Method      ClassificationMethod `json:"method"`
	Rating      *float64             `json:"rating,omitempty"`
	PriceLevel  *int                 `json:"price_level,omitempty"`
}

// IngestPayload is one row sent to the storage service.
type IngestPayload struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Category    string  `json:"category"`
	Active      bool    `json:"active"`
}

// Validate checks the payload shape before it is buffered for ingestion.
func (p *IngestPayload) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("payload name is empty")
	}
	if p.Latitude < -90 || p.Latitude > 90 {
		return fmt.Errorf("latitude %f out of range", p.Latitude)
	}
	if p.Longitude < -180 || p.Longitude > 180 {
		return fmt.Errorf("longitude %f out of range", p.Longitude)
	}
	if p.Category == "" {
		return fmt.Errorf("payload category is empty")
	}
	return nil
}

// PayloadFromPlace maps a classified place to its storage representation.
func PayloadFromPlace(place *ClassifiedPlace) IngestPayload {
	return IngestPayload{
		Name:        place.Name,
		Description: place.Description,
		Latitude:    place.Location.Latitude,
		Longitude:   place.Location.Longitude,
		Category:    string(place.Category),
		Active:      true,
	}
}
