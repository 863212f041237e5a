// Package geocode resolves free-text locale names to coordinates and
// bounding boxes via the Google Geocoding API.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/hareeshnagaraj/poiseed/internal/domain/model"
)

// Geocoder resolves a locale name. Bounds is nil when the provider returned
// no viewport; grid mode treats that as a fatal configuration error.
type Geocoder interface {
	Geocode(ctx context.Context, locale string) (*model.GeocodeResult, error)
}

// GoogleGeocoder calls the Geocoding API.
type GoogleGeocoder struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewGoogleGeocoder creates a geocoder client.
func NewGoogleGeocoder(apiKey string) *GoogleGeocoder {
	return &GoogleGeocoder{
		apiKey:     apiKey,
		baseURL:    "https://maps.googleapis.com/maps/api/geocode/json",
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location latLng `json:"location"`
			Viewport *struct {
				Northeast latLng `json:"northeast"`
				Southwest latLng `json:"southwest"`
			} `json:"viewport"`
		} `json:"geometry"`
	} `json:"results"`
}

type latLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Geocode resolves the locale to its center, viewport, and formatted name.
func (g *GoogleGeocoder) Geocode(ctx context.Context, locale string) (*model.GeocodeResult, error) {
	params := url.Values{}
	params.Set("address", locale)
	params.Set("key", g.apiKey)

	req, err := http.NewRequestWithContext(ctx, "GET", g.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create geocode request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoder returned HTTP status: %s", resp.Status)
	}

	var apiResp geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to parse geocode response: %w", err)
	}

	if apiResp.Status != "OK" || len(apiResp.Results) == 0 {
		return nil, fmt.Errorf("geocoder found no results for %q (status %s)", locale, apiResp.Status)
	}

	first := apiResp.Results[0]
	result := &model.GeocodeResult{
		Center: model.Coordinate{
			Latitude:  first.Geometry.Location.Lat,
			Longitude: first.Geometry.Location.Lng,
		},
		FormattedName: first.FormattedAddress,
	}
	if vp := first.Geometry.Viewport; vp != nil {
		result.Bounds = &model.BoundingBox{
			SouthWest: model.Coordinate{Latitude: vp.Southwest.Lat, Longitude: vp.Southwest.Lng},
			NorthEast: model.Coordinate{Latitude: vp.Northeast.Lat, Longitude: vp.Northeast.Lng},
		}
	}
	return result, nil
}
