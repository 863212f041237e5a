// Package places implements the places-search gateway over the Google Places
// Nearby Search API.
package places

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/hareeshnagaraj/poiseed/internal/domain/model"
)

// Provider is the places-search gateway: all nearby results for one
// coordinate and radius, across every page.
type Provider interface {
	NearbySearch(ctx context.Context, center model.Coordinate, radiusMeters int) ([]model.RawPlace, error)
}

// GooglePlacesProvider calls the Nearby Search API with pagination. The
// provider's next-page token is not valid immediately; the client must wait
// out the activation delay before requesting the next page.
type GooglePlacesProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client

	pageTokenDelay time.Duration
	maxPages       int
}

// NewGooglePlacesProvider creates a provider with the documented 2s token
// activation wait and the API's 3-page maximum.
func NewGooglePlacesProvider(apiKey string) *GooglePlacesProvider {
	return &GooglePlacesProvider{
		apiKey:         apiKey,
		baseURL:        "https://maps.googleapis.com/maps/api/place/nearbysearch/json",
		httpClient:     &http.Client{Timeout: 10 * time.Second},
		pageTokenDelay: 2 * time.Second,
		maxPages:       3,
	}
}

type nearbySearchResponse struct {
	Status        string        `json:"status"`
	ErrorMessage  string        `json:"error_message"`
	Results       []placeResult `json:"results"`
	NextPageToken string        `json:"next_page_token"`
}

type placeResult struct {
	PlaceID    string   `json:"place_id"`
	Name       string   `json:"name"`
	Types      []string `json:"types"`
	Vicinity   string   `json:"vicinity"`
	Rating     *float64 `json:"rating"`
	PriceLevel *int     `json:"price_level"`
	Geometry   struct {
		Location struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"location"`
	} `json:"geometry"`
}

// NearbySearch fetches every result page for the coordinate. ZERO_RESULTS is
// an empty result set, not an error; any other non-OK status fails the query.
func (g *GooglePlacesProvider) NearbySearch(ctx context.Context, center model.Coordinate, radiusMeters int) ([]model.RawPlace, error) {
	var all []model.RawPlace
	pageToken := ""

	for page := 0; page < g.maxPages; page++ {
		if pageToken != "" {
			// Mandatory wait: the token only activates after a short delay.
			time.Sleep(g.pageTokenDelay)
		}

		resp, err := g.fetchPage(ctx, center, radiusMeters, pageToken)
		if err != nil {
			return nil, err
		}

		switch resp.Status {
		case "OK":
		case "ZERO_RESULTS":
			return all, nil
		default:
			return nil, fmt.Errorf("places gateway returned status %s: %s", resp.Status, resp.ErrorMessage)
		}

		for _, r := range resp.Results {
			all = append(all, model.RawPlace{
				ExternalID: r.PlaceID,
				Name:       r.Name,
				Tags:       r.Types,
				Vicinity:   r.Vicinity,
				Rating:     r.Rating,
				PriceLevel: r.PriceLevel,
				Location: model.Coordinate{
					Latitude:  r.Geometry.Location.Lat,
					Longitude: r.Geometry.Location.Lng,
				},
			})
		}

		if resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}

	return all, nil
}

func (g *GooglePlacesProvider) fetchPage(ctx context.Context, center model.Coordinate, radiusMeters int, pageToken string) (*nearbySearchResponse, error) {
	params := url.Values{}
	params.Set("key", g.apiKey)
	if pageToken != "" {
		params.Set("pagetoken", pageToken)
	} else {
		params.Set("location", fmt.Sprintf("%f,%f", center.Latitude, center.Longitude))
		params.Set("radius", fmt.Sprintf("%d", radiusMeters))
	}

	req, err := http.NewRequestWithContext(ctx, "GET", g.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create nearby search request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nearby search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nearby search returned HTTP status: %s", resp.Status)
	}

	var apiResp nearbySearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to parse nearby search response: %w", err)
	}
	return &apiResp, nil
}
