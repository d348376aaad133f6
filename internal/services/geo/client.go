// Package geo proxies OpenStreetMap services: Nominatim for geocoding and
// Overpass for nearby-place search. Responses are trimmed to the fields the
// places and commute bots actually use.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	defaultNominatimURL = "https://nominatim.openstreetmap.org"
	defaultOverpassURL  = "https://overpass-api.de/api/interpreter"

	// DefaultSearchRadius is the nearby-search radius in meters.
	DefaultSearchRadius = 5000
)

// Client talks to Nominatim and Overpass.
type Client struct {
	httpClient   *http.Client
	nominatimURL string
	overpassURL  string
	logger       *zap.Logger
}

// NewClient creates a geo client with production endpoints.
func NewClient(logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		httpClient:   &http.Client{Timeout: 25 * time.Second},
		nominatimURL: defaultNominatimURL,
		overpassURL:  defaultOverpassURL,
		logger:       logger,
	}
}

// NewClientWithEndpoints creates a geo client against custom endpoints,
// used by tests.
func NewClientWithEndpoints(nominatimURL, overpassURL string, logger *zap.Logger) *Client {
	c := NewClient(logger)
	c.nominatimURL = strings.TrimRight(nominatimURL, "/")
	c.overpassURL = overpassURL
	return c
}

// Location is a geocoding result.
type Location struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address"`
}

// Address is a reverse-geocoding result.
type Address struct {
	Address string            `json:"address"`
	Details map[string]string `json:"details,omitempty"`
}

// Place is one element from an Overpass nearby search.
type Place struct {
	ID   int64             `json:"id"`
	Type string            `json:"type"`
	Lat  float64           `json:"lat"`
	Lng  float64           `json:"lng"`
	Tags map[string]string `json:"tags,omitempty"`
}

// Geocode resolves a free-form address to coordinates. Returns nil when
// Nominatim has no match.
func (c *Client) Geocode(ctx context.Context, address string) (*Location, error) {
	endpoint := fmt.Sprintf("%s/search?format=json&q=%s&limit=1",
		c.nominatimURL, url.QueryEscape(address))

	var results []struct {
		Lat         string `json:"lat"`
		Lon         string `json:"lon"`
		DisplayName string `json:"display_name"`
	}
	if err := c.getJSON(ctx, endpoint, &results); err != nil {
		return nil, fmt.Errorf("geocoding failed: %w", err)
	}
	if len(results) == 0 {
		return nil, nil
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude in geocoding response: %w", err)
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude in geocoding response: %w", err)
	}

	return &Location{Lat: lat, Lng: lng, Address: results[0].DisplayName}, nil
}

// ReverseGeocode resolves coordinates to an address.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lng float64) (*Address, error) {
	endpoint := fmt.Sprintf("%s/reverse?format=json&lat=%f&lon=%f&zoom=18&addressdetails=1",
		c.nominatimURL, lat, lng)

	var result struct {
		DisplayName string            `json:"display_name"`
		Address     map[string]string `json:"address"`
	}
	if err := c.getJSON(ctx, endpoint, &result); err != nil {
		return nil, fmt.Errorf("reverse geocoding failed: %w", err)
	}

	return &Address{Address: result.DisplayName, Details: result.Address}, nil
}

// SearchNearby finds amenities of the given kind around a point using an
// Overpass around-query over nodes, ways, and relations.
func (c *Client) SearchNearby(ctx context.Context, lat, lng float64, amenity string, radius int) ([]Place, error) {
	if radius <= 0 {
		radius = DefaultSearchRadius
	}

	query := fmt.Sprintf(`[out:json][timeout:25];
(
  node["amenity"=%q](around:%d,%f,%f);
  way["amenity"=%q](around:%d,%f,%f);
  relation["amenity"=%q](around:%d,%f,%f);
);
out center;`,
		amenity, radius, lat, lng,
		amenity, radius, lat, lng,
		amenity, radius, lat, lng)

	body := "data=" + url.QueryEscape(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.overpassURL, strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("overpass request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("overpass returned status %d", resp.StatusCode)
	}

	var payload struct {
		Elements []struct {
			ID     int64             `json:"id"`
			Type   string            `json:"type"`
			Lat    float64           `json:"lat"`
			Lon    float64           `json:"lon"`
			Center *struct {
				Lat float64 `json:"lat"`
				Lon float64 `json:"lon"`
			} `json:"center"`
			Tags map[string]string `json:"tags"`
		} `json:"elements"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode overpass response: %w", err)
	}

	places := make([]Place, 0, len(payload.Elements))
	for _, el := range payload.Elements {
		p := Place{ID: el.ID, Type: el.Type, Lat: el.Lat, Lng: el.Lon, Tags: el.Tags}
		// Ways and relations carry coordinates on their center.
		if el.Center != nil {
			p.Lat = el.Center.Lat
			p.Lng = el.Center.Lon
		}
		places = append(places, p)
	}

	return places, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "assistant-api/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("endpoint returned status %d: %s", resp.StatusCode, string(body))
	}

	return json.NewDecoder(resp.Body).Decode(dst)
}
