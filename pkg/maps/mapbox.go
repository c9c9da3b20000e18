package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type MapboxProvider struct {
	accessToken string
	httpClient  *http.Client
	baseURL     string
}

func NewMapboxProvider(accessToken string) *MapboxProvider {
	return &MapboxProvider{
		accessToken: accessToken,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		baseURL:     "https://api.mapbox.com",
	}
}

func (m *MapboxProvider) GetRoute(ctx context.Context, origin, destination Location) (*RouteResult, error) {
	// geometries=geojson returns raw coordinates, no polyline decoding needed
	apiURL := fmt.Sprintf("%s/directions/v5/mapbox/driving/%f,%f;%f,%f?access_token=%s&overview=full&geometries=geojson",
		m.baseURL,
		origin.Longitude, origin.Latitude,
		destination.Longitude, destination.Latitude,
		m.accessToken)

	body, err := m.get(ctx, apiURL)
	if err != nil {
		return nil, err
	}

	var mapboxResp struct {
		Routes []struct {
			Distance float64 `json:"distance"`
			Duration float64 `json:"duration"`
			Geometry struct {
				Coordinates [][]float64 `json:"coordinates"`
			} `json:"geometry"`
		} `json:"routes"`
	}
	if err := json.Unmarshal(body, &mapboxResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(mapboxResp.Routes) == 0 {
		return nil, fmt.Errorf("no route found")
	}

	route := mapboxResp.Routes[0]
	points := make([]Location, 0, len(route.Geometry.Coordinates))
	for _, coord := range route.Geometry.Coordinates {
		if len(coord) < 2 {
			continue
		}
		points = append(points, Location{Latitude: coord[1], Longitude: coord[0]})
	}

	return &RouteResult{
		Points:          points,
		DistanceMeters:  route.Distance,
		DurationSeconds: int(route.Duration),
	}, nil
}

func (m *MapboxProvider) ReverseGeocode(ctx context.Context, lat, lng float64) (string, error) {
	apiURL := fmt.Sprintf("%s/geocoding/v5/mapbox.places/%f,%f.json?access_token=%s",
		m.baseURL, lng, lat, m.accessToken)

	body, err := m.get(ctx, apiURL)
	if err != nil {
		return "", err
	}

	var mapboxResp struct {
		Features []struct {
			PlaceName string `json:"place_name"`
		} `json:"features"`
	}
	if err := json.Unmarshal(body, &mapboxResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(mapboxResp.Features) == 0 {
		return "", fmt.Errorf("no address found")
	}

	return mapboxResp.Features[0].PlaceName, nil
}

func (m *MapboxProvider) get(ctx context.Context, apiURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Mapbox API error: %s", string(body))
	}

	return body, nil
}
