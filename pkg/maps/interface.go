package maps

import "context"

// RouteProvider computes drivable routes for ambulance dispatch. Providers
// return the full path geometry; downsampling for storage happens upstream.
type RouteProvider interface {
	GetRoute(ctx context.Context, origin, destination Location) (*RouteResult, error)
	ReverseGeocode(ctx context.Context, lat, lng float64) (string, error)
}

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type RouteResult struct {
	Points          []Location `json:"points"`
	DistanceMeters  float64    `json:"distance_meters"`
	DurationSeconds int        `json:"duration_seconds"`
	Summary         string     `json:"summary,omitempty"`
}
