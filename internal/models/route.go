package models

// RouteRender is the rendering-ready split of an event's polyline. Traveled
// and remaining overlap by exactly one point so the two segments draw as a
// continuous line.
type RouteRender struct {
	Traveled  []LatLng `json:"traveled"`
	Remaining []LatLng `json:"remaining"`
}

// ETAEstimate is derived on demand from route progress and positions; it is
// never persisted.
type ETAEstimate struct {
	Minutes         int     `json:"minutes"`
	Display         string  `json:"display"`
	DistanceMeters  float64 `json:"distance_meters"`
	DistanceDisplay string  `json:"distance_display"`
	RemainingPoints int     `json:"remaining_points"`
}
