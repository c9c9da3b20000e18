package services

import (
	"testing"

	"lifeline/internal/models"
	"lifeline/internal/utils"
)

func makeRoute(n int) []models.LatLng {
	points := make([]models.LatLng, n)
	for i := range points {
		points[i] = models.LatLng{Lat: float64(i) * 0.001, Lng: float64(i) * 0.001}
	}
	return points
}

func TestDownsampleRoute(t *testing.T) {
	t.Run("short route passes through untouched", func(t *testing.T) {
		route := makeRoute(300)
		got := DownsampleRoute(route, utils.MaxRoutePoints)
		if len(got) != 300 {
			t.Errorf("got %d points, want 300", len(got))
		}
	})

	t.Run("empty route", func(t *testing.T) {
		got := DownsampleRoute(nil, utils.MaxRoutePoints)
		if len(got) != 0 {
			t.Errorf("got %d points, want 0", len(got))
		}
	})

	t.Run("long route keeps endpoints", func(t *testing.T) {
		route := makeRoute(1000)
		got := DownsampleRoute(route, utils.MaxRoutePoints)
		if len(got) > utils.MaxRoutePoints+1 {
			t.Errorf("got %d points, want at most %d", len(got), utils.MaxRoutePoints+1)
		}
		if got[0] != route[0] {
			t.Error("first point must survive downsampling")
		}
		if got[len(got)-1] != route[len(route)-1] {
			t.Error("final point must survive downsampling")
		}
	})

	t.Run("route just over the limit", func(t *testing.T) {
		route := makeRoute(301)
		got := DownsampleRoute(route, utils.MaxRoutePoints)
		if len(got) > utils.MaxRoutePoints+1 {
			t.Errorf("got %d points, want at most %d", len(got), utils.MaxRoutePoints+1)
		}
		if got[len(got)-1] != route[300] {
			t.Error("destination dropped")
		}
	})
}

func TestSplitRoute(t *testing.T) {
	route := makeRoute(10)

	t.Run("boundary point is shared", func(t *testing.T) {
		traveled, remaining := SplitRoute(route, 4)
		if len(traveled) != 5 {
			t.Errorf("traveled has %d points, want 5", len(traveled))
		}
		if len(remaining) != 6 {
			t.Errorf("remaining has %d points, want 6", len(remaining))
		}
		if traveled[len(traveled)-1] != remaining[0] {
			t.Error("segments must share the boundary point")
		}
	})

	t.Run("progress zero", func(t *testing.T) {
		traveled, remaining := SplitRoute(route, 0)
		if len(traveled) != 1 || len(remaining) != 10 {
			t.Errorf("got traveled=%d remaining=%d, want 1 and 10", len(traveled), len(remaining))
		}
	})

	t.Run("progress at destination", func(t *testing.T) {
		traveled, remaining := SplitRoute(route, 9)
		if len(traveled) != 10 || len(remaining) != 1 {
			t.Errorf("got traveled=%d remaining=%d, want 10 and 1", len(traveled), len(remaining))
		}
	})

	t.Run("progress past the end clamps", func(t *testing.T) {
		traveled, remaining := SplitRoute(route, 50)
		if len(traveled) != 10 || len(remaining) != 1 {
			t.Errorf("got traveled=%d remaining=%d, want 10 and 1", len(traveled), len(remaining))
		}
	})

	t.Run("negative progress clamps to start", func(t *testing.T) {
		traveled, remaining := SplitRoute(route, -3)
		if len(traveled) != 1 || len(remaining) != 10 {
			t.Errorf("got traveled=%d remaining=%d, want 1 and 10", len(traveled), len(remaining))
		}
	})

	t.Run("empty route", func(t *testing.T) {
		traveled, remaining := SplitRoute(nil, 0)
		if traveled != nil || remaining != nil {
			t.Error("empty route should split into nothing")
		}
	})
}

func TestEstimateArrival(t *testing.T) {
	tests := []struct {
		name        string
		routeLen    int
		progress    int
		wantMinutes int
		wantDisplay string
	}{
		{"no route yet", 0, 0, 0, utils.ETADefaultBand},
		{"arrived", 60, 60, 0, "less than 1 minute"},
		{"under a minute out", 60, 45, 1, "1 minute"},
		{"one minute out", 60, 30, 1, "1 minute"},
		{"three minutes out", 120, 30, 3, "3 minutes"},
		{"four minutes out", 120, 0, 4, "4 minutes"},
		{"far out collapses to a band", 300, 0, 10, utils.ETADefaultBand},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := &models.SOSEvent{
				RoutePoints:   makeRoute(tt.routeLen),
				RouteProgress: tt.progress,
			}
			got := EstimateArrival(event)
			if got.Minutes != tt.wantMinutes {
				t.Errorf("Minutes = %d, want %d", got.Minutes, tt.wantMinutes)
			}
			if got.Display != tt.wantDisplay {
				t.Errorf("Display = %q, want %q", got.Display, tt.wantDisplay)
			}
		})
	}

	t.Run("distance from ambulance position", func(t *testing.T) {
		event := &models.SOSEvent{
			Location:          models.NewLocation(12.9716, 77.5946),
			RoutePoints:       makeRoute(30),
			RouteProgress:     0,
			AmbulancePosition: &models.LatLng{Lat: 12.9716, Lng: 77.5946},
		}
		got := EstimateArrival(event)
		if got.DistanceMeters != 0 {
			t.Errorf("DistanceMeters = %f, want 0 for identical points", got.DistanceMeters)
		}
		if got.DistanceDisplay != "0 m" {
			t.Errorf("DistanceDisplay = %q, want %q", got.DistanceDisplay, "0 m")
		}
	})
}
