package utils

import (
	"math"
	"testing"
)

func TestCalculateDistance(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lng1, lat2, lng2 float64
		wantKM                 float64
		tolerance              float64
	}{
		{"same point", 12.9716, 77.5946, 12.9716, 77.5946, 0, 0.001},
		{"bangalore to chennai", 12.9716, 77.5946, 13.0827, 80.2707, 290, 5},
		{"one degree of latitude", 0, 0, 1, 0, 111.19, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateDistance(tt.lat1, tt.lng1, tt.lat2, tt.lng2)
			if math.Abs(got-tt.wantKM) > tt.tolerance {
				t.Errorf("CalculateDistance() = %f km, want %f +- %f", got, tt.wantKM, tt.tolerance)
			}
		})
	}
}

func TestFormatDistance(t *testing.T) {
	tests := []struct {
		meters float64
		want   string
	}{
		{0, "0 m"},
		{850, "850 m"},
		{999, "999 m"},
		{1000, "1.0 km"},
		{2450, "2.5 km"},
	}

	for _, tt := range tests {
		if got := FormatDistance(tt.meters); got != tt.want {
			t.Errorf("FormatDistance(%f) = %q, want %q", tt.meters, got, tt.want)
		}
	}
}

func TestIsValidCoordinates(t *testing.T) {
	valid := [][2]float64{{0, 0}, {90, 180}, {-90, -180}, {12.9716, 77.5946}}
	for _, c := range valid {
		if !IsValidCoordinates(c[0], c[1]) {
			t.Errorf("IsValidCoordinates(%f, %f) = false, want true", c[0], c[1])
		}
	}
	invalid := [][2]float64{{91, 0}, {-91, 0}, {0, 181}, {0, -181}}
	for _, c := range invalid {
		if IsValidCoordinates(c[0], c[1]) {
			t.Errorf("IsValidCoordinates(%f, %f) = true, want false", c[0], c[1])
		}
	}
}

func TestPhoneHelpers(t *testing.T) {
	t.Run("valid numbers", func(t *testing.T) {
		for _, phone := range []string{"+919812345678", "+1 (415) 555-0172", "919812345678"} {
			if !IsValidPhone(phone) {
				t.Errorf("IsValidPhone(%q) = false, want true", phone)
			}
		}
	})

	t.Run("invalid numbers", func(t *testing.T) {
		for _, phone := range []string{"", "abc", "+0123", "1"} {
			if IsValidPhone(phone) {
				t.Errorf("IsValidPhone(%q) = true, want false", phone)
			}
		}
	})

	t.Run("normalize", func(t *testing.T) {
		if got := NormalizePhone("+91 98123-45678"); got != "+919812345678" {
			t.Errorf("NormalizePhone() = %q", got)
		}
		if got := NormalizePhone("919812345678"); got != "+919812345678" {
			t.Errorf("NormalizePhone() = %q", got)
		}
	})

	t.Run("mask", func(t *testing.T) {
		if got := MaskPhone("+919812345678"); got != "*********5678" {
			t.Errorf("MaskPhone() = %q", got)
		}
		if got := MaskPhone("911"); got != "911" {
			t.Errorf("MaskPhone() on short input = %q", got)
		}
	})
}
