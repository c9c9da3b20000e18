package models

import (
	"time"
)

// LatLng is a single coordinate pair. Route polylines and live ambulance
// positions are expressed as ordered sequences of these.
type LatLng struct {
	Lat float64 `json:"lat" bson:"lat"`
	Lng float64 `json:"lng" bson:"lng"`
}

type Location struct {
	Type        string    `json:"type" bson:"type" default:"Point"`
	Coordinates []float64 `json:"coordinates" bson:"coordinates" validate:"required,len=2"`
	Address     string    `json:"address" bson:"address"`
	City        string    `json:"city" bson:"city"`
	Country     string    `json:"country" bson:"country"`
	Timestamp   time.Time `json:"timestamp" bson:"timestamp"`
}

// NewLocation builds a GeoJSON point from a lat/lng pair. Mongo stores
// coordinates as [lng, lat].
func NewLocation(lat, lng float64) Location {
	return Location{
		Type:        "Point",
		Coordinates: []float64{lng, lat},
		Timestamp:   time.Now(),
	}
}

func (l Location) Latitude() float64 {
	if len(l.Coordinates) >= 2 {
		return l.Coordinates[1]
	}
	return 0
}

func (l Location) Longitude() float64 {
	if len(l.Coordinates) >= 1 {
		return l.Coordinates[0]
	}
	return 0
}

func (l Location) LatLng() LatLng {
	return LatLng{Lat: l.Latitude(), Lng: l.Longitude()}
}
