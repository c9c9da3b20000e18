package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Hospital struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name         string             `json:"name" bson:"name" validate:"required"`
	Location     Location           `json:"location" bson:"location" validate:"required"`
	Phone        string             `json:"phone" bson:"phone"`
	TraumaCenter bool               `json:"trauma_center" bson:"trauma_center"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updated_at"`
}

// NearbyHospital is a hospital plus its distance from a query point.
type NearbyHospital struct {
	Hospital   `bson:",inline"`
	DistanceKM float64 `json:"distance_km" bson:"distance_km"`
}
