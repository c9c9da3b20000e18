package interfaces

import (
	"context"

	"lifeline/internal/models"
)

type HospitalRepository interface {
	Create(ctx context.Context, hospital *models.Hospital) error

	// GetNearby returns hospitals within radiusKM of the point, closest
	// first.
	GetNearby(ctx context.Context, lat, lng, radiusKM float64, limit int) ([]*models.NearbyHospital, error)
}
