package services

import (
	"context"

	"lifeline/internal/models"
	"lifeline/internal/repositories/interfaces"
	"lifeline/internal/utils"
	"lifeline/pkg/logger"
)

// HospitalService answers "where can this ambulance take the patient" queries.
type HospitalService interface {
	GetNearby(ctx context.Context, lat, lng, radiusKM float64, limit int) ([]*models.NearbyHospital, error)
	Register(ctx context.Context, hospital *models.Hospital) error
}

type hospitalService struct {
	hospitalRepo interfaces.HospitalRepository
	logger       *logger.Logger
}

func NewHospitalService(hospitalRepo interfaces.HospitalRepository, log *logger.Logger) HospitalService {
	return &hospitalService{
		hospitalRepo: hospitalRepo,
		logger:       log,
	}
}

func (s *hospitalService) GetNearby(ctx context.Context, lat, lng, radiusKM float64, limit int) ([]*models.NearbyHospital, error) {
	if !utils.IsValidCoordinates(lat, lng) {
		return nil, validationError("coordinates out of range")
	}
	if radiusKM <= 0 {
		radiusKM = utils.DefaultNearbyRadiusKM
	}
	if limit <= 0 || limit > utils.MaxPageSize {
		limit = utils.DefaultNearbyHospitalLimit
	}

	return s.hospitalRepo.GetNearby(ctx, lat, lng, radiusKM, limit)
}

func (s *hospitalService) Register(ctx context.Context, hospital *models.Hospital) error {
	if hospital.Name == "" {
		return validationError("hospital name is required")
	}
	if !utils.IsValidCoordinates(hospital.Location.Latitude(), hospital.Location.Longitude()) {
		return validationError("coordinates out of range")
	}

	if err := s.hospitalRepo.Create(ctx, hospital); err != nil {
		return err
	}

	s.logger.Infof("hospital registered: %s", hospital.Name)
	return nil
}
