package services

import (
	"context"

	"lifeline/internal/models"
	"lifeline/internal/repositories/interfaces"
	"lifeline/internal/utils"
	"lifeline/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProfileService manages the user's emergency profile and sharing
// preferences. Preferences can only toggle fields inside the closed
// disclosure whitelist; there is structurally no way to widen past it.
type ProfileService interface {
	GetProfile(ctx context.Context, userID primitive.ObjectID) (*models.EmergencyProfile, error)
	UpdateProfile(ctx context.Context, userID primitive.ObjectID, update *models.EmergencyProfileUpdate) (*models.EmergencyProfile, error)
}

type profileService struct {
	profileRepo interfaces.ProfileRepository
	audit       AuditService
	logger      *logger.Logger
}

func NewProfileService(profileRepo interfaces.ProfileRepository, audit AuditService, log *logger.Logger) ProfileService {
	return &profileService{
		profileRepo: profileRepo,
		audit:       audit,
		logger:      log,
	}
}

// GetProfile returns the user's profile, creating one with default sharing
// preferences on first access.
func (s *profileService) GetProfile(ctx context.Context, userID primitive.ObjectID) (*models.EmergencyProfile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err == nil && profile != nil {
		return profile, nil
	}

	profile = models.NewEmergencyProfile(userID)
	if err := s.profileRepo.Upsert(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *profileService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, update *models.EmergencyProfileUpdate) (*models.EmergencyProfile, error) {
	for _, contact := range update.EmergencyContacts {
		if contact.Phone != "" && !utils.IsValidPhone(contact.Phone) {
			return nil, validationError("invalid phone number for contact %q", contact.Name)
		}
	}
	if update.Age != nil && (*update.Age < 0 || *update.Age > 150) {
		return nil, validationError("age out of range")
	}

	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		profile.Name = *update.Name
	}
	if update.Age != nil {
		profile.Age = *update.Age
	}
	if update.BloodGroup != nil {
		profile.BloodGroup = *update.BloodGroup
	}
	if update.Allergies != nil {
		profile.Allergies = update.Allergies
	}
	if update.ChronicConditions != nil {
		profile.ChronicConditions = update.ChronicConditions
	}
	if update.CurrentMedications != nil {
		profile.CurrentMedications = update.CurrentMedications
	}
	if update.EmergencyContacts != nil {
		profile.EmergencyContacts = update.EmergencyContacts
	}
	if update.OrganDonor != nil {
		profile.OrganDonor = update.OrganDonor
	}
	if update.InsuranceProvider != nil {
		profile.InsuranceProvider = *update.InsuranceProvider
	}
	if update.InsuranceID != nil {
		profile.InsuranceID = *update.InsuranceID
	}
	if update.Sharing != nil {
		profile.Sharing = *update.Sharing
	}
	if update.AutoNotifyContacts != nil {
		profile.AutoNotifyContacts = *update.AutoNotifyContacts
	}
	if update.DeviceToken != nil {
		profile.DeviceToken = *update.DeviceToken
	}

	if err := s.profileRepo.Upsert(ctx, profile); err != nil {
		return nil, err
	}

	if s.audit != nil {
		s.audit.LogProfileUpdate(ctx, userID)
	}

	return profile, nil
}
