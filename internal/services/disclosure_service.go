package services

import (
	"context"
	"time"

	"lifeline/internal/models"
	"lifeline/internal/repositories/interfaces"
	"lifeline/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DisclosureService decides, per read, exactly which profile fields a
// responder may see for a given SOS event. The grant is re-checked on every
// call; expiry and revocation are enforced here, not by a background job.
type DisclosureService interface {
	GetDisclosure(ctx context.Context, eventID primitive.ObjectID, requestedBy string) (*models.EmergencyData, error)
}

type disclosureService struct {
	sosRepo     interfaces.SOSRepository
	grantRepo   interfaces.GrantRepository
	profileRepo interfaces.ProfileRepository
	audit       AuditService
	logger      *logger.Logger
}

func NewDisclosureService(
	sosRepo interfaces.SOSRepository,
	grantRepo interfaces.GrantRepository,
	profileRepo interfaces.ProfileRepository,
	audit AuditService,
	log *logger.Logger,
) DisclosureService {
	return &disclosureService{
		sosRepo:     sosRepo,
		grantRepo:   grantRepo,
		profileRepo: profileRepo,
		audit:       audit,
		logger:      log,
	}
}

func (s *disclosureService) GetDisclosure(ctx context.Context, eventID primitive.ObjectID, requestedBy string) (*models.EmergencyData, error) {
	event, err := s.sosRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	grant, err := s.grantRepo.GetByEventID(ctx, eventID)
	if err != nil || grant == nil {
		s.logDenied(ctx, event, requestedBy, "no disclosure grant for event")
		return nil, ErrAccessDenied
	}
	if !grant.Readable(time.Now()) {
		reason := "grant expired"
		if grant.Revoked {
			reason = "grant revoked"
		}
		s.logDenied(ctx, event, requestedBy, reason)
		return nil, ErrAccessDenied
	}

	data := &models.EmergencyData{
		UserID:        event.UserID,
		Latitude:      event.Location.Latitude(),
		Longitude:     event.Location.Longitude(),
		EmergencyType: event.EmergencyType,
		Status:        event.Status,
		GrantID:       grant.ID,
		ExpiresAt:     grant.ExpiresAt,
	}

	// Populate only what the grant allows. Allows() rejects anything outside
	// the closed whitelist even if a stored grant was tampered with, so
	// restricted categories can never leak through here.
	profile, err := s.profileRepo.GetByUserID(ctx, event.UserID)
	if err == nil && profile != nil {
		if grant.Allows(models.FieldName) {
			data.Name = profile.Name
		}
		if grant.Allows(models.FieldAge) {
			data.Age = profile.Age
		}
		if grant.Allows(models.FieldBloodGroup) {
			data.BloodGroup = profile.BloodGroup
		}
		if grant.Allows(models.FieldAllergies) {
			data.Allergies = profile.Allergies
		}
		if grant.Allows(models.FieldChronicConditions) {
			data.ChronicConditions = profile.ChronicConditions
		}
		if grant.Allows(models.FieldCurrentMedications) {
			data.CurrentMedications = profile.CurrentMedications
		}
		if grant.Allows(models.FieldEmergencyContacts) {
			data.EmergencyContacts = profile.EmergencyContacts
		}
		if grant.Allows(models.FieldOrganDonorStatus) {
			data.OrganDonor = profile.OrganDonor
		}
	}

	if s.audit != nil {
		s.audit.LogEmergencyAccess(ctx, event.UserID, event.ID.Hex(), requestedBy,
			"responder read emergency data")
	}

	return data, nil
}

func (s *disclosureService) logDenied(ctx context.Context, event *models.SOSEvent, requestedBy, reason string) {
	s.logger.WithEventID(event.ID).
		Warnf("disclosure denied for %s: %s", requestedBy, reason)
	if s.audit != nil {
		s.audit.LogAccessDenied(ctx, event.UserID, event.ID.Hex(), requestedBy, reason)
	}
}
