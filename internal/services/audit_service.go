package services

import (
	"context"

	"lifeline/internal/models"
	"lifeline/internal/repositories/interfaces"
	"lifeline/internal/utils"
	"lifeline/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuditService records every emergency data access, denial and erasure.
// Failures to write audit entries are logged but never surfaced to callers;
// an audit outage must not block an emergency flow.
type AuditService interface {
	LogEmergencyAccess(ctx context.Context, userID primitive.ObjectID, eventID, requestedBy, reason string)
	LogAccessDenied(ctx context.Context, userID primitive.ObjectID, eventID, requestedBy, reason string)
	LogGrantRevoked(ctx context.Context, userID primitive.ObjectID, eventID string)
	LogProfileUpdate(ctx context.Context, userID primitive.ObjectID)
	LogDataErasure(ctx context.Context, userID primitive.ObjectID, eventsDeleted int64)

	GetUserTrail(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.AuditLog, int64, error)
	GetEventTrail(ctx context.Context, eventID string) ([]*models.AuditLog, error)
}

type auditService struct {
	auditRepo interfaces.AuditLogRepository
	logger    *logger.Logger
}

func NewAuditService(auditRepo interfaces.AuditLogRepository, log *logger.Logger) AuditService {
	return &auditService{
		auditRepo: auditRepo,
		logger:    log,
	}
}

func (s *auditService) LogEmergencyAccess(ctx context.Context, userID primitive.ObjectID, eventID, requestedBy, reason string) {
	s.write(ctx, &models.AuditLog{
		UserID:      userID,
		Action:      models.AuditActionEmergencyAccess,
		Resource:    "sos_event",
		ResourceID:  eventID,
		RequestedBy: requestedBy,
		Reason:      reason,
	})
}

func (s *auditService) LogAccessDenied(ctx context.Context, userID primitive.ObjectID, eventID, requestedBy, reason string) {
	s.write(ctx, &models.AuditLog{
		UserID:      userID,
		Action:      models.AuditActionAccessDenied,
		Resource:    "sos_event",
		ResourceID:  eventID,
		RequestedBy: requestedBy,
		Reason:      reason,
	})
}

func (s *auditService) LogGrantRevoked(ctx context.Context, userID primitive.ObjectID, eventID string) {
	s.write(ctx, &models.AuditLog{
		UserID:     userID,
		Action:     models.AuditActionGrantRevoked,
		Resource:   "sos_event",
		ResourceID: eventID,
		Reason:     "event resolved",
	})
}

func (s *auditService) LogProfileUpdate(ctx context.Context, userID primitive.ObjectID) {
	s.write(ctx, &models.AuditLog{
		UserID:   userID,
		Action:   models.AuditActionUpdate,
		Resource: "emergency_profile",
	})
}

func (s *auditService) LogDataErasure(ctx context.Context, userID primitive.ObjectID, eventsDeleted int64) {
	s.write(ctx, &models.AuditLog{
		UserID:   userID,
		Action:   models.AuditActionDataErasure,
		Resource: "sos_all_data",
		Reason:   "right to erasure",
		Metadata: map[string]interface{}{"events_deleted": eventsDeleted},
	})
}

func (s *auditService) GetUserTrail(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.AuditLog, int64, error) {
	return s.auditRepo.GetByUserID(ctx, userID, params)
}

func (s *auditService) GetEventTrail(ctx context.Context, eventID string) ([]*models.AuditLog, error) {
	return s.auditRepo.GetByResource(ctx, "sos_event", eventID)
}

func (s *auditService) write(ctx context.Context, entry *models.AuditLog) {
	if err := s.auditRepo.Create(ctx, entry); err != nil {
		s.logger.WithError(err).Errorf("failed to write audit entry: %s %s", entry.Action, entry.Resource)
	}
}
