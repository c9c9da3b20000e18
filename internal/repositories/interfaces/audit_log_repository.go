package interfaces

import (
	"context"

	"lifeline/internal/models"
	"lifeline/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AuditLogRepository interface {
	Create(ctx context.Context, entry *models.AuditLog) error

	GetByUserID(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.AuditLog, int64, error)

	// GetByResource returns the trail for one resource, e.g. every
	// disclosure read against a single SOS event.
	GetByResource(ctx context.Context, resource, resourceID string) ([]*models.AuditLog, error)
}
