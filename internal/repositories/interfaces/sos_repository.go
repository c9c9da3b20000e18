package interfaces

import (
	"context"
	"errors"

	"lifeline/internal/models"
	"lifeline/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrNotFound is returned by any repository when the requested record does
// not exist.
var ErrNotFound = errors.New("record not found")

type SOSRepository interface {
	Create(ctx context.Context, event *models.SOSEvent) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.SOSEvent, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error

	// Active events for responder dashboards, newest first.
	GetActive(ctx context.Context) ([]*models.SOSEvent, error)

	// User history and erasure.
	GetByUserID(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.SOSEvent, int64, error)
	DeleteByUserID(ctx context.Context, userID primitive.ObjectID) (int64, error)
}
