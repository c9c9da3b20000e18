package interfaces

import (
	"context"
	"time"

	"lifeline/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type GrantRepository interface {
	Create(ctx context.Context, grant *models.DisclosureGrant) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.DisclosureGrant, error)

	// GetByEventID returns the grant scoped to a single SOS event. Grants
	// and events are created together, one grant per event.
	GetByEventID(ctx context.Context, eventID primitive.ObjectID) (*models.DisclosureGrant, error)

	// Revoke marks the grant revoked. Revocation is one-way.
	Revoke(ctx context.Context, id primitive.ObjectID, revokedAt time.Time) error

	DeleteByUserID(ctx context.Context, userID primitive.ObjectID) (int64, error)
}
