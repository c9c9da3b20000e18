package interfaces

import (
	"context"

	"lifeline/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID primitive.ObjectID) (*models.EmergencyProfile, error)

	// Upsert creates the profile on first write and replaces it afterwards;
	// one profile per user.
	Upsert(ctx context.Context, profile *models.EmergencyProfile) error

	DeleteByUserID(ctx context.Context, userID primitive.ObjectID) error
}
