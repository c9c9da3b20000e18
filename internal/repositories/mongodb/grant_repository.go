package mongodb

import (
	"context"
	"fmt"
	"time"

	"lifeline/internal/models"
	"lifeline/internal/repositories/interfaces"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type grantRepository struct {
	collection *mongo.Collection
}

func NewGrantRepository(db *mongo.Database) interfaces.GrantRepository {
	return &grantRepository{
		collection: db.Collection("disclosure_grants"),
	}
}

func (r *grantRepository) Create(ctx context.Context, grant *models.DisclosureGrant) error {
	grant.ID = primitive.NewObjectID()
	grant.CreatedAt = time.Now()
	grant.UpdatedAt = time.Now()

	// Defense in depth: nothing outside the closed whitelist is ever stored.
	grant.Fields = models.FilterDisclosable(grant.Fields)

	_, err := r.collection.InsertOne(ctx, grant)
	if err != nil {
		return fmt.Errorf("failed to create disclosure grant: %w", err)
	}

	return nil
}

func (r *grantRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.DisclosureGrant, error) {
	var grant models.DisclosureGrant
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&grant)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get disclosure grant: %w", err)
	}

	return &grant, nil
}

func (r *grantRepository) GetByEventID(ctx context.Context, eventID primitive.ObjectID) (*models.DisclosureGrant, error) {
	var grant models.DisclosureGrant
	err := r.collection.FindOne(ctx, bson.M{"sos_event_id": eventID}).Decode(&grant)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get disclosure grant by event: %w", err)
	}

	return &grant, nil
}

func (r *grantRepository) Revoke(ctx context.Context, id primitive.ObjectID, revokedAt time.Time) error {
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"revoked":    true,
			"revoked_at": revokedAt,
			"updated_at": time.Now(),
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to revoke disclosure grant: %w", err)
	}

	return nil
}

func (r *grantRepository) DeleteByUserID(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete disclosure grants: %w", err)
	}

	return result.DeletedCount, nil
}
