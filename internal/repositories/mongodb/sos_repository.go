package mongodb

import (
	"context"
	"fmt"
	"time"

	"lifeline/internal/models"
	"lifeline/internal/repositories/interfaces"
	"lifeline/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type sosRepository struct {
	collection *mongo.Collection
	cache      CacheService
}

func NewSOSRepository(db *mongo.Database, cache CacheService) interfaces.SOSRepository {
	return &sosRepository{
		collection: db.Collection("sos_events"),
		cache:      cache,
	}
}

func (r *sosRepository) Create(ctx context.Context, event *models.SOSEvent) error {
	event.ID = primitive.NewObjectID()
	event.CreatedAt = time.Now()
	event.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, event)
	if err != nil {
		return fmt.Errorf("failed to create sos event: %w", err)
	}

	r.cacheEvent(ctx, event)

	return nil
}

func (r *sosRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.SOSEvent, error) {
	// Try cache first for active events
	if event := r.getEventFromCache(ctx, id.Hex()); event != nil {
		return event, nil
	}

	var event models.SOSEvent
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&event)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get sos event: %w", err)
	}

	r.cacheEvent(ctx, &event)

	return &event, nil
}

func (r *sosRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": updates},
	)
	if err != nil {
		return fmt.Errorf("failed to update sos event: %w", err)
	}

	r.invalidateEventCache(ctx, id.Hex())

	return nil
}

func (r *sosRepository) GetActive(ctx context.Context) ([]*models.SOSEvent, error) {
	filter := bson.M{"status": bson.M{"$in": models.ActiveSOSStatuses()}}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to find active sos events: %w", err)
	}
	defer cursor.Close(ctx)

	var events []*models.SOSEvent
	for cursor.Next(ctx) {
		var event models.SOSEvent
		if err := cursor.Decode(&event); err != nil {
			return nil, fmt.Errorf("failed to decode sos event: %w", err)
		}
		events = append(events, &event)
	}

	return events, nil
}

func (r *sosRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.SOSEvent, int64, error) {
	filter := bson.M{"user_id": userID}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count sos events: %w", err)
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(params.GetSkip())).
		SetLimit(int64(params.GetLimit()))

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find sos events by user: %w", err)
	}
	defer cursor.Close(ctx)

	var events []*models.SOSEvent
	for cursor.Next(ctx) {
		var event models.SOSEvent
		if err := cursor.Decode(&event); err != nil {
			return nil, 0, fmt.Errorf("failed to decode sos event: %w", err)
		}
		events = append(events, &event)
	}

	return events, total, nil
}

func (r *sosRepository) DeleteByUserID(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	// Invalidate cached copies before the documents disappear.
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, options.Find().SetProjection(bson.M{"_id": 1}))
	if err == nil {
		for cursor.Next(ctx) {
			var doc struct {
				ID primitive.ObjectID `bson:"_id"`
			}
			if err := cursor.Decode(&doc); err == nil {
				r.invalidateEventCache(ctx, doc.ID.Hex())
			}
		}
		cursor.Close(ctx)
	}

	result, err := r.collection.DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete sos events: %w", err)
	}

	return result.DeletedCount, nil
}

func (r *sosRepository) cacheEvent(ctx context.Context, event *models.SOSEvent) {
	if r.cache != nil && event.IsActive() {
		cacheKey := fmt.Sprintf("sos_event:%s", event.ID.Hex())
		r.cache.Set(ctx, cacheKey, event, 5*time.Minute)
	}
}

func (r *sosRepository) getEventFromCache(ctx context.Context, eventID string) *models.SOSEvent {
	if r.cache == nil {
		return nil
	}

	cacheKey := fmt.Sprintf("sos_event:%s", eventID)
	var event models.SOSEvent
	if err := r.cache.Get(ctx, cacheKey, &event); err != nil {
		return nil
	}

	return &event
}

func (r *sosRepository) invalidateEventCache(ctx context.Context, eventID string) {
	if r.cache != nil {
		cacheKey := fmt.Sprintf("sos_event:%s", eventID)
		r.cache.Delete(ctx, cacheKey)
	}
}
