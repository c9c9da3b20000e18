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

type hospitalRepository struct {
	collection *mongo.Collection
}

func NewHospitalRepository(db *mongo.Database) interfaces.HospitalRepository {
	return &hospitalRepository{
		collection: db.Collection("hospitals"),
	}
}

func (r *hospitalRepository) Create(ctx context.Context, hospital *models.Hospital) error {
	hospital.ID = primitive.NewObjectID()
	hospital.CreatedAt = time.Now()
	hospital.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, hospital)
	if err != nil {
		return fmt.Errorf("failed to create hospital: %w", err)
	}

	return nil
}

// GetNearby relies on a 2dsphere index on location. Distances come back in
// meters from $geoNear and are converted to kilometers for display.
func (r *hospitalRepository) GetNearby(ctx context.Context, lat, lng, radiusKM float64, limit int) ([]*models.NearbyHospital, error) {
	if limit <= 0 {
		limit = utils.DefaultNearbyHospitalLimit
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$geoNear", Value: bson.M{
			"near": bson.M{
				"type":        "Point",
				"coordinates": []float64{lng, lat},
			},
			"distanceField": "distance_meters",
			"maxDistance":   radiusKM * 1000,
			"spherical":     true,
		}}},
		bson.D{{Key: "$limit", Value: limit}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline, options.Aggregate())
	if err != nil {
		return nil, fmt.Errorf("failed to query nearby hospitals: %w", err)
	}
	defer cursor.Close(ctx)

	var hospitals []*models.NearbyHospital
	for cursor.Next(ctx) {
		var doc struct {
			models.Hospital `bson:",inline"`
			DistanceMeters  float64 `bson:"distance_meters"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode hospital: %w", err)
		}
		hospitals = append(hospitals, &models.NearbyHospital{
			Hospital:   doc.Hospital,
			DistanceKM: doc.DistanceMeters / 1000,
		})
	}

	return hospitals, nil
}
