package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"opencivics/internal/model"
)

type InterestsRepository interface {
	// Upsert keeps one interests record per profile
	Upsert(ctx context.Context, interests *model.Interests) error
	GetByProfile(ctx context.Context, profileID string) (*model.Interests, error)
}

type interestsRepository struct {
	collection *mongo.Collection
}

func NewInterestsRepository(client *mongo.Client) InterestsRepository {
	db := client.Database("opencivics")
	return &interestsRepository{
		collection: db.Collection("interests"),
	}
}

func (r *interestsRepository) Upsert(ctx context.Context, interests *model.Interests) error {
	now := time.Now()
	if interests.CreatedAt.IsZero() {
		interests.CreatedAt = now
	}
	interests.UpdatedAt = now

	update := bson.M{
		"$set": bson.M{
			"civicSectors":      interests.CivicSectors,
			"innovationDomains": interests.InnovationDomains,
			"skills":            interests.Skills,
			"timeCommitment":    interests.TimeCommitment,
			"updatedAt":         interests.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"profileId": interests.ProfileID,
			"createdAt": interests.CreatedAt,
		},
	}

	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, bson.M{"profileId": interests.ProfileID}, update, opts)
	return err
}

func (r *interestsRepository) GetByProfile(ctx context.Context, profileID string) (*model.Interests, error) {
	var interests model.Interests
	err := r.collection.FindOne(ctx, bson.M{"profileId": profileID}).Decode(&interests)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}

	return &interests, nil
}
