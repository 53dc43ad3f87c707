package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"opencivics/internal/model"
)

type ProfileRepository interface {
	Create(ctx context.Context, profile *model.Profile) error
	GetByID(ctx context.Context, id string) (*model.Profile, error)
	Update(ctx context.Context, id string, fields bson.M) (*model.Profile, error)
	AppendEngagement(ctx context.Context, id string, action model.EngagementAction) error
}

type profileRepository struct {
	collection *mongo.Collection
}

func NewProfileRepository(client *mongo.Client) ProfileRepository {
	db := client.Database("opencivics")
	return &profileRepository{
		collection: db.Collection("profiles"),
	}
}

func (r *profileRepository) Create(ctx context.Context, profile *model.Profile) error {
	now := time.Now()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, profile)
	return err
}

func (r *profileRepository) GetByID(ctx context.Context, id string) (*model.Profile, error) {
	var profile model.Profile
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&profile)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil // Profile not found
		}
		return nil, err
	}

	return &profile, nil
}

func (r *profileRepository) Update(ctx context.Context, id string, fields bson.M) (*model.Profile, error) {
	fields["updatedAt"] = time.Now()

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return nil, err
	}

	return r.GetByID(ctx, id)
}

func (r *profileRepository) AppendEngagement(ctx context.Context, id string, action model.EngagementAction) error {
	if action.Timestamp.IsZero() {
		action.Timestamp = time.Now()
	}

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$push": bson.M{"engagementLog": action},
		"$set":  bson.M{"updatedAt": time.Now()},
	})
	return err
}
