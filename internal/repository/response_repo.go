package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"opencivics/internal/model"
)

type ResponseRepository interface {
	// Upsert keys on (profileId, questionId): re-answering overwrites
	Upsert(ctx context.Context, response *model.Response) error
	GetByProfile(ctx context.Context, profileID string) ([]*model.Response, error)
	DeleteByProfile(ctx context.Context, profileID string) error
}

type responseRepository struct {
	collection *mongo.Collection
}

func NewResponseRepository(client *mongo.Client) ResponseRepository {
	db := client.Database("opencivics")
	return &responseRepository{
		collection: db.Collection("responses"),
	}
}

func (r *responseRepository) Upsert(ctx context.Context, response *model.Response) error {
	now := time.Now()
	if response.CreatedAt.IsZero() {
		response.CreatedAt = now
	}
	response.UpdatedAt = now

	filter := bson.M{
		"profileId":  response.ProfileID,
		"questionId": response.QuestionID,
	}
	update := bson.M{
		"$set": bson.M{
			"questionText":     response.QuestionText,
			"questionType":     response.QuestionType,
			"value":            response.Value,
			"rawText":          response.RawText,
			"questionOrder":    response.QuestionOrder,
			"timeSpentSeconds": response.TimeSpentSeconds,
			"updatedAt":        response.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"profileId":  response.ProfileID,
			"questionId": response.QuestionID,
			"createdAt":  response.CreatedAt,
		},
	}

	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	return err
}

func (r *responseRepository) GetByProfile(ctx context.Context, profileID string) ([]*model.Response, error) {
	opts := options.Find().SetSort(bson.M{"questionOrder": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"profileId": profileID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var responses []*model.Response
	if err = cursor.All(ctx, &responses); err != nil {
		return nil, err
	}

	return responses, nil
}

func (r *responseRepository) DeleteByProfile(ctx context.Context, profileID string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"profileId": profileID})
	return err
}
