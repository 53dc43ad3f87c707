package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"opencivics/internal/model"
)

type ConversationRepository interface {
	Append(ctx context.Context, msg *model.ConversationMessage) error
	// Recent returns the newest messages for a profile in chronological order
	Recent(ctx context.Context, profileID string, limit int) ([]*model.ConversationMessage, error)
}

type conversationRepository struct {
	collection *mongo.Collection
}

func NewConversationRepository(client *mongo.Client) ConversationRepository {
	db := client.Database("opencivics")
	return &conversationRepository{
		collection: db.Collection("conversations"),
	}
}

func (r *conversationRepository) Append(ctx context.Context, msg *model.ConversationMessage) error {
	if msg.ID == "" {
		msg.ID = primitive.NewObjectID().Hex()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}

	_, err := r.collection.InsertOne(ctx, msg)
	return err
}

func (r *conversationRepository) Recent(ctx context.Context, profileID string, limit int) ([]*model.ConversationMessage, error) {
	opts := options.Find().
		SetSort(bson.M{"createdAt": -1}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{"profileId": profileID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var messages []*model.ConversationMessage
	if err = cursor.All(ctx, &messages); err != nil {
		return nil, err
	}

	// Reverse newest-first into chronological order
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}
