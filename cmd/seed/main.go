package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"opencivics/internal/model"
	"opencivics/internal/quiz"
	"opencivics/internal/repository"
)

// Seeds a demo profile with a completed quiz so the chat and resource
// endpoints have something to show against a fresh database.
func main() {
	mongoURI := os.Getenv("MONGODB_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	profiles := repository.NewProfileRepository(client)
	responses := repository.NewResponseRepository(client)

	profileID := "p_demo0001"
	now := time.Now()

	profile := &model.Profile{
		ID:        profileID,
		Name:      "Demo Participant",
		Location:  "Lisbon",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := profiles.Create(ctx, profile); err != nil {
		log.Fatalf("Failed to create demo profile: %v", err)
	}

	answers := []struct {
		questionID string
		value      any
	}{
		{"intro_welcome", "Demo Participant"},
		{"intro_motivation", "I want to help local civic projects find their footing."},
		{"resource_contribution_primary", "time_organizing"},
		{"participation_mode", "organizing"},
		{"engagement_stage", "organizing_locally"},
		{"civic_sectors", []string{"governance", "civic_engagement", "education"}},
		{"time_commitment", "dedicated"},
		{"location", "Lisbon"},
	}

	for _, a := range answers {
		q := quiz.QuestionByID(a.questionID)
		if q == nil {
			log.Fatalf("Unknown question %q in seed data", a.questionID)
		}
		response := &model.Response{
			ID:            fmt.Sprintf("r_demo_%s", a.questionID),
			ProfileID:     profileID,
			QuestionID:    q.ID,
			QuestionText:  q.Text,
			QuestionType:  q.Type,
			Value:         a.value,
			QuestionOrder: quiz.IndexOf(q.ID),
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := responses.Upsert(ctx, response); err != nil {
			log.Fatalf("Failed to seed response for %s: %v", a.questionID, err)
		}
	}

	fmt.Printf("Seeded profile %s with %d responses\n", profileID, len(answers))
	fmt.Println("Complete the quiz with: POST /v1/quiz/" + profileID + "/complete")
}
