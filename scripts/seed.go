package main

import (
	"context"
	_ "embed"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/adapters/database"
	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/application/services"
	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/domain/entities"
	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/infrastructure/clients/postgres"
	"github.com/DewyHRite/test.jamwathq.test-sub000/pkg/config"
)

//go:embed schema.sql
var schemaSQL string

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgClient.Close()

	ctx := context.Background()

	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, truncating tables before seeding")
		_, err := pgClient.DB().ExecContext(ctx, `
			TRUNCATE TABLE
				agency_reviews,
				state_reviews,
				users
			RESTART IDENTITY CASCADE
		`)
		if err != nil {
			log.Fatalf("Failed to truncate tables: %v", err)
		}
	}

	if _, err := pgClient.DB().ExecContext(ctx, schemaSQL); err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}
	log.Println("Schema applied")

	userRepo := database.NewUserAdapter(pgClient)
	reviewService := services.NewReviewService(database.NewStateReviewAdapter(pgClient), nil, nil)
	agencyService := services.NewAgencyReviewService(database.NewAgencyReviewAdapter(pgClient), nil, nil, nil)

	users := []*entities.User{
		{
			ID:           uuid.New().String(),
			AuthProvider: entities.AuthProviderGoogle,
			ProviderID:   "seed-google-1",
			Email:        "kemar@example.com",
			FirstName:    "Kemar",
			Gender:       entities.GenderMale,
			CreatedAt:    time.Now().AddDate(0, -2, 0),
			LastLogin:    time.Now(),
		},
		{
			ID:           uuid.New().String(),
			AuthProvider: entities.AuthProviderFacebook,
			ProviderID:   "seed-facebook-1",
			Email:        "alicia@example.com",
			FirstName:    "Alicia",
			Gender:       entities.GenderFemale,
			CreatedAt:    time.Now().AddDate(0, -1, 0),
			LastLogin:    time.Now(),
		},
	}
	for _, user := range users {
		if err := userRepo.Create(ctx, user); err != nil {
			log.Fatalf("Failed to seed user %s: %v", user.Email, err)
		}
	}
	log.Printf("Seeded %d users", len(users))

	stateInputs := []services.StateReviewInput{
		{
			State: "Florida", JobTitle: "Lifeguard", Employer: "Ocean Resort", City: "Orlando",
			Wages: 13.50, HoursPerWeek: 35, Rating: 4, TimesUsed: 2, VisitYear: "2025",
			Experience:  "Busy season but the team looked out for each other and tips were solid.",
			TOSAccepted: true,
		},
		{
			State: "New York", JobTitle: "Housekeeper", Employer: "Lakeside Lodge", City: "Lake George",
			Wages: 15.00, HoursPerWeek: 40, Rating: 5, TimesUsed: 1, VisitYear: "2025",
			Experience:  "Housing was arranged by the employer and the hours were consistent all summer.",
			TOSAccepted: true,
		},
	}
	for i, input := range stateInputs {
		if _, err := reviewService.Submit(ctx, users[i%len(users)], input); err != nil {
			log.Fatalf("Failed to seed state review for %s: %v", input.State, err)
		}
	}
	log.Printf("Seeded %d state reviews", len(stateInputs))

	agencyInput := services.AgencyReviewInput{
		AgencyID:           "island-exchange",
		AgencyName:         "Island Exchange",
		ApplicationProcess: 4, CustomerService: 5, Communication: 4,
		SupportServices: 4, OverallExperience: 5, UsageFrequency: 2,
		Comments:    "Processed my visa paperwork quickly and checked in during the season.",
		TOSAccepted: true,
	}
	if _, err := agencyService.Submit(ctx, users[0], agencyInput, "127.0.0.1"); err != nil {
		log.Fatalf("Failed to seed agency review: %v", err)
	}
	log.Println("Seeded 1 agency review")

	log.Println("Seeding complete")
}
