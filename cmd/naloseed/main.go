// naloseed populates a backend with demonstration rows so a fresh
// environment has activities, proposals and balances to render.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/NaloDAO/community_app/infra/supabase"
	"github.com/NaloDAO/community_app/internal/domain"
	"github.com/NaloDAO/community_app/internal/gateway"
)

func main() {
	var (
		envFile = flag.String("env", ".env", "Path to .env with SUPABASE_URL and SUPABASE_ANON_KEY")
		userID  = flag.String("user", "", "Profile id the seeded rows belong to (required)")
	)
	flag.Parse()

	ctx := context.Background()

	if err := godotenv.Load(*envFile); err != nil {
		log.Printf("load env (%s): %v, using process environment", *envFile, err)
	}
	if *userID == "" {
		log.Fatal("-user is required")
	}

	client, err := supabase.New(supabase.Config{
		ProjectURL: os.Getenv("SUPABASE_URL"),
		AnonKey:    os.Getenv("SUPABASE_ANON_KEY"),
	})
	if err != nil {
		log.Fatalf("supabase client: %v", err)
	}
	gw := gateway.New(client, zerolog.Nop())

	now := time.Now()
	activities := []*domain.Activity{
		{
			UserID:       *userID,
			Title:        "Tree Planting Initiative",
			Description:  "Planted native saplings with the neighborhood group.",
			ActivityType: domain.ActivityTreePlanting,
			ImpactScore:  150,
			Location:     domain.Location{Address: "Central Park, NYC"},
		},
		{
			UserID:       *userID,
			Title:        "Composting Workshop",
			Description:  "Ran a hands-on composting session at the urban farm.",
			ActivityType: domain.ActivityComposting,
			ImpactScore:  50,
			Location:     domain.Location{Address: "Urban Farm"},
		},
	}
	for _, activity := range activities {
		created, err := gw.Activities.Create(ctx, activity)
		if err != nil {
			log.Fatalf("seed activity %q: %v", activity.Title, err)
		}
		log.Printf("activity %s created (%s)", created.ID, created.Title)
	}

	proposal, err := gw.Proposals.Create(ctx, &domain.Proposal{
		AuthorID:    *userID,
		Title:       "Community Solar Panel Installation",
		Description: "Proposal to install solar panels in the community center",
		Status:      domain.ProposalActive,
		VotingStart: now,
		VotingEnd:   now.Add(3 * 24 * time.Hour),
		Quorum:      500,
	})
	if err != nil {
		log.Fatalf("seed proposal: %v", err)
	}
	log.Printf("proposal %s created (%s)", proposal.ID, proposal.Title)

	for _, balance := range []struct {
		symbol string
		amount float64
	}{
		{"NALO", 1250.5},
		{"APT", 45.8},
		{"SUI", 89.3},
	} {
		if _, err := gw.Tokens.UpsertBalance(ctx, *userID, balance.symbol, balance.amount); err != nil {
			log.Fatalf("seed balance %s: %v", balance.symbol, err)
		}
		log.Printf("balance %s=%v seeded", balance.symbol, balance.amount)
	}
}
