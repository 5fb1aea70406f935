// internal/seed/seed.go
package seed

import (
	"context"
	"log"
	"time"

	"github.com/atlas-pm/portfolio-backend/internal/members"
	"github.com/atlas-pm/portfolio-backend/internal/repository"
	"github.com/atlas-pm/portfolio-backend/internal/types"
	"github.com/shopspring/decimal"
)

// SeedData creates a couple of sample projects against the seeded mock
// directory members. Development only; skipped when projects exist.
func SeedData(repos *repository.Repositories) {
	ctx := context.Background()

	existing, total, err := repos.ProjectRepo.List(ctx, repository.ProjectFilter{}, repository.PageRequest{Size: 1})
	if err != nil {
		log.Printf("[Seed] ⚠️  Could not check existing data: %v", err)
		return
	}
	if total > 0 || len(existing) > 0 {
		log.Println("[Seed] Data already exists, skipping...")
		return
	}

	log.Println("[Seed] 🌱 Creating sample portfolio data...")

	start := time.Now().AddDate(0, -1, 0).Truncate(24 * time.Hour)

	// Small internal tool, LOW risk
	website := &repository.Project{
		Name:              "Website Refresh",
		StartDate:         start,
		ExpectedEndDate:   start.AddDate(0, 2, 0),
		TotalBudget:       decimal.NewFromInt(45_000),
		ManagerExternalID: members.SeedManagerID,
		Status:            types.StatusUnderReview,
		Risk:              types.RiskLow,
	}
	if err := repos.ProjectRepo.Create(ctx, website); err != nil {
		log.Printf("[Seed] ⚠️  Failed to create sample project: %v", err)
		return
	}

	// Year-long platform build, HIGH risk
	platform := &repository.Project{
		Name:              "Billing Platform Migration",
		StartDate:         start,
		ExpectedEndDate:   start.AddDate(1, 0, 0),
		TotalBudget:       decimal.NewFromInt(750_000),
		ManagerExternalID: members.SeedManagerID,
		Status:            types.StatusUnderReview,
		Risk:              types.RiskHigh,
	}
	if err := repos.ProjectRepo.Create(ctx, platform); err != nil {
		log.Printf("[Seed] ⚠️  Failed to create sample project: %v", err)
		return
	}

	for _, memberID := range []string{members.SeedEmployee1ID, members.SeedEmployee2ID} {
		if err := repos.AllocationRepo.Insert(ctx, website.ID, memberID); err != nil {
			log.Printf("[Seed] ⚠️  Failed to allocate %s: %v", memberID, err)
		}
	}

	log.Println("[Seed] ✅ Sample data created")
}
