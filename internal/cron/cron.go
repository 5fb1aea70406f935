package cron

import (
	"context"
	"log"
	"time"

	"github.com/atlas-pm/portfolio-backend/internal/service"
	"github.com/robfig/cron/v3"
)

// Scheduler handles scheduled tasks
type Scheduler struct {
	cron     *cron.Cron
	services *service.Services
}

// NewScheduler creates a new scheduler
func NewScheduler(services *service.Services) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		services: services,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	// Refresh the portfolio report cache every hour
	s.cron.AddFunc("0 * * * *", func() {
		log.Println("[Cron] Refreshing portfolio report cache...")
		s.refreshReportCache()
	})

	s.cron.Start()
	log.Println("[Cron] Scheduler started")
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("[Cron] Scheduler stopped")
}

func (s *Scheduler) refreshReportCache() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := s.services.Report.Refresh(ctx); err != nil {
		log.Printf("[Cron] ⚠️  Report refresh failed: %v", err)
	}
}
