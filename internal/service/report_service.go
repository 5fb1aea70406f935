package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/atlas-pm/portfolio-backend/internal/db"
	"github.com/atlas-pm/portfolio-backend/internal/repository"
	"github.com/atlas-pm/portfolio-backend/internal/types"
	"github.com/shopspring/decimal"
)

const reportCacheKey = "portfolio:report"

// ============================================
// Portfolio Report Service
// ============================================

type PortfolioReport struct {
	ProjectsByStatus       map[string]int64           `json:"projects_by_status"`
	TotalBudgetByStatus    map[string]decimal.Decimal `json:"total_budget_by_status"`
	AvgDurationClosedDays  float64                    `json:"avg_duration_closed_days"`
	UniqueMembersAllocated int64                      `json:"unique_members_allocated"`
	GeneratedAt            time.Time                  `json:"generated_at"`
}

type ReportService interface {
	Build(ctx context.Context) (*PortfolioReport, error)
	Refresh(ctx context.Context) (*PortfolioReport, error)
}

type reportService struct {
	reportRepo repository.ReportRepository
	cache      *db.RedisDB
	cacheTTL   time.Duration
}

func NewReportService(reportRepo repository.ReportRepository, cache *db.RedisDB, cacheTTL time.Duration) ReportService {
	return &reportService{
		reportRepo: reportRepo,
		cache:      cache,
		cacheTTL:   cacheTTL,
	}
}

// Build returns the cached report when one is fresh, otherwise computes
// it and fills the cache. Without Redis every call computes live.
func (s *reportService) Build(ctx context.Context) (*PortfolioReport, error) {
	if s.cache != nil {
		raw, err := s.cache.Client.Get(ctx, reportCacheKey).Bytes()
		if err == nil {
			var report PortfolioReport
			if err := json.Unmarshal(raw, &report); err == nil {
				return &report, nil
			}
			log.Printf("[Report] discarding unreadable cache entry: %v", err)
		}
	}
	return s.Refresh(ctx)
}

// Refresh computes the report from live queries and stores it in the cache.
func (s *reportService) Refresh(ctx context.Context) (*PortfolioReport, error) {
	report := &PortfolioReport{
		ProjectsByStatus:    make(map[string]int64, len(types.ValidProjectStatuses)),
		TotalBudgetByStatus: make(map[string]decimal.Decimal, len(types.ValidProjectStatuses)),
		GeneratedAt:         time.Now().UTC(),
	}
	// Every status appears in the report, zero-filled when absent.
	for _, status := range types.ValidProjectStatuses {
		report.ProjectsByStatus[status] = 0
		report.TotalBudgetByStatus[status] = decimal.Zero
	}

	counts, err := s.reportRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	for _, row := range counts {
		report.ProjectsByStatus[row.Status] = row.Count
	}

	budgets, err := s.reportRepo.SumBudgetByStatus(ctx)
	if err != nil {
		return nil, err
	}
	for _, row := range budgets {
		report.TotalBudgetByStatus[row.Status] = row.Total
	}

	closed, err := s.reportRepo.ClosedProjectDates(ctx)
	if err != nil {
		return nil, err
	}
	if len(closed) > 0 {
		var totalDays float64
		for _, dates := range closed {
			totalDays += dates.ActualEndDate.Sub(dates.StartDate).Hours() / 24
		}
		report.AvgDurationClosedDays = totalDays / float64(len(closed))
	}

	uniqueMembers, err := s.reportRepo.CountDistinctAllocatedMembers(ctx)
	if err != nil {
		return nil, err
	}
	report.UniqueMembersAllocated = uniqueMembers

	if s.cache != nil {
		raw, err := json.Marshal(report)
		if err == nil {
			if err := s.cache.Client.Set(ctx, reportCacheKey, raw, s.cacheTTL).Err(); err != nil {
				log.Printf("[Report] failed to cache report: %v", err)
			}
		}
	}
	return report, nil
}
