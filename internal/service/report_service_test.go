package service

import (
	"context"
	"testing"
	"time"

	"github.com/atlas-pm/portfolio-backend/internal/repository"
	"github.com/atlas-pm/portfolio-backend/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReportRepo struct {
	counts  []repository.StatusCount
	budgets []repository.StatusBudget
	closed  []repository.ClosedProjectDates
	members int64
}

func (f *fakeReportRepo) CountByStatus(_ context.Context) ([]repository.StatusCount, error) {
	return f.counts, nil
}

func (f *fakeReportRepo) SumBudgetByStatus(_ context.Context) ([]repository.StatusBudget, error) {
	return f.budgets, nil
}

func (f *fakeReportRepo) ClosedProjectDates(_ context.Context) ([]repository.ClosedProjectDates, error) {
	return f.closed, nil
}

func (f *fakeReportRepo) CountDistinctAllocatedMembers(_ context.Context) (int64, error) {
	return f.members, nil
}

func TestReportRefresh_ZeroFillsEveryStatus(t *testing.T) {
	svc := NewReportService(&fakeReportRepo{}, nil, time.Minute)

	report, err := svc.Refresh(context.Background())

	require.NoError(t, err)
	assert.Len(t, report.ProjectsByStatus, len(types.ValidProjectStatuses))
	assert.Len(t, report.TotalBudgetByStatus, len(types.ValidProjectStatuses))
	for _, status := range types.ValidProjectStatuses {
		assert.Equal(t, int64(0), report.ProjectsByStatus[status])
		assert.True(t, report.TotalBudgetByStatus[status].IsZero())
	}
	assert.Zero(t, report.AvgDurationClosedDays)
	assert.Zero(t, report.UniqueMembersAllocated)
	assert.False(t, report.GeneratedAt.IsZero())
}

func TestReportRefresh_Aggregates(t *testing.T) {
	start := date(2025, time.January, 1)
	repo := &fakeReportRepo{
		counts: []repository.StatusCount{
			{Status: types.StatusInProgress, Count: 2},
			{Status: types.StatusClosed, Count: 2},
		},
		budgets: []repository.StatusBudget{
			{Status: types.StatusInProgress, Total: decimal.NewFromInt(250_000)},
			{Status: types.StatusClosed, Total: decimal.NewFromInt(90_000)},
		},
		closed: []repository.ClosedProjectDates{
			{StartDate: start, ActualEndDate: start.AddDate(0, 0, 10)},
			{StartDate: start, ActualEndDate: start.AddDate(0, 0, 30)},
		},
		members: 7,
	}
	svc := NewReportService(repo, nil, time.Minute)

	report, err := svc.Refresh(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(2), report.ProjectsByStatus[types.StatusInProgress])
	assert.Equal(t, int64(2), report.ProjectsByStatus[types.StatusClosed])
	assert.Equal(t, int64(0), report.ProjectsByStatus[types.StatusUnderReview])
	assert.True(t, report.TotalBudgetByStatus[types.StatusInProgress].Equal(decimal.NewFromInt(250_000)))
	assert.InDelta(t, 20.0, report.AvgDurationClosedDays, 0.001)
	assert.Equal(t, int64(7), report.UniqueMembersAllocated)
}

func TestReportBuild_WithoutCacheComputesLive(t *testing.T) {
	repo := &fakeReportRepo{members: 3}
	svc := NewReportService(repo, nil, time.Minute)

	report, err := svc.Build(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(3), report.UniqueMembersAllocated)
}
