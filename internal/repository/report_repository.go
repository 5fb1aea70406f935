package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type StatusCount struct {
	Status string `db:"status"`
	Count  int64  `db:"count"`
}

type StatusBudget struct {
	Status string          `db:"status"`
	Total  decimal.Decimal `db:"total"`
}

type ClosedProjectDates struct {
	StartDate     time.Time `db:"start_date"`
	ActualEndDate time.Time `db:"actual_end_date"`
}

// ReportRepository serves the portfolio report aggregates. These are
// read-only queries and run on the sqlx handle rather than the pool.
type ReportRepository interface {
	CountByStatus(ctx context.Context) ([]StatusCount, error)
	SumBudgetByStatus(ctx context.Context) ([]StatusBudget, error)
	ClosedProjectDates(ctx context.Context) ([]ClosedProjectDates, error)
	CountDistinctAllocatedMembers(ctx context.Context) (int64, error)
}

type sqlxReportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) ReportRepository {
	return &sqlxReportRepository{db: db}
}

func (r *sqlxReportRepository) CountByStatus(ctx context.Context) ([]StatusCount, error) {
	var out []StatusCount
	err := r.db.SelectContext(ctx, &out,
		`SELECT status, COUNT(*) AS count FROM projects GROUP BY status`)
	return out, err
}

func (r *sqlxReportRepository) SumBudgetByStatus(ctx context.Context) ([]StatusBudget, error) {
	var out []StatusBudget
	err := r.db.SelectContext(ctx, &out,
		`SELECT status, COALESCE(SUM(total_budget), 0) AS total FROM projects GROUP BY status`)
	return out, err
}

func (r *sqlxReportRepository) ClosedProjectDates(ctx context.Context) ([]ClosedProjectDates, error) {
	var out []ClosedProjectDates
	err := r.db.SelectContext(ctx, &out, `
		SELECT start_date, actual_end_date
		FROM projects
		WHERE status = 'CLOSED' AND actual_end_date IS NOT NULL`)
	return out, err
}

func (r *sqlxReportRepository) CountDistinctAllocatedMembers(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(DISTINCT member_external_id) FROM project_members`)
	return count, err
}
