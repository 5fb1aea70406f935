package repository

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
)

type Repositories struct {
	// Core repositories (pgxpool)
	ProjectRepo    ProjectRepository
	AllocationRepo AllocationRepository

	// Aggregate queries for the portfolio report (sqlx)
	ReportRepo ReportRepository
}

func NewRepositories(pool *pgxpool.Pool, sqlxDB *sqlx.DB) *Repositories {
	return &Repositories{
		ProjectRepo:    NewProjectRepository(pool),
		AllocationRepo: NewAllocationRepository(pool),
		ReportRepo:     NewReportRepository(sqlxDB),
	}
}
