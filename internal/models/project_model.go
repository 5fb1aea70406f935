// ============================================
// FILE: internal/models/project_model.go
// ============================================
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Request models
// Dates travel as "YYYY-MM-DD" strings and are parsed by the handlers.
type CreateProjectRequest struct {
	Name              string          `json:"name" binding:"required"`
	StartDate         string          `json:"start_date" binding:"required"`
	ExpectedEndDate   string          `json:"expected_end_date" binding:"required"`
	ActualEndDate     *string         `json:"actual_end_date"`
	TotalBudget       decimal.Decimal `json:"total_budget" binding:"required"`
	Description       *string         `json:"description"`
	ManagerExternalID string          `json:"manager_external_id" binding:"required"`
}

type ChangeStatusRequest struct {
	NewStatus     string  `json:"new_status" binding:"required"`
	ActualEndDate *string `json:"actual_end_date"`
}

type AllocationRequest struct {
	MemberExternalIDs []string `json:"member_external_ids" binding:"required"`
}

// Response models
type ProjectResponse struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	StartDate         string          `json:"start_date"`
	ExpectedEndDate   string          `json:"expected_end_date"`
	ActualEndDate     *string         `json:"actual_end_date"`
	TotalBudget       decimal.Decimal `json:"total_budget"`
	Description       *string         `json:"description,omitempty"`
	ManagerExternalID string          `json:"manager_external_id"`
	Status            string          `json:"status"`
	Risk              string          `json:"risk"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

type PagedProjectsResponse struct {
	Items []ProjectResponse `json:"items"`
	Page  int               `json:"page"`
	Size  int               `json:"size"`
	Total int64             `json:"total"`
}
