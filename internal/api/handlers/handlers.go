package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/atlas-pm/portfolio-backend/internal/members"
	"github.com/atlas-pm/portfolio-backend/internal/models"
	"github.com/atlas-pm/portfolio-backend/internal/repository"
	"github.com/atlas-pm/portfolio-backend/internal/service"
	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

// Handlers contains all HTTP handlers
type Handlers struct {
	Project   *ProjectHandler
	Portfolio *PortfolioHandler
	Member    *MemberHandler
}

// NewHandlers creates all handlers
func NewHandlers(services *service.Services, directory members.Directory) *Handlers {
	return &Handlers{
		Project:   &ProjectHandler{projectService: services.Project},
		Portfolio: &PortfolioHandler{reportService: services.Report},
		Member:    &MemberHandler{directory: directory},
	}
}

// respondError translates service-level failures to HTTP statuses:
// NotFound -> 404, business rules -> 422, directory outages -> 502.
func respondError(c *gin.Context, err error) {
	var bre *service.BusinessRuleError
	var ese *members.ExternalServiceError

	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
	case errors.As(err, &bre):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": bre.Message})
	case errors.As(err, &ese):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Members API is unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// ============================================
// Response Mappers
// ============================================

func toProjectResponse(p *repository.Project) models.ProjectResponse {
	return models.ProjectResponse{
		ID:                p.ID,
		Name:              p.Name,
		StartDate:         p.StartDate.Format(dateLayout),
		ExpectedEndDate:   p.ExpectedEndDate.Format(dateLayout),
		ActualEndDate:     formatDatePtr(p.ActualEndDate),
		TotalBudget:       p.TotalBudget,
		Description:       p.Description,
		ManagerExternalID: p.ManagerExternalID,
		Status:            p.Status,
		Risk:              p.Risk,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

func parseDate(value string) (time.Time, error) {
	return time.Parse(dateLayout, value)
}

func parseDatePtr(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, *value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
