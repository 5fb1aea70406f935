package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/atlas-pm/portfolio-backend/internal/models"
	"github.com/atlas-pm/portfolio-backend/internal/repository"
	"github.com/atlas-pm/portfolio-backend/internal/service"
	"github.com/atlas-pm/portfolio-backend/internal/types"
	"github.com/gin-gonic/gin"
)

// ============================================
// Project Handler
// ============================================

type ProjectHandler struct {
	projectService service.ProjectService
}

func NewProjectHandler(projectService service.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
	}
}

// Create - Create a new project
// POST /api/projects
func (h *ProjectHandler) Create(c *gin.Context) {
	var req models.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	in, err := toProjectInput(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, err := h.projectService.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toProjectResponse(project))
}

// List - List projects with filters and pagination
// GET /api/projects
func (h *ProjectHandler) List(c *gin.Context) {
	filter, err := parseProjectFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	page := repository.PageRequest{
		Page:     atoiDefault(c.Query("page"), 0),
		Size:     atoiDefault(c.Query("size"), 20),
		SortBy:   c.DefaultQuery("sort", "id"),
		SortDesc: strings.EqualFold(c.Query("order"), "desc"),
	}

	projects, total, err := h.projectService.List(c.Request.Context(), filter, page)
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]models.ProjectResponse, len(projects))
	for i, p := range projects {
		items[i] = toProjectResponse(p)
	}

	c.JSON(http.StatusOK, models.PagedProjectsResponse{
		Items: items,
		Page:  page.Page,
		Size:  page.Size,
		Total: total,
	})
}

// Get - Get a project by ID
// GET /api/projects/:id
func (h *ProjectHandler) Get(c *gin.Context) {
	project, err := h.projectService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toProjectResponse(project))
}

// Update - Full update of a project
// PUT /api/projects/:id
func (h *ProjectHandler) Update(c *gin.Context) {
	var req models.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	in, err := toProjectInput(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, err := h.projectService.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toProjectResponse(project))
}

// Delete - Delete a project (only before execution starts)
// DELETE /api/projects/:id
func (h *ProjectHandler) Delete(c *gin.Context) {
	if err := h.projectService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ChangeStatus - Advance the project lifecycle
// PATCH /api/projects/:id/status
func (h *ProjectHandler) ChangeStatus(c *gin.Context) {
	var req models.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !types.IsValidProjectStatus(req.NewStatus) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status: " + req.NewStatus})
		return
	}

	actualEnd, err := parseDatePtr(req.ActualEndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid actual_end_date"})
		return
	}

	project, err := h.projectService.ChangeStatus(c.Request.Context(), c.Param("id"), req.NewStatus, actualEnd)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toProjectResponse(project))
}

// AllocateMembers - Allocate members to a project
// POST /api/projects/:id/allocations
func (h *ProjectHandler) AllocateMembers(c *gin.Context) {
	var req models.AllocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.projectService.AllocateMembers(c.Request.Context(), c.Param("id"), req.MemberExternalIDs); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListAllocatedMembers - List allocated member ids
// GET /api/projects/:id/allocations
func (h *ProjectHandler) ListAllocatedMembers(c *gin.Context) {
	memberIDs, err := h.projectService.ListAllocatedMembers(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	if memberIDs == nil {
		memberIDs = []string{}
	}
	c.JSON(http.StatusOK, memberIDs)
}

// RemoveMemberAllocation - Remove one allocated member
// DELETE /api/projects/:id/allocations/:memberId
func (h *ProjectHandler) RemoveMemberAllocation(c *gin.Context) {
	if err := h.projectService.RemoveMemberAllocation(c.Request.Context(), c.Param("id"), c.Param("memberId")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func toProjectInput(req models.CreateProjectRequest) (service.ProjectInput, error) {
	start, err := parseDate(req.StartDate)
	if err != nil {
		return service.ProjectInput{}, err
	}
	expectedEnd, err := parseDate(req.ExpectedEndDate)
	if err != nil {
		return service.ProjectInput{}, err
	}
	actualEnd, err := parseDatePtr(req.ActualEndDate)
	if err != nil {
		return service.ProjectInput{}, err
	}

	return service.ProjectInput{
		Name:              req.Name,
		StartDate:         start,
		ExpectedEndDate:   expectedEnd,
		ActualEndDate:     actualEnd,
		TotalBudget:       req.TotalBudget,
		Description:       req.Description,
		ManagerExternalID: req.ManagerExternalID,
	}, nil
}

func parseProjectFilter(c *gin.Context) (repository.ProjectFilter, error) {
	filter := repository.ProjectFilter{
		Name:              c.Query("name"),
		Status:            c.Query("status"),
		ManagerExternalID: c.Query("manager_external_id"),
	}

	if filter.Status != "" && !types.IsValidProjectStatus(filter.Status) {
		return filter, &invalidParamError{param: "status", value: filter.Status}
	}

	var err error
	if filter.StartDateFrom, err = queryDatePtr(c, "start_date_from"); err != nil {
		return filter, err
	}
	if filter.StartDateTo, err = queryDatePtr(c, "start_date_to"); err != nil {
		return filter, err
	}
	if filter.ExpectedEndFrom, err = queryDatePtr(c, "expected_end_from"); err != nil {
		return filter, err
	}
	if filter.ExpectedEndTo, err = queryDatePtr(c, "expected_end_to"); err != nil {
		return filter, err
	}
	return filter, nil
}

type invalidParamError struct {
	param string
	value string
}

func (e *invalidParamError) Error() string {
	return "invalid " + e.param + ": " + e.value
}

func queryDatePtr(c *gin.Context, name string) (*time.Time, error) {
	value := c.Query(name)
	if value == "" {
		return nil, nil
	}
	t, err := parseDate(value)
	if err != nil {
		return nil, &invalidParamError{param: name, value: value}
	}
	return &t, nil
}

func atoiDefault(value string, defaultValue int) int {
	if value == "" {
		return defaultValue
	}
	if n, err := strconv.Atoi(value); err == nil {
		return n
	}
	return defaultValue
}
