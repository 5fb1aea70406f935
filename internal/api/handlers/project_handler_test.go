package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/atlas-pm/portfolio-backend/internal/members"
	"github.com/atlas-pm/portfolio-backend/internal/repository"
	"github.com/atlas-pm/portfolio-backend/internal/service"
	"github.com/atlas-pm/portfolio-backend/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubProjectService lets each test script exactly one service behavior.
type stubProjectService struct {
	createFn   func(ctx context.Context, in service.ProjectInput) (*repository.Project, error)
	getFn      func(ctx context.Context, id string) (*repository.Project, error)
	listFn     func(ctx context.Context, filter repository.ProjectFilter, page repository.PageRequest) ([]*repository.Project, int64, error)
	allocateFn func(ctx context.Context, projectID string, memberIDs []string) error
}

func (s *stubProjectService) Create(ctx context.Context, in service.ProjectInput) (*repository.Project, error) {
	return s.createFn(ctx, in)
}

func (s *stubProjectService) GetByID(ctx context.Context, id string) (*repository.Project, error) {
	return s.getFn(ctx, id)
}

func (s *stubProjectService) List(ctx context.Context, filter repository.ProjectFilter, page repository.PageRequest) ([]*repository.Project, int64, error) {
	return s.listFn(ctx, filter, page)
}

func (s *stubProjectService) Update(context.Context, string, service.ProjectInput) (*repository.Project, error) {
	return nil, errors.New("not scripted")
}

func (s *stubProjectService) Delete(context.Context, string) error {
	return errors.New("not scripted")
}

func (s *stubProjectService) ChangeStatus(context.Context, string, string, *time.Time) (*repository.Project, error) {
	return nil, errors.New("not scripted")
}

func (s *stubProjectService) AllocateMembers(ctx context.Context, projectID string, memberIDs []string) error {
	return s.allocateFn(ctx, projectID, memberIDs)
}

func (s *stubProjectService) RemoveMemberAllocation(context.Context, string, string) error {
	return errors.New("not scripted")
}

func (s *stubProjectService) ListAllocatedMembers(context.Context, string) ([]string, error) {
	return nil, errors.New("not scripted")
}

func newTestRouter(svc service.ProjectService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewProjectHandler(svc)

	router := gin.New()
	api := router.Group("/api/projects")
	{
		api.POST("", h.Create)
		api.GET("", h.List)
		api.GET("/:id", h.Get)
		api.POST("/:id/allocations", h.AllocateMembers)
	}
	return router
}

func perform(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func sampleProject() *repository.Project {
	end := time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC)
	return &repository.Project{
		ID:                "proj-1",
		Name:              "Website Refresh",
		StartDate:         time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		ExpectedEndDate:   end,
		TotalBudget:       decimal.NewFromInt(50_000),
		ManagerExternalID: "mgr-1",
		Status:            types.StatusUnderReview,
		Risk:              types.RiskLow,
	}
}

func TestCreateProject_Created(t *testing.T) {
	svc := &stubProjectService{
		createFn: func(_ context.Context, in service.ProjectInput) (*repository.Project, error) {
			assert.Equal(t, "Website Refresh", in.Name)
			assert.Equal(t, "2025-01-01", in.StartDate.Format(dateLayout))
			return sampleProject(), nil
		},
	}
	router := newTestRouter(svc)

	w := perform(router, http.MethodPost, "/api/projects", `{
		"name": "Website Refresh",
		"start_date": "2025-01-01",
		"expected_end_date": "2025-05-01",
		"total_budget": 50000,
		"manager_external_id": "mgr-1"
	}`)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "proj-1", resp["id"])
	assert.Equal(t, "2025-01-01", resp["start_date"])
	assert.Equal(t, "UNDER_REVIEW", resp["status"])
	assert.Equal(t, "LOW", resp["risk"])
	assert.Nil(t, resp["actual_end_date"])
}

func TestCreateProject_MissingFieldsRejected(t *testing.T) {
	router := newTestRouter(&stubProjectService{})

	w := perform(router, http.MethodPost, "/api/projects", `{"name": "x"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateProject_BadDateRejected(t *testing.T) {
	router := newTestRouter(&stubProjectService{})

	w := perform(router, http.MethodPost, "/api/projects", `{
		"name": "x",
		"start_date": "01/01/2025",
		"expected_end_date": "2025-05-01",
		"total_budget": 50000,
		"manager_external_id": "mgr-1"
	}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateProject_BusinessRuleMapsTo422(t *testing.T) {
	svc := &stubProjectService{
		createFn: func(context.Context, service.ProjectInput) (*repository.Project, error) {
			return nil, &service.BusinessRuleError{Message: "totalBudget must be > 0"}
		},
	}
	router := newTestRouter(svc)

	w := perform(router, http.MethodPost, "/api/projects", `{
		"name": "x",
		"start_date": "2025-01-01",
		"expected_end_date": "2025-05-01",
		"total_budget": 1,
		"manager_external_id": "mgr-1"
	}`)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "totalBudget must be > 0")
}

func TestGetProject_NotFoundMapsTo404(t *testing.T) {
	svc := &stubProjectService{
		getFn: func(context.Context, string) (*repository.Project, error) {
			return nil, service.ErrNotFound
		},
	}
	router := newTestRouter(svc)

	w := perform(router, http.MethodGet, "/api/projects/missing", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAllocateMembers_DirectoryOutageMapsTo502(t *testing.T) {
	svc := &stubProjectService{
		allocateFn: func(context.Context, string, []string) error {
			return &members.ExternalServiceError{Op: "lookup", Err: errors.New("timeout")}
		},
	}
	router := newTestRouter(svc)

	w := perform(router, http.MethodPost, "/api/projects/proj-1/allocations",
		`{"member_external_ids": ["emp-1"]}`)

	require.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "Members API is unavailable")
}

func TestAllocateMembers_NoContentOnSuccess(t *testing.T) {
	var got []string
	svc := &stubProjectService{
		allocateFn: func(_ context.Context, projectID string, memberIDs []string) error {
			assert.Equal(t, "proj-1", projectID)
			got = memberIDs
			return nil
		},
	}
	router := newTestRouter(svc)

	w := perform(router, http.MethodPost, "/api/projects/proj-1/allocations",
		`{"member_external_ids": ["emp-1", "emp-2"]}`)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []string{"emp-1", "emp-2"}, got)
}

func TestListProjects_FiltersAndPagination(t *testing.T) {
	svc := &stubProjectService{
		listFn: func(_ context.Context, filter repository.ProjectFilter, page repository.PageRequest) ([]*repository.Project, int64, error) {
			assert.Equal(t, "IN_PROGRESS", filter.Status)
			assert.Equal(t, "web", filter.Name)
			require.NotNil(t, filter.StartDateFrom)
			assert.Equal(t, "2025-01-01", filter.StartDateFrom.Format(dateLayout))
			assert.Equal(t, 2, page.Page)
			assert.Equal(t, 5, page.Size)
			assert.Equal(t, "startDate", page.SortBy)
			assert.True(t, page.SortDesc)
			return []*repository.Project{sampleProject()}, 11, nil
		},
	}
	router := newTestRouter(svc)

	w := perform(router, http.MethodGet,
		"/api/projects?status=IN_PROGRESS&name=web&start_date_from=2025-01-01&page=2&size=5&sort=startDate&order=desc", "")

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, float64(11), resp["total"])
	assert.Equal(t, float64(2), resp["page"])
	assert.Len(t, resp["items"], 1)
}

func TestListProjects_InvalidStatusRejected(t *testing.T) {
	router := newTestRouter(&stubProjectService{})

	w := perform(router, http.MethodGet, "/api/projects?status=WIP", "")

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid status")
}

func TestListProjects_InvalidDateRejected(t *testing.T) {
	router := newTestRouter(&stubProjectService{})

	w := perform(router, http.MethodGet, "/api/projects?start_date_from=yesterday", "")

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "start_date_from")
}
