package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Project struct {
	ID                string
	Name              string
	StartDate         time.Time
	ExpectedEndDate   time.Time
	ActualEndDate     *time.Time
	TotalBudget       decimal.Decimal
	Description       *string
	ManagerExternalID string
	Status            string
	Risk              string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ProjectFilter carries the optional list filters; zero values mean "not set".
// All set filters are combined conjunctively.
type ProjectFilter struct {
	Name              string
	Status            string
	ManagerExternalID string
	StartDateFrom     *time.Time
	StartDateTo       *time.Time
	ExpectedEndFrom   *time.Time
	ExpectedEndTo     *time.Time
}

type PageRequest struct {
	Page     int
	Size     int
	SortBy   string
	SortDesc bool
}

type ProjectRepository interface {
	Create(ctx context.Context, project *Project) error
	FindByID(ctx context.Context, id string) (*Project, error)
	List(ctx context.Context, filter ProjectFilter, page PageRequest) ([]*Project, int64, error)
	Update(ctx context.Context, project *Project) error
	Delete(ctx context.Context, id string) error
}

type pgProjectRepository struct {
	pool *pgxpool.Pool
}

func NewProjectRepository(pool *pgxpool.Pool) ProjectRepository {
	return &pgProjectRepository{pool: pool}
}

const projectColumns = `id, name, start_date, expected_end_date, actual_end_date, total_budget, description, manager_external_id, status, risk, created_at, updated_at`

func (r *pgProjectRepository) Create(ctx context.Context, project *Project) error {
	query := `
		INSERT INTO projects (name, start_date, expected_end_date, actual_end_date, total_budget, description, manager_external_id, status, risk)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`
	return r.pool.QueryRow(ctx, query,
		project.Name, project.StartDate, project.ExpectedEndDate, project.ActualEndDate,
		project.TotalBudget, project.Description, project.ManagerExternalID,
		project.Status, project.Risk,
	).Scan(&project.ID, &project.CreatedAt, &project.UpdatedAt)
}

func (r *pgProjectRepository) FindByID(ctx context.Context, id string) (*Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`
	p := &Project{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.StartDate, &p.ExpectedEndDate, &p.ActualEndDate,
		&p.TotalBudget, &p.Description, &p.ManagerExternalID,
		&p.Status, &p.Risk, &p.CreatedAt, &p.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// sortColumns whitelists sortable fields to their column names.
var sortColumns = map[string]string{
	"id":              "id",
	"name":            "name",
	"startDate":       "start_date",
	"expectedEndDate": "expected_end_date",
	"totalBudget":     "total_budget",
	"status":          "status",
	"createdAt":       "created_at",
}

func (r *pgProjectRepository) List(ctx context.Context, filter ProjectFilter, page PageRequest) ([]*Project, int64, error) {
	where, args := buildProjectWhere(filter)

	countQuery := `SELECT COUNT(*) FROM projects` + where
	var total int64
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	sortCol, ok := sortColumns[page.SortBy]
	if !ok {
		sortCol = "id"
	}
	direction := "ASC"
	if page.SortDesc {
		direction = "DESC"
	}

	if page.Size <= 0 {
		page.Size = 20
	}
	if page.Page < 0 {
		page.Page = 0
	}

	query := fmt.Sprintf(
		`SELECT %s FROM projects%s ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		projectColumns, where, sortCol, direction, len(args)+1, len(args)+2,
	)
	args = append(args, page.Size, page.Page*page.Size)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var projects []*Project
	for rows.Next() {
		p := &Project{}
		if err := rows.Scan(
			&p.ID, &p.Name, &p.StartDate, &p.ExpectedEndDate, &p.ActualEndDate,
			&p.TotalBudget, &p.Description, &p.ManagerExternalID,
			&p.Status, &p.Risk, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		projects = append(projects, p)
	}
	return projects, total, rows.Err()
}

func buildProjectWhere(filter ProjectFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		conditions = append(conditions, fmt.Sprintf(cond, len(args)))
	}

	if filter.Name != "" {
		add("name ILIKE $%d", "%"+filter.Name+"%")
	}
	if filter.Status != "" {
		add("status = $%d", filter.Status)
	}
	if filter.ManagerExternalID != "" {
		add("manager_external_id = $%d", filter.ManagerExternalID)
	}
	if filter.StartDateFrom != nil {
		add("start_date >= $%d", *filter.StartDateFrom)
	}
	if filter.StartDateTo != nil {
		add("start_date <= $%d", *filter.StartDateTo)
	}
	if filter.ExpectedEndFrom != nil {
		add("expected_end_date >= $%d", *filter.ExpectedEndFrom)
	}
	if filter.ExpectedEndTo != nil {
		add("expected_end_date <= $%d", *filter.ExpectedEndTo)
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func (r *pgProjectRepository) Update(ctx context.Context, project *Project) error {
	query := `
		UPDATE projects
		SET name = $2, start_date = $3, expected_end_date = $4, actual_end_date = $5,
		    total_budget = $6, description = $7, manager_external_id = $8,
		    status = $9, risk = $10, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	return r.pool.QueryRow(ctx, query,
		project.ID, project.Name, project.StartDate, project.ExpectedEndDate,
		project.ActualEndDate, project.TotalBudget, project.Description,
		project.ManagerExternalID, project.Status, project.Risk,
	).Scan(&project.UpdatedAt)
}

func (r *pgProjectRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM projects WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}
