package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Allocation struct {
	ProjectID        string
	MemberExternalID string
	AllocatedAt      time.Time
}

type AllocationRepository interface {
	ListMemberIDs(ctx context.Context, projectID string) ([]string, error)
	CountActiveForMember(ctx context.Context, memberExternalID string, excludedStatuses []string) (int64, error)
	Exists(ctx context.Context, projectID, memberExternalID string) (bool, error)
	Insert(ctx context.Context, projectID, memberExternalID string) error
	Delete(ctx context.Context, projectID, memberExternalID string) error
}

type pgAllocationRepository struct {
	pool *pgxpool.Pool
}

func NewAllocationRepository(pool *pgxpool.Pool) AllocationRepository {
	return &pgAllocationRepository{pool: pool}
}

func (r *pgAllocationRepository) ListMemberIDs(ctx context.Context, projectID string) ([]string, error) {
	query := `
		SELECT member_external_id FROM project_members
		WHERE project_id = $1
		ORDER BY member_external_id
	`
	rows, err := r.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var memberIDs []string
	for rows.Next() {
		var memberID string
		if err := rows.Scan(&memberID); err != nil {
			return nil, err
		}
		memberIDs = append(memberIDs, memberID)
	}
	return memberIDs, rows.Err()
}

func (r *pgAllocationRepository) CountActiveForMember(ctx context.Context, memberExternalID string, excludedStatuses []string) (int64, error) {
	query := `
		SELECT COUNT(DISTINCT pm.project_id)
		FROM project_members pm
		JOIN projects p ON p.id = pm.project_id
		WHERE pm.member_external_id = $1
		  AND p.status != ALL($2)
	`
	var count int64
	err := r.pool.QueryRow(ctx, query, memberExternalID, excludedStatuses).Scan(&count)
	return count, err
}

func (r *pgAllocationRepository) Exists(ctx context.Context, projectID, memberExternalID string) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM project_members
			WHERE project_id = $1 AND member_external_id = $2
		)
	`
	var exists bool
	err := r.pool.QueryRow(ctx, query, projectID, memberExternalID).Scan(&exists)
	return exists, err
}

func (r *pgAllocationRepository) Insert(ctx context.Context, projectID, memberExternalID string) error {
	query := `
		INSERT INTO project_members (project_id, member_external_id)
		VALUES ($1, $2)
	`
	_, err := r.pool.Exec(ctx, query, projectID, memberExternalID)
	return err
}

func (r *pgAllocationRepository) Delete(ctx context.Context, projectID, memberExternalID string) error {
	query := `DELETE FROM project_members WHERE project_id = $1 AND member_external_id = $2`
	_, err := r.pool.Exec(ctx, query, projectID, memberExternalID)
	return err
}

// IsUniqueViolation reports whether err is a Postgres unique-constraint
// violation. Concurrent duplicate inserts of the same (project, member)
// pair are resolved by tolerating this error, not by pre-locking.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
