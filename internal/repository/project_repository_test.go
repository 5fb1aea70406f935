package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestBuildProjectWhere(t *testing.T) {
	from := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		filter    ProjectFilter
		wantWhere string
		wantArgs  []interface{}
	}{
		{
			name:      "empty filter",
			filter:    ProjectFilter{},
			wantWhere: "",
			wantArgs:  nil,
		},
		{
			name:      "name only",
			filter:    ProjectFilter{Name: "billing"},
			wantWhere: " WHERE name ILIKE $1",
			wantArgs:  []interface{}{"%billing%"},
		},
		{
			name:      "status and manager",
			filter:    ProjectFilter{Status: "IN_PROGRESS", ManagerExternalID: "mgr-1"},
			wantWhere: " WHERE status = $1 AND manager_external_id = $2",
			wantArgs:  []interface{}{"IN_PROGRESS", "mgr-1"},
		},
		{
			name:      "start date range",
			filter:    ProjectFilter{StartDateFrom: &from, StartDateTo: &to},
			wantWhere: " WHERE start_date >= $1 AND start_date <= $2",
			wantArgs:  []interface{}{from, to},
		},
		{
			name: "all filters keep placeholder order",
			filter: ProjectFilter{
				Name:              "x",
				Status:            "PLANNED",
				ManagerExternalID: "mgr-1",
				StartDateFrom:     &from,
				StartDateTo:       &to,
				ExpectedEndFrom:   &from,
				ExpectedEndTo:     &to,
			},
			wantWhere: " WHERE name ILIKE $1 AND status = $2 AND manager_external_id = $3" +
				" AND start_date >= $4 AND start_date <= $5" +
				" AND expected_end_date >= $6 AND expected_end_date <= $7",
			wantArgs: []interface{}{"%x%", "PLANNED", "mgr-1", from, to, from, to},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := buildProjectWhere(tt.filter)
			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestSortColumnsWhitelist(t *testing.T) {
	col, ok := sortColumns["expectedEndDate"]
	assert.True(t, ok)
	assert.Equal(t, "expected_end_date", col)

	_, ok = sortColumns["risk; DROP TABLE projects"]
	assert.False(t, ok)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("plain error")))
	assert.False(t, IsUniqueViolation(nil))
}
