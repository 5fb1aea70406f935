package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/atlas-pm/portfolio-backend/internal/db"
	"github.com/atlas-pm/portfolio-backend/internal/members"
	"github.com/atlas-pm/portfolio-backend/internal/repository"
)

var ErrNotFound = errors.New("resource not found")

// BusinessRuleError reports a violated domain invariant. The message is
// meant for the caller and names the offending value or id.
type BusinessRuleError struct {
	Message string
}

func (e *BusinessRuleError) Error() string { return e.Message }

func businessRule(format string, args ...interface{}) error {
	return &BusinessRuleError{Message: fmt.Sprintf(format, args...)}
}

// IsBusinessRule reports whether err is a business-rule violation.
func IsBusinessRule(err error) bool {
	var bre *BusinessRuleError
	return errors.As(err, &bre)
}

// ============================================
// Services Container
// ============================================

type Services struct {
	Project ProjectService
	Report  ReportService
}

func NewServices(repos *repository.Repositories, directory members.Directory, cache *db.RedisDB, reportCacheTTL time.Duration) *Services {
	return &Services{
		Project: NewProjectService(repos.ProjectRepo, repos.AllocationRepo, directory),
		Report:  NewReportService(repos.ReportRepo, cache, reportCacheTTL),
	}
}
