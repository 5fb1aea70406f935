package service

import (
	"context"
	"time"

	"github.com/atlas-pm/portfolio-backend/internal/members"
	"github.com/atlas-pm/portfolio-backend/internal/repository"
	"github.com/atlas-pm/portfolio-backend/internal/types"
	"github.com/shopspring/decimal"
)

const (
	maxMembersPerProject    = 10
	maxActiveProjectsMember = 3
)

// ============================================
// Project Service
// ============================================

// ProjectInput carries the client-settable project fields. Risk is never
// part of it; the service derives risk on every create and update.
type ProjectInput struct {
	Name              string
	StartDate         time.Time
	ExpectedEndDate   time.Time
	ActualEndDate     *time.Time
	TotalBudget       decimal.Decimal
	Description       *string
	ManagerExternalID string
	Status            string
}

type ProjectService interface {
	Create(ctx context.Context, in ProjectInput) (*repository.Project, error)
	GetByID(ctx context.Context, id string) (*repository.Project, error)
	List(ctx context.Context, filter repository.ProjectFilter, page repository.PageRequest) ([]*repository.Project, int64, error)
	Update(ctx context.Context, id string, in ProjectInput) (*repository.Project, error)
	Delete(ctx context.Context, id string) error
	ChangeStatus(ctx context.Context, id, newStatus string, actualEndDate *time.Time) (*repository.Project, error)
	AllocateMembers(ctx context.Context, projectID string, memberExternalIDs []string) error
	RemoveMemberAllocation(ctx context.Context, projectID, memberExternalID string) error
	ListAllocatedMembers(ctx context.Context, projectID string) ([]string, error)
}

type projectService struct {
	projectRepo repository.ProjectRepository
	allocRepo   repository.AllocationRepository
	directory   members.Directory
}

func NewProjectService(projectRepo repository.ProjectRepository, allocRepo repository.AllocationRepository, directory members.Directory) ProjectService {
	return &projectService{
		projectRepo: projectRepo,
		allocRepo:   allocRepo,
		directory:   directory,
	}
}

func (s *projectService) Create(ctx context.Context, in ProjectInput) (*repository.Project, error) {
	// Domain invariants are checked before the directory call so a bad
	// request never costs an external round trip.
	if err := validateBudget(in.TotalBudget); err != nil {
		return nil, err
	}
	if err := validateExpectedVsStart(in.ExpectedEndDate, in.StartDate); err != nil {
		return nil, err
	}

	managerID, err := s.resolveManager(ctx, in.ManagerExternalID)
	if err != nil {
		return nil, err
	}

	status := in.Status
	if status == "" {
		status = types.StatusUnderReview
	}

	project := &repository.Project{
		Name:              in.Name,
		StartDate:         in.StartDate,
		ExpectedEndDate:   in.ExpectedEndDate,
		ActualEndDate:     in.ActualEndDate,
		TotalBudget:       in.TotalBudget,
		Description:       in.Description,
		ManagerExternalID: managerID,
		Status:            status,
		Risk:              ClassifyRisk(in.TotalBudget, in.StartDate, in.ExpectedEndDate),
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *projectService) GetByID(ctx context.Context, id string) (*repository.Project, error) {
	project, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrNotFound
	}
	return project, nil
}

func (s *projectService) List(ctx context.Context, filter repository.ProjectFilter, page repository.PageRequest) ([]*repository.Project, int64, error) {
	return s.projectRepo.List(ctx, filter, page)
}

func (s *projectService) Update(ctx context.Context, id string, in ProjectInput) (*repository.Project, error) {
	project, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	project.Name = in.Name
	project.StartDate = in.StartDate
	project.ExpectedEndDate = in.ExpectedEndDate
	project.ActualEndDate = in.ActualEndDate
	project.TotalBudget = in.TotalBudget
	project.Description = in.Description

	if err := validateBudget(project.TotalBudget); err != nil {
		return nil, err
	}
	if err := validateExpectedVsStart(project.ExpectedEndDate, project.StartDate); err != nil {
		return nil, err
	}

	// The directory call is the expensive, fallible step; skip it when
	// the manager did not change.
	if project.ManagerExternalID != in.ManagerExternalID {
		managerID, err := s.resolveManager(ctx, in.ManagerExternalID)
		if err != nil {
			return nil, err
		}
		project.ManagerExternalID = managerID
	}

	project.Risk = ClassifyRisk(project.TotalBudget, project.StartDate, project.ExpectedEndDate)

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *projectService) Delete(ctx context.Context, id string) error {
	project, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	switch project.Status {
	case types.StatusStarted, types.StatusInProgress, types.StatusClosed:
		return businessRule("Project cannot be deleted in current status")
	}
	return s.projectRepo.Delete(ctx, id)
}

func (s *projectService) ChangeStatus(ctx context.Context, id, newStatus string, actualEndDate *time.Time) (*repository.Project, error) {
	project, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := ValidateTransition(project.Status, newStatus); err != nil {
		return nil, err
	}

	if newStatus == types.StatusClosed {
		end := actualEndDate
		if end == nil {
			end = project.ActualEndDate
		}
		if end == nil {
			return nil, businessRule("actualEndDate is required when finishing (CLOSED)")
		}
		if end.Before(project.StartDate) {
			return nil, businessRule("actualEndDate must be >= startDate")
		}
		project.ActualEndDate = end
	}

	project.Status = newStatus
	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// AllocateMembers admits a batch of members to a project. Requested ids
// are validated one by one; a rejection aborts the batch, leaving
// allocations inserted by earlier iterations in place.
func (s *projectService) AllocateMembers(ctx context.Context, projectID string, memberExternalIDs []string) error {
	if len(memberExternalIDs) == 0 {
		return businessRule("You must provide at least one memberExternalId")
	}

	toAllocate := make(map[string]bool, len(memberExternalIDs))
	for _, id := range memberExternalIDs {
		toAllocate[id] = true
	}

	project, err := s.GetByID(ctx, projectID)
	if err != nil {
		return err
	}
	if types.IsTerminalStatus(project.Status) {
		return businessRule("Allocations are not allowed for closed/canceled projects")
	}

	current, err := s.allocRepo.ListMemberIDs(ctx, projectID)
	if err != nil {
		return err
	}
	currentSet := make(map[string]bool, len(current))
	for _, id := range current {
		currentSet[id] = true
	}

	newOnes := 0
	for id := range toAllocate {
		if !currentSet[id] {
			newOnes++
		}
	}

	// Capacity is checked up front so an oversized batch never triggers
	// a single directory call.
	finalCount := len(currentSet) + newOnes
	if finalCount > maxMembersPerProject {
		return businessRule("Project allocation limit exceeded (max=%d)", maxMembersPerProject)
	}

	for externalID := range toAllocate {
		member, err := s.directory.Lookup(ctx, externalID)
		if err != nil {
			return err
		}
		if member == nil {
			return businessRule("Member not found in external Members API (id=%s)", externalID)
		}
		if member.Role != types.RoleEmployee {
			return businessRule("Only members with role EMPLOYEE can be allocated (id=%s)", externalID)
		}

		activeCount, err := s.allocRepo.CountActiveForMember(ctx, externalID, types.TerminalStatuses)
		if err != nil {
			return err
		}

		// A member already on this project keeps their current count;
		// a new one would gain a project.
		alreadyHere := currentSet[externalID]
		effectiveActive := activeCount
		if !alreadyHere {
			effectiveActive++
		}
		if effectiveActive > maxActiveProjectsMember {
			return businessRule("Member exceeds active projects limit (max=%d) (id=%s)", maxActiveProjectsMember, externalID)
		}

		if !alreadyHere {
			exists, err := s.allocRepo.Exists(ctx, projectID, externalID)
			if err != nil {
				return err
			}
			if !exists {
				// A concurrent caller may have inserted the same pair;
				// the unique constraint resolves the race.
				if err := s.allocRepo.Insert(ctx, projectID, externalID); err != nil && !repository.IsUniqueViolation(err) {
					return err
				}
			}
		}
	}

	if finalCount < 1 {
		return businessRule("Project must have at least 1 allocated member")
	}
	return nil
}

func (s *projectService) RemoveMemberAllocation(ctx context.Context, projectID, memberExternalID string) error {
	project, err := s.GetByID(ctx, projectID)
	if err != nil {
		return err
	}
	if types.IsTerminalStatus(project.Status) {
		return businessRule("Allocations are not allowed for closed/canceled projects")
	}

	current, err := s.allocRepo.ListMemberIDs(ctx, projectID)
	if err != nil {
		return err
	}

	allocated := false
	for _, id := range current {
		if id == memberExternalID {
			allocated = true
			break
		}
	}
	if !allocated {
		// Idempotent delete: removing an id that is not allocated is a no-op.
		return nil
	}

	if len(current) <= 1 {
		return businessRule("Project must have at least 1 allocated member")
	}

	return s.allocRepo.Delete(ctx, projectID, memberExternalID)
}

func (s *projectService) ListAllocatedMembers(ctx context.Context, projectID string) ([]string, error) {
	if _, err := s.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	return s.allocRepo.ListMemberIDs(ctx, projectID)
}

func (s *projectService) resolveManager(ctx context.Context, externalID string) (string, error) {
	manager, err := s.directory.Lookup(ctx, externalID)
	if err != nil {
		return "", err
	}
	if manager == nil {
		return "", businessRule("Manager not found in external Members API (id=%s)", externalID)
	}
	if manager.Role != types.RoleManager {
		return "", businessRule("The specified member does not have the MANAGER role")
	}
	return manager.ID, nil
}

func validateBudget(totalBudget decimal.Decimal) error {
	if totalBudget.LessThanOrEqual(decimal.Zero) {
		return businessRule("totalBudget must be > 0")
	}
	return nil
}

func validateExpectedVsStart(expectedEnd, start time.Time) error {
	if expectedEnd.Before(start) {
		return businessRule("expectedEndDate must be >= startDate")
	}
	return nil
}
