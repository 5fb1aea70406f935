package types

// Project Status values
const (
	StatusUnderReview    = "UNDER_REVIEW"
	StatusReviewDone     = "REVIEW_DONE"
	StatusReviewApproved = "REVIEW_APPROVED"
	StatusStarted        = "STARTED"
	StatusPlanned        = "PLANNED"
	StatusInProgress     = "IN_PROGRESS"
	StatusClosed         = "CLOSED"
	StatusCancelled      = "CANCELLED"
)

// Risk values (derived from budget and schedule, never client-set)
const (
	RiskLow    = "LOW"
	RiskMedium = "MEDIUM"
	RiskHigh   = "HIGH"
)

// External member roles
const (
	RoleEmployee = "EMPLOYEE"
	RoleManager  = "MANAGER"
)

// Valid status values in lifecycle order (CANCELLED last, reachable from anywhere)
var ValidProjectStatuses = []string{
	StatusUnderReview, StatusReviewDone, StatusReviewApproved,
	StatusStarted, StatusPlanned, StatusInProgress,
	StatusClosed, StatusCancelled,
}

var ValidRisks = []string{RiskLow, RiskMedium, RiskHigh}

var ValidMemberRoles = []string{RoleEmployee, RoleManager}

// Statuses in which a project no longer counts as active
var TerminalStatuses = []string{StatusClosed, StatusCancelled}

// Helper functions for validation
func IsValidProjectStatus(status string) bool {
	for _, s := range ValidProjectStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func IsValidMemberRole(role string) bool {
	for _, r := range ValidMemberRoles {
		if r == role {
			return true
		}
	}
	return false
}

func IsTerminalStatus(status string) bool {
	return status == StatusClosed || status == StatusCancelled
}
