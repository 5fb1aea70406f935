package service

import (
	"github.com/atlas-pm/portfolio-backend/internal/types"
)

// statusSuccessor maps each status to its single allowed non-cancel
// successor. CLOSED and CANCELLED are terminal and have no entry.
var statusSuccessor = map[string]string{
	types.StatusUnderReview:    types.StatusReviewDone,
	types.StatusReviewDone:     types.StatusReviewApproved,
	types.StatusReviewApproved: types.StatusStarted,
	types.StatusStarted:        types.StatusPlanned,
	types.StatusPlanned:        types.StatusInProgress,
	types.StatusInProgress:     types.StatusClosed,
}

// ValidateTransition enforces the lifecycle order. CANCELLED is always
// reachable, even from terminal states; everything else must follow the
// fixed sequence one step at a time.
func ValidateTransition(current, next string) error {
	if next == types.StatusCancelled {
		return nil
	}
	if successor, ok := statusSuccessor[current]; ok && successor == next {
		return nil
	}
	return businessRule("Invalid status transition: %s -> %s", current, next)
}
