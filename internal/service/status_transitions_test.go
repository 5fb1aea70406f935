package service

import (
	"testing"

	"github.com/atlas-pm/portfolio-backend/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestValidateTransition_FollowsSequence(t *testing.T) {
	sequence := []string{
		types.StatusUnderReview,
		types.StatusReviewDone,
		types.StatusReviewApproved,
		types.StatusStarted,
		types.StatusPlanned,
		types.StatusInProgress,
		types.StatusClosed,
	}

	for i := 0; i < len(sequence)-1; i++ {
		assert.NoError(t, ValidateTransition(sequence[i], sequence[i+1]),
			"step %s -> %s must be allowed", sequence[i], sequence[i+1])
	}
}

func TestValidateTransition_CancelAlwaysAllowed(t *testing.T) {
	for _, current := range types.ValidProjectStatuses {
		assert.NoError(t, ValidateTransition(current, types.StatusCancelled),
			"%s -> CANCELLED must be allowed", current)
	}
}

func TestValidateTransition_FullPairMatrix(t *testing.T) {
	for _, current := range types.ValidProjectStatuses {
		for _, next := range types.ValidProjectStatuses {
			err := ValidateTransition(current, next)

			switch {
			case next == types.StatusCancelled:
				assert.NoError(t, err, "%s -> %s", current, next)
			case statusSuccessor[current] == next:
				assert.NoError(t, err, "%s -> %s", current, next)
			default:
				assert.Error(t, err, "%s -> %s must be rejected", current, next)
				assert.True(t, IsBusinessRule(err))
				assert.Contains(t, err.Error(), current)
				assert.Contains(t, err.Error(), next)
			}
		}
	}
}

func TestValidateTransition_TerminalStatesHaveNoSuccessor(t *testing.T) {
	for _, terminal := range []string{types.StatusClosed, types.StatusCancelled} {
		for _, next := range types.ValidProjectStatuses {
			if next == types.StatusCancelled {
				continue
			}
			assert.Error(t, ValidateTransition(terminal, next),
				"%s -> %s must be rejected", terminal, next)
		}
	}
}

func TestValidateTransition_NoSkipping(t *testing.T) {
	assert.Error(t, ValidateTransition(types.StatusUnderReview, types.StatusReviewApproved))
	assert.Error(t, ValidateTransition(types.StatusUnderReview, types.StatusClosed))
	assert.Error(t, ValidateTransition(types.StatusStarted, types.StatusInProgress))
}
