// Package review holds the pure review-status state machine. It has no
// persistence or transport dependencies and is exercised inside the paper
// service's transactional boundary.
package review

import (
	"fmt"

	"paperflow/internal/apperr"
	"paperflow/internal/model"
)

// transitions maps (current status, actor role) to the set of statuses that
// role may set next. Absent entries mean no transition is allowed.
var transitions = map[model.Status]map[model.Role][]model.Status{
	model.StatusPendingReview: {
		model.RoleStudent: {model.StatusPendingReview},
		model.RoleTeacher: {model.StatusReviewed, model.StatusFinal},
	},
	model.StatusReviewed: {
		model.RoleStudent: {model.StatusUpdated},
		model.RoleTeacher: {model.StatusReviewed, model.StatusFinal},
	},
	model.StatusUpdated: {
		model.RoleStudent: {model.StatusUpdated},
		model.RoleTeacher: {model.StatusNeedsUpdate, model.StatusFinal},
	},
	model.StatusNeedsUpdate: {
		model.RoleStudent: {model.StatusUpdated},
		model.RoleTeacher: {model.StatusNeedsUpdate, model.StatusFinal},
	},
}

// CanTransition reports whether role may move a paper from current to target.
func CanTransition(current model.Status, role model.Role, target model.Status) bool {
	allowed, ok := transitions[current]
	if !ok {
		return false
	}
	for _, s := range allowed[role] {
		if s == target {
			return true
		}
	}
	return false
}

// RequireMutable rejects any mutation of a finalized paper. Final is
// absorbing: every mutating operation checks this, not just status changes.
func RequireMutable(current model.Status) error {
	if current == model.StatusFinal {
		return apperr.Conflict("ALREADY_FINAL", "paper review is finalized")
	}
	return nil
}

// Transition validates a requested status change and returns the new status.
func Transition(current model.Status, role model.Role, target model.Status) (model.Status, error) {
	if err := RequireMutable(current); err != nil {
		return "", err
	}
	if !target.Valid() {
		return "", apperr.Validation("INVALID_STATUS", fmt.Sprintf("unknown status %q", string(target)))
	}
	if !CanTransition(current, role, target) {
		return "", apperr.Conflict("INVALID_TRANSITION",
			fmt.Sprintf("%s may not move paper from %s to %s", role, current, target))
	}
	return target, nil
}

// StartCycle validates the owner-only CreateReviewStatus operation. It is
// permitted exactly once, while the paper is still Uploaded and no review
// cycle has been started (tracked by an explicit flag, not derived from
// history). The resulting status is PendingReview.
func StartCycle(current model.Status, cycleStarted bool) (model.Status, error) {
	if err := RequireMutable(current); err != nil {
		return "", err
	}
	if cycleStarted {
		return "", apperr.Conflict("REVIEW_CYCLE_STARTED", "review cycle already started")
	}
	if current != model.StatusUploaded {
		return "", apperr.Conflict("INVALID_TRANSITION",
			fmt.Sprintf("review cycle may only start from %s, paper is %s", model.StatusUploaded, current))
	}
	return model.StatusPendingReview, nil
}
