package warehouse

import (
	"errors"

	"site-ops-api-server/internal/models"
)

// Domain errors surfaced by the lifecycle engine and its accessors.
var (
	ErrInvalidState      = errors.New("invalid state")
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrForbidden         = errors.New("forbidden")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrNotFound          = errors.New("not found")
)

// Actor identifies who is performing a lifecycle operation. It is passed
// explicitly into every call; there is no ambient current-user state.
type Actor struct {
	ID   string
	Name string
	Role string
}

// transitions is the legal state machine for a MaterialRequest.
// issued and rejected are terminal.
var transitions = map[models.RequestStatus][]models.RequestStatus{
	models.StatusSubmitted: {models.StatusApproved, models.StatusRejected},
	models.StatusApproved:  {models.StatusIssued, models.StatusRejected},
}

// CanTransition reports whether a request may move from one status to another.
func CanTransition(from, to models.RequestStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// transitionRoles maps each target status to the roles allowed to drive it.
var transitionRoles = map[models.RequestStatus][]string{
	models.StatusApproved: {"manager", "admin"},
	models.StatusRejected: {"manager", "admin"},
	models.StatusIssued:   {"warehouse", "admin"},
}

// RoleCanTransition reports whether the given role may drive a request to
// the target status.
func RoleCanTransition(role string, to models.RequestStatus) bool {
	for _, allowed := range transitionRoles[to] {
		if allowed == role {
			return true
		}
	}
	return false
}
