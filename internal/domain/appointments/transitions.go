package appointments

import (
	"fmt"

	"github.com/carebook/carebook/internal/domain/identity"
)

// transitions is the full role and status transition table. Admins are
// handled separately: they may force any status.
var transitions = map[identity.Role]map[Status][]Status{
	identity.RoleDoctor: {
		StatusPending:    {StatusConfirmed, StatusCancelled},
		StatusConfirmed:  {StatusInProgress},
		StatusInProgress: {StatusCompleted},
	},
	identity.RoleStaff: {
		StatusPending:    {StatusConfirmed},
		StatusConfirmed:  {StatusCompleted},
		StatusInProgress: {StatusCompleted},
	},
	identity.RolePatient: {
		StatusPending: {StatusCancelled},
	},
}

// Allowed returns the statuses a role may move an appointment to from its
// current status.
func Allowed(role identity.Role, from Status) []Status {
	if role == identity.RoleAdmin {
		return []Status{StatusPending, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled}
	}
	return transitions[role][from]
}

// Can reports whether the transition is permitted for the role.
func Can(role identity.Role, from, to Status) bool {
	for _, s := range Allowed(role, from) {
		if s == to {
			return true
		}
	}
	return false
}

// Validate checks a status update against the transition table and the
// fields the target status requires. The backend enforces the same rules;
// this check exists to fail before a round trip.
func Validate(role identity.Role, from Status, update StatusUpdate) error {
	if update.Status == "" {
		// Field-only update, no transition to check.
		return nil
	}
	if !Can(role, from, update.Status) {
		return fmt.Errorf("%s may not move an appointment from %s to %s", role, from, update.Status)
	}
	if role == identity.RoleDoctor && update.Status == StatusCancelled && update.DeclineReason == "" {
		return fmt.Errorf("declining an appointment requires a reason")
	}
	if update.Status == StatusCompleted && role == identity.RoleDoctor && update.Diagnosis == "" {
		return fmt.Errorf("completing an appointment requires a diagnosis")
	}
	return nil
}
