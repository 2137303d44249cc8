package domain

import "errors"

// Sentinel errors shared across repositories and services. Controllers map
// these to HTTP status codes; services wrap lower-level errors with %w.
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")

	// ErrAlreadyMember is returned when adding a user who already belongs to the group.
	ErrAlreadyMember = errors.New("already a group member")

	// ErrAlreadyAssigned is returned when the candidate already holds a spot in the tee time.
	ErrAlreadyAssigned = errors.New("already assigned to this tee time")

	// ErrCapacityExceeded is the authoritative rejection from the assignment store
	// when a write would push a tee time past max_players. Its message is surfaced
	// to callers verbatim.
	ErrCapacityExceeded = errors.New("not enough space")

	// ErrDateLocked is returned when a member tries to edit an interest record
	// inside the lockout window.
	ErrDateLocked = errors.New("date is locked")

	ErrInvitationClaimed = errors.New("invitation already claimed")
	ErrInvitationExpired = errors.New("invitation expired")
)
