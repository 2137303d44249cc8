package domain

import (
	"context"
	"time"
)

// Assignment places one roster entry (plus their declared guests) into a tee
// time's capacity. Exactly one of UserID and InvitationID is set: a confirmed
// member is keyed by user, a pending member by their unclaimed invitation.
// Each assignment consumes 1 + len(GuestNames) capacity units.
// swagger:model Assignment
type Assignment struct {
	ID           string    `json:"id"`
	TeeTimeID    string    `json:"tee_time_id"`
	WeekendID    string    `json:"weekend_id"`
	UserID       *string   `json:"user_id,omitempty"`
	InvitationID *string   `json:"invitation_id,omitempty"`
	DisplayName  string    `json:"display_name"`
	GuestNames   []string  `json:"guest_names"`
	CreatedAt    time.Time `json:"created_at"`
}

// Spots returns the capacity units this assignment consumes.
func (a *Assignment) Spots() int {
	return 1 + len(a.GuestNames)
}

// Matches reports whether the assignment belongs to the given candidate,
// keyed by whichever of user/invitation ID the candidate carries.
func (a *Assignment) Matches(c AssignmentCandidate) bool {
	if c.UserID != nil && a.UserID != nil {
		return *a.UserID == *c.UserID
	}
	if c.InvitationID != nil && a.InvitationID != nil {
		return *a.InvitationID == *c.InvitationID
	}
	return false
}

// AssignmentCandidate identifies who is being placed into (or removed from) a
// tee time. Exactly one of UserID and InvitationID must be set.
type AssignmentCandidate struct {
	UserID       *string `json:"user_id,omitempty"`
	InvitationID *string `json:"invitation_id,omitempty"`
}

// Valid reports whether exactly one identifier is set.
func (c AssignmentCandidate) Valid() bool {
	return (c.UserID != nil) != (c.InvitationID != nil)
}

// AutoAssignResult reports what a randomGreedyBinFill pass accomplished.
type AutoAssignResult struct {
	Assigned   int `json:"assigned"`
	SpotsUsed  int `json:"spots_used"`
	MaxPlayers int `json:"max_players"`
}

// AssignmentRepository defines storage operations for assignments. Create is
// authoritative for the capacity invariant: it serializes against concurrent
// writers on the same tee time and returns ErrCapacityExceeded when the write
// would push usage past max_players.
type AssignmentRepository interface {
	Create(ctx context.Context, a *Assignment) error
	ListByTeeTimeID(ctx context.Context, teeTimeID string) ([]*Assignment, error)
	// ListByDate returns all assignments for tee times on the given date,
	// across the whole group's sheet.
	ListByDate(ctx context.Context, groupID string, date time.Time) ([]*Assignment, error)
	CountByTeeTimeID(ctx context.Context, teeTimeID string) (int, error)
	DeleteByUser(ctx context.Context, teeTimeID, userID string) error
	DeleteByInvitation(ctx context.Context, teeTimeID, invitationID string) error
}

// AssignmentService defines admin-facing placement of roster members into tee
// times.
type AssignmentService interface {
	// Assign places the candidate into the tee time and returns the updated
	// player list. Guest names default to "<full name>'s Guest i" from the
	// candidate's declared guest count.
	Assign(ctx context.Context, teeTimeID string, candidate AssignmentCandidate, callerID string) ([]*Assignment, error)
	// Remove deletes the candidate's assignment. Guests are removed only as
	// part of removing their host; there is no guest-only removal.
	Remove(ctx context.Context, teeTimeID string, candidate AssignmentCandidate, callerID string) error
	// AutoAssign runs randomGreedyBinFill: interested, unassigned roster
	// members in random order, admitted while they fit. It is a placeholder
	// heuristic with no fairness or preference guarantee.
	AutoAssign(ctx context.Context, teeTimeID, callerID string) (*AutoAssignResult, error)
}
