package domain

import "context"

// RosterKind tags the two roster member variants.
type RosterKind string

const (
	RosterConfirmed RosterKind = "confirmed"
	RosterPending   RosterKind = "pending"
)

// RosterMember is one entry in the unified "people who might play" list: either
// a confirmed group member or a pending (invited but unclaimed) participant.
// ID carries the user ID for confirmed members and the invitation ID for
// pending ones; the two namespaces never collide because the constructors below
// are the only way a member is built.
// swagger:model RosterMember
type RosterMember struct {
	ID           string     `json:"id"`
	DisplayName  string     `json:"display_name"`
	Role         string     `json:"role"`
	Kind         RosterKind `json:"kind"`
	Pending      bool       `json:"is_pending"`
	MembershipID string     `json:"membership_id,omitempty"`
	InvitationID string     `json:"invitation_id,omitempty"`
}

// NewConfirmedRosterMember maps a membership row into the roster shape.
func NewConfirmedRosterMember(m *Membership) RosterMember {
	return RosterMember{
		ID:           m.UserID,
		DisplayName:  m.DisplayName,
		Role:         m.Role,
		Kind:         RosterConfirmed,
		MembershipID: m.ID,
	}
}

// NewPendingRosterMember maps an unclaimed invitation into the roster shape.
func NewPendingRosterMember(inv *Invitation) RosterMember {
	return RosterMember{
		ID:           inv.ID,
		DisplayName:  inv.DisplayName,
		Role:         inv.TargetRole,
		Kind:         RosterPending,
		Pending:      true,
		InvitationID: inv.ID,
	}
}

// Candidate returns the assignment candidate key for this roster member.
func (m RosterMember) Candidate() AssignmentCandidate {
	if m.Pending {
		id := m.InvitationID
		return AssignmentCandidate{InvitationID: &id}
	}
	id := m.ID
	return AssignmentCandidate{UserID: &id}
}

// RosterService produces the unified, alphabetically sorted participant list
// for a group.
type RosterService interface {
	Roster(ctx context.Context, groupID, callerID string) ([]RosterMember, error)
}
