package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// InvitationType distinguishes what claiming the invitation grants.
type InvitationType string

const (
	InvitationTypeGroupMember InvitationType = "group_member"
	InvitationTypeClubAdmin   InvitationType = "club_admin"
)

// InviteCodeLength is the fixed length of invite codes. Codes of any other
// length are rejected locally, before any repository call.
const InviteCodeLength = 6

// Invitation invites a person (by display name, optionally email) into a group
// or as a club admin. Unclaimed group_member invitations appear on the roster
// as pending members. Claiming is atomic: it creates the membership or
// club-admin row and stamps claimed_by/claimed_at in one transaction.
// swagger:model Invitation
type Invitation struct {
	ID           string         `json:"id"`
	Code         string         `json:"code"`
	Type         InvitationType `json:"type"`
	GroupID      *string        `json:"group_id,omitempty"`
	ClubID       *string        `json:"club_id,omitempty"`
	TargetRole   string         `json:"target_role"`
	DisplayName  string         `json:"display_name"`
	InvitedEmail string         `json:"invited_email,omitempty"`
	ClaimedBy    *string        `json:"claimed_by,omitempty"`
	ClaimedAt    *time.Time     `json:"claimed_at,omitempty"`
	ExpiresAt    *time.Time     `json:"expires_at,omitempty"`
	CreatedBy    string         `json:"created_by"`
	CreatedAt    time.Time      `json:"created_at"`
}

// Claimed reports whether the invitation has been redeemed.
func (i *Invitation) Claimed() bool {
	return i.ClaimedBy != nil
}

// Expired reports whether the invitation lapsed before now. Invitations with
// no expiry never expire.
func (i *Invitation) Expired(now time.Time) bool {
	return i.ExpiresAt != nil && i.ExpiresAt.Before(now)
}

// NormalizeInviteCode trims whitespace and uppercases a user-entered code.
func NormalizeInviteCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidateInviteCode checks the code's shape locally. Wrong-length codes fail
// here so a typo never costs a round trip.
func ValidateInviteCode(code string) error {
	if len(code) != InviteCodeLength {
		return fmt.Errorf("%w: invite code must be %d characters", ErrInvalidInput, InviteCodeLength)
	}
	return nil
}

// ErrDuplicateCode is returned when a generated code collides with an existing
// invitation; the service regenerates and retries.
var ErrDuplicateCode = errors.New("invite code already exists")

// InvitationRepository defines storage operations for invitations. Claim is
// the atomic redemption: it locks the invitation row, verifies it is unclaimed
// and unexpired, creates the membership (or club-admin) row, and marks the
// invitation claimed, all in one transaction.
type InvitationRepository interface {
	Create(ctx context.Context, inv *Invitation) error
	GetByID(ctx context.Context, id string) (*Invitation, error)
	GetByCode(ctx context.Context, code string) (*Invitation, error)
	ListUnclaimedByGroupID(ctx context.Context, groupID string, typ InvitationType) ([]*Invitation, error)
	ListByGroupID(ctx context.Context, groupID, search string, params PaginationParams) ([]*Invitation, int, error)
	Claim(ctx context.Context, code, userID string) (*Invitation, error)
}

// InvitationService defines invite-code generation and redemption.
type InvitationService interface {
	Create(ctx context.Context, inv *Invitation, inviterID string) (*Invitation, error)
	Claim(ctx context.Context, code, userID string) (*Invitation, error)
	ListByGroup(ctx context.Context, groupID, callerID, search string, params PaginationParams) ([]*Invitation, int, error)
}
