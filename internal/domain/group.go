package domain

import (
	"context"
	"time"
)

// Membership roles within a group.
const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

// Club is the top-level organization a group belongs to.
// swagger:model Club
type Club struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Group is a golf group whose members share a tee sheet.
// swagger:model Group
type Group struct {
	ID        string    `json:"id"`
	ClubID    string    `json:"club_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewGroup returns a Group with the given fields. ID is set by the repository on create.
func NewGroup(clubID, name string, createdAt, updatedAt time.Time) *Group {
	return &Group{
		ClubID:    clubID,
		Name:      name,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// Membership is a confirmed user's place in a group. DisplayName and Email are
// joined from the profile on reads.
// swagger:model Membership
type Membership struct {
	ID          string    `json:"id"`
	GroupID     string    `json:"group_id"`
	UserID      string    `json:"user_id"`
	Role        string    `json:"role"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
	CreatedAt   time.Time `json:"created_at"`
}

// GroupRepository defines storage operations for groups.
type GroupRepository interface {
	Create(ctx context.Context, g *Group) error
	GetByID(ctx context.Context, id string) (*Group, error)
	ListByUserID(ctx context.Context, userID string) ([]*Group, error)
}

// MembershipRepository defines storage operations for group memberships.
type MembershipRepository interface {
	Add(ctx context.Context, m *Membership) error
	GetByGroupAndUser(ctx context.Context, groupID, userID string) (*Membership, error)
	ListByGroupID(ctx context.Context, groupID string) ([]*Membership, error)
	Remove(ctx context.Context, groupID, userID string) error
}

// ClubAdminRepository defines storage for club administrator rows.
type ClubAdminRepository interface {
	Add(ctx context.Context, clubID, userID string) error
	IsClubAdmin(ctx context.Context, clubID, userID string) (bool, error)
}

// GroupService defines group management operations.
type GroupService interface {
	Create(ctx context.Context, g *Group, creatorID string) error
	ListMine(ctx context.Context, userID string) ([]*Group, error)
	ListMembers(ctx context.Context, groupID, callerID string) ([]*Membership, error)
}
