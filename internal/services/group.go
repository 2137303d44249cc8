package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"grouptee/internal/domain"
)

type groupService struct {
	groupRepo      domain.GroupRepository
	membershipRepo domain.MembershipRepository
	authz          authz
	contextTimeout time.Duration
}

// NewGroupService creates a GroupService.
func NewGroupService(
	groupRepo domain.GroupRepository,
	membershipRepo domain.MembershipRepository,
	clubAdminRepo domain.ClubAdminRepository,
	timeout time.Duration,
) domain.GroupService {
	return &groupService{
		groupRepo:      groupRepo,
		membershipRepo: membershipRepo,
		authz:          authz{groupRepo: groupRepo, membershipRepo: membershipRepo, clubAdminRepo: clubAdminRepo},
		contextTimeout: timeout,
	}
}

// Create makes a group and seats the creator as its first admin.
func (s *groupService) Create(ctx context.Context, g *domain.Group, creatorID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	g.Name = strings.TrimSpace(g.Name)
	if g.Name == "" || g.ClubID == "" {
		return fmt.Errorf("%w: name and club_id are required", domain.ErrInvalidInput)
	}

	now := time.Now()
	g.CreatedAt = now
	g.UpdatedAt = now
	if err := s.groupRepo.Create(ctx, g); err != nil {
		return fmt.Errorf("create group: %w", err)
	}

	m := &domain.Membership{
		GroupID:   g.ID,
		UserID:    creatorID,
		Role:      domain.RoleAdmin,
		CreatedAt: now,
	}
	if err := s.membershipRepo.Add(ctx, m); err != nil {
		return fmt.Errorf("add creator membership: %w", err)
	}
	return nil
}

func (s *groupService) ListMine(ctx context.Context, userID string) ([]*domain.Group, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	groups, err := s.groupRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	if groups == nil {
		groups = []*domain.Group{}
	}
	return groups, nil
}

func (s *groupService) ListMembers(ctx context.Context, groupID, callerID string) ([]*domain.Membership, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.authz.requireMember(ctx, groupID, callerID); err != nil {
		return nil, err
	}
	members, err := s.membershipRepo.ListByGroupID(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	if members == nil {
		members = []*domain.Membership{}
	}
	return members, nil
}
