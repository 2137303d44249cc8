package services

import (
	"context"
	"errors"
	"fmt"

	"grouptee/internal/domain"
)

// authz resolves whether a caller may read or administer a group. Admin rights
// come from an admin-role membership or from being a club admin of the group's
// club.
type authz struct {
	groupRepo      domain.GroupRepository
	membershipRepo domain.MembershipRepository
	clubAdminRepo  domain.ClubAdminRepository
}

func (a authz) requireMember(ctx context.Context, groupID, userID string) error {
	_, err := a.membershipRepo.GetByGroupAndUser(ctx, groupID, userID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("get membership: %w", err)
	}
	return a.requireClubAdmin(ctx, groupID, userID)
}

func (a authz) requireAdmin(ctx context.Context, groupID, userID string) error {
	m, err := a.membershipRepo.GetByGroupAndUser(ctx, groupID, userID)
	if err == nil && m.Role == domain.RoleAdmin {
		return nil
	}
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("get membership: %w", err)
	}
	return a.requireClubAdmin(ctx, groupID, userID)
}

func (a authz) requireClubAdmin(ctx context.Context, groupID, userID string) error {
	group, err := a.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get group: %w", err)
	}
	ok, err := a.clubAdminRepo.IsClubAdmin(ctx, group.ClubID, userID)
	if err != nil {
		return fmt.Errorf("check club admin: %w", err)
	}
	if !ok {
		return domain.ErrForbidden
	}
	return nil
}
