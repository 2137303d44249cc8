package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"grouptee/internal/domain"
)

type rosterService struct {
	membershipRepo domain.MembershipRepository
	invitationRepo domain.InvitationRepository
	authz          authz
	collator       *collate.Collator
	contextTimeout time.Duration
}

// NewRosterService creates a RosterService that merges confirmed members with
// pending (unclaimed) group invitations.
func NewRosterService(
	groupRepo domain.GroupRepository,
	membershipRepo domain.MembershipRepository,
	invitationRepo domain.InvitationRepository,
	clubAdminRepo domain.ClubAdminRepository,
	timeout time.Duration,
) domain.RosterService {
	return &rosterService{
		membershipRepo: membershipRepo,
		invitationRepo: invitationRepo,
		authz:          authz{groupRepo: groupRepo, membershipRepo: membershipRepo, clubAdminRepo: clubAdminRepo},
		collator:       collate.New(language.English, collate.IgnoreCase),
		contextTimeout: timeout,
	}
}

// Roster returns one alphabetically sorted list of everyone who might play:
// confirmed memberships plus unclaimed group_member invitations. An empty
// roster is valid. The two fetches run in parallel.
func (s *rosterService) Roster(ctx context.Context, groupID, callerID string) ([]domain.RosterMember, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.authz.requireMember(ctx, groupID, callerID); err != nil {
		return nil, err
	}

	var (
		memberships []*domain.Membership
		invitations []*domain.Invitation
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		memberships, err = s.membershipRepo.ListByGroupID(gctx, groupID)
		if err != nil {
			return fmt.Errorf("list memberships: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		invitations, err = s.invitationRepo.ListUnclaimedByGroupID(gctx, groupID, domain.InvitationTypeGroupMember)
		if err != nil {
			return fmt.Errorf("list unclaimed invitations: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	roster := make([]domain.RosterMember, 0, len(memberships)+len(invitations))
	for _, m := range memberships {
		roster = append(roster, domain.NewConfirmedRosterMember(m))
	}
	for _, inv := range invitations {
		roster = append(roster, domain.NewPendingRosterMember(inv))
	}

	sort.SliceStable(roster, func(i, j int) bool {
		return s.collator.CompareString(roster[i].DisplayName, roster[j].DisplayName) < 0
	})
	return roster, nil
}
