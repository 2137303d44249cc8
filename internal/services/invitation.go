package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"strings"
	"time"

	"grouptee/internal/domain"
)

// Invite codes avoid 0/O and 1/I so they survive being read aloud.
var inviteCodeAlphabet = []rune("ABCDEFGHJKLMNPQRSTUVWXYZ23456789")

const inviteCodeMaxAttempts = 5

type invitationService struct {
	invitationRepo domain.InvitationRepository
	groupRepo      domain.GroupRepository
	profileRepo    domain.ProfileRepository
	emailService   domain.EmailService
	authz          authz
	contextTimeout time.Duration
}

// NewInvitationService creates an InvitationService.
func NewInvitationService(
	invitationRepo domain.InvitationRepository,
	groupRepo domain.GroupRepository,
	membershipRepo domain.MembershipRepository,
	clubAdminRepo domain.ClubAdminRepository,
	profileRepo domain.ProfileRepository,
	emailService domain.EmailService,
	timeout time.Duration,
) domain.InvitationService {
	return &invitationService{
		invitationRepo: invitationRepo,
		groupRepo:      groupRepo,
		profileRepo:    profileRepo,
		emailService:   emailService,
		authz:          authz{groupRepo: groupRepo, membershipRepo: membershipRepo, clubAdminRepo: clubAdminRepo},
		contextTimeout: timeout,
	}
}

func generateInviteCode() (string, error) {
	b := make([]rune, domain.InviteCodeLength)
	max := big.NewInt(int64(len(inviteCodeAlphabet)))
	for i := 0; i < domain.InviteCodeLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = inviteCodeAlphabet[n.Int64()]
	}
	return string(b), nil
}

// Create generates a code, persists the invitation, and emails the invitee if
// an address was given. Email failure does not undo the invitation; the code
// can still be shared by hand.
func (s *invitationService) Create(ctx context.Context, inv *domain.Invitation, inviterID string) (*domain.Invitation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	inv.DisplayName = strings.TrimSpace(inv.DisplayName)
	if inv.DisplayName == "" {
		return nil, fmt.Errorf("%w: display_name is required", domain.ErrInvalidInput)
	}
	var group *domain.Group
	switch inv.Type {
	case domain.InvitationTypeGroupMember:
		if inv.GroupID == nil {
			return nil, fmt.Errorf("%w: group_id is required", domain.ErrInvalidInput)
		}
		var err error
		group, err = s.groupRepo.GetByID(ctx, *inv.GroupID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, domain.ErrNotFound
			}
			return nil, fmt.Errorf("get group: %w", err)
		}
		if err := s.authz.requireAdmin(ctx, *inv.GroupID, inviterID); err != nil {
			return nil, err
		}
	case domain.InvitationTypeClubAdmin:
		if inv.ClubID == nil {
			return nil, fmt.Errorf("%w: club_id is required", domain.ErrInvalidInput)
		}
		ok, err := s.authz.clubAdminRepo.IsClubAdmin(ctx, *inv.ClubID, inviterID)
		if err != nil {
			return nil, fmt.Errorf("check club admin: %w", err)
		}
		if !ok {
			return nil, domain.ErrForbidden
		}
	default:
		return nil, fmt.Errorf("%w: unknown invitation type %q", domain.ErrInvalidInput, inv.Type)
	}

	inv.CreatedBy = inviterID
	inv.CreatedAt = time.Now()
	for attempt := 0; ; attempt++ {
		code, err := generateInviteCode()
		if err != nil {
			return nil, fmt.Errorf("generate invite code: %w", err)
		}
		inv.Code = code
		err = s.invitationRepo.Create(ctx, inv)
		if err == nil {
			break
		}
		if errors.Is(err, domain.ErrDuplicateCode) && attempt < inviteCodeMaxAttempts {
			continue
		}
		return nil, fmt.Errorf("create invitation: %w", err)
	}

	if inv.InvitedEmail != "" && s.emailService != nil {
		inviterName := ""
		if inviter, err := s.profileRepo.GetByID(ctx, inviterID); err == nil {
			inviterName = inviter.FullName
		}
		groupName := ""
		if group != nil {
			groupName = group.Name
		}
		data := &domain.GroupInviteEmailData{
			Email:       inv.InvitedEmail,
			InviteCode:  inv.Code,
			GroupName:   groupName,
			InviterName: inviterName,
		}
		if err := s.emailService.SendGroupInvite(ctx, data); err != nil {
			log.Printf("[INVITE] invite email to %s failed: %v", inv.InvitedEmail, err)
		}
	}
	return inv, nil
}

// Claim redeems an invite code for the calling user. Shape problems (wrong
// length) are rejected locally before touching storage.
func (s *invitationService) Claim(ctx context.Context, code, userID string) (*domain.Invitation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	code = domain.NormalizeInviteCode(code)
	if err := domain.ValidateInviteCode(code); err != nil {
		return nil, err
	}
	inv, err := s.invitationRepo.Claim(ctx, code, userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound),
			errors.Is(err, domain.ErrInvitationClaimed),
			errors.Is(err, domain.ErrInvitationExpired),
			errors.Is(err, domain.ErrAlreadyMember):
			return nil, err
		}
		return nil, fmt.Errorf("claim invitation: %w", err)
	}
	return inv, nil
}

func (s *invitationService) ListByGroup(ctx context.Context, groupID, callerID, search string, params domain.PaginationParams) ([]*domain.Invitation, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.authz.requireAdmin(ctx, groupID, callerID); err != nil {
		return nil, 0, err
	}
	invs, total, err := s.invitationRepo.ListByGroupID(ctx, groupID, search, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list invitations: %w", err)
	}
	if invs == nil {
		invs = []*domain.Invitation{}
	}
	return invs, total, nil
}
