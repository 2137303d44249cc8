package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"grouptee/internal/domain"
)

type assignmentService struct {
	teeTimeRepo    domain.TeeTimeRepository
	assignmentRepo domain.AssignmentRepository
	interestRepo   domain.InterestRepository
	membershipRepo domain.MembershipRepository
	invitationRepo domain.InvitationRepository
	profileRepo    domain.ProfileRepository
	notifier       domain.NotificationService
	authz          authz
	rng            *rand.Rand
	contextTimeout time.Duration
}

// NewAssignmentService creates an AssignmentService. The rng drives the
// auto-assign shuffle; tests pass a seeded source for determinism. notifier may
// be nil, in which case assigned members are not notified.
func NewAssignmentService(
	teeTimeRepo domain.TeeTimeRepository,
	assignmentRepo domain.AssignmentRepository,
	interestRepo domain.InterestRepository,
	groupRepo domain.GroupRepository,
	membershipRepo domain.MembershipRepository,
	invitationRepo domain.InvitationRepository,
	clubAdminRepo domain.ClubAdminRepository,
	profileRepo domain.ProfileRepository,
	notifier domain.NotificationService,
	rng *rand.Rand,
	timeout time.Duration,
) domain.AssignmentService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &assignmentService{
		teeTimeRepo:    teeTimeRepo,
		assignmentRepo: assignmentRepo,
		interestRepo:   interestRepo,
		membershipRepo: membershipRepo,
		invitationRepo: invitationRepo,
		profileRepo:    profileRepo,
		notifier:       notifier,
		authz:          authz{groupRepo: groupRepo, membershipRepo: membershipRepo, clubAdminRepo: clubAdminRepo},
		rng:            rng,
		contextTimeout: timeout,
	}
}

// notifyAssigned tells the member they are on the tee sheet. Best effort: a
// failed notification never fails the assignment.
func (s *assignmentService) notifyAssigned(ctx context.Context, userID string, teeTime *domain.TeeTime) {
	if s.notifier == nil {
		return
	}
	msg := fmt.Sprintf("You're on the tee sheet for %s at %s", teeTime.TeeDate.Format("Jan 2"), teeTime.TeeOff)
	if _, err := s.notifier.Notify(ctx, userID, msg); err != nil {
		log.Printf("[ASSIGN] notify %s: %v", userID, err)
	}
}

// defaultGuestNames derives placeholder guest names from the host's full name.
func defaultGuestNames(fullName string, guestCount int) []string {
	if guestCount <= 0 {
		return nil
	}
	names := make([]string, guestCount)
	for i := range names {
		names[i] = fmt.Sprintf("%s's Guest %d", fullName, i+1)
	}
	return names
}

func (s *assignmentService) Assign(ctx context.Context, teeTimeID string, candidate domain.AssignmentCandidate, callerID string) ([]*domain.Assignment, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !candidate.Valid() {
		return nil, fmt.Errorf("%w: exactly one of user_id and invitation_id must be set", domain.ErrInvalidInput)
	}
	teeTime, err := s.teeTimeRepo.GetByID(ctx, teeTimeID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get tee time: %w", err)
	}
	if err := s.authz.requireAdmin(ctx, teeTime.GroupID, callerID); err != nil {
		return nil, err
	}

	assignments, err := s.assignmentRepo.ListByTeeTimeID(ctx, teeTimeID)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	for _, a := range assignments {
		if a.Matches(candidate) {
			return nil, domain.ErrAlreadyAssigned
		}
	}

	displayName, guestCount, err := s.resolveCandidate(ctx, teeTime, candidate)
	if err != nil {
		return nil, err
	}

	// Pre-check so obviously oversized requests fail fast; the repository
	// re-checks under a row lock and its verdict is the one that counts.
	if domain.SpotsUsed(assignments)+domain.SpotsNeeded(guestCount) > teeTime.MaxPlayers {
		return nil, domain.ErrCapacityExceeded
	}

	a := &domain.Assignment{
		TeeTimeID:    teeTimeID,
		WeekendID:    teeTime.WeekendID,
		UserID:       candidate.UserID,
		InvitationID: candidate.InvitationID,
		DisplayName:  displayName,
		GuestNames:   defaultGuestNames(displayName, guestCount),
		CreatedAt:    time.Now(),
	}
	if err := s.assignmentRepo.Create(ctx, a); err != nil {
		if errors.Is(err, domain.ErrCapacityExceeded) || errors.Is(err, domain.ErrAlreadyAssigned) {
			return nil, err
		}
		return nil, fmt.Errorf("create assignment: %w", err)
	}
	if candidate.UserID != nil {
		s.notifyAssigned(ctx, *candidate.UserID, teeTime)
	}

	updated, err := s.assignmentRepo.ListByTeeTimeID(ctx, teeTimeID)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return updated, nil
}

// resolveCandidate looks up the candidate's display name and declared guest
// count. Confirmed members carry guests from their interest record for the tee
// date; pending members have no interest record and bring no guests.
func (s *assignmentService) resolveCandidate(ctx context.Context, teeTime *domain.TeeTime, candidate domain.AssignmentCandidate) (string, int, error) {
	if candidate.UserID != nil {
		profile, err := s.profileRepo.GetByID(ctx, *candidate.UserID)
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				return "", 0, domain.ErrNotFound
			}
			return "", 0, fmt.Errorf("get profile: %w", err)
		}
		guestCount := 0
		interest, err := s.interestRepo.GetByUserAndDate(ctx, *candidate.UserID, teeTime.TeeDate)
		if err == nil {
			guestCount = interest.GuestCount
		} else if !errors.Is(err, domain.ErrNotFound) {
			return "", 0, fmt.Errorf("get interest: %w", err)
		}
		return profile.FullName, guestCount, nil
	}

	inv, err := s.invitationRepo.GetByID(ctx, *candidate.InvitationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", 0, domain.ErrNotFound
		}
		return "", 0, fmt.Errorf("get invitation: %w", err)
	}
	return inv.DisplayName, 0, nil
}

// Remove deletes the candidate's assignment, keyed by whichever of user or
// invitation ID is set. Their guests leave with them.
func (s *assignmentService) Remove(ctx context.Context, teeTimeID string, candidate domain.AssignmentCandidate, callerID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !candidate.Valid() {
		return fmt.Errorf("%w: exactly one of user_id and invitation_id must be set", domain.ErrInvalidInput)
	}
	teeTime, err := s.teeTimeRepo.GetByID(ctx, teeTimeID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get tee time: %w", err)
	}
	if err := s.authz.requireAdmin(ctx, teeTime.GroupID, callerID); err != nil {
		return err
	}

	if candidate.UserID != nil {
		err = s.assignmentRepo.DeleteByUser(ctx, teeTimeID, *candidate.UserID)
	} else {
		err = s.assignmentRepo.DeleteByInvitation(ctx, teeTimeID, *candidate.InvitationID)
	}
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete assignment: %w", err)
	}
	return nil
}

// AutoAssign is randomGreedyBinFill: take the group members with a yes
// interest for the tee date who hold no assignment on that date, shuffle them
// with an unweighted permutation, and admit each in turn if their party still
// fits. One write per admitted member; the first write failure aborts the rest
// of the batch and prior writes stay (there is no transaction spanning the
// batch). No fairness or preference matching is attempted.
func (s *assignmentService) AutoAssign(ctx context.Context, teeTimeID, callerID string) (*domain.AutoAssignResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	teeTime, err := s.teeTimeRepo.GetByID(ctx, teeTimeID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get tee time: %w", err)
	}
	if err := s.authz.requireAdmin(ctx, teeTime.GroupID, callerID); err != nil {
		return nil, err
	}

	assignments, err := s.assignmentRepo.ListByTeeTimeID(ctx, teeTimeID)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	used := domain.SpotsUsed(assignments)

	memberships, err := s.membershipRepo.ListByGroupID(ctx, teeTime.GroupID)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	membersByID := make(map[string]*domain.Membership, len(memberships))
	for _, m := range memberships {
		membersByID[m.UserID] = m
	}

	dayAssignments, err := s.assignmentRepo.ListByDate(ctx, teeTime.GroupID, teeTime.TeeDate)
	if err != nil {
		return nil, fmt.Errorf("list day assignments: %w", err)
	}
	assigned := make(map[string]struct{}, len(dayAssignments))
	for _, a := range dayAssignments {
		if a.UserID != nil {
			assigned[*a.UserID] = struct{}{}
		}
	}

	interests, err := s.interestRepo.ListWantingToPlay(ctx, teeTime.TeeDate)
	if err != nil {
		return nil, fmt.Errorf("list interests: %w", err)
	}
	var eligible []*domain.Interest
	for _, i := range interests {
		if _, ok := membersByID[i.UserID]; !ok {
			continue
		}
		if _, ok := assigned[i.UserID]; ok {
			continue
		}
		eligible = append(eligible, i)
	}

	s.rng.Shuffle(len(eligible), func(i, j int) {
		eligible[i], eligible[j] = eligible[j], eligible[i]
	})

	count := 0
	for _, interest := range eligible {
		needed := domain.SpotsNeeded(interest.GuestCount)
		if used+needed > teeTime.MaxPlayers {
			continue
		}
		member := membersByID[interest.UserID]
		userID := interest.UserID
		a := &domain.Assignment{
			TeeTimeID:   teeTimeID,
			WeekendID:   teeTime.WeekendID,
			UserID:      &userID,
			DisplayName: member.DisplayName,
			GuestNames:  defaultGuestNames(member.DisplayName, interest.GuestCount),
			CreatedAt:   time.Now(),
		}
		if err := s.assignmentRepo.Create(ctx, a); err != nil {
			if errors.Is(err, domain.ErrCapacityExceeded) {
				// Someone else grabbed the spots between our read and the
				// write; skip this candidate and keep filling.
				continue
			}
			// Prior writes stand; the remainder of the batch is abandoned.
			return nil, fmt.Errorf("auto assign: %w", err)
		}
		s.notifyAssigned(ctx, userID, teeTime)
		used += needed
		count++
	}

	return &domain.AutoAssignResult{
		Assigned:   count,
		SpotsUsed:  used,
		MaxPlayers: teeTime.MaxPlayers,
	}, nil
}
