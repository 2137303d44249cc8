package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"grouptee/internal/domain"
)

// teeOffRegex matches a 24h "HH:MM" tee-off time.
var teeOffRegex = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

type teeTimeService struct {
	teeTimeRepo    domain.TeeTimeRepository
	weekendRepo    domain.WeekendRepository
	assignmentRepo domain.AssignmentRepository
	authz          authz
	contextTimeout time.Duration
}

// NewTeeTimeService creates a TeeTimeService for admin tee sheet management.
func NewTeeTimeService(
	teeTimeRepo domain.TeeTimeRepository,
	weekendRepo domain.WeekendRepository,
	assignmentRepo domain.AssignmentRepository,
	groupRepo domain.GroupRepository,
	membershipRepo domain.MembershipRepository,
	clubAdminRepo domain.ClubAdminRepository,
	timeout time.Duration,
) domain.TeeTimeService {
	return &teeTimeService{
		teeTimeRepo:    teeTimeRepo,
		weekendRepo:    weekendRepo,
		assignmentRepo: assignmentRepo,
		authz:          authz{groupRepo: groupRepo, membershipRepo: membershipRepo, clubAdminRepo: clubAdminRepo},
		contextTimeout: timeout,
	}
}

func (s *teeTimeService) CreateWeekend(ctx context.Context, w *domain.Weekend, callerID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if w.EndDate.Before(w.StartDate) {
		return fmt.Errorf("%w: end_date must not precede start_date", domain.ErrInvalidInput)
	}
	if err := s.authz.requireAdmin(ctx, w.GroupID, callerID); err != nil {
		return err
	}
	w.CreatedAt = time.Now()
	if err := s.weekendRepo.Create(ctx, w); err != nil {
		return fmt.Errorf("create weekend: %w", err)
	}
	return nil
}

func (s *teeTimeService) ListWeekends(ctx context.Context, groupID, callerID string, from time.Time) ([]*domain.Weekend, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.authz.requireMember(ctx, groupID, callerID); err != nil {
		return nil, err
	}
	weekends, err := s.weekendRepo.ListUpcomingByGroupID(ctx, groupID, from)
	if err != nil {
		return nil, fmt.Errorf("list weekends: %w", err)
	}
	if weekends == nil {
		weekends = []*domain.Weekend{}
	}
	return weekends, nil
}

func (s *teeTimeService) Create(ctx context.Context, t *domain.TeeTime, callerID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if t.MaxPlayers < 1 {
		return fmt.Errorf("%w: max_players must be at least 1", domain.ErrInvalidInput)
	}
	if !teeOffRegex.MatchString(t.TeeOff) {
		return fmt.Errorf("%w: tee_time must be HH:MM", domain.ErrInvalidInput)
	}

	weekend, err := s.weekendRepo.GetByID(ctx, t.WeekendID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get weekend: %w", err)
	}
	if weekend.GroupID != t.GroupID {
		return domain.ErrNotFound
	}
	if err := s.authz.requireAdmin(ctx, t.GroupID, callerID); err != nil {
		return err
	}

	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now
	if err := s.teeTimeRepo.Create(ctx, t); err != nil {
		return fmt.Errorf("create tee time: %w", err)
	}
	return nil
}

func (s *teeTimeService) GetWithPlayers(ctx context.Context, teeTimeID, callerID string) (*domain.TeeTimeWithPlayers, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	teeTime, err := s.teeTimeRepo.GetByID(ctx, teeTimeID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get tee time: %w", err)
	}
	if err := s.authz.requireMember(ctx, teeTime.GroupID, callerID); err != nil {
		return nil, err
	}
	return s.withPlayers(ctx, teeTime)
}

// ListByWeekend returns the weekend's tee sheet with per-slot availability.
func (s *teeTimeService) ListByWeekend(ctx context.Context, weekendID, callerID string) (*domain.WeekendSheet, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	weekend, err := s.weekendRepo.GetByID(ctx, weekendID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get weekend: %w", err)
	}
	if err := s.authz.requireMember(ctx, weekend.GroupID, callerID); err != nil {
		return nil, err
	}

	teeTimes, err := s.teeTimeRepo.ListByWeekendID(ctx, weekendID)
	if err != nil {
		return nil, fmt.Errorf("list tee times: %w", err)
	}

	sheet := &domain.WeekendSheet{
		Weekend:  weekend,
		TeeTimes: make([]*domain.TeeTimeWithPlayers, 0, len(teeTimes)),
	}
	for _, t := range teeTimes {
		tp, err := s.withPlayers(ctx, t)
		if err != nil {
			return nil, err
		}
		sheet.TeeTimes = append(sheet.TeeTimes, tp)
	}
	return sheet, nil
}

func (s *teeTimeService) withPlayers(ctx context.Context, t *domain.TeeTime) (*domain.TeeTimeWithPlayers, error) {
	assignments, err := s.assignmentRepo.ListByTeeTimeID(ctx, t.ID)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	used := domain.SpotsUsed(assignments)
	return &domain.TeeTimeWithPlayers{
		TeeTime:      t,
		Assignments:  assignments,
		SpotsUsed:    used,
		Availability: domain.Availability(t.MaxPlayers, used),
	}, nil
}

// DeletionSummary reports how many assignments a delete would discard, for the
// caller's confirmation prompt.
func (s *teeTimeService) DeletionSummary(ctx context.Context, teeTimeID, callerID string) (*domain.DeletionSummary, error) {
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
	count, err := s.assignmentRepo.CountByTeeTimeID(ctx, teeTimeID)
	if err != nil {
		return nil, fmt.Errorf("count assignments: %w", err)
	}
	return &domain.DeletionSummary{TeeTimeID: teeTimeID, AssignmentCount: count}, nil
}

func (s *teeTimeService) Delete(ctx context.Context, teeTimeID, callerID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

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
	if err := s.teeTimeRepo.Delete(ctx, teeTimeID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete tee time: %w", err)
	}
	return nil
}
