package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"grouptee/internal/domain"
)

type interestService struct {
	interestRepo   domain.InterestRepository
	policy         domain.LockoutPolicy
	contextTimeout time.Duration
}

// NewInterestService creates an InterestService gated by the given lockout policy.
func NewInterestService(interestRepo domain.InterestRepository, policy domain.LockoutPolicy, timeout time.Duration) domain.InterestService {
	return &interestService{
		interestRepo:   interestRepo,
		policy:         policy,
		contextTimeout: timeout,
	}
}

func (s *interestService) Get(ctx context.Context, userID string, date time.Time) (*domain.Interest, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	interest, err := s.interestRepo.GetByUserAndDate(ctx, userID, date)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// No record means "no preference set yet", not a failure.
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get interest: %w", err)
	}
	return interest, nil
}

func (s *interestService) List(ctx context.Context, userID string, from, to time.Time) ([]*domain.Interest, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	interests, err := s.interestRepo.ListByUserAndRange(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list interests: %w", err)
	}
	if interests == nil {
		interests = []*domain.Interest{}
	}
	return interests, nil
}

// Upsert writes the member's preferences for a date. Dates inside the lockout
// window are refused. Secondary fields (time, transportation, partners,
// guests, notes) only accompany a "yes" answer; supplying them with any other
// answer is a validation error, callers must null them out.
func (s *interestService) Upsert(ctx context.Context, interest *domain.Interest) (*domain.Interest, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if interest.UserID == "" {
		return nil, domain.ErrInvalidInput
	}
	if s.policy.IsLocked(interest.InterestDate) {
		return nil, domain.ErrDateLocked
	}
	if interest.WantsToPlay != domain.PlayIntentYes && interest.HasSecondaryFields() {
		return nil, fmt.Errorf("%w: preferences are only accepted with a yes response", domain.ErrInvalidInput)
	}
	if interest.GuestCount < 0 || interest.GuestCount > domain.MaxGuestCount {
		return nil, fmt.Errorf("%w: guest_count must be between 0 and %d", domain.ErrInvalidInput, domain.MaxGuestCount)
	}

	now := time.Now()
	interest.CreatedAt = now
	interest.UpdatedAt = now
	if err := s.interestRepo.Upsert(ctx, interest); err != nil {
		return nil, fmt.Errorf("upsert interest: %w", err)
	}
	return interest, nil
}
