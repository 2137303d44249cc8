package domain

import (
	"fmt"
	"math"
	"time"
)

// Default lockout window: preferences freeze two days before the tee date and
// members are warned starting five days out.
const (
	DefaultLockoutDays = 2
	DefaultWarningDays = 5
)

// LockoutPolicy classifies calendar dates relative to "today" for editability.
// It is pure: the result depends only on the clock and the input date. Tests
// inject Now for determinism.
type LockoutPolicy struct {
	LockoutDays int
	WarningDays int
	Now         func() time.Time
}

// NewLockoutPolicy returns a policy with the given day offsets. A nil now
// function falls back to time.Now.
func NewLockoutPolicy(lockoutDays, warningDays int, now func() time.Time) LockoutPolicy {
	return LockoutPolicy{LockoutDays: lockoutDays, WarningDays: warningDays, Now: now}
}

// DefaultLockoutPolicy returns the standard 2/5-day policy on the wall clock.
func DefaultLockoutPolicy() LockoutPolicy {
	return NewLockoutPolicy(DefaultLockoutDays, DefaultWarningDays, nil)
}

func (p LockoutPolicy) today() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

// atMidnight truncates t to local midnight.
func atMidnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DaysUntil returns the whole-day distance from today to date. Both endpoints
// are truncated to local midnight before subtraction and the result is rounded
// to the nearest day, so DST transitions do not shift the count.
func (p LockoutPolicy) DaysUntil(date time.Time) int {
	from := atMidnight(p.today())
	to := atMidnight(date)
	return int(math.Round(to.Sub(from).Hours() / 24))
}

// IsLocked reports whether preferences for date can no longer be edited.
// The boundary is inclusive: a date exactly LockoutDays out is locked.
func (p LockoutPolicy) IsLocked(date time.Time) bool {
	return p.DaysUntil(date) <= p.LockoutDays
}

// IsApproachingLockout reports whether date is past the warning threshold but
// not yet locked.
func (p LockoutPolicy) IsApproachingLockout(date time.Time) bool {
	d := p.DaysUntil(date)
	return d > p.LockoutDays && d <= p.WarningDays
}

// DaysUntilLockout returns how many days remain before date locks, never negative.
func (p LockoutPolicy) DaysUntilLockout(date time.Time) int {
	d := p.DaysUntil(date) - p.LockoutDays
	if d < 0 {
		return 0
	}
	return d
}

// StatusMessage returns a human-readable note for locked or approaching-lockout
// dates, and "" for dates that are freely editable.
func (p LockoutPolicy) StatusMessage(date time.Time) string {
	if p.IsLocked(date) {
		return "Sign-up is locked for this date"
	}
	if p.IsApproachingLockout(date) {
		days := p.DaysUntilLockout(date)
		if days == 1 {
			return "Sign-up locks in 1 day"
		}
		return fmt.Sprintf("Sign-up locks in %d days", days)
	}
	return ""
}
