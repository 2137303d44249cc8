package domain

import (
	"context"
	"fmt"
	"time"
)

// Weekend is a date-range bucket used to group tee times for display.
// swagger:model Weekend
type Weekend struct {
	ID        string    `json:"id"`
	GroupID   string    `json:"group_id"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	CreatedAt time.Time `json:"created_at"`
}

// TeeTime is a scheduled slot with a fixed player capacity.
// swagger:model TeeTime
type TeeTime struct {
	ID         string    `json:"id"`
	GroupID    string    `json:"group_id"`
	WeekendID  string    `json:"weekend_id"`
	TeeDate    time.Time `json:"tee_date"`
	TeeOff     string    `json:"tee_time"` // "HH:MM", 24h
	MaxPlayers int       `json:"max_players"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewTeeTime returns a TeeTime with the given fields. ID is set by the repository on create.
func NewTeeTime(groupID, weekendID string, teeDate time.Time, teeOff string, maxPlayers int, createdAt, updatedAt time.Time) *TeeTime {
	return &TeeTime{
		GroupID:    groupID,
		WeekendID:  weekendID,
		TeeDate:    teeDate,
		TeeOff:     teeOff,
		MaxPlayers: maxPlayers,
		CreatedAt:  createdAt,
		UpdatedAt:  updatedAt,
	}
}

// SpotsNeeded returns the capacity units one candidate consumes: themselves
// plus their declared guests.
func SpotsNeeded(guestCount int) int {
	return 1 + guestCount
}

// SpotsUsed sums the capacity units consumed by the given assignments.
func SpotsUsed(assignments []*Assignment) int {
	total := 0
	for _, a := range assignments {
		total += 1 + len(a.GuestNames)
	}
	return total
}

// Availability labels the remaining capacity: "Full", "1 Spot", or "N Spots".
func Availability(maxPlayers, spotsUsed int) string {
	remaining := maxPlayers - spotsUsed
	switch {
	case remaining <= 0:
		return "Full"
	case remaining == 1:
		return "1 Spot"
	default:
		return fmt.Sprintf("%d Spots", remaining)
	}
}

// TeeTimeWithPlayers bundles a tee time with its assignments and derived availability.
type TeeTimeWithPlayers struct {
	TeeTime      *TeeTime      `json:"tee_time"`
	Assignments  []*Assignment `json:"assignments"`
	SpotsUsed    int           `json:"spots_used"`
	Availability string        `json:"availability"`
}

// WeekendSheet is a weekend with its tee times, as shown on the dashboard.
type WeekendSheet struct {
	Weekend  *Weekend              `json:"weekend"`
	TeeTimes []*TeeTimeWithPlayers `json:"tee_times"`
}

// TeeTimeRepository defines storage operations for tee times.
type TeeTimeRepository interface {
	Create(ctx context.Context, t *TeeTime) error
	GetByID(ctx context.Context, id string) (*TeeTime, error)
	ListByWeekendID(ctx context.Context, weekendID string) ([]*TeeTime, error)
	Delete(ctx context.Context, id string) error
}

// WeekendRepository defines storage operations for weekends.
type WeekendRepository interface {
	Create(ctx context.Context, w *Weekend) error
	GetByID(ctx context.Context, id string) (*Weekend, error)
	ListUpcomingByGroupID(ctx context.Context, groupID string, from time.Time) ([]*Weekend, error)
}

// DeletionSummary describes what deleting a tee time would discard. Callers
// show it in a confirmation prompt before issuing the delete.
type DeletionSummary struct {
	TeeTimeID       string `json:"tee_time_id"`
	AssignmentCount int    `json:"assignment_count"`
}

// TeeTimeService defines admin-facing tee sheet management.
type TeeTimeService interface {
	CreateWeekend(ctx context.Context, w *Weekend, callerID string) error
	ListWeekends(ctx context.Context, groupID, callerID string, from time.Time) ([]*Weekend, error)
	Create(ctx context.Context, t *TeeTime, callerID string) error
	GetWithPlayers(ctx context.Context, teeTimeID, callerID string) (*TeeTimeWithPlayers, error)
	ListByWeekend(ctx context.Context, weekendID, callerID string) (*WeekendSheet, error)
	DeletionSummary(ctx context.Context, teeTimeID, callerID string) (*DeletionSummary, error)
	Delete(ctx context.Context, teeTimeID, callerID string) error
}
