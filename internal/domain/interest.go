package domain

import (
	"context"
	"encoding/json"
	"strings"
	"time"
)

// PlayIntent is a member's tri-state answer to "do you want to play this date?".
type PlayIntent string

const (
	PlayIntentUnset PlayIntent = ""
	PlayIntentYes   PlayIntent = "yes"
	PlayIntentNo    PlayIntent = "no"
)

// MaxGuestCount caps the guests a member may declare on a single date.
const MaxGuestCount = 3

// Interest is a member's stated intent and preferences for one calendar date.
// There is exactly one record per (user, date); writes are upserts.
// swagger:model Interest
type Interest struct {
	UserID         string     `json:"user_id"`
	InterestDate   time.Time  `json:"interest_date"`
	WantsToPlay    PlayIntent `json:"wants_to_play"`
	TimePreference string     `json:"time_preference"`
	Transportation string     `json:"transportation"`
	Partners       []string   `json:"partners"`
	GuestCount     int        `json:"guest_count"`
	Notes          string     `json:"notes"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// NewInterest returns an Interest for the given user and date with timestamps set.
func NewInterest(userID string, date time.Time, createdAt, updatedAt time.Time) *Interest {
	return &Interest{
		UserID:       userID,
		InterestDate: date,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}
}

// HasSecondaryFields reports whether any field that only makes sense for a
// "yes" response is populated.
func (i *Interest) HasSecondaryFields() bool {
	return i.TimePreference != "" ||
		i.Transportation != "" ||
		len(i.Partners) > 0 ||
		i.GuestCount > 0 ||
		i.Notes != ""
}

// ClearSecondaryFields resets all yes-only fields.
func (i *Interest) ClearSecondaryFields() {
	i.TimePreference = ""
	i.Transportation = ""
	i.Partners = nil
	i.GuestCount = 0
	i.Notes = ""
}

// ParsePartners decodes a stored partner list. Historically the column held a
// comma-separated string; newer rows hold a JSON array. The fallback chain is
// JSON array, then comma-split, then empty.
func ParsePartners(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err == nil {
		return ids
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// EncodePartners serializes a partner list in the current (JSON array) format.
// An empty list encodes as the empty string.
func EncodePartners(ids []string) string {
	if len(ids) == 0 {
		return ""
	}
	b, err := json.Marshal(ids)
	if err != nil {
		return ""
	}
	return string(b)
}

// InterestRepository defines storage operations for interest records.
// GetByUserAndDate returns ErrNotFound when no record exists; callers treat
// that as "no preference set yet", not a failure.
type InterestRepository interface {
	Upsert(ctx context.Context, interest *Interest) error
	GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*Interest, error)
	ListByUserAndRange(ctx context.Context, userID string, from, to time.Time) ([]*Interest, error)
	// ListWantingToPlay returns all "yes" interests for the given date.
	ListWantingToPlay(ctx context.Context, date time.Time) ([]*Interest, error)
}

// InterestService defines member-facing interest operations, gated by the
// lockout policy.
type InterestService interface {
	Get(ctx context.Context, userID string, date time.Time) (*Interest, error)
	List(ctx context.Context, userID string, from, to time.Time) ([]*Interest, error)
	Upsert(ctx context.Context, interest *Interest) (*Interest, error)
}
