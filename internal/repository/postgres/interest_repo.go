package postgres

import (
	"context"
	"database/sql"
	"time"

	"grouptee/internal/domain"
)

type interestRepository struct {
	DB *sql.DB
}

func NewInterestRepository(db *sql.DB) domain.InterestRepository {
	return &interestRepository{DB: db}
}

// Upsert writes the interest record keyed by (user_id, interest_date).
// Conflicting writes resolve last-write-wins, which is the store's contract
// for concurrent edits from two devices.
func (r *interestRepository) Upsert(ctx context.Context, i *domain.Interest) error {
	query := `
		INSERT INTO interests (user_id, interest_date, wants_to_play, time_preference, transportation, partners, guest_count, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (user_id, interest_date) DO UPDATE SET
			wants_to_play = EXCLUDED.wants_to_play,
			time_preference = EXCLUDED.time_preference,
			transportation = EXCLUDED.transportation,
			partners = EXCLUDED.partners,
			guest_count = EXCLUDED.guest_count,
			notes = EXCLUDED.notes,
			updated_at = EXCLUDED.updated_at
	`
	_, err := r.DB.ExecContext(ctx, query,
		i.UserID, i.InterestDate, string(i.WantsToPlay), i.TimePreference,
		i.Transportation, domain.EncodePartners(i.Partners), i.GuestCount, i.Notes,
		i.CreatedAt, i.UpdatedAt,
	)
	return err
}

func (r *interestRepository) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*domain.Interest, error) {
	query := `
		SELECT user_id, interest_date, wants_to_play, time_preference, transportation, partners, guest_count, notes, created_at, updated_at
		FROM interests
		WHERE user_id = $1 AND interest_date = $2
	`
	row := r.DB.QueryRowContext(ctx, query, userID, date)
	i, err := scanInterest(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return i, nil
}

func (r *interestRepository) ListByUserAndRange(ctx context.Context, userID string, from, to time.Time) ([]*domain.Interest, error) {
	query := `
		SELECT user_id, interest_date, wants_to_play, time_preference, transportation, partners, guest_count, notes, created_at, updated_at
		FROM interests
		WHERE user_id = $1 AND interest_date >= $2 AND interest_date <= $3
		ORDER BY interest_date
	`
	rows, err := r.DB.QueryContext(ctx, query, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectInterests(rows)
}

func (r *interestRepository) ListWantingToPlay(ctx context.Context, date time.Time) ([]*domain.Interest, error) {
	query := `
		SELECT user_id, interest_date, wants_to_play, time_preference, transportation, partners, guest_count, notes, created_at, updated_at
		FROM interests
		WHERE interest_date = $1 AND wants_to_play = 'yes'
		ORDER BY user_id
	`
	rows, err := r.DB.QueryContext(ctx, query, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectInterests(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanInterest reads one interest row. The partners column is a serialized
// string in either the legacy comma-separated or the JSON-array format;
// ParsePartners handles both.
func scanInterest(row rowScanner) (*domain.Interest, error) {
	i := &domain.Interest{}
	var wants string
	var partners sql.NullString
	if err := row.Scan(&i.UserID, &i.InterestDate, &wants, &i.TimePreference,
		&i.Transportation, &partners, &i.GuestCount, &i.Notes, &i.CreatedAt, &i.UpdatedAt); err != nil {
		return nil, err
	}
	i.WantsToPlay = domain.PlayIntent(wants)
	i.Partners = domain.ParsePartners(partners.String)
	return i, nil
}

func collectInterests(rows *sql.Rows) ([]*domain.Interest, error) {
	interests := make([]*domain.Interest, 0)
	for rows.Next() {
		i, err := scanInterest(rows)
		if err != nil {
			return nil, err
		}
		interests = append(interests, i)
	}
	return interests, rows.Err()
}
