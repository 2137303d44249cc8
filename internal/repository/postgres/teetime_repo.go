package postgres

import (
	"context"
	"database/sql"
	"time"

	"grouptee/internal/domain"
)

type teeTimeRepository struct {
	DB *sql.DB
}

func NewTeeTimeRepository(db *sql.DB) domain.TeeTimeRepository {
	return &teeTimeRepository{DB: db}
}

func (r *teeTimeRepository) Create(ctx context.Context, t *domain.TeeTime) error {
	query := `
		INSERT INTO tee_times (group_id, weekend_id, tee_date, tee_time, max_players, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		t.GroupID, t.WeekendID, t.TeeDate, t.TeeOff, t.MaxPlayers, t.CreatedAt, t.UpdatedAt,
	).Scan(&t.ID)
}

func (r *teeTimeRepository) GetByID(ctx context.Context, id string) (*domain.TeeTime, error) {
	query := `
		SELECT id, group_id, weekend_id, tee_date, tee_time, max_players, created_at, updated_at
		FROM tee_times
		WHERE id = $1
	`
	t := &domain.TeeTime{}
	err := r.DB.QueryRowContext(ctx, query, id).
		Scan(&t.ID, &t.GroupID, &t.WeekendID, &t.TeeDate, &t.TeeOff, &t.MaxPlayers, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *teeTimeRepository) ListByWeekendID(ctx context.Context, weekendID string) ([]*domain.TeeTime, error) {
	query := `
		SELECT id, group_id, weekend_id, tee_date, tee_time, max_players, created_at, updated_at
		FROM tee_times
		WHERE weekend_id = $1
		ORDER BY tee_date, tee_time
	`
	rows, err := r.DB.QueryContext(ctx, query, weekendID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	teeTimes := make([]*domain.TeeTime, 0)
	for rows.Next() {
		t := &domain.TeeTime{}
		if err := rows.Scan(&t.ID, &t.GroupID, &t.WeekendID, &t.TeeDate, &t.TeeOff, &t.MaxPlayers, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		teeTimes = append(teeTimes, t)
	}
	return teeTimes, rows.Err()
}

// Delete removes the tee time; its assignments go with it (ON DELETE CASCADE).
func (r *teeTimeRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM tee_times WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type weekendRepository struct {
	DB *sql.DB
}

func NewWeekendRepository(db *sql.DB) domain.WeekendRepository {
	return &weekendRepository{DB: db}
}

func (r *weekendRepository) Create(ctx context.Context, w *domain.Weekend) error {
	query := `
		INSERT INTO weekends (group_id, start_date, end_date, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, w.GroupID, w.StartDate, w.EndDate, w.CreatedAt).Scan(&w.ID)
}

func (r *weekendRepository) GetByID(ctx context.Context, id string) (*domain.Weekend, error) {
	query := `
		SELECT id, group_id, start_date, end_date, created_at
		FROM weekends
		WHERE id = $1
	`
	w := &domain.Weekend{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&w.ID, &w.GroupID, &w.StartDate, &w.EndDate, &w.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return w, nil
}

func (r *weekendRepository) ListUpcomingByGroupID(ctx context.Context, groupID string, from time.Time) ([]*domain.Weekend, error) {
	query := `
		SELECT id, group_id, start_date, end_date, created_at
		FROM weekends
		WHERE group_id = $1 AND end_date >= $2
		ORDER BY start_date
	`
	rows, err := r.DB.QueryContext(ctx, query, groupID, from)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	weekends := make([]*domain.Weekend, 0)
	for rows.Next() {
		w := &domain.Weekend{}
		if err := rows.Scan(&w.ID, &w.GroupID, &w.StartDate, &w.EndDate, &w.CreatedAt); err != nil {
			return nil, err
		}
		weekends = append(weekends, w)
	}
	return weekends, rows.Err()
}
