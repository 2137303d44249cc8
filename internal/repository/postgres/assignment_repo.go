package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	"grouptee/internal/domain"
)

type assignmentRepository struct {
	DB *sql.DB
}

func NewAssignmentRepository(db *sql.DB) domain.AssignmentRepository {
	return &assignmentRepository{DB: db}
}

const assignmentColumns = `a.id, a.tee_time_id, a.weekend_id, a.user_id, a.invitation_id, a.display_name, a.guest_names, a.created_at`

// Create inserts the assignment with an authoritative, serialized capacity
// check: the tee time row is locked FOR UPDATE, current usage is recomputed
// inside the transaction, and the insert is rejected with ErrCapacityExceeded
// if it would exceed max_players. Two admins racing on the last spot serialize
// on the row lock and the loser gets the rejection.
func (r *assignmentRepository) Create(ctx context.Context, a *domain.Assignment) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var maxPlayers int
	lockQuery := `SELECT max_players FROM tee_times WHERE id = $1 FOR UPDATE`
	if err := tx.QueryRowContext(ctx, lockQuery, a.TeeTimeID).Scan(&maxPlayers); err != nil {
		if err == sql.ErrNoRows {
			return domain.ErrNotFound
		}
		return err
	}

	var used int
	usedQuery := `
		SELECT COALESCE(SUM(1 + COALESCE(array_length(guest_names, 1), 0)), 0)
		FROM assignments
		WHERE tee_time_id = $1
	`
	if err := tx.QueryRowContext(ctx, usedQuery, a.TeeTimeID).Scan(&used); err != nil {
		return err
	}
	if used+a.Spots() > maxPlayers {
		return domain.ErrCapacityExceeded
	}

	insert := `
		INSERT INTO assignments (tee_time_id, weekend_id, user_id, invitation_id, display_name, guest_names, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err = tx.QueryRowContext(ctx, insert,
		a.TeeTimeID, a.WeekendID, a.UserID, a.InvitationID, a.DisplayName,
		pq.Array(a.GuestNames), a.CreatedAt,
	).Scan(&a.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return domain.ErrAlreadyAssigned
		}
		return err
	}
	return tx.Commit()
}

func (r *assignmentRepository) ListByTeeTimeID(ctx context.Context, teeTimeID string) ([]*domain.Assignment, error) {
	query := `
		SELECT ` + assignmentColumns + `
		FROM assignments a
		WHERE a.tee_time_id = $1
		ORDER BY a.created_at
	`
	rows, err := r.DB.QueryContext(ctx, query, teeTimeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAssignments(rows)
}

func (r *assignmentRepository) ListByDate(ctx context.Context, groupID string, date time.Time) ([]*domain.Assignment, error) {
	query := `
		SELECT ` + assignmentColumns + `
		FROM assignments a
		JOIN tee_times t ON t.id = a.tee_time_id
		WHERE t.group_id = $1 AND t.tee_date = $2
		ORDER BY a.created_at
	`
	rows, err := r.DB.QueryContext(ctx, query, groupID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAssignments(rows)
}

func (r *assignmentRepository) CountByTeeTimeID(ctx context.Context, teeTimeID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM assignments WHERE tee_time_id = $1`
	if err := r.DB.QueryRowContext(ctx, query, teeTimeID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *assignmentRepository) DeleteByUser(ctx context.Context, teeTimeID, userID string) error {
	query := `DELETE FROM assignments WHERE tee_time_id = $1 AND user_id = $2`
	result, err := r.DB.ExecContext(ctx, query, teeTimeID, userID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *assignmentRepository) DeleteByInvitation(ctx context.Context, teeTimeID, invitationID string) error {
	query := `DELETE FROM assignments WHERE tee_time_id = $1 AND invitation_id = $2`
	result, err := r.DB.ExecContext(ctx, query, teeTimeID, invitationID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func collectAssignments(rows *sql.Rows) ([]*domain.Assignment, error) {
	assignments := make([]*domain.Assignment, 0)
	for rows.Next() {
		a := &domain.Assignment{}
		var userID, invitationID sql.NullString
		var guestNames pq.StringArray
		if err := rows.Scan(&a.ID, &a.TeeTimeID, &a.WeekendID, &userID, &invitationID,
			&a.DisplayName, &guestNames, &a.CreatedAt); err != nil {
			return nil, err
		}
		if userID.Valid {
			a.UserID = &userID.String
		}
		if invitationID.Valid {
			a.InvitationID = &invitationID.String
		}
		a.GuestNames = []string(guestNames)
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}
