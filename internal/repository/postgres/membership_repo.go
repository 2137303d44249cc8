package postgres

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"grouptee/internal/domain"
)

type membershipRepository struct {
	DB *sql.DB
}

func NewMembershipRepository(db *sql.DB) domain.MembershipRepository {
	return &membershipRepository{DB: db}
}

func (r *membershipRepository) Add(ctx context.Context, m *domain.Membership) error {
	query := `
		INSERT INTO memberships (group_id, user_id, role, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, m.GroupID, m.UserID, m.Role, m.CreatedAt).Scan(&m.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return domain.ErrAlreadyMember
		}
		return err
	}
	return nil
}

func (r *membershipRepository) GetByGroupAndUser(ctx context.Context, groupID, userID string) (*domain.Membership, error) {
	query := `
		SELECT m.id, m.group_id, m.user_id, m.role, p.full_name, p.email, m.created_at
		FROM memberships m
		JOIN profiles p ON p.id = m.user_id
		WHERE m.group_id = $1 AND m.user_id = $2
	`
	m := &domain.Membership{}
	err := r.DB.QueryRowContext(ctx, query, groupID, userID).
		Scan(&m.ID, &m.GroupID, &m.UserID, &m.Role, &m.DisplayName, &m.Email, &m.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *membershipRepository) ListByGroupID(ctx context.Context, groupID string) ([]*domain.Membership, error) {
	query := `
		SELECT m.id, m.group_id, m.user_id, m.role, p.full_name, p.email, m.created_at
		FROM memberships m
		JOIN profiles p ON p.id = m.user_id
		WHERE m.group_id = $1
		ORDER BY p.full_name
	`
	rows, err := r.DB.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	members := make([]*domain.Membership, 0)
	for rows.Next() {
		m := &domain.Membership{}
		var name, email sql.NullString
		if err := rows.Scan(&m.ID, &m.GroupID, &m.UserID, &m.Role, &name, &email, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.DisplayName = name.String
		m.Email = email.String
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *membershipRepository) Remove(ctx context.Context, groupID, userID string) error {
	query := `DELETE FROM memberships WHERE group_id = $1 AND user_id = $2`
	result, err := r.DB.ExecContext(ctx, query, groupID, userID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type clubAdminRepository struct {
	DB *sql.DB
}

func NewClubAdminRepository(db *sql.DB) domain.ClubAdminRepository {
	return &clubAdminRepository{DB: db}
}

func (r *clubAdminRepository) Add(ctx context.Context, clubID, userID string) error {
	query := `
		INSERT INTO club_admins (club_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (club_id, user_id) DO NOTHING
	`
	_, err := r.DB.ExecContext(ctx, query, clubID, userID)
	return err
}

func (r *clubAdminRepository) IsClubAdmin(ctx context.Context, clubID, userID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM club_admins WHERE club_id = $1 AND user_id = $2)`
	var exists bool
	if err := r.DB.QueryRowContext(ctx, query, clubID, userID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
