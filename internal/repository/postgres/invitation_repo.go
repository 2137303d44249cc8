package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"grouptee/internal/domain"
)

type invitationRepository struct {
	DB *sql.DB
}

func NewInvitationRepository(db *sql.DB) domain.InvitationRepository {
	return &invitationRepository{DB: db}
}

const invitationColumns = `id, code, type, group_id, club_id, target_role, display_name, invited_email, claimed_by, claimed_at, expires_at, created_by, created_at`

func (r *invitationRepository) Create(ctx context.Context, inv *domain.Invitation) error {
	query := `
		INSERT INTO invitations (code, type, group_id, club_id, target_role, display_name, invited_email, expires_at, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		inv.Code, string(inv.Type), inv.GroupID, inv.ClubID, inv.TargetRole,
		inv.DisplayName, nullIfEmpty(inv.InvitedEmail), inv.ExpiresAt, inv.CreatedBy, inv.CreatedAt,
	).Scan(&inv.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return domain.ErrDuplicateCode
		}
		return err
	}
	return nil
}

func (r *invitationRepository) GetByID(ctx context.Context, id string) (*domain.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM invitations WHERE id = $1`
	inv, err := scanInvitation(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return inv, nil
}

func (r *invitationRepository) GetByCode(ctx context.Context, code string) (*domain.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM invitations WHERE code = $1`
	inv, err := scanInvitation(r.DB.QueryRowContext(ctx, query, code))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return inv, nil
}

func (r *invitationRepository) ListUnclaimedByGroupID(ctx context.Context, groupID string, typ domain.InvitationType) ([]*domain.Invitation, error) {
	query := `
		SELECT ` + invitationColumns + `
		FROM invitations
		WHERE group_id = $1 AND type = $2 AND claimed_by IS NULL
		  AND (expires_at IS NULL OR expires_at > NOW())
		ORDER BY display_name
	`
	rows, err := r.DB.QueryContext(ctx, query, groupID, string(typ))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectInvitations(rows)
}

func (r *invitationRepository) ListByGroupID(ctx context.Context, groupID, search string, params domain.PaginationParams) ([]*domain.Invitation, int, error) {
	where := `WHERE group_id = $1`
	args := []any{groupID}
	if search != "" {
		where += ` AND (display_name ILIKE $2 OR invited_email ILIKE $2)`
		args = append(args, "%"+search+"%")
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM invitations ` + where
	if err := r.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT `+invitationColumns+`
		FROM invitations
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)
	args = append(args, params.PageSize, params.Offset())

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	invs, err := collectInvitations(rows)
	if err != nil {
		return nil, 0, err
	}
	return invs, total, nil
}

// Claim atomically redeems an invite code: it locks the invitation row,
// rejects claimed or expired invitations, creates the membership (group_member)
// or club-admin row for the claiming user, and stamps claimed_by/claimed_at.
// A concurrent claim of the same code serializes on the row lock and loses.
func (r *invitationRepository) Claim(ctx context.Context, code, userID string) (*domain.Invitation, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	query := `SELECT ` + invitationColumns + ` FROM invitations WHERE code = $1 FOR UPDATE`
	inv, err := scanInvitation(tx.QueryRowContext(ctx, query, code))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if inv.Claimed() {
		return nil, domain.ErrInvitationClaimed
	}
	now := time.Now()
	if inv.Expired(now) {
		return nil, domain.ErrInvitationExpired
	}

	switch inv.Type {
	case domain.InvitationTypeGroupMember:
		if inv.GroupID == nil {
			return nil, domain.ErrInvalidInput
		}
		role := inv.TargetRole
		if role == "" {
			role = domain.RoleMember
		}
		insert := `INSERT INTO memberships (group_id, user_id, role, created_at) VALUES ($1, $2, $3, $4)`
		if _, err := tx.ExecContext(ctx, insert, *inv.GroupID, userID, role, now); err != nil {
			if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
				return nil, domain.ErrAlreadyMember
			}
			return nil, err
		}
	case domain.InvitationTypeClubAdmin:
		if inv.ClubID == nil {
			return nil, domain.ErrInvalidInput
		}
		insert := `INSERT INTO club_admins (club_id, user_id) VALUES ($1, $2) ON CONFLICT (club_id, user_id) DO NOTHING`
		if _, err := tx.ExecContext(ctx, insert, *inv.ClubID, userID); err != nil {
			return nil, err
		}
	default:
		return nil, domain.ErrInvalidInput
	}

	update := `UPDATE invitations SET claimed_by = $2, claimed_at = $3 WHERE id = $1`
	if _, err := tx.ExecContext(ctx, update, inv.ID, userID, now); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	inv.ClaimedBy = &userID
	inv.ClaimedAt = &now
	return inv, nil
}

func scanInvitation(row rowScanner) (*domain.Invitation, error) {
	inv := &domain.Invitation{}
	var typ string
	var groupID, clubID, claimedBy, invitedEmail sql.NullString
	var claimedAt, expiresAt sql.NullTime
	if err := row.Scan(&inv.ID, &inv.Code, &typ, &groupID, &clubID, &inv.TargetRole,
		&inv.DisplayName, &invitedEmail, &claimedBy, &claimedAt, &expiresAt,
		&inv.CreatedBy, &inv.CreatedAt); err != nil {
		return nil, err
	}
	inv.Type = domain.InvitationType(typ)
	if groupID.Valid {
		inv.GroupID = &groupID.String
	}
	if clubID.Valid {
		inv.ClubID = &clubID.String
	}
	if claimedBy.Valid {
		inv.ClaimedBy = &claimedBy.String
	}
	if claimedAt.Valid {
		inv.ClaimedAt = &claimedAt.Time
	}
	if expiresAt.Valid {
		inv.ExpiresAt = &expiresAt.Time
	}
	inv.InvitedEmail = invitedEmail.String
	return inv, nil
}

func collectInvitations(rows *sql.Rows) ([]*domain.Invitation, error) {
	invs := make([]*domain.Invitation, 0)
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, err
		}
		invs = append(invs, inv)
	}
	return invs, rows.Err()
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
