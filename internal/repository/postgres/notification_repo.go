package postgres

import (
	"context"
	"database/sql"

	"grouptee/internal/domain"
)

type notificationRepository struct {
	DB *sql.DB
}

func NewNotificationRepository(db *sql.DB) domain.NotificationRepository {
	return &notificationRepository{DB: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	query := `
		INSERT INTO notifications (id, user_id, message, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.DB.ExecContext(ctx, query, n.ID, n.UserID, n.Message, n.CreatedAt)
	return err
}

func (r *notificationRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Notification, error) {
	query := `
		SELECT id, user_id, message, created_at, read_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	notifications := make([]*domain.Notification, 0)
	for rows.Next() {
		n := &domain.Notification{}
		var readAt sql.NullTime
		if err := rows.Scan(&n.ID, &n.UserID, &n.Message, &n.CreatedAt, &readAt); err != nil {
			return nil, err
		}
		if readAt.Valid {
			n.ReadAt = &readAt.Time
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (r *notificationRepository) MarkRead(ctx context.Context, id, userID string) error {
	query := `UPDATE notifications SET read_at = NOW() WHERE id = $1 AND user_id = $2`
	result, err := r.DB.ExecContext(ctx, query, id, userID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type pushTokenRepository struct {
	DB *sql.DB
}

func NewPushTokenRepository(db *sql.DB) domain.PushTokenRepository {
	return &pushTokenRepository{DB: db}
}

func (r *pushTokenRepository) Register(ctx context.Context, t *domain.PushToken) error {
	query := `
		INSERT INTO push_tokens (user_id, token, platform, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (token) DO UPDATE SET user_id = EXCLUDED.user_id, platform = EXCLUDED.platform
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, t.UserID, t.Token, t.Platform, t.CreatedAt).Scan(&t.ID)
}

func (r *pushTokenRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.PushToken, error) {
	query := `
		SELECT id, user_id, token, platform, created_at
		FROM push_tokens
		WHERE user_id = $1
		ORDER BY created_at
	`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	tokens := make([]*domain.PushToken, 0)
	for rows.Next() {
		t := &domain.PushToken{}
		if err := rows.Scan(&t.ID, &t.UserID, &t.Token, &t.Platform, &t.CreatedAt); err != nil {
			return nil, err
		}
		tokens = append(tokens, t)
	}
	return tokens, rows.Err()
}

func (r *pushTokenRepository) DeleteByToken(ctx context.Context, token string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM push_tokens WHERE token = $1`, token)
	return err
}
