package domain

import (
	"context"
	"time"
)

// Notification is a persisted in-app message for one user.
// swagger:model Notification
type Notification struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	Message   string     `json:"message"`
	CreatedAt time.Time  `json:"created_at"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
}

// PushToken is a device token registered for push delivery.
// swagger:model PushToken
type PushToken struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Token     string    `json:"token"`
	Platform  string    `json:"platform"`
	CreatedAt time.Time `json:"created_at"`
}

// PushReceipt is the gateway's verdict on one token. DeviceNotRegistered means
// the token is permanently dead and should be pruned.
type PushReceipt struct {
	Token               string
	OK                  bool
	DeviceNotRegistered bool
	Detail              string
}

// PushSender delivers one push message to one device token.
type PushSender interface {
	Send(ctx context.Context, token, message, notificationID string) (PushReceipt, error)
}

// NotificationRepository defines storage operations for notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n *Notification) error
	ListByUserID(ctx context.Context, userID string) ([]*Notification, error)
	MarkRead(ctx context.Context, id, userID string) error
}

// PushTokenRepository defines storage operations for device push tokens.
type PushTokenRepository interface {
	Register(ctx context.Context, t *PushToken) error
	ListByUserID(ctx context.Context, userID string) ([]*PushToken, error)
	DeleteByToken(ctx context.Context, token string) error
}

// NotificationService persists a notification and fans it out to every device
// registered for the user.
type NotificationService interface {
	Notify(ctx context.Context, userID, message string) (*Notification, error)
	List(ctx context.Context, userID string) ([]*Notification, error)
	MarkRead(ctx context.Context, id, userID string) error
	RegisterToken(ctx context.Context, userID, token, platform string) error
}
