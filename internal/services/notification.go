package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"

	"grouptee/internal/domain"
)

type notificationService struct {
	notificationRepo domain.NotificationRepository
	pushTokenRepo    domain.PushTokenRepository
	pushSender       domain.PushSender
	contextTimeout   time.Duration
}

// NewNotificationService creates a NotificationService. pushSender may be nil,
// in which case notifications are persisted but never pushed.
func NewNotificationService(
	notificationRepo domain.NotificationRepository,
	pushTokenRepo domain.PushTokenRepository,
	pushSender domain.PushSender,
	timeout time.Duration,
) domain.NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		pushTokenRepo:    pushTokenRepo,
		pushSender:       pushSender,
		contextTimeout:   timeout,
	}
}

// Notify persists the notification, then pushes it to every device token the
// user has registered. Push failures are logged, not returned: the in-app
// record is the source of truth. Tokens the gateway reports as dead are pruned.
func (s *notificationService) Notify(ctx context.Context, userID, message string) (*domain.Notification, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	message = strings.TrimSpace(message)
	if userID == "" || message == "" {
		return nil, fmt.Errorf("%w: user_id and message are required", domain.ErrInvalidInput)
	}

	n := &domain.Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Message:   message,
		CreatedAt: time.Now(),
	}
	if err := s.notificationRepo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}

	if s.pushSender != nil {
		s.push(ctx, n)
	}
	return n, nil
}

func (s *notificationService) push(ctx context.Context, n *domain.Notification) {
	tokens, err := s.pushTokenRepo.ListByUserID(ctx, n.UserID)
	if err != nil {
		log.Printf("[PUSH] list tokens for %s: %v", n.UserID, err)
		return
	}
	if len(tokens) == 0 {
		return
	}

	p := pool.New().WithContext(ctx)
	for _, t := range tokens {
		p.Go(func(ctx context.Context) error {
			receipt, err := s.pushSender.Send(ctx, t.Token, n.Message, n.ID)
			if err != nil {
				log.Printf("[PUSH] send to %s: %v", t.Token, err)
				return nil
			}
			if receipt.DeviceNotRegistered {
				if err := s.pushTokenRepo.DeleteByToken(ctx, t.Token); err != nil {
					log.Printf("[PUSH] prune token %s: %v", t.Token, err)
				}
				return nil
			}
			if !receipt.OK {
				log.Printf("[PUSH] rejected for %s: %s", t.Token, receipt.Detail)
			}
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		log.Printf("[PUSH] fan-out: %v", err)
	}
}

func (s *notificationService) List(ctx context.Context, userID string) ([]*domain.Notification, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	notifications, err := s.notificationRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	if notifications == nil {
		notifications = []*domain.Notification{}
	}
	return notifications, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.notificationRepo.MarkRead(ctx, id, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("mark notification read: %w", err)
	}
	return nil
}

func (s *notificationService) RegisterToken(ctx context.Context, userID, token, platform string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("%w: token is required", domain.ErrInvalidInput)
	}
	t := &domain.PushToken{
		ID:        uuid.NewString(),
		UserID:    userID,
		Token:     token,
		Platform:  platform,
		CreatedAt: time.Now(),
	}
	if err := s.pushTokenRepo.Register(ctx, t); err != nil {
		return fmt.Errorf("register push token: %w", err)
	}
	return nil
}
