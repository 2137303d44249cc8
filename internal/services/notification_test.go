package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grouptee/internal/domain"
)

type fakeNotificationRepo struct {
	notifications []*domain.Notification
	err           error
}

func (f *fakeNotificationRepo) Create(_ context.Context, n *domain.Notification) error {
	if f.err != nil {
		return f.err
	}
	f.notifications = append(f.notifications, n)
	return nil
}

func (f *fakeNotificationRepo) ListByUserID(_ context.Context, userID string) ([]*domain.Notification, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*domain.Notification
	for _, n := range f.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeNotificationRepo) MarkRead(_ context.Context, id, userID string) error {
	if f.err != nil {
		return f.err
	}
	for _, n := range f.notifications {
		if n.ID == id && n.UserID == userID {
			now := time.Now()
			n.ReadAt = &now
			return nil
		}
	}
	return domain.ErrNotFound
}

// fakePushTokenRepo is mutex-guarded: the push fan-out prunes tokens concurrently.
type fakePushTokenRepo struct {
	mu     sync.Mutex
	tokens []*domain.PushToken
	err    error
}

func (f *fakePushTokenRepo) Register(_ context.Context, t *domain.PushToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.tokens = append(f.tokens, t)
	return nil
}

func (f *fakePushTokenRepo) ListByUserID(_ context.Context, userID string) ([]*domain.PushToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []*domain.PushToken
	for _, t := range f.tokens {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakePushTokenRepo) DeleteByToken(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.tokens {
		if t.Token == token {
			f.tokens = append(f.tokens[:i], f.tokens[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

type fakePushSender struct {
	mu         sync.Mutex
	sent       []string
	deadTokens map[string]bool
	err        error
}

func (f *fakePushSender) Send(_ context.Context, token, message, notificationID string) (domain.PushReceipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return domain.PushReceipt{}, f.err
	}
	f.sent = append(f.sent, token)
	if f.deadTokens[token] {
		return domain.PushReceipt{Token: token, DeviceNotRegistered: true}, nil
	}
	return domain.PushReceipt{Token: token, OK: true}, nil
}

func TestNotificationService_Notify(t *testing.T) {
	repo := &fakeNotificationRepo{}
	tokenRepo := &fakePushTokenRepo{tokens: []*domain.PushToken{
		{ID: "t1", UserID: "u1", Token: "tok-1", Platform: "ios"},
		{ID: "t2", UserID: "u1", Token: "tok-2", Platform: "android"},
		{ID: "t3", UserID: "u2", Token: "tok-other", Platform: "ios"},
	}}
	sender := &fakePushSender{}
	svc := NewNotificationService(repo, tokenRepo, sender, time.Second)

	n, err := svc.Notify(context.Background(), "u1", "You're on the 08:30 tee time")
	require.NoError(t, err)
	assert.NotEmpty(t, n.ID)
	require.Len(t, repo.notifications, 1)

	// Pushed once per device the user registered, never to other users.
	assert.ElementsMatch(t, []string{"tok-1", "tok-2"}, sender.sent)
}

func TestNotificationService_Notify_PrunesDeadTokens(t *testing.T) {
	repo := &fakeNotificationRepo{}
	tokenRepo := &fakePushTokenRepo{tokens: []*domain.PushToken{
		{ID: "t1", UserID: "u1", Token: "tok-live", Platform: "ios"},
		{ID: "t2", UserID: "u1", Token: "tok-dead", Platform: "ios"},
	}}
	sender := &fakePushSender{deadTokens: map[string]bool{"tok-dead": true}}
	svc := NewNotificationService(repo, tokenRepo, sender, time.Second)

	_, err := svc.Notify(context.Background(), "u1", "hello")
	require.NoError(t, err)

	remaining, err := tokenRepo.ListByUserID(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "tok-live", remaining[0].Token)
}

func TestNotificationService_Notify_PushFailureIsNotFatal(t *testing.T) {
	repo := &fakeNotificationRepo{}
	tokenRepo := &fakePushTokenRepo{tokens: []*domain.PushToken{
		{ID: "t1", UserID: "u1", Token: "tok-1", Platform: "ios"},
	}}
	sender := &fakePushSender{err: context.DeadlineExceeded}
	svc := NewNotificationService(repo, tokenRepo, sender, time.Second)

	// The in-app record is the source of truth; a dead gateway does not fail Notify.
	_, err := svc.Notify(context.Background(), "u1", "hello")
	require.NoError(t, err)
	require.Len(t, repo.notifications, 1)
}

func TestNotificationService_Notify_NoSenderConfigured(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewNotificationService(repo, &fakePushTokenRepo{}, nil, time.Second)

	_, err := svc.Notify(context.Background(), "u1", "hello")
	require.NoError(t, err)
	require.Len(t, repo.notifications, 1)
}

func TestNotificationService_Notify_Validation(t *testing.T) {
	svc := NewNotificationService(&fakeNotificationRepo{}, &fakePushTokenRepo{}, nil, time.Second)

	_, err := svc.Notify(context.Background(), "u1", "   ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Notify(context.Background(), "", "hello")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNotificationService_MarkRead(t *testing.T) {
	repo := &fakeNotificationRepo{notifications: []*domain.Notification{
		{ID: "n1", UserID: "u1", Message: "hello"},
	}}
	svc := NewNotificationService(repo, &fakePushTokenRepo{}, nil, time.Second)

	require.NoError(t, svc.MarkRead(context.Background(), "n1", "u1"))
	assert.NotNil(t, repo.notifications[0].ReadAt)

	// Another user's notification is not reachable.
	err := svc.MarkRead(context.Background(), "n1", "u2")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestNotificationService_RegisterToken(t *testing.T) {
	tokenRepo := &fakePushTokenRepo{}
	svc := NewNotificationService(&fakeNotificationRepo{}, tokenRepo, nil, time.Second)

	require.NoError(t, svc.RegisterToken(context.Background(), "u1", " tok-1 ", "ios"))
	require.Len(t, tokenRepo.tokens, 1)
	assert.Equal(t, "tok-1", tokenRepo.tokens[0].Token)

	err := svc.RegisterToken(context.Background(), "u1", "   ", "ios")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
