package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grouptee/internal/domain"
)

type fakeLoginCodeRepo struct {
	hashes map[string]string // email -> code hash
	err    error
}

func newFakeLoginCodeRepo() *fakeLoginCodeRepo {
	return &fakeLoginCodeRepo{hashes: make(map[string]string)}
}

func (f *fakeLoginCodeRepo) Create(_ context.Context, email, codeHash string, _ time.Time) error {
	if f.err != nil {
		return f.err
	}
	f.hashes[email] = codeHash
	return nil
}

func (f *fakeLoginCodeRepo) Consume(_ context.Context, email, codeHash string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if f.hashes[email] != codeHash {
		return false, nil
	}
	delete(f.hashes, email)
	return true, nil
}

type fakeTokenIssuer struct{}

func (fakeTokenIssuer) Issue(userID, email string, _ time.Duration) (string, error) {
	return "token-" + userID, nil
}

// fakeLoginEmailService captures the code sent to the user so tests can replay it.
type fakeLoginEmailService struct {
	lastCode string
}

func (f *fakeLoginEmailService) SendGroupInvite(_ context.Context, _ *domain.GroupInviteEmailData) error {
	return nil
}

func (f *fakeLoginEmailService) SendLoginCode(_ context.Context, data *domain.LoginCodeEmailData) error {
	f.lastCode = data.Code
	return nil
}

func newUserService(profileRepo *fakeProfileRepo, codeRepo *fakeLoginCodeRepo, emails *fakeLoginEmailService) domain.UserService {
	return NewUserService(profileRepo, codeRepo, fakeTokenIssuer{}, time.Hour, emails)
}

func TestUserService_LoginCodeRoundTrip(t *testing.T) {
	profileRepo := newFakeProfileRepo()
	codeRepo := newFakeLoginCodeRepo()
	emails := &fakeLoginEmailService{}
	svc := newUserService(profileRepo, codeRepo, emails)

	require.NoError(t, svc.RequestLoginCode(context.Background(), "  Ada@Example.com "))
	require.Len(t, emails.lastCode, 6)

	token, profile, err := svc.VerifyLoginCode(context.Background(), "ada@example.com", emails.lastCode)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	// First login creates the profile with the name left blank.
	assert.Equal(t, "ada@example.com", profile.Email)
	assert.Empty(t, profile.FullName)
	require.Len(t, profileRepo.profiles, 1)
}

func TestUserService_VerifyLoginCode_SingleUse(t *testing.T) {
	codeRepo := newFakeLoginCodeRepo()
	emails := &fakeLoginEmailService{}
	svc := newUserService(newFakeProfileRepo(), codeRepo, emails)

	require.NoError(t, svc.RequestLoginCode(context.Background(), "ada@example.com"))
	_, _, err := svc.VerifyLoginCode(context.Background(), "ada@example.com", emails.lastCode)
	require.NoError(t, err)

	_, _, err = svc.VerifyLoginCode(context.Background(), "ada@example.com", emails.lastCode)
	require.ErrorContains(t, err, "invalid or expired code")
}

func TestUserService_VerifyLoginCode_WrongCode(t *testing.T) {
	codeRepo := newFakeLoginCodeRepo()
	svc := newUserService(newFakeProfileRepo(), codeRepo, &fakeLoginEmailService{})

	require.NoError(t, svc.RequestLoginCode(context.Background(), "ada@example.com"))

	_, _, err := svc.VerifyLoginCode(context.Background(), "ada@example.com", "000000")
	require.ErrorContains(t, err, "invalid or expired code")

	// Malformed codes never reach the store.
	_, _, err = svc.VerifyLoginCode(context.Background(), "ada@example.com", "abc")
	require.ErrorContains(t, err, "invalid or expired code")
}

func TestUserService_RequestLoginCode_BadEmail(t *testing.T) {
	svc := newUserService(newFakeProfileRepo(), newFakeLoginCodeRepo(), &fakeLoginEmailService{})

	err := svc.RequestLoginCode(context.Background(), "not-an-email")
	require.ErrorContains(t, err, "invalid email format")
}

func TestUserService_VerifyLoginCode_ExistingProfile(t *testing.T) {
	profileRepo := newFakeProfileRepo()
	profileRepo.profiles["u1"] = &domain.Profile{ID: "u1", Email: "ada@example.com", FullName: "Ada"}
	codeRepo := newFakeLoginCodeRepo()
	emails := &fakeLoginEmailService{}
	svc := newUserService(profileRepo, codeRepo, emails)

	require.NoError(t, svc.RequestLoginCode(context.Background(), "ada@example.com"))
	token, profile, err := svc.VerifyLoginCode(context.Background(), "ada@example.com", emails.lastCode)
	require.NoError(t, err)
	assert.Equal(t, "token-u1", token)
	assert.Equal(t, "Ada", profile.FullName)
	require.Len(t, profileRepo.profiles, 1, "no duplicate profile on repeat login")
}

func TestUserService_Update(t *testing.T) {
	profileRepo := newFakeProfileRepo()
	profileRepo.profiles["u1"] = &domain.Profile{ID: "u1", Email: "ada@example.com"}
	svc := newUserService(profileRepo, newFakeLoginCodeRepo(), &fakeLoginEmailService{})

	err := svc.Update(context.Background(), &domain.Profile{ID: "u1", Email: "ada@example.com", FullName: "  Ada Lovelace  "})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", profileRepo.profiles["u1"].FullName)

	err = svc.Update(context.Background(), &domain.Profile{ID: "u1", Email: "not-an-email"})
	require.ErrorContains(t, err, "invalid email format")
}
