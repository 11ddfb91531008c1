package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	pkgauth "github.com/retailpos/backoffice/pkg/auth"
	"github.com/retailpos/backoffice/pkg/auth/session"
	"github.com/retailpos/backoffice/pkg/config"
	"github.com/retailpos/backoffice/pkg/db/models"
	"github.com/retailpos/backoffice/pkg/enums"
	pkgerrors "github.com/retailpos/backoffice/pkg/errors"
	"github.com/retailpos/backoffice/pkg/security"
)

type fakeUserStore struct {
	byEmail    map[string]*models.User
	byID       map[uuid.UUID]*models.User
	lastLogins map[uuid.UUID]time.Time
}

func newFakeUserStore(users ...*models.User) *fakeUserStore {
	store := &fakeUserStore{
		byEmail:    map[string]*models.User{},
		byID:       map[uuid.UUID]*models.User{},
		lastLogins: map[uuid.UUID]time.Time{},
	}
	for _, user := range users {
		store.byEmail[user.Email] = user
		store.byID[user.ID] = user
	}
	return store
}

func (f *fakeUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if user, ok := f.byEmail[email]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserStore) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if user, ok := f.byID[id]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserStore) TouchLastLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	f.lastLogins[id] = at
	return nil
}

type fakeSessionManager struct {
	sessions map[string]string
	revoked  []string
}

func newFakeSessionManager() *fakeSessionManager {
	return &fakeSessionManager{sessions: map[string]string{}}
}

func (f *fakeSessionManager) Generate(_ context.Context, accessID string) (string, error) {
	token := "refresh-" + accessID
	f.sessions[accessID] = token
	return token, nil
}

func (f *fakeSessionManager) Rotate(_ context.Context, oldAccessID, provided string) (string, string, error) {
	stored, ok := f.sessions[oldAccessID]
	if !ok || stored != provided {
		return "", "", session.ErrInvalidRefreshToken
	}
	delete(f.sessions, oldAccessID)
	newID := session.NewAccessID()
	newToken := "refresh-" + newID
	f.sessions[newID] = newToken
	return newID, newToken, nil
}

func (f *fakeSessionManager) Revoke(_ context.Context, accessID string) error {
	delete(f.sessions, accessID)
	f.revoked = append(f.revoked, accessID)
	return nil
}

type fakeRateLimiter struct {
	counts map[string]int64
}

func newFakeRateLimiter() *fakeRateLimiter {
	return &fakeRateLimiter{counts: map[string]int64{}}
}

func (f *fakeRateLimiter) FixedWindowAllow(_ context.Context, scope string, limit int64, _ time.Duration) (bool, int64, error) {
	f.counts[scope]++
	return f.counts[scope] <= limit, f.counts[scope], nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:                 "test-secret",
		Issuer:                 "retailpos-test",
		ExpirationMinutes:      15,
		RefreshTokenTTLMinutes: 60,
	}
}

func testRateLimitConfig() config.AuthRateLimitConfig {
	return config.AuthRateLimitConfig{
		LoginWindow:     time.Minute,
		LoginEmailLimit: 3,
		LoginIPLimit:    10,
	}
}

func seedUser(t *testing.T, password string) *models.User {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{})
	require.NoError(t, err)
	return &models.User{
		ID:           uuid.New(),
		Email:        "clerk@example.com",
		PasswordHash: hash,
		Name:         "Clerk",
		Role:         enums.UserRoleStaff,
		IsActive:     true,
	}
}

func newTestService(t *testing.T, users *fakeUserStore) (Service, *fakeSessionManager, *fakeRateLimiter) {
	t.Helper()
	sessions := newFakeSessionManager()
	limiter := newFakeRateLimiter()
	svc, err := NewService(users, sessions, limiter, testJWTConfig(), testRateLimitConfig())
	require.NoError(t, err)
	return svc, sessions, limiter
}

func TestLogin(t *testing.T) {
	user := seedUser(t, "correct horse")
	store := newFakeUserStore(user)
	svc, sessions, _ := newTestService(t, store)
	ctx := context.Background()

	dto, err := svc.Login(ctx, LoginInput{
		Email:    " Clerk@Example.com ",
		Password: "correct horse",
		ClientIP: "10.0.0.1",
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, dto.User.ID)
	assert.NotEmpty(t, dto.Tokens.AccessToken)
	assert.NotEmpty(t, dto.Tokens.RefreshToken)
	assert.Equal(t, 15*60, dto.Tokens.ExpiresIn)
	require.NotNil(t, dto.User.LastLoginAt)
	assert.Contains(t, store.lastLogins, user.ID)

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), dto.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, enums.UserRoleStaff, claims.Role)
	_, ok := sessions.sessions[claims.ID]
	assert.True(t, ok, "session keyed by the token jti")
}

func TestLoginWrongPassword(t *testing.T) {
	user := seedUser(t, "right")
	svc, _, _ := newTestService(t, newFakeUserStore(user))

	_, err := svc.Login(context.Background(), LoginInput{
		Email:    user.Email,
		Password: "wrong",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.CodeOf(err))
}

func TestLoginUnknownEmailSameError(t *testing.T) {
	svc, _, _ := newTestService(t, newFakeUserStore())

	_, err := svc.Login(context.Background(), LoginInput{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.CodeOf(err))
}

func TestLoginDisabledAccount(t *testing.T) {
	user := seedUser(t, "pw")
	user.IsActive = false
	svc, _, _ := newTestService(t, newFakeUserStore(user))

	_, err := svc.Login(context.Background(), LoginInput{Email: user.Email, Password: "pw"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.CodeOf(err))
}

func TestLoginRateLimited(t *testing.T) {
	user := seedUser(t, "right")
	svc, _, _ := newTestService(t, newFakeUserStore(user))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Login(ctx, LoginInput{Email: user.Email, Password: "wrong"})
		require.Error(t, err)
		assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.CodeOf(err))
	}

	// The window is exhausted even for the correct password.
	_, err := svc.Login(ctx, LoginInput{Email: user.Email, Password: "right"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeRateLimit, pkgerrors.CodeOf(err))
}

func TestRefresh(t *testing.T) {
	user := seedUser(t, "pw")
	svc, sessions, _ := newTestService(t, newFakeUserStore(user))
	ctx := context.Background()

	login, err := svc.Login(ctx, LoginInput{Email: user.Email, Password: "pw"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(ctx, login.Tokens.AccessToken, login.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, login.Tokens.AccessToken, refreshed.Tokens.AccessToken)
	assert.NotEqual(t, login.Tokens.RefreshToken, refreshed.Tokens.RefreshToken)

	// The old pair cannot be replayed after rotation.
	_, err = svc.Refresh(ctx, login.Tokens.AccessToken, login.Tokens.RefreshToken)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.CodeOf(err))
	assert.Len(t, sessions.sessions, 1)
}

func TestRefreshGarbageToken(t *testing.T) {
	user := seedUser(t, "pw")
	svc, _, _ := newTestService(t, newFakeUserStore(user))

	_, err := svc.Refresh(context.Background(), "not-a-jwt", "refresh")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.CodeOf(err))
}

func TestLogout(t *testing.T) {
	user := seedUser(t, "pw")
	svc, sessions, _ := newTestService(t, newFakeUserStore(user))
	ctx := context.Background()

	login, err := svc.Login(ctx, LoginInput{Email: user.Email, Password: "pw"})
	require.NoError(t, err)

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), login.Tokens.AccessToken)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, claims.ID))
	assert.Empty(t, sessions.sessions)
	assert.Equal(t, []string{claims.ID}, sessions.revoked)
}
