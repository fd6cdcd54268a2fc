package auth

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rsanthanam/techdesk/internal/sqlite"
)

func newTestService(t *testing.T, ttl time.Duration) *Service {
	t.Helper()
	store, err := sqlite.OpenWithConfig(sqlite.Config{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return New(store, ttl)
}

func TestSignupAndLogin(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, time.Hour)

	user, err := svc.Signup(ctx, "alex", "hunter2")
	require.NoError(t, err)
	require.False(t, user.IsAdmin)
	require.NotEqual(t, "hunter2", user.PasswordHash, "password must not be stored in the clear")

	_, err = svc.Signup(ctx, "alex", "again")
	require.ErrorIs(t, err, ErrUsernameTaken)

	loggedIn, token, err := svc.Login(ctx, "alex", "hunter2")
	require.NoError(t, err)
	require.Equal(t, user.ID, loggedIn.ID)
	require.NotEmpty(t, token)

	resolved, err := svc.UserForToken(ctx, token)
	require.NoError(t, err)
	require.NotNil(t, resolved)
	require.Equal(t, "alex", resolved.Username)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, time.Hour)
	_, err := svc.Signup(ctx, "alex", "hunter2")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "alex", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "nobody", "hunter2")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogoutAndExpiry(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, 10*time.Millisecond)
	_, err := svc.Signup(ctx, "alex", "hunter2")
	require.NoError(t, err)

	_, token, err := svc.Login(ctx, "alex", "hunter2")
	require.NoError(t, err)

	svc.Logout(token)
	resolved, err := svc.UserForToken(ctx, token)
	require.NoError(t, err)
	require.Nil(t, resolved)

	_, token, err = svc.Login(ctx, "alex", "hunter2")
	require.NoError(t, err)
	time.Sleep(20 * time.Millisecond)
	resolved, err = svc.UserForToken(ctx, token)
	require.NoError(t, err)
	require.Nil(t, resolved, "expired session must not resolve")
}

func TestSeedDefaults(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, time.Hour)
	require.NoError(t, svc.SeedDefaults(ctx))
	// Idempotent.
	require.NoError(t, svc.SeedDefaults(ctx))

	admin, token, err := svc.Login(ctx, "admin", "admin123")
	require.NoError(t, err)
	require.True(t, admin.IsAdmin)
	require.NotEmpty(t, token)

	user, _, err := svc.Login(ctx, "testuser", "password")
	require.NoError(t, err)
	require.False(t, user.IsAdmin)
}
