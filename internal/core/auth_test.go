package core

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edvin/mongoadmin/internal/metrics"
	"github.com/edvin/mongoadmin/internal/session"
)

func newAuthFixture(t *testing.T) (*AuthService, *memUsers, *session.MemoryStore) {
	t.Helper()
	repo := &memUsers{}
	users := NewUserService(repo, &plainHasher{})
	_, err := users.Signup(context.Background(), "owner@example.com", "secret1")
	require.NoError(t, err)

	store := session.NewMemoryStore()
	return NewAuthService(users, store, time.Hour), repo, store
}

func TestAuthService_Login(t *testing.T) {
	svc, _, store := newAuthFixture(t)
	ctx := context.Background()
	before := testutil.ToFloat64(metrics.LoginAttempts.WithLabelValues("success"))

	sess, u, err := svc.Login(ctx, "owner@example.com", "secret1", "")
	require.NoError(t, err)
	assert.Equal(t, "owner@example.com", u.Email)
	assert.True(t, sess.LoggedIn)
	assert.NotEmpty(t, sess.CSRFToken)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.LoginAttempts.WithLabelValues("success")))

	stored, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "owner@example.com", stored.Identity())
}

func TestAuthService_Login_Failure(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	before := testutil.ToFloat64(metrics.LoginAttempts.WithLabelValues("failure"))

	_, _, err := svc.Login(context.Background(), "owner@example.com", "nope", "")
	assert.Equal(t, KindUnauthorized, KindOf(err))
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.LoginAttempts.WithLabelValues("failure")))
}

func TestAuthService_Login_DropsPreviousSession(t *testing.T) {
	svc, _, store := newAuthFixture(t)
	ctx := context.Background()

	first, _, err := svc.Login(ctx, "owner@example.com", "secret1", "")
	require.NoError(t, err)
	second, _, err := svc.Login(ctx, "owner@example.com", "secret1", first.ID)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	_, err = store.Get(ctx, first.ID)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestAuthService_Login_FailureKeepsPreviousSession(t *testing.T) {
	svc, _, store := newAuthFixture(t)
	ctx := context.Background()

	first, _, err := svc.Login(ctx, "owner@example.com", "secret1", "")
	require.NoError(t, err)
	_, _, err = svc.Login(ctx, "owner@example.com", "typo", first.ID)
	assert.Equal(t, KindUnauthorized, KindOf(err))

	stored, err := store.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "owner@example.com", stored.Identity())
}

func TestAuthService_Resolve(t *testing.T) {
	svc, repo, _ := newAuthFixture(t)
	ctx := context.Background()

	sess, _, err := svc.Login(ctx, "owner@example.com", "secret1", "")
	require.NoError(t, err)

	u, got, err := svc.Resolve(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)
	assert.Empty(t, u.PasswordHash)

	// Permission changes are visible on the next request.
	repo.users[0].Permissions.CanExport = false
	u, _, err = svc.Resolve(ctx, sess.ID)
	require.NoError(t, err)
	assert.False(t, u.Permissions.CanExport)
}

func TestAuthService_Resolve_UserRemoved(t *testing.T) {
	svc, repo, store := newAuthFixture(t)
	ctx := context.Background()

	sess, _, err := svc.Login(ctx, "owner@example.com", "secret1", "")
	require.NoError(t, err)
	repo.users = nil

	_, _, err = svc.Resolve(ctx, sess.ID)
	assert.Equal(t, KindUnauthorized, KindOf(err))
	_, err = store.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestAuthService_Resolve_UnknownSession(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, _, err := svc.Resolve(context.Background(), "")
	assert.Equal(t, KindUnauthorized, KindOf(err))
	_, _, err = svc.Resolve(context.Background(), "missing")
	assert.Equal(t, KindUnauthorized, KindOf(err))
}

func TestAuthService_Logout(t *testing.T) {
	svc, _, store := newAuthFixture(t)
	ctx := context.Background()

	sess, _, err := svc.Login(ctx, "owner@example.com", "secret1", "")
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx, sess.ID))
	require.NoError(t, svc.Logout(ctx, ""))

	_, err = store.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestAuthService_Refresh(t *testing.T) {
	svc, _, store := newAuthFixture(t)
	ctx := context.Background()

	sess, _, err := svc.Login(ctx, "owner@example.com", "secret1", "")
	require.NoError(t, err)

	renewed, err := svc.Refresh(ctx, sess)
	require.NoError(t, err)
	assert.False(t, renewed)

	sess.ExpiresAt = time.Now().Add(10 * time.Minute)
	require.NoError(t, store.Touch(ctx, sess.ID, sess.ExpiresAt))

	renewed, err = svc.Refresh(ctx, sess)
	require.NoError(t, err)
	assert.True(t, renewed)
	assert.WithinDuration(t, time.Now().Add(time.Hour), sess.ExpiresAt, time.Minute)

	stored, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.ExpiresAt, stored.ExpiresAt)
}
