package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgcpoolandspa/poolsite/internal/config"
	"github.com/rgcpoolandspa/poolsite/internal/db/dbtest"
)

func TestLocalProvider_Authenticate(t *testing.T) {
	lp := NewLocalProvider(dbtest.Open(t))

	created, err := lp.CreateAdmin("alice", "alice@example.com", "secret")
	require.NoError(t, err)
	assert.NotEqual(t, "secret", created.Password)

	got, err := lp.Authenticate("alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = lp.Authenticate("alice", "wrong")
	require.ErrorIs(t, err, ErrInvalidPassword)

	_, err = lp.Authenticate("bob", "secret")
	require.ErrorIs(t, err, ErrUserNotFound)

	_, err = lp.Authenticate("alice", "")
	require.ErrorIs(t, err, ErrMissingCredentials)
}

func TestLocalProvider_CreateAdminDuplicate(t *testing.T) {
	lp := NewLocalProvider(dbtest.Open(t))

	_, err := lp.CreateAdmin("alice", "", "secret")
	require.NoError(t, err)

	_, err = lp.CreateAdmin("alice", "", "other")
	require.ErrorIs(t, err, ErrUsernameExists)
}

func TestLocalProvider_SetPassword(t *testing.T) {
	lp := NewLocalProvider(dbtest.Open(t))

	_, err := lp.CreateAdmin("alice", "", "old")
	require.NoError(t, err)

	require.NoError(t, lp.SetPassword("alice", "new"))

	_, err = lp.Authenticate("alice", "new")
	require.NoError(t, err)

	_, err = lp.Authenticate("alice", "old")
	require.ErrorIs(t, err, ErrInvalidPassword)

	require.ErrorIs(t, lp.SetPassword("bob", "new"), ErrUserNotFound)
	require.ErrorIs(t, lp.SetPassword("alice", ""), ErrMissingCredentials)
}

func TestLocalProvider_EnsureBootstrapAdmin(t *testing.T) {
	lp := NewLocalProvider(dbtest.Open(t))
	cfg := config.Admin{Username: "admin", Password: "changeme", Email: "admin@example.com"}

	created, err := lp.EnsureBootstrapAdmin(cfg)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = lp.EnsureBootstrapAdmin(config.Admin{Username: "other", Password: "x"})
	require.NoError(t, err)
	assert.False(t, created)

	_, err = lp.Authenticate("admin", "changeme")
	require.NoError(t, err)
}

func TestLocalProvider_EnsureBootstrapAdminNeedsCredentials(t *testing.T) {
	lp := NewLocalProvider(dbtest.Open(t))

	_, err := lp.EnsureBootstrapAdmin(config.Admin{})
	require.ErrorIs(t, err, ErrMissingCredentials)
}
