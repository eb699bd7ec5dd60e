package data

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finch-money/finch/internal/models"
)

func TestUserLifecycle(t *testing.T) {
	mgr := testManager(t)
	store := mgr.InternalStore()
	ctx := testContext()

	user := &models.InternalUser{
		UserID:       "usr_lifecycle",
		Username:     "lifecycle",
		Email:        "lifecycle@test.com",
		PasswordHash: "bcrypt_hash",
		Role:         "user",
		CreatedAt:    time.Now().Truncate(time.Second),
	}
	require.NoError(t, store.SaveUser(ctx, user))

	got, err := store.GetUser(ctx, "usr_lifecycle")
	require.NoError(t, err)
	assert.Equal(t, "lifecycle@test.com", got.Email)
	assert.Equal(t, "user", got.Role)

	got.Email = "updated@test.com"
	got.Role = "admin"
	require.NoError(t, store.SaveUser(ctx, got))

	updated, err := store.GetUser(ctx, "usr_lifecycle")
	require.NoError(t, err)
	assert.Equal(t, "updated@test.com", updated.Email)
	assert.Equal(t, "admin", updated.Role)

	users, err := store.ListUsers(ctx)
	require.NoError(t, err)
	assert.Contains(t, users, "usr_lifecycle")

	require.NoError(t, store.DeleteUser(ctx, "usr_lifecycle"))

	_, err = store.GetUser(ctx, "usr_lifecycle")
	assert.Error(t, err)
}

func TestGetUserByUsername(t *testing.T) {
	mgr := testManager(t)
	store := mgr.InternalStore()
	ctx := testContext()

	require.NoError(t, store.SaveUser(ctx, &models.InternalUser{
		UserID:   "usr_alice",
		Username: "alice",
	}))

	got, err := store.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "usr_alice", got.UserID)

	_, err = store.GetUserByUsername(ctx, "nobody")
	assert.Error(t, err)
}

func TestUserKVLifecycle(t *testing.T) {
	mgr := testManager(t)
	store := mgr.InternalStore()
	ctx := testContext()

	require.NoError(t, store.SetUserKV(ctx, "kvlc", "theme", "dark"))
	require.NoError(t, store.SetUserKV(ctx, "kvlc", "lang", "en"))

	kv, err := store.GetUserKV(ctx, "kvlc", "theme")
	require.NoError(t, err)
	assert.Equal(t, "dark", kv.Value)

	require.NoError(t, store.SetUserKV(ctx, "kvlc", "theme", "light"))
	kv, err = store.GetUserKV(ctx, "kvlc", "theme")
	require.NoError(t, err)
	assert.Equal(t, "light", kv.Value)

	require.NoError(t, store.DeleteUserKV(ctx, "kvlc", "theme"))
	_, err = store.GetUserKV(ctx, "kvlc", "theme")
	assert.Error(t, err)

	// Other keys unaffected.
	kv, err = store.GetUserKV(ctx, "kvlc", "lang")
	require.NoError(t, err)
	assert.Equal(t, "en", kv.Value)
}

func TestSystemKV(t *testing.T) {
	mgr := testManager(t)
	store := mgr.InternalStore()
	ctx := testContext()

	require.NoError(t, store.SetSystemKV(ctx, "schema_version", "1.0"))

	val, err := store.GetSystemKV(ctx, "schema_version")
	require.NoError(t, err)
	assert.Equal(t, "1.0", val)

	require.NoError(t, store.SetSystemKV(ctx, "schema_version", "2.0"))
	val, err = store.GetSystemKV(ctx, "schema_version")
	require.NoError(t, err)
	assert.Equal(t, "2.0", val)

	_, err = store.GetSystemKV(ctx, "nonexistent")
	assert.Error(t, err)
}
