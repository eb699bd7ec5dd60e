package data

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finch-money/finch/internal/interfaces"
	"github.com/finch-money/finch/internal/models"
)

func putRecord(t *testing.T, store interfaces.UserDataStore, userID, subject, key, value string, at time.Time) {
	t.Helper()
	require.NoError(t, store.Put(testContext(), &models.UserRecord{
		UserID:   userID,
		Subject:  subject,
		Key:      key,
		Value:    value,
		DateTime: at,
	}))
}

func TestUserRecordLifecycle(t *testing.T) {
	mgr := testManager(t)
	store := mgr.UserDataStore()
	ctx := testContext()

	putRecord(t, store, "u1", "account", "acc_1", `{"name":"Wallet"}`, time.Now())

	got, err := store.Get(ctx, "u1", "account", "acc_1")
	require.NoError(t, err)
	assert.Equal(t, `{"name":"Wallet"}`, got.Value)
	assert.Equal(t, 1, got.Version)

	// Overwriting bumps the version.
	got.Value = `{"name":"Renamed"}`
	require.NoError(t, store.Put(ctx, got))

	updated, err := store.Get(ctx, "u1", "account", "acc_1")
	require.NoError(t, err)
	assert.Equal(t, `{"name":"Renamed"}`, updated.Value)
	assert.Equal(t, 2, updated.Version)

	require.NoError(t, store.Delete(ctx, "u1", "account", "acc_1"))
	_, err = store.Get(ctx, "u1", "account", "acc_1")
	require.Error(t, err)
	assert.IsType(t, &models.NotFoundError{}, err)
}

func TestUserRecordIsolation(t *testing.T) {
	mgr := testManager(t)
	store := mgr.UserDataStore()
	ctx := testContext()

	now := time.Now()
	putRecord(t, store, "alice", "account", "acc_1", "a", now)
	putRecord(t, store, "bob", "account", "acc_1", "b", now)
	putRecord(t, store, "alice", "transaction", "txn_1", "t", now)

	accounts, err := store.List(ctx, "alice", "account")
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "a", accounts[0].Value)

	_, err = store.Get(ctx, "bob", "transaction", "txn_1")
	assert.Error(t, err)
}

func TestQueryOrderingAndLimit(t *testing.T) {
	mgr := testManager(t)
	store := mgr.UserDataStore()
	ctx := testContext()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		putRecord(t, store, "u1", "transaction", fmt.Sprintf("txn_%d", i), fmt.Sprintf("v%d", i), base.Add(time.Duration(i)*time.Hour))
	}

	newest, err := store.Query(ctx, "u1", "transaction", interfaces.QueryOptions{})
	require.NoError(t, err)
	require.Len(t, newest, 5)
	assert.Equal(t, "v4", newest[0].Value)

	oldest, err := store.Query(ctx, "u1", "transaction", interfaces.QueryOptions{OrderBy: "datetime_asc"})
	require.NoError(t, err)
	require.Len(t, oldest, 5)
	assert.Equal(t, "v0", oldest[0].Value)

	limited, err := store.Query(ctx, "u1", "transaction", interfaces.QueryOptions{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestDeleteBySubject(t *testing.T) {
	mgr := testManager(t)
	store := mgr.UserDataStore()
	ctx := testContext()

	now := time.Now()
	putRecord(t, store, "u1", "budget", "bgt_1", "a", now)
	putRecord(t, store, "u1", "budget", "bgt_2", "b", now)
	putRecord(t, store, "u1", "account", "acc_1", "c", now)

	count, err := store.DeleteBySubject(ctx, "u1", "budget")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	budgets, err := store.List(ctx, "u1", "budget")
	require.NoError(t, err)
	assert.Empty(t, budgets)

	// Other subjects untouched.
	accounts, err := store.List(ctx, "u1", "account")
	require.NoError(t, err)
	assert.Len(t, accounts, 1)
}
