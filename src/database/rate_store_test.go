package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *RateStore {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "rates.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRateStore(db)
}

func TestRateStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := openTestDB(t)

	_, err := store.Get(ctx, "USD", "20230110")
	assert.ErrorIs(t, err, ErrRateNotStored)

	require.NoError(t, store.Put(ctx, "usd", "20230110", 36.5686, "nbu"))
	rate, err := store.Get(ctx, "USD", "20230110")
	require.NoError(t, err)
	assert.Equal(t, 36.5686, rate)

	require.NoError(t, store.Put(ctx, "USD", "20230110", 36.6, "nbu"))
	rate, err = store.Get(ctx, "USD", "20230110")
	require.NoError(t, err)
	assert.Equal(t, 36.6, rate)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rates.db")

	db, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, NewRateStore(db).Put(context.Background(), "EUR", "20230110", 39.1, "nbu"))
	require.NoError(t, db.Close())

	db, err = Open(path)
	require.NoError(t, err)
	defer db.Close()

	rate, err := NewRateStore(db).Get(context.Background(), "EUR", "20230110")
	require.NoError(t, err)
	assert.Equal(t, 39.1, rate)
}
