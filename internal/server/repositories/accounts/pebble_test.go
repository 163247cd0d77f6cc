package accounts

import (
	"context"
	"testing"

	"github.com/cockroachdb/pebble"
	"github.com/dmitrijs2005/solcraft/internal/common"
	"github.com/dmitrijs2005/solcraft/internal/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openPebble(t *testing.T) *pebble.DB {
	t.Helper()
	db, err := pebble.Open(t.TempDir(), &pebble.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestPebble_ReadsOwnWritesBeforeCommit(t *testing.T) {
	db := openPebble(t)
	ctx := context.Background()

	b := db.NewIndexedBatch()
	repo := NewPebbleRepository(b)

	_, err := repo.Get(ctx, alice)
	require.ErrorIs(t, err, common.ErrorNotFound)

	acc := &ledger.Account{Address: alice, Owner: owner, Lamports: 7, Data: []byte{1}}
	require.NoError(t, repo.Put(ctx, acc))
	assert.Equal(t, int64(1), acc.Version)

	got, err := repo.Get(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, acc, got)

	_, closer, err := db.Get(Key(alice))
	assert.ErrorIs(t, err, pebble.ErrNotFound, "not visible before commit")
	if closer != nil {
		_ = closer.Close()
	}

	require.NoError(t, b.Commit(pebble.Sync))
	require.NoError(t, b.Close())

	b = db.NewIndexedBatch()
	defer b.Close()
	got, err = NewPebbleRepository(b).Get(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), got.Lamports)
}

func TestPebble_RejectsStaleVersion(t *testing.T) {
	db := openPebble(t)
	ctx := context.Background()

	b := db.NewIndexedBatch()
	defer b.Close()
	repo := NewPebbleRepository(b)

	acc := &ledger.Account{Address: alice, Owner: owner}
	require.NoError(t, repo.Put(ctx, acc))

	stale := &ledger.Account{Address: alice, Owner: owner, Lamports: 1}
	err := repo.Put(ctx, stale)
	assert.ErrorIs(t, err, common.ErrVersionConflict)
	assert.Equal(t, int64(0), stale.Version)

	acc.Lamports = 2
	require.NoError(t, repo.Put(ctx, acc))
	assert.Equal(t, int64(2), acc.Version)
}
