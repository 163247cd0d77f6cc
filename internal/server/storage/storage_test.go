package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/solcraft/internal/common"
	"github.com/dmitrijs2005/solcraft/internal/ledger"
	"github.com/dmitrijs2005/solcraft/internal/pubkey"
	"github.com/dmitrijs2005/solcraft/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alice = pubkey.DefaultEngineProgramID
	bob   = pubkey.MetadataProgramID
)

func TestNewStore_Memory(t *testing.T) {
	for _, typ := range []string{"", TypeMemory} {
		s, err := NewStore(context.Background(), Options{Type: typ})
		require.NoError(t, err)
		assert.IsType(t, &ledger.MemoryStore{}, s)
	}
}

func TestNewStore_UnknownType(t *testing.T) {
	_, err := NewStore(context.Background(), Options{Type: "etcd"})
	assert.ErrorContains(t, err, `unknown store type "etcd"`)
}

func TestNewStore_PostgresOpenError(t *testing.T) {
	orig := sqlOpen
	t.Cleanup(func() { sqlOpen = orig })
	sqlOpen = func(driver, dsn string) (*sql.DB, error) {
		assert.Equal(t, "pgx", driver)
		return nil, errors.New("bad dsn")
	}

	_, err := NewStore(context.Background(), Options{Type: TypePostgres, DSN: "x"})
	assert.ErrorContains(t, err, "bad dsn")
}

func put(ctx context.Context, tx ledger.Tx, addr pubkey.Address, lamports uint64) error {
	acc, err := tx.Get(ctx, addr)
	if errors.Is(err, common.ErrorNotFound) {
		acc, err = &ledger.Account{Address: addr}, nil
	}
	if err != nil {
		return err
	}
	acc.Lamports = lamports
	return tx.Put(ctx, acc)
}

func balance(t *testing.T, s ledger.Store, addr pubkey.Address) uint64 {
	t.Helper()
	var n uint64
	require.NoError(t, s.Atomically(context.Background(), func(ctx context.Context, tx ledger.Tx) error {
		var err error
		n, err = ledger.Balance(ctx, tx, addr)
		return err
	}))
	return n
}

func TestPebbleStore_CommitAndRollback(t *testing.T) {
	s, err := NewStore(context.Background(), Options{Type: TypePebble, PebbleDir: filepath.Join(t.TempDir(), "ledger")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	ctx := context.Background()

	require.NoError(t, s.Atomically(ctx, func(ctx context.Context, tx ledger.Tx) error {
		if err := put(ctx, tx, alice, 10); err != nil {
			return err
		}
		return put(ctx, tx, alice, 11)
	}))
	assert.Equal(t, uint64(11), balance(t, s, alice))

	boom := errors.New("boom")
	err = s.Atomically(ctx, func(ctx context.Context, tx ledger.Tx) error {
		require.NoError(t, put(ctx, tx, alice, 99))
		require.NoError(t, put(ctx, tx, bob, 1))
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, uint64(11), balance(t, s, alice))
	assert.Equal(t, uint64(0), balance(t, s, bob))

	assert.Panics(t, func() {
		_ = s.Atomically(ctx, func(ctx context.Context, tx ledger.Tx) error {
			require.NoError(t, put(ctx, tx, bob, 5))
			panic("request failed")
		})
	})
	assert.Equal(t, uint64(0), balance(t, s, bob))
}

func TestPebbleStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := NewStore(ctx, Options{Type: TypePebble, PebbleDir: dir})
	require.NoError(t, err)
	require.NoError(t, s.Atomically(ctx, func(ctx context.Context, tx ledger.Tx) error {
		return put(ctx, tx, alice, 42)
	}))
	require.NoError(t, s.Close())

	s, err = NewStore(ctx, Options{Type: TypePebble, PebbleDir: dir})
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, uint64(42), balance(t, s, alice))
}

func TestPostgresStore_CommitsRequest(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO accounts").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	s := NewPostgresStore(db, repomanager.NewPostgresRepositoryManager())
	err = s.Atomically(context.Background(), func(ctx context.Context, tx ledger.Tx) error {
		return tx.Put(ctx, &ledger.Account{Address: alice, Owner: bob, Lamports: 1})
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_RollsBackOnConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE accounts").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	s := NewPostgresStore(db, repomanager.NewPostgresRepositoryManager())
	err = s.Atomically(context.Background(), func(ctx context.Context, tx ledger.Tx) error {
		return tx.Put(ctx, &ledger.Account{Address: alice, Owner: bob, Version: 3})
	})
	assert.ErrorIs(t, err, common.ErrVersionConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}
