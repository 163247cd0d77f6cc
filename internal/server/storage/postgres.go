package storage

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/solcraft/internal/dbx"
	"github.com/dmitrijs2005/solcraft/internal/ledger"
	"github.com/dmitrijs2005/solcraft/internal/server/repositories/repomanager"
)

// PostgresStore runs each request in a database transaction. Concurrent
// writers are detected by the version predicate on every update.
type PostgresStore struct {
	db    *sql.DB
	repos repomanager.RepositoryManager
}

func NewPostgresStore(db *sql.DB, repos repomanager.RepositoryManager) *PostgresStore {
	return &PostgresStore{db: db, repos: repos}
}

func (s *PostgresStore) Atomically(ctx context.Context, fn func(ctx context.Context, tx ledger.Tx) error) error {
	return dbx.WithTx(ctx, s.db, dbx.ReadCommitted, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, s.repos.Accounts(tx))
	})
}

func (s *PostgresStore) Close() error { return s.db.Close() }
