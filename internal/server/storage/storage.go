// Package storage opens the ledger store selected by configuration.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cockroachdb/pebble"
	"github.com/dmitrijs2005/solcraft/internal/filex"
	"github.com/dmitrijs2005/solcraft/internal/ledger"
	"github.com/dmitrijs2005/solcraft/internal/server/repositories/repomanager"
)

const (
	TypeMemory   = "memory"
	TypePostgres = "postgres"
	TypePebble   = "pebble"
)

type Options struct {
	Type      string
	DSN       string
	PebbleDir string
}

// sqlOpen is a seam for tests.
var sqlOpen = sql.Open

// NewStore opens the store named by opts.Type. Postgres schemas are migrated
// before the store is returned.
func NewStore(ctx context.Context, opts Options) (ledger.Store, error) {
	switch opts.Type {
	case TypeMemory, "":
		return ledger.NewMemoryStore(), nil

	case TypePostgres:
		db, err := sqlOpen("pgx", opts.DSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("ping postgres: %w", err)
		}
		repos := repomanager.NewPostgresRepositoryManager()
		if err := repos.RunMigrations(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		return NewPostgresStore(db, repos), nil

	case TypePebble:
		dir, err := filex.EnsureDir(opts.PebbleDir, 0o750)
		if err != nil {
			return nil, fmt.Errorf("create pebble dir: %w", err)
		}
		db, err := pebble.Open(dir, &pebble.Options{})
		if err != nil {
			return nil, fmt.Errorf("open pebble: %w", err)
		}
		return NewPebbleStore(db), nil

	default:
		return nil, fmt.Errorf("unknown store type %q", opts.Type)
	}
}
