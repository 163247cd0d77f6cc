package storage

import (
	"context"
	"sync"

	"github.com/cockroachdb/pebble"
	"github.com/dmitrijs2005/solcraft/internal/ledger"
	"github.com/dmitrijs2005/solcraft/internal/server/repositories/accounts"
)

// PebbleStore applies each request as one indexed batch. Requests are
// serialized, so the versions a batch reads cannot change before it commits.
type PebbleStore struct {
	mu sync.Mutex
	db *pebble.DB
}

func NewPebbleStore(db *pebble.DB) *PebbleStore {
	return &PebbleStore{db: db}
}

func (s *PebbleStore) Atomically(ctx context.Context, fn func(ctx context.Context, tx ledger.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	batch := s.db.NewIndexedBatch()
	defer batch.Close()

	if err := fn(ctx, accounts.NewPebbleRepository(batch)); err != nil {
		return err
	}
	return batch.Commit(pebble.Sync)
}

func (s *PebbleStore) Close() error { return s.db.Close() }
