package ledger

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/solcraft/internal/common"
	"github.com/dmitrijs2005/solcraft/internal/pubkey"
)

// MemoryStore keeps accounts in process memory. Requests run in parallel.
// Every account a request reads or writes is pinned at the version first
// seen, and the commit fails if any of them changed since.
type MemoryStore struct {
	mu       sync.RWMutex
	accounts map[pubkey.Address]*Account
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{accounts: make(map[pubkey.Address]*Account)}
}

type memoryTx struct {
	store  *MemoryStore
	writes map[pubkey.Address]*Account
	// reads caches the first read of each account, nil when absent, so
	// repeated reads inside one request see the same state.
	reads map[pubkey.Address]*Account
	// base holds the stored version each touched account was first seen at.
	base map[pubkey.Address]int64
}

func (s *MemoryStore) Atomically(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	tx := &memoryTx{
		store:  s,
		writes: make(map[pubkey.Address]*Account),
		reads:  make(map[pubkey.Address]*Account),
		base:   make(map[pubkey.Address]int64),
	}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	return s.commit(tx)
}

func (s *MemoryStore) commit(tx *memoryTx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for addr, want := range tx.base {
		var have int64
		if cur, ok := s.accounts[addr]; ok {
			have = cur.Version
		}
		if have != want {
			return fmt.Errorf("%w: account %s", common.ErrVersionConflict, addr)
		}
	}
	for addr, acc := range tx.writes {
		s.accounts[addr] = acc
	}
	return nil
}

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) lookup(addr pubkey.Address) (*Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acc, ok := s.accounts[addr]
	return acc.Clone(), ok
}

// snapshot returns the account as first seen by this request.
func (t *memoryTx) snapshot(addr pubkey.Address) (*Account, bool) {
	if acc, ok := t.reads[addr]; ok {
		return acc, acc != nil
	}
	acc, ok := t.store.lookup(addr)
	var version int64
	if ok {
		version = acc.Version
	}
	t.reads[addr] = acc
	t.base[addr] = version
	return acc, ok
}

func (t *memoryTx) Get(ctx context.Context, addr pubkey.Address) (*Account, error) {
	if acc, ok := t.writes[addr]; ok {
		return acc.Clone(), nil
	}
	acc, ok := t.snapshot(addr)
	if !ok {
		return nil, fmt.Errorf("account %s: %w", addr, common.ErrorNotFound)
	}
	return acc.Clone(), nil
}

func (t *memoryTx) Put(ctx context.Context, acc *Account) error {
	var current int64
	if w, ok := t.writes[acc.Address]; ok {
		current = w.Version
	} else if seen, ok := t.snapshot(acc.Address); ok {
		current = seen.Version
	}
	if acc.Version != current {
		return fmt.Errorf("%w: account %s at version %d, have %d", common.ErrVersionConflict, acc.Address, current, acc.Version)
	}

	acc.Version++
	t.writes[acc.Address] = acc.Clone()
	return nil
}
