package accounts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"
	"github.com/dmitrijs2005/solcraft/internal/common"
	"github.com/dmitrijs2005/solcraft/internal/ledger"
	"github.com/dmitrijs2005/solcraft/internal/pubkey"
)

const keyPrefix = "account/"

// Key returns the Pebble key an account is stored under.
func Key(addr pubkey.Address) []byte {
	return append([]byte(keyPrefix), addr[:]...)
}

// PebbleRepository reads and writes accounts through an indexed batch, so a
// request observes its own writes before the batch is committed.
type PebbleRepository struct {
	batch *pebble.Batch
}

func NewPebbleRepository(batch *pebble.Batch) *PebbleRepository {
	return &PebbleRepository{batch: batch}
}

func (r *PebbleRepository) Get(ctx context.Context, addr pubkey.Address) (*ledger.Account, error) {
	val, closer, err := r.batch.Get(Key(addr))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, fmt.Errorf("account %s: %w", addr, common.ErrorNotFound)
		}
		return nil, fmt.Errorf("pebble get: %w", err)
	}
	defer closer.Close()

	acc := &ledger.Account{}
	if err := json.Unmarshal(val, acc); err != nil {
		return nil, fmt.Errorf("account %s: %w", addr, err)
	}
	return acc, nil
}

func (r *PebbleRepository) Put(ctx context.Context, acc *ledger.Account) error {
	var current int64
	stored, err := r.Get(ctx, acc.Address)
	switch {
	case err == nil:
		current = stored.Version
	case !errors.Is(err, common.ErrorNotFound):
		return err
	}
	if acc.Version != current {
		return fmt.Errorf("%w: account %s at version %d, have %d", common.ErrVersionConflict, acc.Address, current, acc.Version)
	}

	next := acc.Clone()
	next.Version++
	val, err := json.Marshal(next)
	if err != nil {
		return err
	}
	if err := r.batch.Set(Key(acc.Address), val, nil); err != nil {
		return fmt.Errorf("pebble set: %w", err)
	}
	acc.Version = next.Version
	return nil
}
