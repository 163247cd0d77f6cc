package ledger

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/solcraft/internal/common"
	"github.com/dmitrijs2005/solcraft/internal/pubkey"
)

// Tx is the view of the ledger a single request works against.
type Tx interface {
	// Get returns a copy of the account or common.ErrorNotFound.
	Get(ctx context.Context, addr pubkey.Address) (*Account, error)

	// Put stores acc. acc.Version must equal the version that was read
	// (zero for a new account), otherwise common.ErrVersionConflict is
	// returned. On success acc.Version is advanced.
	Put(ctx context.Context, acc *Account) error
}

// Store runs requests atomically: fn's writes are committed together when it
// returns nil, and discarded when it returns an error or panics.
type Store interface {
	Atomically(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	Close() error
}

// Exists reports whether addr holds an account.
func Exists(ctx context.Context, tx Tx, addr pubkey.Address) (bool, error) {
	_, err := tx.Get(ctx, addr)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, common.ErrorNotFound) {
		return false, nil
	}
	return false, err
}

// Balance returns the lamports held at addr, zero when there is no account.
func Balance(ctx context.Context, tx Tx, addr pubkey.Address) (uint64, error) {
	acc, err := tx.Get(ctx, addr)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return acc.Lamports, nil
}
