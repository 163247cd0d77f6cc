// Package accounts persists ledger accounts. A repository bound to a
// transaction handle serves as that transaction's ledger.Tx.
package accounts

import (
	"context"

	"github.com/dmitrijs2005/solcraft/internal/ledger"
	"github.com/dmitrijs2005/solcraft/internal/pubkey"
)

type Repository interface {
	Get(ctx context.Context, addr pubkey.Address) (*ledger.Account, error)
	Put(ctx context.Context, acc *ledger.Account) error
}
