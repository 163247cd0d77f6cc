package ledger

import (
	"bytes"

	"github.com/dmitrijs2005/solcraft/internal/pubkey"
)

// Account is a single ledger record.
//
// Version is the optimistic-concurrency counter. Zero means the account has
// never been stored; every successful Put advances it by one.
type Account struct {
	Address  pubkey.Address `json:"address"`
	Owner    pubkey.Address `json:"owner"`
	Lamports uint64         `json:"lamports"`
	Data     []byte         `json:"data"`
	Version  int64          `json:"version"`
}

// Clone returns a deep copy of a.
func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}
	c := *a
	if a.Data != nil {
		c.Data = bytes.Clone(a.Data)
	}
	return &c
}
