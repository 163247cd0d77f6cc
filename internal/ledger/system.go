package ledger

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/dmitrijs2005/solcraft/internal/common"
	"github.com/dmitrijs2005/solcraft/internal/pubkey"
)

// System creates accounts and moves native value between system-owned
// accounts.
type System struct {
	Rent Rent
}

func NewSystem(rent Rent) *System {
	return &System{Rent: rent}
}

// CreateAccount allocates space bytes at addr, owned by owner, funded by
// payer with the rent-exempt minimum. It fails with common.ErrAccountExists
// when addr is already in use. Proving the right to claim addr is the
// caller's job.
func (s *System) CreateAccount(ctx context.Context, tx Tx, auth Authorizer, payer, addr pubkey.Address, space int, owner pubkey.Address) (*Account, error) {
	exists, err := Exists(ctx, tx, addr)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: %s", common.ErrAccountExists, addr)
	}

	lamports := s.Rent.MinimumBalance(space)
	if err := s.debit(ctx, tx, auth, payer, addr, lamports); err != nil {
		return nil, err
	}

	acc := &Account{
		Address:  addr,
		Owner:    owner,
		Lamports: lamports,
		Data:     make([]byte, space),
	}
	if err := tx.Put(ctx, acc); err != nil {
		return nil, err
	}
	return acc, nil
}

// Transfer moves amount lamports between accounts. The source must be a
// system-owned account and auth must approve the transfer on its behalf.
// The destination is created when missing.
func (s *System) Transfer(ctx context.Context, tx Tx, auth Authorizer, from, to pubkey.Address, amount uint64) error {
	if err := s.debit(ctx, tx, auth, from, to, amount); err != nil {
		return err
	}
	return s.credit(ctx, tx, to, amount)
}

// TransferFrom is Transfer for a source the caller has already loaded in tx
// and sized amount from. The debit is applied to src itself, so the commit
// fails if src changed after it was read.
func (s *System) TransferFrom(ctx context.Context, tx Tx, auth Authorizer, src *Account, to pubkey.Address, amount uint64) error {
	if err := s.debitAccount(ctx, tx, auth, src, to, amount); err != nil {
		return err
	}
	return s.credit(ctx, tx, to, amount)
}

// Airdrop credits amount lamports to addr without a source account. Used to
// fund genesis accounts.
func (s *System) Airdrop(ctx context.Context, tx Tx, addr pubkey.Address, amount uint64) error {
	return s.credit(ctx, tx, addr, amount)
}

func (s *System) debit(ctx context.Context, tx Tx, auth Authorizer, from, to pubkey.Address, amount uint64) error {
	acc, err := tx.Get(ctx, from)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("%w: %s holds no lamports", common.ErrInsufficientLamports, from)
		}
		return err
	}
	return s.debitAccount(ctx, tx, auth, acc, to, amount)
}

func (s *System) debitAccount(ctx context.Context, tx Tx, auth Authorizer, acc *Account, to pubkey.Address, amount uint64) error {
	from := acc.Address
	if acc.Owner != pubkey.SystemProgramID {
		return fmt.Errorf("%w: %s", common.ErrIllegalOwner, from)
	}
	if err := auth.Authorize(from, from, to, amount); err != nil {
		return err
	}
	if acc.Lamports < amount {
		return fmt.Errorf("%w: %s has %d, needs %d", common.ErrInsufficientLamports, from, acc.Lamports, amount)
	}
	acc.Lamports -= amount
	return tx.Put(ctx, acc)
}

func (s *System) credit(ctx context.Context, tx Tx, to pubkey.Address, amount uint64) error {
	acc, err := tx.Get(ctx, to)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			return err
		}
		acc = &Account{Address: to, Owner: pubkey.SystemProgramID}
	}
	if acc.Lamports > math.MaxUint64-amount {
		return fmt.Errorf("%w: crediting %s", common.ErrArithmeticOverflow, to)
	}
	acc.Lamports += amount
	return tx.Put(ctx, acc)
}
