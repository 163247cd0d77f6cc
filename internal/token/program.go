// Package token is the fungible-asset program: mints, holding accounts and
// the mint, transfer and authority operations over them.
package token

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/dmitrijs2005/solcraft/internal/common"
	"github.com/dmitrijs2005/solcraft/internal/ledger"
	"github.com/dmitrijs2005/solcraft/internal/pubkey"
)

// AuthorityType selects which mint authority SetAuthority replaces.
type AuthorityType uint8

const (
	MintTokens AuthorityType = iota
	FreezeAccount
)

func (t AuthorityType) String() string {
	switch t {
	case MintTokens:
		return "mint_tokens"
	case FreezeAccount:
		return "freeze_account"
	default:
		return fmt.Sprintf("authority_type(%d)", uint8(t))
	}
}

// Program executes token operations against a ledger transaction.
type Program struct {
	sys *ledger.System
}

func NewProgram(sys *ledger.System) *Program {
	return &Program{sys: sys}
}

// AssociatedAddress returns the canonical holding account of owner for mint.
func AssociatedAddress(owner, mint pubkey.Address) (pubkey.Address, error) {
	addr, _, err := pubkey.FindProgramAddress(
		pubkey.Seeds(owner, pubkey.TokenProgramID, mint),
		pubkey.AssociatedTokenProgramID,
	)
	return addr, err
}

// InitializeMint creates the mint account at mint, funded by payer. The mint
// address must have signed the request.
func (p *Program) InitializeMint(ctx context.Context, tx ledger.Tx, signers ledger.Signers, payer, mint pubkey.Address, decimals uint8, mintAuthority pubkey.Address, freezeAuthority *pubkey.Address) (*Mint, error) {
	if err := signers.Require(mint); err != nil {
		return nil, fmt.Errorf("mint %s: %w", mint, err)
	}
	acc, err := p.sys.CreateAccount(ctx, tx, signers, payer, mint, MintSize, pubkey.TokenProgramID)
	if err != nil {
		return nil, err
	}

	m := &Mint{
		MintAuthority:   &mintAuthority,
		Decimals:        decimals,
		IsInitialized:   true,
		FreezeAuthority: freezeAuthority,
	}
	if err := p.store(ctx, tx, acc, m); err != nil {
		return nil, err
	}
	return m, nil
}

// CreateAssociated creates owner's associated holding account for mint,
// paid by payer. It fails with common.ErrAccountExists if it is present.
func (p *Program) CreateAssociated(ctx context.Context, tx ledger.Tx, auth ledger.Authorizer, payer, owner, mint pubkey.Address) (pubkey.Address, error) {
	if _, err := p.Mint(ctx, tx, mint); err != nil {
		return pubkey.Address{}, err
	}
	addr, err := AssociatedAddress(owner, mint)
	if err != nil {
		return pubkey.Address{}, err
	}

	acc, err := p.sys.CreateAccount(ctx, tx, auth, payer, addr, AccountSize, pubkey.TokenProgramID)
	if err != nil {
		return pubkey.Address{}, err
	}
	if err := p.store(ctx, tx, acc, &Account{Mint: mint, Owner: owner, State: StateInitialized}); err != nil {
		return pubkey.Address{}, err
	}
	return addr, nil
}

// EnsureAssociated returns owner's associated holding account for mint,
// creating it when absent. An existing account must belong to owner and mint.
func (p *Program) EnsureAssociated(ctx context.Context, tx ledger.Tx, auth ledger.Authorizer, payer, owner, mint pubkey.Address) (pubkey.Address, error) {
	addr, err := AssociatedAddress(owner, mint)
	if err != nil {
		return pubkey.Address{}, err
	}
	existing, err := p.Account(ctx, tx, addr)
	switch {
	case errors.Is(err, common.ErrorNotFound):
		return p.CreateAssociated(ctx, tx, auth, payer, owner, mint)
	case err != nil:
		return pubkey.Address{}, err
	}
	if existing.Mint != mint {
		return pubkey.Address{}, fmt.Errorf("%w: %s", common.ErrMintMismatch, addr)
	}
	if existing.Owner != owner {
		return pubkey.Address{}, fmt.Errorf("%w: %s is not held by %s", common.ErrIllegalOwner, addr, owner)
	}
	return addr, nil
}

// MintTo creates amount new units of mint into dest. auth must approve on
// behalf of the current mint authority.
func (p *Program) MintTo(ctx context.Context, tx ledger.Tx, auth ledger.Authorizer, mint, dest pubkey.Address, amount uint64) error {
	mintAcc, m, err := p.loadMint(ctx, tx, mint)
	if err != nil {
		return err
	}
	if m.MintAuthority == nil {
		return fmt.Errorf("%w: mint %s has no mint authority", common.ErrAuthorityRevoked, mint)
	}
	if err := auth.Authorize(*m.MintAuthority, mint, dest, amount); err != nil {
		return err
	}
	destAcc, d, err := p.loadAccount(ctx, tx, dest)
	if err != nil {
		return err
	}
	if d.Mint != mint {
		return fmt.Errorf("%w: %s holds %s", common.ErrMintMismatch, dest, d.Mint)
	}
	if d.Frozen() {
		return fmt.Errorf("%w: %s", common.ErrAccountFrozen, dest)
	}
	if m.Supply > math.MaxUint64-amount || d.Amount > math.MaxUint64-amount {
		return fmt.Errorf("%w: minting %d to %s", common.ErrArithmeticOverflow, amount, mint)
	}

	m.Supply += amount
	d.Amount += amount
	if err := p.store(ctx, tx, mintAcc, m); err != nil {
		return err
	}
	return p.store(ctx, tx, destAcc, d)
}

// Transfer moves amount units between two holding accounts of the same mint.
// auth must approve on behalf of the source account's owner.
func (p *Program) Transfer(ctx context.Context, tx ledger.Tx, auth ledger.Authorizer, source, dest pubkey.Address, amount uint64) error {
	srcAcc, s, err := p.loadAccount(ctx, tx, source)
	if err != nil {
		return err
	}
	destAcc, d, err := p.loadAccount(ctx, tx, dest)
	if err != nil {
		return err
	}
	if s.Mint != d.Mint {
		return fmt.Errorf("%w: %s and %s", common.ErrMintMismatch, source, dest)
	}
	if s.Frozen() || d.Frozen() {
		return common.ErrAccountFrozen
	}
	if err := auth.Authorize(s.Owner, source, dest, amount); err != nil {
		return err
	}
	if s.Amount < amount {
		return fmt.Errorf("%w: %s holds %d, needs %d", common.ErrInsufficientFunds, source, s.Amount, amount)
	}
	if source == dest {
		return nil
	}
	if d.Amount > math.MaxUint64-amount {
		return fmt.Errorf("%w: crediting %s", common.ErrArithmeticOverflow, dest)
	}

	s.Amount -= amount
	d.Amount += amount
	if err := p.store(ctx, tx, srcAcc, s); err != nil {
		return err
	}
	return p.store(ctx, tx, destAcc, d)
}

// SetAuthority replaces or, with a nil newAuthority, revokes one authority
// of mint. auth must approve on behalf of the current holder.
func (p *Program) SetAuthority(ctx context.Context, tx ledger.Tx, auth ledger.Authorizer, mint pubkey.Address, kind AuthorityType, newAuthority *pubkey.Address) error {
	acc, m, err := p.loadMint(ctx, tx, mint)
	if err != nil {
		return err
	}

	var slot **pubkey.Address
	switch kind {
	case MintTokens:
		slot = &m.MintAuthority
	case FreezeAccount:
		slot = &m.FreezeAuthority
	default:
		return fmt.Errorf("%w: %s", common.ErrInvalidInput, kind)
	}
	if *slot == nil {
		return fmt.Errorf("%w: %s of %s", common.ErrAuthorityRevoked, kind, mint)
	}
	if err := auth.Authorize(**slot, mint, mint, 0); err != nil {
		return err
	}
	*slot = newAuthority
	return p.store(ctx, tx, acc, m)
}

// Mint returns the decoded mint at addr.
func (p *Program) Mint(ctx context.Context, tx ledger.Tx, addr pubkey.Address) (*Mint, error) {
	_, m, err := p.loadMint(ctx, tx, addr)
	return m, err
}

// Account returns the decoded holding account at addr.
func (p *Program) Account(ctx context.Context, tx ledger.Tx, addr pubkey.Address) (*Account, error) {
	_, a, err := p.loadAccount(ctx, tx, addr)
	return a, err
}

// Balance returns the units held at addr.
func (p *Program) Balance(ctx context.Context, tx ledger.Tx, addr pubkey.Address) (uint64, error) {
	a, err := p.Account(ctx, tx, addr)
	if err != nil {
		return 0, err
	}
	return a.Amount, nil
}

func (p *Program) loadMint(ctx context.Context, tx ledger.Tx, addr pubkey.Address) (*ledger.Account, *Mint, error) {
	acc, err := p.owned(ctx, tx, addr)
	if err != nil {
		return nil, nil, err
	}
	var m Mint
	if err := m.UnmarshalBinary(acc.Data); err != nil {
		return nil, nil, fmt.Errorf("mint %s: %w", addr, err)
	}
	if !m.IsInitialized {
		return nil, nil, fmt.Errorf("%w: mint %s is not initialized", common.ErrInvalidAccountData, addr)
	}
	return acc, &m, nil
}

func (p *Program) loadAccount(ctx context.Context, tx ledger.Tx, addr pubkey.Address) (*ledger.Account, *Account, error) {
	acc, err := p.owned(ctx, tx, addr)
	if err != nil {
		return nil, nil, err
	}
	var a Account
	if err := a.UnmarshalBinary(acc.Data); err != nil {
		return nil, nil, fmt.Errorf("token account %s: %w", addr, err)
	}
	if a.State == StateUninitialized {
		return nil, nil, fmt.Errorf("%w: token account %s is not initialized", common.ErrInvalidAccountData, addr)
	}
	return acc, &a, nil
}

func (p *Program) owned(ctx context.Context, tx ledger.Tx, addr pubkey.Address) (*ledger.Account, error) {
	acc, err := tx.Get(ctx, addr)
	if err != nil {
		return nil, err
	}
	if acc.Owner != pubkey.TokenProgramID {
		return nil, fmt.Errorf("%w: %s is owned by %s", common.ErrIllegalOwner, addr, acc.Owner)
	}
	return acc, nil
}

type binaryMarshaler interface {
	MarshalBinary() ([]byte, error)
}

func (p *Program) store(ctx context.Context, tx ledger.Tx, acc *ledger.Account, v binaryMarshaler) error {
	data, err := v.MarshalBinary()
	if err != nil {
		return err
	}
	acc.Data = data
	return tx.Put(ctx, acc)
}
