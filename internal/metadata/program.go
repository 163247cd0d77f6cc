// Package metadata registers descriptive metadata for assets on the ledger
// and mirrors it to object storage.
package metadata

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/solcraft/internal/common"
	"github.com/dmitrijs2005/solcraft/internal/ledger"
	"github.com/dmitrijs2005/solcraft/internal/pubkey"
	"github.com/dmitrijs2005/solcraft/internal/token"
)

// Address returns the metadata account address of mint.
func Address(mint pubkey.Address) (pubkey.Address, error) {
	addr, _, err := pubkey.FindProgramAddress(
		pubkey.Seeds("metadata", pubkey.MetadataProgramID, mint),
		pubkey.MetadataProgramID,
	)
	return addr, err
}

// CreateParams describes a new metadata record.
type CreateParams struct {
	Mint            pubkey.Address
	MintAuthority   pubkey.Address
	Payer           pubkey.Address
	UpdateAuthority pubkey.Address
	Data            Data
	IsMutable       bool
	CollectionSize  *uint64
}

// Program maintains metadata records.
type Program struct {
	sys    *ledger.System
	tokens *token.Program
}

func NewProgram(sys *ledger.System, tokens *token.Program) *Program {
	return &Program{sys: sys, tokens: tokens}
}

// Create stores metadata for p.Mint. The named mint authority must be the
// mint's current one and must have signed. Creators start unverified.
func (p *Program) Create(ctx context.Context, tx ledger.Tx, signers ledger.Signers, params CreateParams) (*Metadata, error) {
	if err := ValidateData(params.Data); err != nil {
		return nil, err
	}
	mint, err := p.tokens.Mint(ctx, tx, params.Mint)
	if err != nil {
		return nil, err
	}
	if mint.MintAuthority == nil || *mint.MintAuthority != params.MintAuthority {
		return nil, fmt.Errorf("%w: %s is not the mint authority of %s", common.ErrorUnauthorized, params.MintAuthority, params.Mint)
	}
	if err := signers.Require(params.MintAuthority); err != nil {
		return nil, err
	}

	addr, err := Address(params.Mint)
	if err != nil {
		return nil, err
	}
	acc, err := p.sys.CreateAccount(ctx, tx, signers, params.Payer, addr, Size, pubkey.MetadataProgramID)
	if err != nil {
		return nil, err
	}

	md := &Metadata{
		UpdateAuthority: params.UpdateAuthority,
		Mint:            params.Mint,
		Data:            params.Data,
		IsMutable:       params.IsMutable,
	}
	if c := md.Data.Creator; c != nil {
		unverified := *c
		unverified.Verified = false
		md.Data.Creator = &unverified
	}
	if params.CollectionSize != nil {
		md.CollectionSize = *params.CollectionSize
	}
	if err := p.store(ctx, tx, acc, md); err != nil {
		return nil, err
	}
	return md, nil
}

// SignCreator marks creator as verified on the metadata of mint. The
// creator must be listed and must have signed.
func (p *Program) SignCreator(ctx context.Context, tx ledger.Tx, signers ledger.Signers, mint, creator pubkey.Address) (*Metadata, error) {
	if err := signers.Require(creator); err != nil {
		return nil, err
	}
	acc, md, err := p.load(ctx, tx, mint)
	if err != nil {
		return nil, err
	}
	if md.Data.Creator == nil || md.Data.Creator.Address != creator {
		return nil, fmt.Errorf("%w: %s is not a creator of %s", common.ErrorUnauthorized, creator, mint)
	}
	md.Data.Creator.Verified = true
	if err := p.store(ctx, tx, acc, md); err != nil {
		return nil, err
	}
	return md, nil
}

// Get returns the metadata of mint.
func (p *Program) Get(ctx context.Context, tx ledger.Tx, mint pubkey.Address) (*Metadata, error) {
	_, md, err := p.load(ctx, tx, mint)
	return md, err
}

func (p *Program) load(ctx context.Context, tx ledger.Tx, mint pubkey.Address) (*ledger.Account, *Metadata, error) {
	addr, err := Address(mint)
	if err != nil {
		return nil, nil, err
	}
	acc, err := tx.Get(ctx, addr)
	if err != nil {
		return nil, nil, err
	}
	if acc.Owner != pubkey.MetadataProgramID {
		return nil, nil, fmt.Errorf("%w: %s", common.ErrIllegalOwner, addr)
	}
	var md Metadata
	if err := md.UnmarshalBinary(acc.Data); err != nil {
		return nil, nil, err
	}
	return acc, &md, nil
}

func (p *Program) store(ctx context.Context, tx ledger.Tx, acc *ledger.Account, md *Metadata) error {
	data, err := md.MarshalBinary()
	if err != nil {
		return err
	}
	acc.Data = data
	return tx.Put(ctx, acc)
}
