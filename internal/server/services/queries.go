package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/solcraft/internal/api"
	"github.com/dmitrijs2005/solcraft/internal/common"
	"github.com/dmitrijs2005/solcraft/internal/ledger"
	"github.com/dmitrijs2005/solcraft/internal/metadata"
	"github.com/dmitrijs2005/solcraft/internal/pubkey"
	"github.com/dmitrijs2005/solcraft/internal/server/models"
	"github.com/dmitrijs2005/solcraft/internal/token"
)

// QueryService answers read-only questions about ledger state.
type QueryService struct {
	engine *Engine
}

func NewQueryService(e *Engine) *QueryService {
	return &QueryService{engine: e}
}

func (s *QueryService) Addresses() (*api.Addresses, error) {
	out := &api.Addresses{ProgramID: s.engine.programID}
	for _, d := range []struct {
		seeds [][]byte
		dst   *pubkey.Address
	}{
		{models.FactoryConfigSeeds(), &out.FactoryConfig},
		{models.FactoryTreasurySeeds(), &out.FactoryTreasury},
		{models.FaucetConfigSeeds(), &out.FaucetConfig},
	} {
		addr, _, err := s.engine.Address(d.seeds)
		if err != nil {
			return nil, err
		}
		*d.dst = addr
	}
	return out, nil
}

// FactoryConfig returns the factory control record.
func (s *QueryService) FactoryConfig(ctx context.Context) (*models.FactoryConfig, error) {
	addr, _, err := s.engine.Address(models.FactoryConfigSeeds())
	if err != nil {
		return nil, err
	}
	var cfg *models.FactoryConfig
	err = s.view(ctx, func(ctx context.Context, tx ledger.Tx) error {
		_, cfg, err = s.engine.loadFactory(ctx, tx, addr)
		return err
	})
	return cfg, err
}

// FaucetConfig returns the faucet control record.
func (s *QueryService) FaucetConfig(ctx context.Context) (*models.FaucetConfig, error) {
	addr, _, err := s.engine.Address(models.FaucetConfigSeeds())
	if err != nil {
		return nil, err
	}
	var cfg *models.FaucetConfig
	err = s.view(ctx, func(ctx context.Context, tx ledger.Tx) error {
		cfg, _, err = s.engine.loadFaucet(ctx, tx, addr)
		return err
	})
	return cfg, err
}

// FaucetRecipient returns the claim record of recipient. A recipient that
// never claimed gets the zero record.
func (s *QueryService) FaucetRecipient(ctx context.Context, recipient pubkey.Address) (*models.FaucetRecipient, error) {
	addr, _, err := s.engine.Address(models.FaucetRecipientSeeds(recipient))
	if err != nil {
		return nil, err
	}
	var rec models.FaucetRecipient
	err = s.view(ctx, func(ctx context.Context, tx ledger.Tx) error {
		_, err := s.engine.loadRecord(ctx, tx, addr, &rec)
		if errors.Is(err, common.ErrorNotFound) {
			return nil
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Lamports returns the native balance of addr.
func (s *QueryService) Lamports(ctx context.Context, addr pubkey.Address) (uint64, error) {
	var out uint64
	err := s.view(ctx, func(ctx context.Context, tx ledger.Tx) error {
		var err error
		out, err = ledger.Balance(ctx, tx, addr)
		return err
	})
	return out, err
}

// TokenBalance returns the units of mint held in owner's associated
// account, zero when the account does not exist.
func (s *QueryService) TokenBalance(ctx context.Context, owner, mint pubkey.Address) (uint64, error) {
	ata, err := token.AssociatedAddress(owner, mint)
	if err != nil {
		return 0, err
	}
	var out uint64
	err = s.view(ctx, func(ctx context.Context, tx ledger.Tx) error {
		out, err = s.engine.tokens.Balance(ctx, tx, ata)
		if errors.Is(err, common.ErrorNotFound) {
			out, err = 0, nil
		}
		return err
	})
	return out, err
}

// Mint returns the mint record at addr.
func (s *QueryService) Mint(ctx context.Context, addr pubkey.Address) (*token.Mint, error) {
	var out *token.Mint
	err := s.view(ctx, func(ctx context.Context, tx ledger.Tx) error {
		var err error
		out, err = s.engine.tokens.Mint(ctx, tx, addr)
		return err
	})
	return out, err
}

// Metadata returns the metadata registered for mint.
func (s *QueryService) Metadata(ctx context.Context, mint pubkey.Address) (*metadata.Metadata, error) {
	var out *metadata.Metadata
	err := s.view(ctx, func(ctx context.Context, tx ledger.Tx) error {
		var err error
		out, err = s.engine.metadata.Get(ctx, tx, mint)
		return err
	})
	return out, err
}

func (s *QueryService) view(ctx context.Context, fn func(ctx context.Context, tx ledger.Tx) error) error {
	return s.engine.store.Atomically(ctx, fn)
}
