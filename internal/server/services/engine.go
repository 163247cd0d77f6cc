// Package services implements the engine's operation set: the token
// factory, asset issuance and the faucet. Every operation runs as one atomic
// ledger request, re-derives each deterministic address it is handed and
// checks the required signers before touching state.
package services

import (
	"context"
	"encoding"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/solcraft/internal/api"
	"github.com/dmitrijs2005/solcraft/internal/authority"
	"github.com/dmitrijs2005/solcraft/internal/common"
	"github.com/dmitrijs2005/solcraft/internal/ledger"
	"github.com/dmitrijs2005/solcraft/internal/logging"
	"github.com/dmitrijs2005/solcraft/internal/metadata"
	"github.com/dmitrijs2005/solcraft/internal/pubkey"
	"github.com/dmitrijs2005/solcraft/internal/server/models"
	"github.com/dmitrijs2005/solcraft/internal/token"
)

// Engine bundles the ledger and the collaborator programs the services
// run against.
type Engine struct {
	store     ledger.Store
	system    *ledger.System
	tokens    *token.Program
	metadata  *metadata.Program
	publisher metadata.Publisher
	clock     ledger.Clock
	programID pubkey.Address
	logger    logging.Logger
}

// EngineOptions carries the optional collaborators of an Engine. Zero
// values select the defaults.
type EngineOptions struct {
	Rent      *ledger.Rent
	Clock     ledger.Clock
	Publisher metadata.Publisher
	Logger    logging.Logger
}

// NewEngine wires the collaborator programs on top of store. Records the
// engine creates are owned by programID.
func NewEngine(store ledger.Store, programID pubkey.Address, opts EngineOptions) *Engine {
	rent := ledger.DefaultRent()
	if opts.Rent != nil {
		rent = *opts.Rent
	}
	if opts.Clock == nil {
		opts.Clock = ledger.SystemClock{}
	}
	if opts.Publisher == nil {
		opts.Publisher = metadata.NopPublisher{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}

	sys := ledger.NewSystem(rent)
	tokens := token.NewProgram(sys)
	return &Engine{
		store:     store,
		system:    sys,
		tokens:    tokens,
		metadata:  metadata.NewProgram(sys, tokens),
		publisher: opts.Publisher,
		clock:     opts.Clock,
		programID: programID,
		logger:    opts.Logger,
	}
}

func (e *Engine) ProgramID() pubkey.Address { return e.programID }

// Rent returns the rent schedule of the ledger.
func (e *Engine) Rent() ledger.Rent { return e.system.Rent }

// Fund credits every allocation in one request. It is meant for bootstrap
// only and skips addresses that already hold at least the allocated amount.
func (e *Engine) Fund(ctx context.Context, allocations []api.Allocation) error {
	return e.store.Atomically(ctx, func(ctx context.Context, tx ledger.Tx) error {
		for _, a := range allocations {
			have, err := ledger.Balance(ctx, tx, a.Address)
			if err != nil {
				return err
			}
			if have >= a.Lamports {
				continue
			}
			if err := e.system.Airdrop(ctx, tx, a.Address, a.Lamports-have); err != nil {
				return fmt.Errorf("fund %s: %w", a.Address, err)
			}
		}
		return nil
	})
}

// Address derives the canonical program address for seeds.
func (e *Engine) Address(seeds [][]byte) (pubkey.Address, uint8, error) {
	return pubkey.FindProgramAddress(seeds, e.programID)
}

// run executes fn as one atomic request with the signers attached to ctx
// and logs the outcome.
func (e *Engine) run(ctx context.Context, op string, fn func(ctx context.Context, tx ledger.Tx, signers ledger.Signers) error) error {
	signers := ledger.SignersFromContext(ctx)
	err := e.store.Atomically(ctx, func(ctx context.Context, tx ledger.Tx) error {
		return fn(ctx, tx, signers)
	})
	if err != nil {
		if isRequestError(err) {
			e.logger.Warn(ctx, "operation rejected", "op", op, "error", err)
		} else {
			e.logger.Error(ctx, "operation failed", "op", op, "error", err)
		}
		return err
	}
	e.logger.Info(ctx, "operation applied", "op", op)
	return nil
}

func isRequestError(err error) bool {
	return errors.Is(err, common.ErrAuthorization) ||
		errors.Is(err, common.ErrPrecondition) ||
		errors.Is(err, common.ErrInvalidInput) ||
		errors.Is(err, common.ErrorNotFound) ||
		errors.Is(err, common.ErrVersionConflict)
}

// expectCanonical checks that supplied is the canonical address for seeds
// and returns its bump.
func (e *Engine) expectCanonical(supplied pubkey.Address, seeds [][]byte) (uint8, error) {
	want, bump, err := e.Address(seeds)
	if err != nil {
		return 0, err
	}
	if supplied != want {
		return 0, fmt.Errorf("%w: got %s, want %s", common.ErrAddressMismatch, supplied, want)
	}
	return bump, nil
}

func expectAssociated(supplied, owner, mint pubkey.Address) error {
	want, err := token.AssociatedAddress(owner, mint)
	if err != nil {
		return err
	}
	if supplied != want {
		return fmt.Errorf("%w: associated account of %s is %s, got %s", common.ErrAddressMismatch, owner, want, supplied)
	}
	return nil
}

// loadRecord reads an engine-owned record at addr into rec.
func (e *Engine) loadRecord(ctx context.Context, tx ledger.Tx, addr pubkey.Address, rec encoding.BinaryUnmarshaler) (*ledger.Account, error) {
	acc, err := tx.Get(ctx, addr)
	if err != nil {
		return nil, err
	}
	if acc.Owner != e.programID {
		return nil, fmt.Errorf("%w: %s is owned by %s", common.ErrIllegalOwner, addr, acc.Owner)
	}
	if err := rec.UnmarshalBinary(acc.Data); err != nil {
		return nil, fmt.Errorf("record %s: %w", addr, err)
	}
	return acc, nil
}

func storeRecord(ctx context.Context, tx ledger.Tx, acc *ledger.Account, rec encoding.BinaryMarshaler) error {
	data, err := rec.MarshalBinary()
	if err != nil {
		return err
	}
	acc.Data = data
	return tx.Put(ctx, acc)
}

// createRecord allocates an engine-owned record at addr, paid by payer, and
// writes rec into it.
func (e *Engine) createRecord(ctx context.Context, tx ledger.Tx, signers ledger.Signers, payer, addr pubkey.Address, size int, rec encoding.BinaryMarshaler) error {
	acc, err := e.system.CreateAccount(ctx, tx, signers, payer, addr, size, e.programID)
	if err != nil {
		return err
	}
	return storeRecord(ctx, tx, acc, rec)
}

// loadFactory reads the factory control record at supplied and re-derives
// its address from the stored bump.
func (e *Engine) loadFactory(ctx context.Context, tx ledger.Tx, supplied pubkey.Address) (*ledger.Account, *models.FactoryConfig, error) {
	var cfg models.FactoryConfig
	acc, err := e.loadRecord(ctx, tx, supplied, &cfg)
	if err != nil {
		return nil, nil, err
	}
	if _, err := authority.Expect(supplied, e.programID, cfg.Bump, models.FactoryConfigSeeds()...); err != nil {
		return nil, nil, err
	}
	return acc, &cfg, nil
}

// factoryTreasury checks supplied against the recorded treasury and returns
// the authority over it.
func (e *Engine) factoryTreasury(cfg *models.FactoryConfig, supplied pubkey.Address) (*authority.Authority, error) {
	if supplied != cfg.TreasuryAccount {
		return nil, fmt.Errorf("%w: got %s, want %s", common.ErrInvalidTreasury, supplied, cfg.TreasuryAccount)
	}
	return authority.Expect(supplied, e.programID, cfg.TreasuryBump, models.FactoryTreasurySeeds()...)
}

// loadFaucet reads the faucet control record at supplied, re-derives its
// address and returns the authority the record holds over its reserve.
func (e *Engine) loadFaucet(ctx context.Context, tx ledger.Tx, supplied pubkey.Address) (*models.FaucetConfig, *authority.Authority, error) {
	var cfg models.FaucetConfig
	if _, err := e.loadRecord(ctx, tx, supplied, &cfg); err != nil {
		return nil, nil, err
	}
	auth, err := authority.Expect(supplied, e.programID, cfg.Bump, models.FaucetConfigSeeds()...)
	if err != nil {
		return nil, nil, err
	}
	return &cfg, auth, nil
}

func checkTreasuryATA(cfg *models.FaucetConfig, supplied pubkey.Address) error {
	if supplied != cfg.TreasuryATA {
		return fmt.Errorf("%w: got %s, want %s", common.ErrInvalidTreasury, supplied, cfg.TreasuryATA)
	}
	return nil
}
