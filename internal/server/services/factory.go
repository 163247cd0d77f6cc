package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/solcraft/internal/api"
	"github.com/dmitrijs2005/solcraft/internal/common"
	"github.com/dmitrijs2005/solcraft/internal/ledger"
	"github.com/dmitrijs2005/solcraft/internal/pubkey"
	"github.com/dmitrijs2005/solcraft/internal/server/models"
)

// FactoryService administers the token factory control record and its
// fee treasury.
type FactoryService struct {
	engine *Engine
}

func NewFactoryService(e *Engine) *FactoryService {
	return &FactoryService{engine: e}
}

// Initialize creates the factory control record and its treasury. It fails
// with common.ErrAccountExists when the factory already exists.
func (s *FactoryService) Initialize(ctx context.Context, req api.InitializeFactoryRequest) (*models.FactoryConfig, error) {
	var cfg *models.FactoryConfig
	err := s.engine.run(ctx, "initialize_factory", func(ctx context.Context, tx ledger.Tx, signers ledger.Signers) error {
		if err := signers.Require(req.Admin); err != nil {
			return err
		}
		bump, err := s.engine.expectCanonical(req.FactoryConfig, models.FactoryConfigSeeds())
		if err != nil {
			return err
		}
		treasuryBump, err := s.engine.expectCanonical(req.Treasury, models.FactoryTreasurySeeds())
		if err != nil {
			return err
		}

		cfg = &models.FactoryConfig{
			Admin:               req.Admin,
			Paused:              false,
			Bump:                bump,
			CreationFeeLamports: req.CreationFeeLamports,
			TreasuryAccount:     req.Treasury,
			TreasuryBump:        treasuryBump,
		}
		if err := s.engine.createRecord(ctx, tx, signers, req.Admin, req.FactoryConfig, models.FactoryConfigSize, cfg); err != nil {
			return err
		}
		_, err = s.engine.system.CreateAccount(ctx, tx, signers, req.Admin, req.Treasury, 0, pubkey.SystemProgramID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// UpdateCreationFee replaces the creation fee. Any value is accepted.
func (s *FactoryService) UpdateCreationFee(ctx context.Context, req api.UpdateCreationFeeRequest) error {
	return s.mutate(ctx, "update_creation_fee", api.FactoryAdminRequest{Admin: req.Admin, FactoryConfig: req.FactoryConfig}, func(cfg *models.FactoryConfig) {
		cfg.CreationFeeLamports = req.CreationFeeLamports
	})
}

// Pause blocks asset creation. Pausing a paused factory is not an error.
func (s *FactoryService) Pause(ctx context.Context, req api.FactoryAdminRequest) error {
	return s.mutate(ctx, "pause_factory", req, func(cfg *models.FactoryConfig) {
		cfg.Paused = true
	})
}

// Unpause re-enables asset creation.
func (s *FactoryService) Unpause(ctx context.Context, req api.FactoryAdminRequest) error {
	return s.mutate(ctx, "unpause_factory", req, func(cfg *models.FactoryConfig) {
		cfg.Paused = false
	})
}

func (s *FactoryService) mutate(ctx context.Context, op string, req api.FactoryAdminRequest, apply func(cfg *models.FactoryConfig)) error {
	return s.engine.run(ctx, op, func(ctx context.Context, tx ledger.Tx, signers ledger.Signers) error {
		acc, cfg, err := s.engine.loadFactory(ctx, tx, req.FactoryConfig)
		if err != nil {
			return err
		}
		if err := requireAdmin(cfg, req.Admin, signers); err != nil {
			return err
		}
		apply(cfg)
		return storeRecord(ctx, tx, acc, cfg)
	})
}

// WithdrawFees moves everything the treasury holds above its rent-exempt
// minimum to the administrator and returns the amount moved. Nothing to
// withdraw is not an error.
func (s *FactoryService) WithdrawFees(ctx context.Context, req api.WithdrawFeesRequest) (uint64, error) {
	var withdrawn uint64
	err := s.engine.run(ctx, "withdraw_fees", func(ctx context.Context, tx ledger.Tx, signers ledger.Signers) error {
		_, cfg, err := s.engine.loadFactory(ctx, tx, req.FactoryConfig)
		if err != nil {
			return err
		}
		if err := requireAdmin(cfg, req.Admin, signers); err != nil {
			return err
		}
		treasury, err := s.engine.factoryTreasury(cfg, req.Treasury)
		if err != nil {
			return err
		}

		acc, err := tx.Get(ctx, req.Treasury)
		if err != nil {
			return err
		}
		minimum := s.engine.system.Rent.MinimumBalance(len(acc.Data))
		if acc.Lamports <= minimum {
			return nil
		}
		withdrawn = acc.Lamports - minimum

		voucher := treasury.Authorize(req.Treasury, req.Admin, withdrawn)
		return s.engine.system.TransferFrom(ctx, tx, voucher, acc, req.Admin, withdrawn)
	})
	if err != nil {
		return 0, err
	}
	return withdrawn, nil
}

func requireAdmin(cfg *models.FactoryConfig, admin pubkey.Address, signers ledger.Signers) error {
	if cfg.Admin != admin {
		return fmt.Errorf("%w: %s is not the factory admin", common.ErrorUnauthorized, admin)
	}
	return signers.Require(admin)
}
