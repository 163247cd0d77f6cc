package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/solcraft/internal/api"
	"github.com/dmitrijs2005/solcraft/internal/common"
	"github.com/dmitrijs2005/solcraft/internal/ledger"
	"github.com/dmitrijs2005/solcraft/internal/server/models"
)

// FaucetService runs the faucet: a reserve of one asset, topped up by
// anyone, drained by the owner, and paid out to claimants at most once per
// cooldown.
type FaucetService struct {
	engine *Engine
}

func NewFaucetService(e *Engine) *FaucetService {
	return &FaucetService{engine: e}
}

// DefaultClaimAmount is the initial allowance for an asset with the given
// precision.
func DefaultClaimAmount(decimals uint8) uint64 {
	amount := uint64(models.DefaultClaimUnits)
	for range decimals {
		amount *= 10
	}
	return amount
}

// Initialize creates the faucet control record for req.Mint and its
// reserve, owned by the record itself.
func (s *FaucetService) Initialize(ctx context.Context, req api.InitializeFaucetRequest) (*models.FaucetConfig, error) {
	var cfg *models.FaucetConfig
	err := s.engine.run(ctx, "initialize_faucet", func(ctx context.Context, tx ledger.Tx, signers ledger.Signers) error {
		if err := signers.Require(req.Owner); err != nil {
			return err
		}
		bump, err := s.engine.expectCanonical(req.FaucetConfig, models.FaucetConfigSeeds())
		if err != nil {
			return err
		}
		if err := expectAssociated(req.TreasuryATA, req.FaucetConfig, req.Mint); err != nil {
			return err
		}
		mint, err := s.engine.tokens.Mint(ctx, tx, req.Mint)
		if err != nil {
			return err
		}
		if mint.Decimals > common.MaxDecimals {
			return fmt.Errorf("%w: %d > %d", common.ErrExceedsMaxDecimals, mint.Decimals, common.MaxDecimals)
		}

		cfg = &models.FaucetConfig{
			Owner:              req.Owner,
			Mint:               req.Mint,
			AllowedClaimAmount: DefaultClaimAmount(mint.Decimals),
			TreasuryATA:        req.TreasuryATA,
			CooldownSeconds:    models.DefaultCooldownSeconds,
			Bump:               bump,
		}
		if err := s.engine.createRecord(ctx, tx, signers, req.Owner, req.FaucetConfig, models.FaucetConfigSize, cfg); err != nil {
			return err
		}
		_, err = s.engine.tokens.CreateAssociated(ctx, tx, signers, req.Owner, req.FaucetConfig, req.Mint)
		return err
	})
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Deposit moves amount units from the depositor into the reserve.
func (s *FaucetService) Deposit(ctx context.Context, req api.DepositRequest) error {
	return s.engine.run(ctx, "deposit", func(ctx context.Context, tx ledger.Tx, signers ledger.Signers) error {
		if err := signers.Require(req.Depositor); err != nil {
			return err
		}
		cfg, _, err := s.engine.loadFaucet(ctx, tx, req.FaucetConfig)
		if err != nil {
			return err
		}
		if err := checkTreasuryATA(cfg, req.TreasuryATA); err != nil {
			return err
		}
		if err := expectAssociated(req.DepositorATA, req.Depositor, cfg.Mint); err != nil {
			return err
		}
		balance, err := s.engine.tokens.Balance(ctx, tx, req.DepositorATA)
		if err != nil {
			return err
		}
		if balance < req.Amount {
			return fmt.Errorf("%w: depositor holds %d, deposit is %d", common.ErrInsufficientFunds, balance, req.Amount)
		}
		return s.engine.tokens.Transfer(ctx, tx, ledger.NewSigners(req.Depositor), req.DepositorATA, req.TreasuryATA, req.Amount)
	})
}

// Withdraw moves amount units from the reserve to the owner. The owner's
// holding account is created when missing.
func (s *FaucetService) Withdraw(ctx context.Context, req api.WithdrawRequest) error {
	return s.engine.run(ctx, "withdraw", func(ctx context.Context, tx ledger.Tx, signers ledger.Signers) error {
		cfg, auth, err := s.engine.loadFaucet(ctx, tx, req.FaucetConfig)
		if err != nil {
			return err
		}
		if req.Recipient != cfg.Owner {
			return fmt.Errorf("%w: %s is not the faucet owner", common.ErrorUnauthorized, req.Recipient)
		}
		if err := signers.Require(req.Recipient); err != nil {
			return err
		}
		if err := checkTreasuryATA(cfg, req.TreasuryATA); err != nil {
			return err
		}
		if err := expectAssociated(req.RecipientATA, req.Recipient, cfg.Mint); err != nil {
			return err
		}
		reserve, err := s.engine.tokens.Balance(ctx, tx, req.TreasuryATA)
		if err != nil {
			return err
		}
		if reserve < req.Amount {
			return fmt.Errorf("%w: reserve holds %d, withdrawal is %d", common.ErrInsufficientFunds, reserve, req.Amount)
		}

		if _, err := s.engine.tokens.EnsureAssociated(ctx, tx, signers, req.Recipient, req.Recipient, cfg.Mint); err != nil {
			return err
		}
		voucher := auth.Authorize(req.TreasuryATA, req.RecipientATA, req.Amount)
		return s.engine.tokens.Transfer(ctx, tx, voucher, req.TreasuryATA, req.RecipientATA, req.Amount)
	})
}

// Claim pays the allowance to the recipient. A first claim is always
// eligible; later ones need the cooldown to have elapsed since the last.
// The claim time is recorded only after the transfer succeeded.
func (s *FaucetService) Claim(ctx context.Context, req api.ClaimRequest) (*api.ClaimResult, error) {
	var res *api.ClaimResult
	err := s.engine.run(ctx, "claim", func(ctx context.Context, tx ledger.Tx, signers ledger.Signers) error {
		if err := signers.Require(req.Recipient); err != nil {
			return err
		}
		cfg, auth, err := s.engine.loadFaucet(ctx, tx, req.FaucetConfig)
		if err != nil {
			return err
		}
		if err := checkTreasuryATA(cfg, req.TreasuryATA); err != nil {
			return err
		}
		if _, err := s.engine.expectCanonical(req.RecipientData, models.FaucetRecipientSeeds(req.Recipient)); err != nil {
			return err
		}
		if err := expectAssociated(req.RecipientATA, req.Recipient, cfg.Mint); err != nil {
			return err
		}

		var rec models.FaucetRecipient
		recAcc, err := s.engine.loadRecord(ctx, tx, req.RecipientData, &rec)
		if err != nil && !errors.Is(err, common.ErrorNotFound) {
			return err
		}

		reserve, err := s.engine.tokens.Balance(ctx, tx, req.TreasuryATA)
		if err != nil {
			return err
		}
		if reserve < cfg.AllowedClaimAmount {
			return fmt.Errorf("%w: reserve holds %d, allowance is %d", common.ErrInsufficientFunds, reserve, cfg.AllowedClaimAmount)
		}
		now := s.engine.clock.Now()
		if !rec.NeverClaimed() {
			if elapsed := now - rec.LastClaimedAt; elapsed < int64(cfg.CooldownSeconds) {
				return fmt.Errorf("%w: %ds of %ds elapsed", common.ErrCooldownNotElapsed, elapsed, cfg.CooldownSeconds)
			}
		}

		if _, err := s.engine.tokens.EnsureAssociated(ctx, tx, signers, req.Recipient, req.Recipient, cfg.Mint); err != nil {
			return err
		}
		voucher := auth.Authorize(req.TreasuryATA, req.RecipientATA, cfg.AllowedClaimAmount)
		if err := s.engine.tokens.Transfer(ctx, tx, voucher, req.TreasuryATA, req.RecipientATA, cfg.AllowedClaimAmount); err != nil {
			return err
		}

		rec.LastClaimedAt = now
		if recAcc == nil {
			err = s.engine.createRecord(ctx, tx, signers, req.Recipient, req.RecipientData, models.FaucetRecipientSize, &rec)
		} else {
			err = storeRecord(ctx, tx, recAcc, &rec)
		}
		if err != nil {
			return err
		}
		res = &api.ClaimResult{Amount: cfg.AllowedClaimAmount, LastClaimedAt: now}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
