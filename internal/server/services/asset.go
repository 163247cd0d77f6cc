package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/solcraft/internal/api"
	"github.com/dmitrijs2005/solcraft/internal/common"
	"github.com/dmitrijs2005/solcraft/internal/ledger"
	"github.com/dmitrijs2005/solcraft/internal/metadata"
	"github.com/dmitrijs2005/solcraft/internal/token"
)

// AssetService issues new assets through the factory and forwards the
// authority operations on existing ones to the token program.
type AssetService struct {
	engine *Engine
}

func NewAssetService(e *Engine) *AssetService {
	return &AssetService{engine: e}
}

// ValidateAsset checks the descriptive fields and precision of a new asset.
func ValidateAsset(name, symbol, uri string, decimals uint8) error {
	if len(name) > common.MaxNameLength {
		return fmt.Errorf("%w: name is %d bytes, max %d", common.ErrInvalidInputStringLength, len(name), common.MaxNameLength)
	}
	if decimals > common.MaxDecimals {
		return fmt.Errorf("%w: %d > %d", common.ErrExceedsMaxDecimals, decimals, common.MaxDecimals)
	}
	if len(symbol) > common.MaxSymbolLength {
		return fmt.Errorf("%w: symbol is %d bytes, max %d", common.ErrInvalidInputStringLength, len(symbol), common.MaxSymbolLength)
	}
	if len(uri) > common.MaxURILength {
		return fmt.Errorf("%w: uri is %d bytes, max %d", common.ErrInvalidInputStringLength, len(uri), common.MaxURILength)
	}
	return nil
}

// CreateAsset mints supply units of a new asset to the payer, registers its
// metadata and charges the creation fee into the factory treasury. The
// three effects commit together or not at all. Both the payer and the new
// mint must sign.
func (s *AssetService) CreateAsset(ctx context.Context, req api.CreateAssetRequest) (*api.CreateAssetResult, error) {
	var md *metadata.Metadata
	err := s.engine.run(ctx, "create_asset", func(ctx context.Context, tx ledger.Tx, signers ledger.Signers) error {
		_, cfg, err := s.engine.loadFactory(ctx, tx, req.FactoryConfig)
		if err != nil {
			return err
		}
		if cfg.Paused {
			return common.ErrFactoryPaused
		}
		if _, err := s.engine.factoryTreasury(cfg, req.Treasury); err != nil {
			return err
		}
		if err := signers.Require(req.Payer); err != nil {
			return err
		}
		if err := ValidateAsset(req.Name, req.Symbol, req.URI, req.Decimals); err != nil {
			return err
		}
		balance, err := ledger.Balance(ctx, tx, req.Payer)
		if err != nil {
			return err
		}
		if balance < cfg.CreationFeeLamports {
			return fmt.Errorf("%w: payer holds %d, fee is %d", common.ErrInsufficientCreationFee, balance, cfg.CreationFeeLamports)
		}
		if err := expectAssociated(req.PayerATA, req.Payer, req.Mint); err != nil {
			return err
		}
		mdAddr, err := metadata.Address(req.Mint)
		if err != nil {
			return err
		}
		if req.Metadata != mdAddr {
			return fmt.Errorf("%w: metadata of %s is %s, got %s", common.ErrAddressMismatch, req.Mint, mdAddr, req.Metadata)
		}

		if _, err := s.engine.tokens.InitializeMint(ctx, tx, signers, req.Payer, req.Mint, req.Decimals, req.Payer, &req.Payer); err != nil {
			return err
		}
		if _, err := s.engine.tokens.CreateAssociated(ctx, tx, signers, req.Payer, req.Payer, req.Mint); err != nil {
			return err
		}
		if err := s.engine.tokens.MintTo(ctx, tx, signers, req.Mint, req.PayerATA, req.Supply); err != nil {
			return err
		}

		collection := uint64(0)
		if _, err := s.engine.metadata.Create(ctx, tx, signers, metadata.CreateParams{
			Mint:            req.Mint,
			MintAuthority:   req.Payer,
			Payer:           req.Payer,
			UpdateAuthority: req.Payer,
			Data: metadata.Data{
				Name:    req.Name,
				Symbol:  req.Symbol,
				URI:     req.URI,
				Creator: &metadata.Creator{Address: req.Payer, Share: 100},
			},
			IsMutable:      true,
			CollectionSize: &collection,
		}); err != nil {
			return err
		}
		if md, err = s.engine.metadata.SignCreator(ctx, tx, signers, req.Mint, req.Payer); err != nil {
			return err
		}

		return s.engine.system.Transfer(ctx, tx, signers, req.Payer, req.Treasury, cfg.CreationFeeLamports)
	})
	if err != nil {
		return nil, err
	}

	if err := s.engine.publisher.Publish(ctx, md); err != nil {
		s.engine.logger.Warn(ctx, "metadata publish failed", "mint", req.Mint, "error", err)
	}
	return &api.CreateAssetResult{
		Mint:     req.Mint,
		PayerATA: req.PayerATA,
		Metadata: req.Metadata,
		Supply:   req.Supply,
	}, nil
}

// MintMore mints amount additional units to the recipient, who must be the
// asset's mint authority.
func (s *AssetService) MintMore(ctx context.Context, req api.MintMoreRequest) error {
	return s.engine.run(ctx, "mint_more", func(ctx context.Context, tx ledger.Tx, signers ledger.Signers) error {
		if err := signers.Require(req.Recipient); err != nil {
			return err
		}
		if err := expectAssociated(req.RecipientATA, req.Recipient, req.Mint); err != nil {
			return err
		}
		return s.engine.tokens.MintTo(ctx, tx, ledger.NewSigners(req.Recipient), req.Mint, req.RecipientATA, req.Amount)
	})
}

// TransferMintAuthority hands the mint authority to a new holder, or
// revokes it.
func (s *AssetService) TransferMintAuthority(ctx context.Context, req api.TransferAuthorityRequest) error {
	return s.setAuthority(ctx, "transfer_mint_authority", req, token.MintTokens)
}

// TransferFreezeAuthority hands the freeze authority to a new holder, or
// revokes it.
func (s *AssetService) TransferFreezeAuthority(ctx context.Context, req api.TransferAuthorityRequest) error {
	return s.setAuthority(ctx, "transfer_freeze_authority", req, token.FreezeAccount)
}

func (s *AssetService) setAuthority(ctx context.Context, op string, req api.TransferAuthorityRequest, kind token.AuthorityType) error {
	return s.engine.run(ctx, op, func(ctx context.Context, tx ledger.Tx, signers ledger.Signers) error {
		if err := signers.Require(req.CurrentAuthority); err != nil {
			return err
		}
		return s.engine.tokens.SetAuthority(ctx, tx, ledger.NewSigners(req.CurrentAuthority), req.Mint, kind, req.NewAuthority)
	})
}
