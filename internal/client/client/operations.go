package client

import (
	"context"
	"crypto/ed25519"

	"github.com/dmitrijs2005/solcraft/internal/api"
	"github.com/dmitrijs2005/solcraft/internal/metadata"
	"github.com/dmitrijs2005/solcraft/internal/pubkey"
	"github.com/dmitrijs2005/solcraft/internal/rpc"
	"github.com/dmitrijs2005/solcraft/internal/server/models"
	"github.com/dmitrijs2005/solcraft/internal/token"
)

// AddressOf returns the address controlled by key.
func AddressOf(key ed25519.PrivateKey) pubkey.Address {
	addr, _ := pubkey.FromPublicKey(key.Public().(ed25519.PublicKey))
	return addr
}

func (c *EngineClient) InitializeFactory(ctx context.Context, admin ed25519.PrivateKey, creationFee uint64) (*models.FactoryConfig, error) {
	addrs, err := c.Addresses(ctx)
	if err != nil {
		return nil, err
	}
	req := api.InitializeFactoryRequest{
		Admin:               AddressOf(admin),
		FactoryConfig:       addrs.FactoryConfig,
		Treasury:            addrs.FactoryTreasury,
		CreationFeeLamports: creationFee,
	}
	var out models.FactoryConfig
	if err := c.call(ctx, rpc.InitializeFactory, req, &out, admin); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *EngineClient) adminRequest(ctx context.Context, admin ed25519.PrivateKey) (api.FactoryAdminRequest, error) {
	addrs, err := c.Addresses(ctx)
	if err != nil {
		return api.FactoryAdminRequest{}, err
	}
	return api.FactoryAdminRequest{Admin: AddressOf(admin), FactoryConfig: addrs.FactoryConfig}, nil
}

func (c *EngineClient) UpdateCreationFee(ctx context.Context, admin ed25519.PrivateKey, creationFee uint64) error {
	base, err := c.adminRequest(ctx, admin)
	if err != nil {
		return err
	}
	req := api.UpdateCreationFeeRequest{Admin: base.Admin, FactoryConfig: base.FactoryConfig, CreationFeeLamports: creationFee}
	return c.call(ctx, rpc.UpdateCreationFee, req, nil, admin)
}

func (c *EngineClient) PauseFactory(ctx context.Context, admin ed25519.PrivateKey) error {
	req, err := c.adminRequest(ctx, admin)
	if err != nil {
		return err
	}
	return c.call(ctx, rpc.PauseFactory, req, nil, admin)
}

func (c *EngineClient) UnpauseFactory(ctx context.Context, admin ed25519.PrivateKey) error {
	req, err := c.adminRequest(ctx, admin)
	if err != nil {
		return err
	}
	return c.call(ctx, rpc.UnpauseFactory, req, nil, admin)
}

// WithdrawFees returns the number of lamports moved to the administrator.
func (c *EngineClient) WithdrawFees(ctx context.Context, admin ed25519.PrivateKey) (uint64, error) {
	addrs, err := c.Addresses(ctx)
	if err != nil {
		return 0, err
	}
	req := api.WithdrawFeesRequest{Admin: AddressOf(admin), FactoryConfig: addrs.FactoryConfig, Treasury: addrs.FactoryTreasury}
	var out api.WithdrawFeesResult
	if err := c.call(ctx, rpc.WithdrawFees, req, &out, admin); err != nil {
		return 0, err
	}
	return out.Withdrawn, nil
}

// AssetParams describes an asset to issue through the factory.
type AssetParams struct {
	Name     string
	Symbol   string
	URI      string
	Decimals uint8
	Supply   uint64
}

// CreateAsset issues a new asset whose mint address is controlled by mint.
// The payer receives the initial supply and pays the creation fee.
func (c *EngineClient) CreateAsset(ctx context.Context, payer, mint ed25519.PrivateKey, p AssetParams) (*api.CreateAssetResult, error) {
	addrs, err := c.Addresses(ctx)
	if err != nil {
		return nil, err
	}
	payerAddr, mintAddr := AddressOf(payer), AddressOf(mint)

	ata, err := token.AssociatedAddress(payerAddr, mintAddr)
	if err != nil {
		return nil, err
	}
	md, err := metadata.Address(mintAddr)
	if err != nil {
		return nil, err
	}

	req := api.CreateAssetRequest{
		Payer:         payerAddr,
		Mint:          mintAddr,
		PayerATA:      ata,
		Metadata:      md,
		FactoryConfig: addrs.FactoryConfig,
		Treasury:      addrs.FactoryTreasury,
		Name:          p.Name,
		Symbol:        p.Symbol,
		URI:           p.URI,
		Decimals:      p.Decimals,
		Supply:        p.Supply,
	}
	var out api.CreateAssetResult
	if err := c.call(ctx, rpc.CreateAsset, req, &out, payer, mint); err != nil {
		return nil, err
	}
	return &out, nil
}

// MintMore mints amount base units of mint to the authority's own holding
// account.
func (c *EngineClient) MintMore(ctx context.Context, authority ed25519.PrivateKey, mint pubkey.Address, amount uint64) error {
	recipient := AddressOf(authority)
	ata, err := token.AssociatedAddress(recipient, mint)
	if err != nil {
		return err
	}
	req := api.MintMoreRequest{Recipient: recipient, Mint: mint, RecipientATA: ata, Amount: amount}
	return c.call(ctx, rpc.MintMore, req, nil, authority)
}

// TransferMintAuthority hands the mint authority to newAuthority, or
// revokes it for good when newAuthority is nil.
func (c *EngineClient) TransferMintAuthority(ctx context.Context, current ed25519.PrivateKey, mint pubkey.Address, newAuthority *pubkey.Address) error {
	req := api.TransferAuthorityRequest{CurrentAuthority: AddressOf(current), Mint: mint, NewAuthority: newAuthority}
	return c.call(ctx, rpc.TransferMintAuthority, req, nil, current)
}

func (c *EngineClient) TransferFreezeAuthority(ctx context.Context, current ed25519.PrivateKey, mint pubkey.Address, newAuthority *pubkey.Address) error {
	req := api.TransferAuthorityRequest{CurrentAuthority: AddressOf(current), Mint: mint, NewAuthority: newAuthority}
	return c.call(ctx, rpc.TransferFreezeAuthority, req, nil, current)
}

func (c *EngineClient) InitializeFaucet(ctx context.Context, owner ed25519.PrivateKey, mint pubkey.Address) (*models.FaucetConfig, error) {
	addrs, err := c.Addresses(ctx)
	if err != nil {
		return nil, err
	}
	treasury, err := token.AssociatedAddress(addrs.FaucetConfig, mint)
	if err != nil {
		return nil, err
	}
	req := api.InitializeFaucetRequest{Owner: AddressOf(owner), FaucetConfig: addrs.FaucetConfig, Mint: mint, TreasuryATA: treasury}
	var out models.FaucetConfig
	if err := c.call(ctx, rpc.InitializeFaucet, req, &out, owner); err != nil {
		return nil, err
	}
	return &out, nil
}

// faucet returns the faucet addresses and the holding account of holder for
// the faucet's mint.
func (c *EngineClient) faucet(ctx context.Context, holder pubkey.Address) (*api.Addresses, *models.FaucetConfig, pubkey.Address, error) {
	addrs, err := c.Addresses(ctx)
	if err != nil {
		return nil, nil, pubkey.Address{}, err
	}
	cfg, err := c.FaucetConfig(ctx)
	if err != nil {
		return nil, nil, pubkey.Address{}, err
	}
	ata, err := token.AssociatedAddress(holder, cfg.Mint)
	if err != nil {
		return nil, nil, pubkey.Address{}, err
	}
	return addrs, cfg, ata, nil
}

func (c *EngineClient) Deposit(ctx context.Context, depositor ed25519.PrivateKey, amount uint64) error {
	from := AddressOf(depositor)
	addrs, cfg, ata, err := c.faucet(ctx, from)
	if err != nil {
		return err
	}
	req := api.DepositRequest{Depositor: from, FaucetConfig: addrs.FaucetConfig, TreasuryATA: cfg.TreasuryATA, DepositorATA: ata, Amount: amount}
	return c.call(ctx, rpc.Deposit, req, nil, depositor)
}

// Withdraw moves amount from the faucet reserve to the owner.
func (c *EngineClient) Withdraw(ctx context.Context, owner ed25519.PrivateKey, amount uint64) error {
	to := AddressOf(owner)
	addrs, cfg, ata, err := c.faucet(ctx, to)
	if err != nil {
		return err
	}
	req := api.WithdrawRequest{Recipient: to, FaucetConfig: addrs.FaucetConfig, TreasuryATA: cfg.TreasuryATA, RecipientATA: ata, Amount: amount}
	return c.call(ctx, rpc.Withdraw, req, nil, owner)
}

func (c *EngineClient) Claim(ctx context.Context, recipient ed25519.PrivateKey) (*api.ClaimResult, error) {
	to := AddressOf(recipient)
	addrs, cfg, ata, err := c.faucet(ctx, to)
	if err != nil {
		return nil, err
	}
	record, _, err := pubkey.FindProgramAddress(models.FaucetRecipientSeeds(to), addrs.ProgramID)
	if err != nil {
		return nil, err
	}
	req := api.ClaimRequest{
		Recipient:     to,
		FaucetConfig:  addrs.FaucetConfig,
		RecipientData: record,
		TreasuryATA:   cfg.TreasuryATA,
		RecipientATA:  ata,
	}
	var out api.ClaimResult
	if err := c.call(ctx, rpc.Claim, req, &out, recipient); err != nil {
		return nil, err
	}
	return &out, nil
}
