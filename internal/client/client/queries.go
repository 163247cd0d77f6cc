package client

import (
	"context"

	"github.com/dmitrijs2005/solcraft/internal/api"
	"github.com/dmitrijs2005/solcraft/internal/metadata"
	"github.com/dmitrijs2005/solcraft/internal/pubkey"
	"github.com/dmitrijs2005/solcraft/internal/rpc"
	"github.com/dmitrijs2005/solcraft/internal/server/models"
	"github.com/dmitrijs2005/solcraft/internal/token"
)

func (c *EngineClient) FactoryConfig(ctx context.Context) (*models.FactoryConfig, error) {
	var out models.FactoryConfig
	if err := c.call(ctx, rpc.GetFactoryConfig, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *EngineClient) FaucetConfig(ctx context.Context) (*models.FaucetConfig, error) {
	var out models.FaucetConfig
	if err := c.call(ctx, rpc.GetFaucetConfig, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FaucetRecipient returns the claim record of recipient. A recipient that
// never claimed has a zero record.
func (c *EngineClient) FaucetRecipient(ctx context.Context, recipient pubkey.Address) (*models.FaucetRecipient, error) {
	var out models.FaucetRecipient
	if err := c.call(ctx, rpc.GetFaucetRecipient, api.AccountQuery{Address: recipient}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *EngineClient) Balance(ctx context.Context, addr pubkey.Address) (uint64, error) {
	var out api.BalanceResult
	if err := c.call(ctx, rpc.GetBalance, api.AccountQuery{Address: addr}, &out); err != nil {
		return 0, err
	}
	return out.Amount, nil
}

// TokenBalance returns what owner's associated account for mint holds.
func (c *EngineClient) TokenBalance(ctx context.Context, owner, mint pubkey.Address) (uint64, error) {
	var out api.BalanceResult
	if err := c.call(ctx, rpc.GetTokenBalance, api.TokenBalanceQuery{Owner: owner, Mint: mint}, &out); err != nil {
		return 0, err
	}
	return out.Amount, nil
}

func (c *EngineClient) Mint(ctx context.Context, mint pubkey.Address) (*token.Mint, error) {
	var out token.Mint
	if err := c.call(ctx, rpc.GetMint, api.AccountQuery{Address: mint}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *EngineClient) Metadata(ctx context.Context, mint pubkey.Address) (*metadata.Metadata, error) {
	var out metadata.Metadata
	if err := c.call(ctx, rpc.GetMetadata, api.AccountQuery{Address: mint}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
