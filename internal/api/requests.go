// Package api defines the request and response messages exchanged between
// clients and the engine.
package api

import "github.com/dmitrijs2005/solcraft/internal/pubkey"

// Requests name every account an operation touches. The engine re-derives
// each deterministic one and rejects the request on any mismatch.

type InitializeFactoryRequest struct {
	Admin               pubkey.Address `json:"admin"`
	FactoryConfig       pubkey.Address `json:"factory_config"`
	Treasury            pubkey.Address `json:"treasury"`
	CreationFeeLamports uint64         `json:"creation_fee_lamports"`
}

type FactoryAdminRequest struct {
	Admin         pubkey.Address `json:"admin"`
	FactoryConfig pubkey.Address `json:"factory_config"`
}

type UpdateCreationFeeRequest struct {
	Admin               pubkey.Address `json:"admin"`
	FactoryConfig       pubkey.Address `json:"factory_config"`
	CreationFeeLamports uint64         `json:"creation_fee_lamports"`
}

type WithdrawFeesRequest struct {
	Admin         pubkey.Address `json:"admin"`
	FactoryConfig pubkey.Address `json:"factory_config"`
	Treasury      pubkey.Address `json:"treasury"`
}

type CreateAssetRequest struct {
	Payer         pubkey.Address `json:"payer"`
	Mint          pubkey.Address `json:"mint"`
	PayerATA      pubkey.Address `json:"payer_ata"`
	Metadata      pubkey.Address `json:"metadata"`
	FactoryConfig pubkey.Address `json:"factory_config"`
	Treasury      pubkey.Address `json:"treasury"`
	Name          string         `json:"name"`
	Symbol        string         `json:"symbol"`
	URI           string         `json:"uri"`
	Decimals      uint8          `json:"decimals"`
	Supply        uint64         `json:"supply"`
}

type CreateAssetResult struct {
	Mint     pubkey.Address `json:"mint"`
	PayerATA pubkey.Address `json:"payer_ata"`
	Metadata pubkey.Address `json:"metadata"`
	Supply   uint64         `json:"supply"`
}

type MintMoreRequest struct {
	Recipient    pubkey.Address `json:"recipient"`
	Mint         pubkey.Address `json:"mint"`
	RecipientATA pubkey.Address `json:"recipient_ata"`
	Amount       uint64         `json:"amount"`
}

// TransferAuthorityRequest hands an authority of Mint to NewAuthority, or
// revokes it when NewAuthority is nil.
type TransferAuthorityRequest struct {
	CurrentAuthority pubkey.Address  `json:"current_authority"`
	Mint             pubkey.Address  `json:"mint"`
	NewAuthority     *pubkey.Address `json:"new_authority,omitempty"`
}

type InitializeFaucetRequest struct {
	Owner        pubkey.Address `json:"owner"`
	FaucetConfig pubkey.Address `json:"faucet_config"`
	Mint         pubkey.Address `json:"mint"`
	TreasuryATA  pubkey.Address `json:"treasury_ata"`
}

type DepositRequest struct {
	Depositor    pubkey.Address `json:"depositor"`
	FaucetConfig pubkey.Address `json:"faucet_config"`
	TreasuryATA  pubkey.Address `json:"treasury_ata"`
	DepositorATA pubkey.Address `json:"depositor_ata"`
	Amount       uint64         `json:"amount"`
}

type WithdrawRequest struct {
	Recipient    pubkey.Address `json:"recipient"`
	FaucetConfig pubkey.Address `json:"faucet_config"`
	TreasuryATA  pubkey.Address `json:"treasury_ata"`
	RecipientATA pubkey.Address `json:"recipient_ata"`
	Amount       uint64         `json:"amount"`
}

type ClaimRequest struct {
	Recipient     pubkey.Address `json:"recipient"`
	FaucetConfig  pubkey.Address `json:"faucet_config"`
	RecipientData pubkey.Address `json:"recipient_data"`
	TreasuryATA   pubkey.Address `json:"treasury_ata"`
	RecipientATA  pubkey.Address `json:"recipient_ata"`
}

type ClaimResult struct {
	Amount        uint64 `json:"amount"`
	LastClaimedAt int64  `json:"last_claimed_at"`
}

// Addresses lists the canonical control addresses of the engine.
type Addresses struct {
	ProgramID       pubkey.Address `json:"program_id"`
	FactoryConfig   pubkey.Address `json:"factory_config"`
	FactoryTreasury pubkey.Address `json:"factory_treasury"`
	FaucetConfig    pubkey.Address `json:"faucet_config"`
}

// Allocation is a genesis credit.
type Allocation struct {
	Address  pubkey.Address `json:"address"`
	Lamports uint64         `json:"lamports"`
}

type WithdrawFeesResult struct {
	Withdrawn uint64 `json:"withdrawn"`
}

// AccountQuery names a single account, mint or recipient.
type AccountQuery struct {
	Address pubkey.Address `json:"address"`
}

type TokenBalanceQuery struct {
	Owner pubkey.Address `json:"owner"`
	Mint  pubkey.Address `json:"mint"`
}

type BalanceResult struct {
	Amount uint64 `json:"amount"`
}
