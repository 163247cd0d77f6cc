package services

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"testing"

	"github.com/dmitrijs2005/solcraft/internal/api"
	"github.com/dmitrijs2005/solcraft/internal/ledger"
	"github.com/dmitrijs2005/solcraft/internal/metadata"
	"github.com/dmitrijs2005/solcraft/internal/pubkey"
	"github.com/dmitrijs2005/solcraft/internal/token"
	"github.com/stretchr/testify/require"
)

const (
	sol       = 1_000_000_000
	startTime = 1_700_000_000
)

type harness struct {
	t       *testing.T
	store   *ledger.MemoryStore
	engine  *Engine
	now     int64
	factory *FactoryService
	assets  *AssetService
	faucet  *FaucetService
	queries *QueryService
	addrs   *api.Addresses
	admin   pubkey.Address
}

func newHarness(t *testing.T, opts ...func(*EngineOptions)) *harness {
	t.Helper()
	h := &harness{t: t, store: ledger.NewMemoryStore(), now: startTime}

	eo := EngineOptions{Clock: ledger.ClockFunc(func() int64 { return h.now })}
	for _, o := range opts {
		o(&eo)
	}
	h.engine = NewEngine(h.store, pubkey.DefaultEngineProgramID, eo)
	h.factory = NewFactoryService(h.engine)
	h.assets = NewAssetService(h.engine)
	h.faucet = NewFaucetService(h.engine)
	h.queries = NewQueryService(h.engine)

	var err error
	h.addrs, err = h.queries.Addresses()
	require.NoError(t, err)

	h.admin = h.key()
	h.fund(h.admin, 10*sol)
	return h
}

func (h *harness) key() pubkey.Address {
	h.t.Helper()
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(h.t, err)
	a, err := pubkey.FromPublicKey(pub)
	require.NoError(h.t, err)
	return a
}

func (h *harness) fund(addr pubkey.Address, lamports uint64) {
	h.t.Helper()
	require.NoError(h.t, h.engine.Fund(context.Background(), []api.Allocation{{Address: addr, Lamports: lamports}}))
}

func (h *harness) funded(lamports uint64) pubkey.Address {
	h.t.Helper()
	a := h.key()
	h.fund(a, lamports)
	return a
}

// as returns a context signed by signers.
func as(signers ...pubkey.Address) context.Context {
	return ledger.WithSigners(context.Background(), ledger.NewSigners(signers...))
}

func (h *harness) lamports(addr pubkey.Address) uint64 {
	h.t.Helper()
	v, err := h.queries.Lamports(context.Background(), addr)
	require.NoError(h.t, err)
	return v
}

func (h *harness) tokenBalance(owner, mint pubkey.Address) uint64 {
	h.t.Helper()
	v, err := h.queries.TokenBalance(context.Background(), owner, mint)
	require.NoError(h.t, err)
	return v
}

func (h *harness) initFactory(fee uint64) {
	h.t.Helper()
	_, err := h.factory.Initialize(as(h.admin), api.InitializeFactoryRequest{
		Admin:               h.admin,
		FactoryConfig:       h.addrs.FactoryConfig,
		Treasury:            h.addrs.FactoryTreasury,
		CreationFeeLamports: fee,
	})
	require.NoError(h.t, err)
}

func (h *harness) adminReq() api.FactoryAdminRequest {
	return api.FactoryAdminRequest{Admin: h.admin, FactoryConfig: h.addrs.FactoryConfig}
}

func (h *harness) assetReq(payer, mint pubkey.Address, decimals uint8, supply uint64) api.CreateAssetRequest {
	h.t.Helper()
	ata, err := token.AssociatedAddress(payer, mint)
	require.NoError(h.t, err)
	md, err := metadata.Address(mint)
	require.NoError(h.t, err)
	return api.CreateAssetRequest{
		Payer:         payer,
		Mint:          mint,
		PayerATA:      ata,
		Metadata:      md,
		FactoryConfig: h.addrs.FactoryConfig,
		Treasury:      h.addrs.FactoryTreasury,
		Name:          "Solcraft Gold",
		Symbol:        "SCG",
		URI:           "https://example.org/scg.json",
		Decimals:      decimals,
		Supply:        supply,
	}
}

// createAsset issues a new asset to payer and returns its mint.
func (h *harness) createAsset(payer pubkey.Address, decimals uint8, supply uint64) pubkey.Address {
	h.t.Helper()
	mint := h.key()
	_, err := h.assets.CreateAsset(as(payer, mint), h.assetReq(payer, mint, decimals, supply))
	require.NoError(h.t, err)
	return mint
}

func (h *harness) ata(owner, mint pubkey.Address) pubkey.Address {
	h.t.Helper()
	a, err := token.AssociatedAddress(owner, mint)
	require.NoError(h.t, err)
	return a
}
