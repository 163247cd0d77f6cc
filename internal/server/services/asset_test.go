package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dmitrijs2005/solcraft/internal/api"
	"github.com/dmitrijs2005/solcraft/internal/common"
	"github.com/dmitrijs2005/solcraft/internal/metadata"
	"github.com/dmitrijs2005/solcraft/internal/pubkey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	published []*metadata.Metadata
	err       error
}

func (p *recordingPublisher) Publish(_ context.Context, md *metadata.Metadata) error {
	p.published = append(p.published, md)
	return p.err
}

func TestCreateAsset(t *testing.T) {
	pub := &recordingPublisher{}
	h := newHarness(t, func(o *EngineOptions) { o.Publisher = pub })
	const fee = 10_000_000
	h.initFactory(fee)
	payer := h.funded(sol)
	mint := h.key()

	res, err := h.assets.CreateAsset(as(payer, mint), h.assetReq(payer, mint, 6, 1_000_000))
	require.NoError(t, err)
	assert.Equal(t, mint, res.Mint)
	assert.Equal(t, h.ata(payer, mint), res.PayerATA)

	assert.Equal(t, uint64(1_000_000), h.tokenBalance(payer, mint))

	m, err := h.queries.Mint(context.Background(), mint)
	require.NoError(t, err)
	assert.Equal(t, uint8(6), m.Decimals)
	assert.Equal(t, uint64(1_000_000), m.Supply)
	require.NotNil(t, m.MintAuthority)
	assert.Equal(t, payer, *m.MintAuthority)
	require.NotNil(t, m.FreezeAuthority)
	assert.Equal(t, payer, *m.FreezeAuthority)

	md, err := h.queries.Metadata(context.Background(), mint)
	require.NoError(t, err)
	assert.Equal(t, "Solcraft Gold", md.Data.Name)
	assert.Equal(t, "SCG", md.Data.Symbol)
	assert.Zero(t, md.Data.SellerFeeBasisPoints)
	require.NotNil(t, md.Data.Creator)
	assert.Equal(t, metadata.Creator{Address: payer, Verified: true, Share: 100}, *md.Data.Creator)
	assert.True(t, md.IsMutable)
	assert.Zero(t, md.CollectionSize)

	minimum := h.engine.Rent().MinimumBalance(0)
	assert.Equal(t, minimum+fee, h.lamports(h.addrs.FactoryTreasury))

	require.Len(t, pub.published, 1)
	assert.Equal(t, mint, pub.published[0].Mint)
}

func TestCreateAsset_PublishFailureDoesNotFail(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("bucket unavailable")}
	h := newHarness(t, func(o *EngineOptions) { o.Publisher = pub })
	h.initFactory(0)
	payer := h.funded(sol)

	mint := h.createAsset(payer, 0, 5)
	assert.Equal(t, uint64(5), h.tokenBalance(payer, mint))
	assert.Len(t, pub.published, 1)
}

func TestCreateAsset_Limits(t *testing.T) {
	h := newHarness(t)
	h.initFactory(0)
	payer := h.funded(10 * sol)

	tests := []struct {
		name     string
		field    string
		length   int
		decimals uint8
		want     error
	}{
		{"name 32", "name", 32, 0, nil},
		{"name 33", "name", 33, 0, common.ErrInvalidInputStringLength},
		{"symbol 10", "symbol", 10, 0, nil},
		{"symbol 11", "symbol", 11, 0, common.ErrInvalidInputStringLength},
		{"uri 200", "uri", 200, 0, nil},
		{"uri 201", "uri", 201, 0, common.ErrInvalidInputStringLength},
		{"decimals 9", "", 0, 9, nil},
		{"decimals 10", "", 0, 10, common.ErrExceedsMaxDecimals},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mint := h.key()
			req := h.assetReq(payer, mint, tt.decimals, 1)
			switch tt.field {
			case "name":
				req.Name = strings.Repeat("n", tt.length)
			case "symbol":
				req.Symbol = strings.Repeat("s", tt.length)
			case "uri":
				req.URI = strings.Repeat("u", tt.length)
			}

			_, err := h.assets.CreateAsset(as(payer, mint), req)
			if tt.want == nil {
				require.NoError(t, err)
				return
			}
			require.True(t, errors.Is(err, tt.want), "got %v", err)
			require.True(t, errors.Is(err, common.ErrPrecondition), "ceilings are preconditions")

			_, err = h.queries.Mint(context.Background(), mint)
			require.True(t, errors.Is(err, common.ErrorNotFound), "rejected request must not create the mint")
		})
	}
}

func TestCreateAsset_InsufficientCreationFee(t *testing.T) {
	h := newHarness(t)
	h.initFactory(2 * sol)
	payer := h.funded(sol)
	mint := h.key()

	_, err := h.assets.CreateAsset(as(payer, mint), h.assetReq(payer, mint, 0, 1))
	require.True(t, errors.Is(err, common.ErrInsufficientCreationFee), "got %v", err)
	assert.Equal(t, uint64(sol), h.lamports(payer))
}

func TestCreateAsset_AllOrNothing(t *testing.T) {
	h := newHarness(t)
	const fee = 1_000_000
	h.initFactory(fee)

	// Enough to pass the fee check, not enough to also pay the rent of the
	// accounts created before the fee is charged.
	payer := h.funded(fee)
	mint := h.key()

	_, err := h.assets.CreateAsset(as(payer, mint), h.assetReq(payer, mint, 0, 1))
	require.True(t, errors.Is(err, common.ErrInsufficientLamports), "got %v", err)

	_, err = h.queries.Mint(context.Background(), mint)
	require.True(t, errors.Is(err, common.ErrorNotFound))
	_, err = h.queries.Metadata(context.Background(), mint)
	require.True(t, errors.Is(err, common.ErrorNotFound))
	assert.Equal(t, uint64(fee), h.lamports(payer))
	assert.Equal(t, h.engine.Rent().MinimumBalance(0), h.lamports(h.addrs.FactoryTreasury))
}

func TestCreateAsset_Signatures(t *testing.T) {
	h := newHarness(t)
	h.initFactory(0)
	payer := h.funded(sol)
	mint := h.key()
	req := h.assetReq(payer, mint, 0, 1)

	_, err := h.assets.CreateAsset(as(payer), req)
	require.True(t, errors.Is(err, common.ErrMissingSigner), "mint key must sign")

	_, err = h.assets.CreateAsset(as(mint), req)
	require.True(t, errors.Is(err, common.ErrMissingSigner), "payer must sign")
}

func TestCreateAsset_DerivedAccounts(t *testing.T) {
	h := newHarness(t)
	h.initFactory(0)
	payer := h.funded(sol)
	mint := h.key()

	tests := []struct {
		name   string
		mutate func(r *api.CreateAssetRequest)
		want   error
	}{
		{"payer ata", func(r *api.CreateAssetRequest) { r.PayerATA = h.ata(h.admin, mint) }, common.ErrAddressMismatch},
		{"metadata", func(r *api.CreateAssetRequest) { r.Metadata = mint }, common.ErrAddressMismatch},
		{"treasury", func(r *api.CreateAssetRequest) { r.Treasury = payer }, common.ErrInvalidTreasury},
		{"config", func(r *api.CreateAssetRequest) { r.FactoryConfig = h.addrs.FaucetConfig }, common.ErrorNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := h.assetReq(payer, mint, 0, 1)
			tt.mutate(&req)
			_, err := h.assets.CreateAsset(as(payer, mint), req)
			require.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestMintMore(t *testing.T) {
	h := newHarness(t)
	h.initFactory(0)
	payer := h.funded(sol)
	mint := h.createAsset(payer, 2, 100)

	req := api.MintMoreRequest{Recipient: payer, Mint: mint, RecipientATA: h.ata(payer, mint), Amount: 50}
	require.NoError(t, h.assets.MintMore(as(payer), req))
	assert.Equal(t, uint64(150), h.tokenBalance(payer, mint))

	stranger := h.funded(sol)
	err := h.assets.MintMore(as(stranger), api.MintMoreRequest{Recipient: stranger, Mint: mint, RecipientATA: h.ata(stranger, mint), Amount: 1})
	require.True(t, errors.Is(err, common.ErrAuthorization), "got %v", err)
}

func TestTransferAuthorities(t *testing.T) {
	h := newHarness(t)
	h.initFactory(0)
	payer := h.funded(sol)
	mint := h.createAsset(payer, 0, 1)
	next := h.key()

	require.NoError(t, h.assets.TransferMintAuthority(as(payer), api.TransferAuthorityRequest{
		CurrentAuthority: payer, Mint: mint, NewAuthority: &next,
	}))
	m, err := h.queries.Mint(context.Background(), mint)
	require.NoError(t, err)
	assert.Equal(t, next, *m.MintAuthority)

	err = h.assets.MintMore(as(payer), api.MintMoreRequest{Recipient: payer, Mint: mint, RecipientATA: h.ata(payer, mint), Amount: 1})
	require.True(t, errors.Is(err, common.ErrMissingSigner), "previous authority can no longer mint")

	require.NoError(t, h.assets.TransferFreezeAuthority(as(payer), api.TransferAuthorityRequest{
		CurrentAuthority: payer, Mint: mint,
	}))
	m, err = h.queries.Mint(context.Background(), mint)
	require.NoError(t, err)
	assert.Nil(t, m.FreezeAuthority)

	err = h.assets.TransferFreezeAuthority(as(payer), api.TransferAuthorityRequest{
		CurrentAuthority: payer, Mint: mint, NewAuthority: &next,
	})
	require.True(t, errors.Is(err, common.ErrAuthorityRevoked))

	err = h.assets.TransferMintAuthority(as(h.admin), api.TransferAuthorityRequest{
		CurrentAuthority: payer, Mint: mint, NewAuthority: &next,
	})
	require.True(t, errors.Is(err, common.ErrMissingSigner))
}

func TestQueries_Addresses(t *testing.T) {
	h := newHarness(t)
	want, _, err := pubkey.FindProgramAddress(pubkey.Seeds("factory_config"), pubkey.DefaultEngineProgramID)
	require.NoError(t, err)
	assert.Equal(t, want, h.addrs.FactoryConfig)
	assert.Equal(t, pubkey.DefaultEngineProgramID, h.addrs.ProgramID)

	_, err = h.queries.FactoryConfig(context.Background())
	require.True(t, errors.Is(err, common.ErrorNotFound))
}
