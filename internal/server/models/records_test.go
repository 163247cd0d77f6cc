package models

import (
	"errors"
	"testing"

	"github.com/dmitrijs2005/solcraft/internal/common"
	"github.com/dmitrijs2005/solcraft/internal/pubkey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSizes(t *testing.T) {
	assert.Equal(t, 83, FactoryConfigSize)
	assert.Equal(t, 121, FaucetConfigSize)
	assert.Equal(t, 16, FaucetRecipientSize)
}

func TestDiscriminators_Distinct(t *testing.T) {
	a := Discriminator(factoryConfigName)
	b := Discriminator(faucetConfigName)
	c := Discriminator(faucetRecipientName)
	assert.NotEqual(t, a, b)
	assert.NotEqual(t, b, c)
	assert.NotEqual(t, a, c)
}

func TestFactoryConfig_Binary(t *testing.T) {
	in := &FactoryConfig{
		Admin:               pubkey.TokenProgramID,
		Paused:              true,
		Bump:                254,
		CreationFeeLamports: 1_000_000,
		TreasuryAccount:     pubkey.MetadataProgramID,
		TreasuryBump:        253,
	}
	b, err := in.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, b, FactoryConfigSize)

	var out FactoryConfig
	require.NoError(t, out.UnmarshalBinary(b))
	assert.Equal(t, *in, out)

	b[DiscriminatorSize+pubkey.Size] = 2
	require.True(t, errors.Is(out.UnmarshalBinary(b), common.ErrInvalidAccountData), "paused must be 0 or 1")
}

func TestFaucetConfig_Binary(t *testing.T) {
	in := &FaucetConfig{
		Owner:              pubkey.TokenProgramID,
		Mint:               pubkey.MetadataProgramID,
		AllowedClaimAmount: 1000_000_000,
		TreasuryATA:        pubkey.AssociatedTokenProgramID,
		CooldownSeconds:    DefaultCooldownSeconds,
		Bump:               250,
	}
	b, err := in.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, b, FaucetConfigSize)

	var out FaucetConfig
	require.NoError(t, out.UnmarshalBinary(b))
	assert.Equal(t, *in, out)
}

func TestFaucetRecipient_Binary(t *testing.T) {
	in := &FaucetRecipient{LastClaimedAt: 1_700_000_000}
	b, err := in.MarshalBinary()
	require.NoError(t, err)

	var out FaucetRecipient
	require.NoError(t, out.UnmarshalBinary(b))
	assert.Equal(t, *in, out)
	assert.False(t, out.NeverClaimed())
	assert.True(t, (&FaucetRecipient{}).NeverClaimed())
}

func TestDecode_RejectsForeignRecords(t *testing.T) {
	b, err := (&FaucetRecipient{}).MarshalBinary()
	require.NoError(t, err)

	var fc FactoryConfig
	require.True(t, errors.Is(fc.UnmarshalBinary(b), common.ErrInvalidAccountData), "wrong size")

	fb, err := (&FactoryConfig{}).MarshalBinary()
	require.NoError(t, err)
	copy(fb, []byte("garbage!"))
	require.True(t, errors.Is(fc.UnmarshalBinary(fb), common.ErrInvalidAccountData), "wrong discriminator")
}

func TestSeeds_DeriveDistinctAddresses(t *testing.T) {
	seen := map[pubkey.Address]string{}
	for name, seeds := range map[string][][]byte{
		"factory_config":   FactoryConfigSeeds(),
		"factory_treasury": FactoryTreasurySeeds(),
		"faucet_config":    FaucetConfigSeeds(),
		"recipient":        FaucetRecipientSeeds(pubkey.TokenProgramID),
	} {
		addr, _, err := pubkey.FindProgramAddress(seeds, pubkey.DefaultEngineProgramID)
		require.NoError(t, err)
		_, dup := seen[addr]
		require.False(t, dup, "%s collides with %s", name, seen[addr])
		seen[addr] = name
	}
}
