package pubkey

import (
	"crypto/ed25519"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_RoundTrip(t *testing.T) {
	a := MustParse("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")
	assert.Equal(t, "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA", a.String())

	b, err := Parse(a.String())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse("not-base58-0OIl")
	require.Error(t, err)

	_, err = Parse("3yZe7d")
	require.Error(t, err, "short input must not decode into an address")
}

func TestZero_IsSystemProgram(t *testing.T) {
	assert.True(t, SystemProgramID.IsZero())
	assert.Equal(t, "11111111111111111111111111111111", Zero.String())
}

func TestFromPublicKey(t *testing.T) {
	seed := make([]byte, ed25519.SeedSize)
	for i := range seed {
		seed[i] = byte(i)
	}
	pub := ed25519.NewKeyFromSeed(seed).Public().(ed25519.PublicKey)

	a, err := FromPublicKey(pub)
	require.NoError(t, err)
	assert.Equal(t, []byte(pub), a.Bytes())
	assert.Equal(t, pub, a.PublicKey())
	assert.True(t, IsOnCurve(a[:]), "a real public key is a curve point")

	_, err = FromPublicKey(pub[:10])
	require.Error(t, err)
}

func TestAddress_JSON(t *testing.T) {
	type wrapper struct {
		Mint Address `json:"mint"`
	}
	in := wrapper{Mint: TokenProgramID}

	b, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"mint":"TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"}`, string(b))

	var out wrapper
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, in, out)

	require.Error(t, json.Unmarshal([]byte(`{"mint":"xyz"}`), &out))
}
