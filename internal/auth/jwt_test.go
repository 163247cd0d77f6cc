package auth

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/solcraft/internal/common"
	"github.com/dmitrijs2005/solcraft/internal/pubkey"
)

const method = "/solcraft.v1.Engine/Claim"

func newSigner(t *testing.T) (ed25519.PrivateKey, pubkey.Address) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	addr, err := pubkey.FromPublicKey(pub)
	require.NoError(t, err)
	return priv, addr
}

func TestSignVerify(t *testing.T) {
	key, addr := newSigner(t)
	payload := []byte(`{"amount":1}`)

	tok, err := Sign(key, method, payload, time.Minute)
	require.NoError(t, err)

	got, err := NewVerifier(5*time.Minute).Verify(tok, method, payload)
	require.NoError(t, err)
	assert.Equal(t, addr, got)
}

func TestVerify_Rejects(t *testing.T) {
	key, _ := newSigner(t)
	payload := []byte(`{"amount":1}`)

	tests := []struct {
		name    string
		token   func() string
		method  string
		payload []byte
		want    error
	}{
		{
			name:    "other method",
			token:   func() string { tok, _ := Sign(key, method, payload, time.Minute); return tok },
			method:  "/solcraft.v1.Engine/Withdraw",
			payload: payload,
			want:    common.ErrInvalidSignature,
		},
		{
			name:    "other payload",
			token:   func() string { tok, _ := Sign(key, method, payload, time.Minute); return tok },
			method:  method,
			payload: []byte(`{"amount":1000}`),
			want:    common.ErrInvalidSignature,
		},
		{
			name:    "expired",
			token:   func() string { tok, _ := Sign(key, method, payload, -time.Minute); return tok },
			method:  method,
			payload: payload,
			want:    common.ErrInvalidSignature,
		},
		{
			name:    "lifetime too long",
			token:   func() string { tok, _ := Sign(key, method, payload, time.Hour); return tok },
			method:  method,
			payload: payload,
			want:    common.ErrInvalidSignature,
		},
		{
			name:    "garbage",
			token:   func() string { return "not-a-jwt" },
			method:  method,
			payload: payload,
			want:    common.ErrInvalidSignature,
		},
		{
			name: "symmetric algorithm",
			token: func() string {
				_, addr := newSigner(t)
				tok, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
					RegisteredClaims: jwt.RegisteredClaims{
						Subject:   addr.String(),
						ID:        "x",
						IssuedAt:  jwt.NewNumericDate(time.Now()),
						ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
					},
					Method: method,
					Digest: Digest(payload),
				}).SignedString([]byte("secret"))
				return tok
			},
			method:  method,
			payload: payload,
			want:    common.ErrInvalidSignature,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewVerifier(5*time.Minute).Verify(tt.token(), tt.method, tt.payload)
			require.True(t, errors.Is(err, tt.want), "got %v", err)
			require.True(t, errors.Is(err, common.ErrAuthorization))
		})
	}
}

func TestVerify_SubjectMustMatchKey(t *testing.T) {
	key, _ := newSigner(t)
	_, other := newSigner(t)
	payload := []byte("{}")

	tok, err := jwt.NewWithClaims(jwt.SigningMethodEdDSA, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   other.String(),
			ID:        "forged",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
		Method: method,
		Digest: Digest(payload),
	}).SignedString(key)
	require.NoError(t, err)

	_, err = NewVerifier(time.Minute*5).Verify(tok, method, payload)
	require.True(t, errors.Is(err, common.ErrInvalidSignature), "got %v", err)
}

func TestVerify_Replay(t *testing.T) {
	key, _ := newSigner(t)
	payload := []byte("{}")
	v := NewVerifier(5 * time.Minute)

	tok, err := Sign(key, method, payload, time.Minute)
	require.NoError(t, err)

	_, err = v.Verify(tok, method, payload)
	require.NoError(t, err)
	_, err = v.Verify(tok, method, payload)
	require.True(t, errors.Is(err, common.ErrReplayedRequest))
}

func TestReplayCache_ForgetsExpired(t *testing.T) {
	c := NewReplayCache()
	now := time.Unix(1_700_000_000, 0)

	require.True(t, c.Add("a", now.Add(time.Minute), now))
	require.False(t, c.Add("a", now.Add(time.Minute), now))
	require.Equal(t, 1, c.Len())

	later := now.Add(2 * time.Minute)
	require.True(t, c.Add("a", later.Add(time.Minute), later), "expired ids may be reused")
	require.Equal(t, 1, c.Len())
}

func TestReplayCache_SweepsPeriodically(t *testing.T) {
	c := NewReplayCache()
	now := time.Unix(1_700_000_000, 0)

	for _, id := range []string{"a", "b", "c"} {
		require.True(t, c.Add(id, now.Add(time.Second), now))
	}

	// Expired ids linger until the interval has passed.
	soon := now.Add(2 * time.Second)
	require.True(t, c.Add("d", soon.Add(time.Hour), soon))
	assert.Equal(t, 4, c.Len())
	require.True(t, c.Add("a", soon.Add(time.Hour), soon), "an expired id is reusable before the sweep")
	require.False(t, c.Add("a", soon.Add(time.Hour), soon))

	later := now.Add(SweepInterval)
	require.True(t, c.Add("e", later.Add(time.Hour), later))
	assert.Equal(t, 3, c.Len(), "b and c are swept")
}
