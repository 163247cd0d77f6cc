// Package auth signs and verifies per-request signatures. Each signer of a
// request attaches one EdDSA JWT whose subject is its address and whose
// claims bind the token to one method and one payload.
package auth

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/solcraft/internal/common"
	"github.com/dmitrijs2005/solcraft/internal/pubkey"
)

// Claims carries the standard claims plus the method and payload digest the
// signature is bound to.
type Claims struct {
	jwt.RegisteredClaims
	Method string `json:"mth"`
	Digest string `json:"dig"`
}

// Digest returns the claim value identifying payload.
func Digest(payload []byte) string {
	sum := sha256.Sum256(payload)
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// Sign produces a signature by key over method and payload, valid for ttl.
func Sign(key ed25519.PrivateKey, method string, payload []byte, ttl time.Duration) (string, error) {
	addr, err := pubkey.FromPublicKey(key.Public().(ed25519.PublicKey))
	if err != nil {
		return "", err
	}
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   addr.String(),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Method: method,
		Digest: Digest(payload),
	})

	tokenString, err := token.SignedString(key)
	if err != nil {
		return "", err
	}
	return tokenString, nil
}

// Verifier checks request signatures.
type Verifier struct {
	maxAge time.Duration
	replay *ReplayCache
	now    func() time.Time
}

// NewVerifier accepts signatures whose lifetime does not exceed maxAge and
// rejects any token id seen before.
func NewVerifier(maxAge time.Duration) *Verifier {
	return &Verifier{maxAge: maxAge, replay: NewReplayCache(), now: time.Now}
}

// Verify returns the signer of tokenString if it is a valid, unused
// signature over method and payload.
func (v *Verifier) Verify(tokenString, method string, payload []byte) (pubkey.Address, error) {
	claims := &Claims{}
	var signer pubkey.Address

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		c, ok := t.Claims.(*Claims)
		if !ok {
			return nil, errors.New("unexpected claims type")
		}
		addr, err := pubkey.Parse(c.Subject)
		if err != nil {
			return nil, err
		}
		signer = addr
		return addr.PublicKey(), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		return pubkey.Address{}, fmt.Errorf("%w: %v", common.ErrInvalidSignature, err)
	}
	if !token.Valid {
		return pubkey.Address{}, common.ErrInvalidSignature
	}

	if claims.Method != method {
		return pubkey.Address{}, fmt.Errorf("%w: signed for %q", common.ErrInvalidSignature, claims.Method)
	}
	if claims.Digest != Digest(payload) {
		return pubkey.Address{}, fmt.Errorf("%w: payload digest mismatch", common.ErrInvalidSignature)
	}
	if claims.IssuedAt == nil || claims.ExpiresAt.Sub(claims.IssuedAt.Time) > v.maxAge {
		return pubkey.Address{}, fmt.Errorf("%w: lifetime exceeds %s", common.ErrInvalidSignature, v.maxAge)
	}
	if claims.ID == "" {
		return pubkey.Address{}, fmt.Errorf("%w: missing token id", common.ErrInvalidSignature)
	}
	if !v.replay.Add(claims.ID, claims.ExpiresAt.Time, v.now()) {
		return pubkey.Address{}, common.ErrReplayedRequest
	}
	return signer, nil
}
