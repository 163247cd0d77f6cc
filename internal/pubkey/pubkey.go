// Package pubkey defines the 32-byte account identity used throughout the
// engine and the deterministic program-address derivation built on it.
package pubkey

import (
	"crypto/ed25519"
	"fmt"

	"github.com/mr-tron/base58"
)

// Size is the length of an address in bytes.
const Size = 32

// Address identifies an account. Its text form is base58.
type Address [Size]byte

// Zero is the all-zero address. It is also the system program identity.
var Zero Address

// FromPublicKey converts an ed25519 public key into an Address.
func FromPublicKey(pub ed25519.PublicKey) (Address, error) {
	var a Address
	if len(pub) != ed25519.PublicKeySize {
		return a, fmt.Errorf("ed25519 public key must be %d bytes, got %d", ed25519.PublicKeySize, len(pub))
	}
	copy(a[:], pub)
	return a, nil
}

// FromBytes copies b into an Address. b must be exactly Size bytes long.
func FromBytes(b []byte) (Address, error) {
	var a Address
	if len(b) != Size {
		return a, fmt.Errorf("address must be %d bytes, got %d", Size, len(b))
	}
	copy(a[:], b)
	return a, nil
}

// Parse decodes a base58 address.
func Parse(s string) (Address, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return Address{}, fmt.Errorf("decode address %q: %w", s, err)
	}
	return FromBytes(b)
}

// MustParse is like Parse but panics on error. Intended for constants.
func MustParse(s string) Address {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Address) String() string {
	return base58.Encode(a[:])
}

// Bytes returns a copy of the address bytes.
func (a Address) Bytes() []byte {
	b := make([]byte, Size)
	copy(b, a[:])
	return b
}

// PublicKey returns the address as an ed25519 public key.
func (a Address) PublicKey() ed25519.PublicKey {
	return ed25519.PublicKey(a.Bytes())
}

func (a Address) IsZero() bool {
	return a == Zero
}

func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
