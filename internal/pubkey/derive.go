package pubkey

import (
	"crypto/sha256"
	"fmt"

	"filippo.io/edwards25519"

	"github.com/dmitrijs2005/solcraft/internal/common"
)

const (
	// MaxSeeds is the maximum number of seeds, bump included.
	MaxSeeds = 16
	// MaxSeedLength is the maximum length of a single seed.
	MaxSeedLength = 32

	pdaMarker = "ProgramDerivedAddress"
)

// IsOnCurve reports whether b decodes as an ed25519 point, i.e. whether a
// private key could exist for it.
func IsOnCurve(b []byte) bool {
	if len(b) != Size {
		return false
	}
	_, err := new(edwards25519.Point).SetBytes(b)
	return err == nil
}

// CreateProgramAddress hashes seeds and programID into an address that is
// guaranteed to have no private key. It fails when the result lands on the
// curve; callers then try another bump.
func CreateProgramAddress(seeds [][]byte, programID Address) (Address, error) {
	if len(seeds) > MaxSeeds {
		return Address{}, fmt.Errorf("%w: %d seeds exceeds %d", common.ErrInvalidSeeds, len(seeds), MaxSeeds)
	}

	h := sha256.New()
	for i, s := range seeds {
		if len(s) > MaxSeedLength {
			return Address{}, fmt.Errorf("%w: seed %d is %d bytes", common.ErrInvalidSeeds, i, len(s))
		}
		_, _ = h.Write(s)
	}
	_, _ = h.Write(programID[:])
	_, _ = h.Write([]byte(pdaMarker))

	var a Address
	copy(a[:], h.Sum(nil))
	if IsOnCurve(a[:]) {
		return Address{}, fmt.Errorf("%w: derived address is on curve", common.ErrInvalidSeeds)
	}
	return a, nil
}

// FindProgramAddress searches bumps from 255 downwards and returns the first
// off-curve address together with its canonical bump.
func FindProgramAddress(seeds [][]byte, programID Address) (Address, uint8, error) {
	if len(seeds) >= MaxSeeds {
		return Address{}, 0, fmt.Errorf("%w: no room for bump seed", common.ErrInvalidSeeds)
	}
	for i, s := range seeds {
		if len(s) > MaxSeedLength {
			return Address{}, 0, fmt.Errorf("%w: seed %d is %d bytes", common.ErrInvalidSeeds, i, len(s))
		}
	}

	withBump := make([][]byte, len(seeds)+1)
	copy(withBump, seeds)
	for bump := 255; bump >= 0; bump-- {
		withBump[len(seeds)] = []byte{byte(bump)}
		if a, err := CreateProgramAddress(withBump, programID); err == nil {
			return a, uint8(bump), nil
		}
	}
	return Address{}, 0, fmt.Errorf("%w: unable to find a viable bump", common.ErrInvalidSeeds)
}

// Seeds is a convenience for building seed lists from strings and addresses.
func Seeds(parts ...any) [][]byte {
	out := make([][]byte, 0, len(parts))
	for _, p := range parts {
		switch v := p.(type) {
		case string:
			out = append(out, []byte(v))
		case []byte:
			out = append(out, v)
		case Address:
			out = append(out, v.Bytes())
		default:
			panic(fmt.Sprintf("pubkey: unsupported seed type %T", p))
		}
	}
	return out
}
