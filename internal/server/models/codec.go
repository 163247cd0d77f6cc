// Package models defines the engine records stored in ledger accounts and
// the seeds that locate them.
package models

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"github.com/dmitrijs2005/solcraft/internal/common"
	"github.com/dmitrijs2005/solcraft/internal/pubkey"
)

// DiscriminatorSize is the length of the type tag that prefixes every record.
const DiscriminatorSize = 8

// Discriminator returns the type tag for records named name.
func Discriminator(name string) [DiscriminatorSize]byte {
	sum := sha256.Sum256([]byte("account:" + name))
	var d [DiscriminatorSize]byte
	copy(d[:], sum[:DiscriminatorSize])
	return d
}

type encoder struct {
	b   []byte
	off int
}

func newEncoder(disc [DiscriminatorSize]byte, size int) *encoder {
	e := &encoder{b: make([]byte, size)}
	e.off = copy(e.b, disc[:])
	return e
}

func (e *encoder) addr(a pubkey.Address) { e.off += copy(e.b[e.off:], a[:]) }
func (e *encoder) u8(v uint8)            { e.b[e.off] = v; e.off++ }

func (e *encoder) flag(v bool) {
	if v {
		e.u8(1)
		return
	}
	e.u8(0)
}

func (e *encoder) u64(v uint64) {
	binary.LittleEndian.PutUint64(e.b[e.off:], v)
	e.off += 8
}

type decoder struct {
	b   []byte
	off int
}

func newDecoder(name string, b []byte, size int) (*decoder, error) {
	if len(b) != size {
		return nil, fmt.Errorf("%w: %s is %d bytes, want %d", common.ErrInvalidAccountData, name, len(b), size)
	}
	disc := Discriminator(name)
	if string(b[:DiscriminatorSize]) != string(disc[:]) {
		return nil, fmt.Errorf("%w: not a %s record", common.ErrInvalidAccountData, name)
	}
	return &decoder{b: b, off: DiscriminatorSize}, nil
}

func (d *decoder) addr() (a pubkey.Address) {
	d.off += copy(a[:], d.b[d.off:])
	return a
}

func (d *decoder) u8() uint8 {
	v := d.b[d.off]
	d.off++
	return v
}

func (d *decoder) flag() (bool, error) {
	switch d.u8() {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, fmt.Errorf("%w: invalid bool at offset %d", common.ErrInvalidAccountData, d.off-1)
	}
}

func (d *decoder) u64() uint64 {
	v := binary.LittleEndian.Uint64(d.b[d.off:])
	d.off += 8
	return v
}
