package metadata

import (
	"encoding/binary"
	"fmt"

	"github.com/dmitrijs2005/solcraft/internal/common"
	"github.com/dmitrijs2005/solcraft/internal/pubkey"
)

// keyMetadataV1 tags a metadata record.
const keyMetadataV1 = 4

// Size is the fixed encoded size of a metadata record. Strings are stored
// length-prefixed and padded to their ceilings.
const Size = 1 + // key
	pubkey.Size + // update authority
	pubkey.Size + // mint
	4 + common.MaxNameLength +
	4 + common.MaxSymbolLength +
	4 + common.MaxURILength +
	2 + // seller fee basis points
	1 + pubkey.Size + 1 + 1 + // creator option: address, verified, share
	1 + // is mutable
	8 // collection size

// Creator is a party credited on the asset.
type Creator struct {
	Address  pubkey.Address `json:"address"`
	Verified bool           `json:"verified"`
	Share    uint8          `json:"share"`
}

// Data is the descriptive part of a metadata record.
type Data struct {
	Name                 string   `json:"name"`
	Symbol               string   `json:"symbol"`
	URI                  string   `json:"uri"`
	SellerFeeBasisPoints uint16   `json:"seller_fee_basis_points"`
	Creator              *Creator `json:"creator,omitempty"`
}

// Metadata is the record stored at a mint's metadata address.
type Metadata struct {
	UpdateAuthority pubkey.Address `json:"update_authority"`
	Mint            pubkey.Address `json:"mint"`
	Data            Data           `json:"data"`
	IsMutable       bool           `json:"is_mutable"`
	CollectionSize  uint64         `json:"collection_size"`
}

type writer struct {
	b   []byte
	off int
}

func (w *writer) bytes(p []byte) { w.off += copy(w.b[w.off:], p) }
func (w *writer) u8(v uint8)     { w.b[w.off] = v; w.off++ }
func (w *writer) flag(v bool) {
	if v {
		w.u8(1)
		return
	}
	w.u8(0)
}

func (w *writer) str(s string, limit int) {
	binary.LittleEndian.PutUint32(w.b[w.off:], uint32(len(s)))
	w.off += 4
	copy(w.b[w.off:w.off+limit], s)
	w.off += limit
}

type reader struct {
	b   []byte
	off int
	err error
}

func (r *reader) addr() (a pubkey.Address) {
	r.off += copy(a[:], r.b[r.off:])
	return a
}

func (r *reader) u8() uint8 {
	v := r.b[r.off]
	r.off++
	return v
}

func (r *reader) str(limit int) string {
	n := int(binary.LittleEndian.Uint32(r.b[r.off:]))
	r.off += 4
	if n > limit {
		r.err = fmt.Errorf("%w: string of %d bytes exceeds %d", common.ErrInvalidAccountData, n, limit)
		n = 0
	}
	s := string(r.b[r.off : r.off+n])
	r.off += limit
	return s
}

// MarshalBinary encodes m in its fixed layout. Strings longer than their
// ceilings are rejected.
func (m *Metadata) MarshalBinary() ([]byte, error) {
	if err := ValidateData(m.Data); err != nil {
		return nil, err
	}
	w := &writer{b: make([]byte, Size)}
	w.u8(keyMetadataV1)
	w.bytes(m.UpdateAuthority[:])
	w.bytes(m.Mint[:])
	w.str(m.Data.Name, common.MaxNameLength)
	w.str(m.Data.Symbol, common.MaxSymbolLength)
	w.str(m.Data.URI, common.MaxURILength)
	binary.LittleEndian.PutUint16(w.b[w.off:], m.Data.SellerFeeBasisPoints)
	w.off += 2
	if c := m.Data.Creator; c != nil {
		w.u8(1)
		w.bytes(c.Address[:])
		w.flag(c.Verified)
		w.u8(c.Share)
	} else {
		w.off += 1 + pubkey.Size + 2
	}
	w.flag(m.IsMutable)
	binary.LittleEndian.PutUint64(w.b[w.off:], m.CollectionSize)
	return w.b, nil
}

func (m *Metadata) UnmarshalBinary(b []byte) error {
	if len(b) != Size {
		return fmt.Errorf("%w: metadata is %d bytes, want %d", common.ErrInvalidAccountData, len(b), Size)
	}
	r := &reader{b: b}
	if k := r.u8(); k != keyMetadataV1 {
		return fmt.Errorf("%w: metadata key %d", common.ErrInvalidAccountData, k)
	}
	m.UpdateAuthority = r.addr()
	m.Mint = r.addr()
	m.Data.Name = r.str(common.MaxNameLength)
	m.Data.Symbol = r.str(common.MaxSymbolLength)
	m.Data.URI = r.str(common.MaxURILength)
	m.Data.SellerFeeBasisPoints = binary.LittleEndian.Uint16(b[r.off:])
	r.off += 2
	if r.u8() == 1 {
		c := &Creator{Address: r.addr()}
		c.Verified = r.u8() == 1
		c.Share = r.u8()
		m.Data.Creator = c
	} else {
		m.Data.Creator = nil
		r.off += pubkey.Size + 2
	}
	m.IsMutable = r.u8() == 1
	m.CollectionSize = binary.LittleEndian.Uint64(b[r.off:])
	return r.err
}

// ValidateData checks the string ceilings.
func ValidateData(d Data) error {
	switch {
	case len(d.Name) > common.MaxNameLength:
		return fmt.Errorf("%w: name is %d bytes", common.ErrInvalidInputStringLength, len(d.Name))
	case len(d.Symbol) > common.MaxSymbolLength:
		return fmt.Errorf("%w: symbol is %d bytes", common.ErrInvalidInputStringLength, len(d.Symbol))
	case len(d.URI) > common.MaxURILength:
		return fmt.Errorf("%w: uri is %d bytes", common.ErrInvalidInputStringLength, len(d.URI))
	}
	return nil
}
