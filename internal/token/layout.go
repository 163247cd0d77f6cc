package token

import (
	"encoding/binary"
	"fmt"

	"github.com/dmitrijs2005/solcraft/internal/common"
	"github.com/dmitrijs2005/solcraft/internal/pubkey"
)

const (
	// MintSize is the encoded size of a Mint.
	MintSize = 82
	// AccountSize is the encoded size of a holding Account.
	AccountSize = 165

	optionSize = 4 + pubkey.Size
)

// AccountState is the lifecycle state of a holding account.
type AccountState uint8

const (
	StateUninitialized AccountState = iota
	StateInitialized
	StateFrozen
)

// Mint describes a fungible asset.
type Mint struct {
	// MintAuthority may create new units. Nil once revoked.
	MintAuthority   *pubkey.Address `json:"mint_authority"`
	Supply          uint64          `json:"supply"`
	Decimals        uint8           `json:"decimals"`
	IsInitialized   bool            `json:"is_initialized"`
	FreezeAuthority *pubkey.Address `json:"freeze_authority"`
}

// Account holds a balance of one mint on behalf of Owner.
type Account struct {
	Mint   pubkey.Address `json:"mint"`
	Owner  pubkey.Address `json:"owner"`
	Amount uint64         `json:"amount"`
	State  AccountState   `json:"state"`
}

func (a *Account) Frozen() bool { return a.State == StateFrozen }

func putOption(b []byte, a *pubkey.Address) {
	if a == nil {
		clear(b[:optionSize])
		return
	}
	binary.LittleEndian.PutUint32(b, 1)
	copy(b[4:optionSize], a[:])
}

func readOption(b []byte) (*pubkey.Address, error) {
	switch binary.LittleEndian.Uint32(b) {
	case 0:
		return nil, nil
	case 1:
		var a pubkey.Address
		copy(a[:], b[4:optionSize])
		return &a, nil
	default:
		return nil, fmt.Errorf("%w: bad option tag", common.ErrInvalidAccountData)
	}
}

// MarshalBinary encodes m in its fixed 82-byte layout.
func (m *Mint) MarshalBinary() ([]byte, error) {
	b := make([]byte, MintSize)
	putOption(b[0:], m.MintAuthority)
	binary.LittleEndian.PutUint64(b[36:], m.Supply)
	b[44] = m.Decimals
	if m.IsInitialized {
		b[45] = 1
	}
	putOption(b[46:], m.FreezeAuthority)
	return b, nil
}

func (m *Mint) UnmarshalBinary(b []byte) error {
	if len(b) != MintSize {
		return fmt.Errorf("%w: mint is %d bytes, want %d", common.ErrInvalidAccountData, len(b), MintSize)
	}
	var err error
	if m.MintAuthority, err = readOption(b[0:]); err != nil {
		return err
	}
	m.Supply = binary.LittleEndian.Uint64(b[36:])
	m.Decimals = b[44]
	m.IsInitialized = b[45] == 1
	m.FreezeAuthority, err = readOption(b[46:])
	return err
}

// MarshalBinary encodes a in the fixed 165-byte holding account layout.
// Delegation, native wrapping and close authority are not supported and are
// always encoded as absent.
func (a *Account) MarshalBinary() ([]byte, error) {
	b := make([]byte, AccountSize)
	copy(b[0:], a.Mint[:])
	copy(b[32:], a.Owner[:])
	binary.LittleEndian.PutUint64(b[64:], a.Amount)
	b[108] = byte(a.State)
	return b, nil
}

func (a *Account) UnmarshalBinary(b []byte) error {
	if len(b) != AccountSize {
		return fmt.Errorf("%w: token account is %d bytes, want %d", common.ErrInvalidAccountData, len(b), AccountSize)
	}
	copy(a.Mint[:], b[0:32])
	copy(a.Owner[:], b[32:64])
	a.Amount = binary.LittleEndian.Uint64(b[64:])
	a.State = AccountState(b[108])
	if a.State > StateFrozen {
		return fmt.Errorf("%w: unknown account state %d", common.ErrInvalidAccountData, a.State)
	}
	return nil
}
