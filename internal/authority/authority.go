// Package authority turns a successful program-address re-derivation into a
// capability. Whoever can rebuild the derivation from its label and stored
// bump holds an Authority for that address, and can issue single-use
// vouchers that let a collaborator move funds out of an account the
// address controls.
package authority

import (
	"fmt"

	"github.com/dmitrijs2005/solcraft/internal/common"
	"github.com/dmitrijs2005/solcraft/internal/pubkey"
)

// Authority proves control over a program-derived address.
type Authority struct {
	programID pubkey.Address
	address   pubkey.Address
	bump      uint8
}

// SignAs re-derives the program address for seeds and bump. It only returns
// an Authority when the derivation is valid.
func SignAs(programID pubkey.Address, bump uint8, seeds ...[]byte) (*Authority, error) {
	full := make([][]byte, 0, len(seeds)+1)
	full = append(full, seeds...)
	full = append(full, []byte{bump})

	addr, err := pubkey.CreateProgramAddress(full, programID)
	if err != nil {
		return nil, fmt.Errorf("sign as program address: %w", err)
	}
	return &Authority{programID: programID, address: addr, bump: bump}, nil
}

// Expect is SignAs followed by a check that the derived address equals the
// one the caller supplied.
func Expect(supplied, programID pubkey.Address, bump uint8, seeds ...[]byte) (*Authority, error) {
	a, err := SignAs(programID, bump, seeds...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrAddressMismatch, err)
	}
	if a.address != supplied {
		return nil, fmt.Errorf("%w: got %s, want %s", common.ErrAddressMismatch, supplied, a.address)
	}
	return a, nil
}

func (a *Authority) Address() pubkey.Address { return a.address }
func (a *Authority) Bump() uint8             { return a.bump }

// Authorize issues a voucher for exactly one transfer of amount from one
// account to another.
func (a *Authority) Authorize(from, to pubkey.Address, amount uint64) *Voucher {
	return &Voucher{signer: a.address, from: from, to: to, amount: amount}
}

// Voucher is a single-use transfer grant signed by an Authority.
type Voucher struct {
	signer pubkey.Address
	from   pubkey.Address
	to     pubkey.Address
	amount uint64
	spent  bool
}

// Authorize redeems the voucher. The authority must be the voucher's signer
// and the transfer must match the granted one exactly.
func (v *Voucher) Authorize(authority, from, to pubkey.Address, amount uint64) error {
	if v == nil {
		return common.ErrMissingSigner
	}
	if v.spent {
		return common.ErrVoucherSpent
	}
	if authority != v.signer || from != v.from || to != v.to || amount != v.amount {
		return common.ErrVoucherScope
	}
	v.spent = true
	return nil
}

// Spent reports whether the voucher was redeemed.
func (v *Voucher) Spent() bool { return v.spent }
