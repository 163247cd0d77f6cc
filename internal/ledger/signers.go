package ledger

import (
	"context"
	"sort"

	"github.com/dmitrijs2005/solcraft/internal/common"
	"github.com/dmitrijs2005/solcraft/internal/pubkey"
)

// Authorizer approves moving amount from one account to another on behalf
// of authority. Human signer sets and program vouchers both implement it.
type Authorizer interface {
	Authorize(authority, from, to pubkey.Address, amount uint64) error
}

// Signers is the set of identities whose signatures were verified for the
// current request.
type Signers struct {
	set map[pubkey.Address]struct{}
}

func NewSigners(addrs ...pubkey.Address) Signers {
	s := Signers{set: make(map[pubkey.Address]struct{}, len(addrs))}
	for _, a := range addrs {
		s.set[a] = struct{}{}
	}
	return s
}

func (s Signers) Has(a pubkey.Address) bool {
	_, ok := s.set[a]
	return ok
}

// Require fails with common.ErrMissingSigner unless a signed the request.
func (s Signers) Require(a pubkey.Address) error {
	if !s.Has(a) {
		return common.ErrMissingSigner
	}
	return nil
}

// Authorize lets a signer move funds from accounts it has authority over.
func (s Signers) Authorize(authority, _, _ pubkey.Address, _ uint64) error {
	return s.Require(authority)
}

// List returns the signers in a stable order.
func (s Signers) List() []pubkey.Address {
	out := make([]pubkey.Address, 0, len(s.set))
	for a := range s.set {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

type signersKey struct{}

// WithSigners attaches the verified signer set to ctx.
func WithSigners(ctx context.Context, s Signers) context.Context {
	return context.WithValue(ctx, signersKey{}, s)
}

// SignersFromContext returns the signer set attached to ctx, or an empty set.
func SignersFromContext(ctx context.Context) Signers {
	if s, ok := ctx.Value(signersKey{}).(Signers); ok {
		return s
	}
	return NewSigners()
}
