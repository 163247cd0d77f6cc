// Package common defines shared constants and sentinel errors used across
// the engine, its collaborators and the transport. Callers should use
// errors.Is to match these values.
//
// Every request-level error belongs to one class: ErrAuthorization,
// ErrPrecondition or ErrInvalidInput. Specific errors wrap their class, so
// errors.Is matches both the condition and the class.
package common

import (
	"errors"
	"fmt"
)

var (
	// Error classes.
	ErrAuthorization = errors.New("authorization failed")
	ErrPrecondition  = errors.New("precondition failed")
	ErrInvalidInput  = errors.New("invalid input")

	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrVersionConflict = errors.New("version conflict")

	// Service-level errors.
	ErrorInternal = errors.New("internal error")
)

var (
	// Authorization errors.
	ErrAddressMismatch  = fmt.Errorf("%w: account address does not match its derived address", ErrAuthorization)
	ErrMissingSigner    = fmt.Errorf("%w: required signature is missing", ErrAuthorization)
	ErrorUnauthorized   = fmt.Errorf("%w: unauthorized action attempted", ErrAuthorization)
	ErrInvalidTreasury  = fmt.Errorf("%w: treasury account does not match the configuration", ErrAuthorization)
	ErrIllegalOwner     = fmt.Errorf("%w: account is not owned by the expected program", ErrAuthorization)
	ErrVoucherSpent     = fmt.Errorf("%w: transfer voucher already redeemed", ErrAuthorization)
	ErrVoucherScope     = fmt.Errorf("%w: transfer voucher does not cover this transfer", ErrAuthorization)
	ErrInvalidSignature = fmt.Errorf("%w: invalid request signature", ErrAuthorization)
	ErrReplayedRequest  = fmt.Errorf("%w: request signature already used", ErrAuthorization)

	// Precondition errors.
	ErrFactoryPaused           = fmt.Errorf("%w: the factory is currently paused", ErrPrecondition)
	ErrInsufficientCreationFee = fmt.Errorf("%w: insufficient funds to cover the creation fee", ErrPrecondition)
	ErrInsufficientFunds       = fmt.Errorf("%w: insufficient funds", ErrPrecondition)
	ErrInsufficientLamports    = fmt.Errorf("%w: insufficient lamports", ErrPrecondition)
	ErrCooldownNotElapsed      = fmt.Errorf("%w: cooldown period has not yet elapsed", ErrPrecondition)
	ErrAccountExists           = fmt.Errorf("%w: account already in use", ErrPrecondition)
	ErrAccountFrozen           = fmt.Errorf("%w: account is frozen", ErrPrecondition)
	ErrMintMismatch            = fmt.Errorf("%w: account mint does not match", ErrPrecondition)
	ErrAuthorityRevoked        = fmt.Errorf("%w: authority has been revoked", ErrPrecondition)
	ErrArithmeticOverflow      = fmt.Errorf("%w: arithmetic overflow", ErrPrecondition)

	// Length and decimal ceilings are preconditions of the on-ledger layout.
	ErrExceedsMaxDecimals       = fmt.Errorf("%w: the provided decimals exceed the maximum allowed", ErrPrecondition)
	ErrInvalidInputStringLength = fmt.Errorf("%w: the provided string length is invalid", ErrPrecondition)

	// Input errors.
	ErrInvalidSeeds       = fmt.Errorf("%w: invalid derivation seeds", ErrInvalidInput)
	ErrInvalidAccountData = fmt.Errorf("%w: account data has an unexpected layout", ErrInvalidInput)
)
