package common

// SignatureHeaderName is the gRPC metadata key carrying request signatures.
// A request may carry several values, one per signer.
const SignatureHeaderName = "signature"

// MaxDecimals is the largest decimal precision accepted for an asset.
const MaxDecimals uint8 = 9

// Descriptive metadata length ceilings, in bytes.
const (
	MaxNameLength   = 32
	MaxSymbolLength = 10
	MaxURILength    = 200
)
