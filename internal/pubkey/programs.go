package pubkey

// Well-known program identities.
var (
	SystemProgramID          = Zero
	TokenProgramID           = MustParse("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")
	AssociatedTokenProgramID = MustParse("ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL")
	MetadataProgramID        = MustParse("metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s")

	// DefaultEngineProgramID is the identity the engine derives its own
	// accounts under unless configured otherwise.
	DefaultEngineProgramID = MustParse("CADbArgTHGSsSiMJfXdtGYjQeLRf55f6QoQW7bNphicC")
)
