package models

import "github.com/dmitrijs2005/solcraft/internal/pubkey"

func FactoryConfigSeeds() [][]byte   { return pubkey.Seeds(FactoryConfigSeed) }
func FactoryTreasurySeeds() [][]byte { return pubkey.Seeds(FactoryTreasurySeed) }
func FaucetConfigSeeds() [][]byte    { return pubkey.Seeds(FaucetConfigSeed) }

func FaucetRecipientSeeds(recipient pubkey.Address) [][]byte {
	return pubkey.Seeds(FaucetRecipientSeed, recipient)
}
