package models

import "github.com/dmitrijs2005/solcraft/internal/pubkey"

const (
	FactoryConfigSeed   = "factory_config"
	FactoryTreasurySeed = "factory_treasury"

	factoryConfigName = "FactoryConfig"
)

// FactoryConfigSize is the encoded size of a FactoryConfig record.
const FactoryConfigSize = DiscriminatorSize + pubkey.Size + 1 + 1 + 8 + pubkey.Size + 1

// FactoryConfig is the token factory control record.
type FactoryConfig struct {
	Admin               pubkey.Address `json:"admin"`
	Paused              bool           `json:"paused"`
	Bump                uint8          `json:"bump"`
	CreationFeeLamports uint64         `json:"creation_fee_lamports"`
	TreasuryAccount     pubkey.Address `json:"treasury_account"`
	TreasuryBump        uint8          `json:"treasury_bump"`
}

func (c *FactoryConfig) MarshalBinary() ([]byte, error) {
	e := newEncoder(Discriminator(factoryConfigName), FactoryConfigSize)
	e.addr(c.Admin)
	e.flag(c.Paused)
	e.u8(c.Bump)
	e.u64(c.CreationFeeLamports)
	e.addr(c.TreasuryAccount)
	e.u8(c.TreasuryBump)
	return e.b, nil
}

func (c *FactoryConfig) UnmarshalBinary(b []byte) error {
	d, err := newDecoder(factoryConfigName, b, FactoryConfigSize)
	if err != nil {
		return err
	}
	c.Admin = d.addr()
	if c.Paused, err = d.flag(); err != nil {
		return err
	}
	c.Bump = d.u8()
	c.CreationFeeLamports = d.u64()
	c.TreasuryAccount = d.addr()
	c.TreasuryBump = d.u8()
	return nil
}
