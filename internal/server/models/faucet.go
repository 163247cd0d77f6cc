package models

import "github.com/dmitrijs2005/solcraft/internal/pubkey"

const (
	FaucetConfigSeed    = "faucet_config"
	FaucetRecipientSeed = "faucet_recipient"

	faucetConfigName    = "FaucetConfig"
	faucetRecipientName = "FaucetRecipientData"
)

// Faucet defaults applied at initialization.
const (
	DefaultCooldownSeconds = 3600
	DefaultClaimUnits      = 1000
)

const (
	FaucetConfigSize    = DiscriminatorSize + pubkey.Size + pubkey.Size + 8 + pubkey.Size + 8 + 1
	FaucetRecipientSize = DiscriminatorSize + 8
)

// FaucetConfig is the faucet control record.
type FaucetConfig struct {
	Owner              pubkey.Address `json:"owner"`
	Mint               pubkey.Address `json:"mint"`
	AllowedClaimAmount uint64         `json:"allowed_claim_amount"`
	TreasuryATA        pubkey.Address `json:"treasury_ata"`
	CooldownSeconds    uint64         `json:"cooldown_seconds"`
	Bump               uint8          `json:"bump"`
}

func (c *FaucetConfig) MarshalBinary() ([]byte, error) {
	e := newEncoder(Discriminator(faucetConfigName), FaucetConfigSize)
	e.addr(c.Owner)
	e.addr(c.Mint)
	e.u64(c.AllowedClaimAmount)
	e.addr(c.TreasuryATA)
	e.u64(c.CooldownSeconds)
	e.u8(c.Bump)
	return e.b, nil
}

func (c *FaucetConfig) UnmarshalBinary(b []byte) error {
	d, err := newDecoder(faucetConfigName, b, FaucetConfigSize)
	if err != nil {
		return err
	}
	c.Owner = d.addr()
	c.Mint = d.addr()
	c.AllowedClaimAmount = d.u64()
	c.TreasuryATA = d.addr()
	c.CooldownSeconds = d.u64()
	c.Bump = d.u8()
	return nil
}

// FaucetRecipient tracks one claimant. LastClaimedAt is zero until the
// first successful claim.
type FaucetRecipient struct {
	LastClaimedAt int64 `json:"last_claimed_at"`
}

func (r *FaucetRecipient) NeverClaimed() bool { return r.LastClaimedAt == 0 }

func (r *FaucetRecipient) MarshalBinary() ([]byte, error) {
	e := newEncoder(Discriminator(faucetRecipientName), FaucetRecipientSize)
	e.u64(uint64(r.LastClaimedAt))
	return e.b, nil
}

func (r *FaucetRecipient) UnmarshalBinary(b []byte) error {
	d, err := newDecoder(faucetRecipientName, b, FaucetRecipientSize)
	if err != nil {
		return err
	}
	r.LastClaimedAt = int64(d.u64())
	return nil
}
