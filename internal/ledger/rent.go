package ledger

import "time"

// AccountStorageOverhead is the per-account byte overhead charged on top of
// the data length.
const AccountStorageOverhead = 128

// Rent computes the balance an account must keep to remain valid.
type Rent struct {
	LamportsPerByteYear uint64
	ExemptionThreshold  float64
}

func DefaultRent() Rent {
	return Rent{LamportsPerByteYear: 3480, ExemptionThreshold: 2.0}
}

// MinimumBalance returns the rent-exempt minimum for dataLen bytes.
func (r Rent) MinimumBalance(dataLen int) uint64 {
	bytes := uint64(AccountStorageOverhead + dataLen)
	return uint64(float64(bytes*r.LamportsPerByteYear) * r.ExemptionThreshold)
}

// Clock reports the ledger time in unix seconds.
type Clock interface {
	Now() int64
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() int64 { return time.Now().Unix() }

// ClockFunc adapts a function to Clock.
type ClockFunc func() int64

func (f ClockFunc) Now() int64 { return f() }
