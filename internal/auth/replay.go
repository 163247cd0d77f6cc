package auth

import (
	"sync"
	"time"
)

// SweepInterval is how often Add drops expired ids.
const SweepInterval = time.Minute

// ReplayCache remembers token ids until they expire.
type ReplayCache struct {
	mu        sync.Mutex
	seen      map[string]time.Time
	nextSweep time.Time
}

func NewReplayCache() *ReplayCache {
	return &ReplayCache{seen: make(map[string]time.Time)}
}

// Add records id as used until expires. It returns false if id is already
// recorded and not yet expired.
func (c *ReplayCache) Add(id string, expires, now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !now.Before(c.nextSweep) {
		c.sweep(now)
		c.nextSweep = now.Add(SweepInterval)
	}
	if exp, ok := c.seen[id]; ok && exp.After(now) {
		return false
	}
	c.seen[id] = expires
	return true
}

func (c *ReplayCache) sweep(now time.Time) {
	for k, exp := range c.seen {
		if !exp.After(now) {
			delete(c.seen, k)
		}
	}
}

// Len reports how many ids are remembered, expired ones awaiting the next
// sweep included.
func (c *ReplayCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.seen)
}
