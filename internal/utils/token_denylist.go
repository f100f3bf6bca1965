package utils

import (
	"sync"
	"time"
)

// TokenDenylist remembers revoked access tokens until their natural expiry.
// It is in-memory, so revocations do not survive a restart.
type TokenDenylist struct {
	mu      sync.RWMutex
	entries map[string]time.Time
	now     func() time.Time
}

func NewTokenDenylist() *TokenDenylist {
	return &TokenDenylist{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Revoke denies token until expiresAt.
func (d *TokenDenylist) Revoke(token string, expiresAt time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pruneLocked()
	d.entries[HashToken(token)] = expiresAt
}

func (d *TokenDenylist) IsRevoked(token string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	expiresAt, ok := d.entries[HashToken(token)]
	return ok && d.now().Before(expiresAt)
}

// Len is the number of tracked tokens, expired ones included until the next prune.
func (d *TokenDenylist) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.entries)
}

func (d *TokenDenylist) pruneLocked() {
	now := d.now()
	for k, exp := range d.entries {
		if !now.Before(exp) {
			delete(d.entries, k)
		}
	}
}
