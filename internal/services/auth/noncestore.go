package auth

import (
	"context"
	"sync"
	"time"
)

// NonceStore keeps at most one unconsumed challenge per wallet.
//
// Put replaces any prior challenge for the wallet. Take atomically removes
// and returns it, so a nonce can never authenticate twice. Entries vanish on
// their own after the store's TTL.
type NonceStore interface {
	Put(ctx context.Context, wallet, nonce string) error
	Take(ctx context.Context, wallet string) (string, bool, error)
}

type memoryEntry struct {
	nonce     string
	expiresAt time.Time
}

// MemoryNonceStore is the single-instance implementation: a mutex-guarded map
// with expiry timestamps checked on read and swept on write. The clock is
// injected so tests control time.
type MemoryNonceStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

var _ NonceStore = (*MemoryNonceStore)(nil)

func NewMemoryNonceStore(ttl time.Duration, now func() time.Time) *MemoryNonceStore {
	if now == nil {
		now = time.Now
	}

	return &MemoryNonceStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     now,
	}
}

func (s *MemoryNonceStore) Put(_ context.Context, wallet, nonce string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	// Sweep dead entries while we hold the lock; the map stays bounded by the
	// number of wallets that requested a challenge within the TTL window.
	for w, e := range s.entries {
		if !e.expiresAt.After(now) {
			delete(s.entries, w)
		}
	}

	s.entries[wallet] = memoryEntry{
		nonce:     nonce,
		expiresAt: now.Add(s.ttl),
	}

	return nil
}

func (s *MemoryNonceStore) Take(_ context.Context, wallet string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[wallet]
	if !ok {
		return "", false, nil
	}

	delete(s.entries, wallet)

	if !e.expiresAt.After(s.now()) {
		return "", false, nil
	}

	return e.nonce, true, nil
}
