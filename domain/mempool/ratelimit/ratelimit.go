// Package ratelimit gates admission attempts per P2P peer before a
// transaction ever reaches the pool lock. It is ambient abuse-resistance
// plumbing, not a consensus component: it has no opinion on a transaction's
// validity, only on how often one peer may ask to have one validated.
//
// Grounded on the teacher's per-Policy knobs in domain/mempool/mempool.go
// (AcceptNonStd, MinRelayTxFee gate admission the same way, outside the
// pool lock), generalized into an explicit token bucket per peer.
package ratelimit

import (
	"sync"
	"time"
)

// bucket is a classic token bucket: capacity tokens, refilled at
// refillPerSecond, never exceeding capacity.
type bucket struct {
	tokens     float64
	lastRefill time.Time
}

// Limiter holds one bucket per peer key (typically a peer address or ID).
// Safe for concurrent use.
type Limiter struct {
	mu             sync.Mutex
	capacity       float64
	refillPerSecond float64
	buckets        map[string]*bucket

	now func() time.Time
}

// New constructs a Limiter allowing burstCapacity admission attempts
// immediately, refilled at refillPerSecond tokens/second thereafter.
func New(burstCapacity float64, refillPerSecond float64) *Limiter {
	return &Limiter{
		capacity:        burstCapacity,
		refillPerSecond: refillPerSecond,
		buckets:         make(map[string]*bucket),
		now:             time.Now,
	}
}

// Allow reports whether peerKey may attempt an admission right now,
// consuming one token if so. Call this before taking the mempool's pool
// lock, mirroring validate_basics running lock-free.
func (l *Limiter) Allow(peerKey string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, ok := l.buckets[peerKey]
	if !ok {
		b = &bucket{tokens: l.capacity, lastRefill: now}
		l.buckets[peerKey] = b
	}

	elapsed := now.Sub(b.lastRefill).Seconds()
	if elapsed > 0 {
		b.tokens += elapsed * l.refillPerSecond
		if b.tokens > l.capacity {
			b.tokens = l.capacity
		}
		b.lastRefill = now
	}

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// Forget drops peerKey's bucket, e.g. on peer disconnect, so long-idle
// peers don't accumulate unbounded map entries.
func (l *Limiter) Forget(peerKey string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.buckets, peerKey)
}
