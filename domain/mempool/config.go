package mempool

import (
	"time"

	"github.com/daglabs/shardpool/domain/consensus/model"
	"github.com/daglabs/shardpool/domain/mempool/ratelimit"
)

// Default tunables, named exactly as spec.md §6.
const (
	DefaultMaxPoolSize      = 80000
	DefaultMaxLowFeePoolSize = 5000

	// DefaultOrphanPoolSize bounds the [ADD] orphan shelf; grounded on the
	// teacher's Policy.MaxOrphanTxs.
	DefaultOrphanPoolSize = 1000
	DefaultOrphanTTL      = 15 * time.Minute

	// Driver periods, per spec.md §4.7/§4.8.
	DefaultTipDriverPeriod    = 30 * time.Second
	MinTipDriverPeriod        = 2500 * time.Millisecond
	MaxTipDriverPeriod        = 300 * time.Second
	DefaultGossipDriverPeriod = 2 * time.Second
	MinGossipDriverPeriod     = 250 * time.Millisecond
	MaxGossipDriverPeriod     = 5 * time.Second

	DefaultGossipCacheSize = 10000
	DefaultGossipCacheTTL  = 5 * time.Minute
)

// Config bundles every construction-time tunable. Grounded on the teacher's
// mempool.Config/Policy split.
type Config struct {
	MaxPoolSize       int
	MaxLowFeePoolSize int
	AcceptsP2PTx      bool

	OrphanPoolSize int
	OrphanTTL      time.Duration

	TipDriverPeriod    time.Duration
	GossipDriverPeriod time.Duration
	GossipCacheSize    int
	GossipCacheTTL     time.Duration

	ChainState model.ChainStateSource
	UtxoTrie   model.UtxoTrieReader
	Validator  model.TransactionValidator
	Peerage    model.Peerage // may be nil; gossip becomes a no-op

	// PeerLimiter gates P2P admission attempts before validate_basics runs,
	// per the [ADD] rate-limiting component. May be nil; P2P admissions are
	// then ungated.
	PeerLimiter *ratelimit.Limiter

	// MassCalculator computes a transaction's fee-density denominator, per
	// [ADD] 4.1b. Nil falls back to a byte-counting approximation.
	MassCalculator MassCalculator
}

// withDefaults fills any zero-valued tunable with its default.
func (c Config) withDefaults() Config {
	if c.MaxPoolSize == 0 {
		c.MaxPoolSize = DefaultMaxPoolSize
	}
	if c.MaxLowFeePoolSize == 0 {
		c.MaxLowFeePoolSize = DefaultMaxLowFeePoolSize
	}
	if c.OrphanPoolSize == 0 {
		c.OrphanPoolSize = DefaultOrphanPoolSize
	}
	if c.OrphanTTL == 0 {
		c.OrphanTTL = DefaultOrphanTTL
	}
	if c.TipDriverPeriod == 0 {
		c.TipDriverPeriod = DefaultTipDriverPeriod
	}
	if c.GossipDriverPeriod == 0 {
		c.GossipDriverPeriod = DefaultGossipDriverPeriod
	}
	if c.GossipCacheSize == 0 {
		c.GossipCacheSize = DefaultGossipCacheSize
	}
	if c.GossipCacheTTL == 0 {
		c.GossipCacheTTL = DefaultGossipCacheTTL
	}
	return c
}
