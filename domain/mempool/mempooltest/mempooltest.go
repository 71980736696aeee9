// Package mempooltest supplies hand-built test doubles for domain/mempool's
// consumed interfaces, in the teacher's own test-double idiom
// (domain/mining/test_utils.go, blockdag/test_utils.go build fakes directly
// rather than reaching for a mocking framework; none appears anywhere in the
// retrieved pack).
package mempooltest

import (
	"sync"

	"github.com/daglabs/shardpool/domain/consensus/model"
	"github.com/daglabs/shardpool/domain/consensus/model/externalapi"
	"github.com/daglabs/shardpool/domain/mempool"
)

// FakeTrie is a UtxoTrieReader backed by one map per root, so tests can
// model a tip advancing from one root to the next (spec.md scenario S4).
type FakeTrie struct {
	mu    sync.RWMutex
	roots map[externalapi.DomainHash]map[string][]byte
}

// NewFakeTrie returns an empty trie with no roots seeded.
func NewFakeTrie() *FakeTrie {
	return &FakeTrie{roots: make(map[externalapi.DomainHash]map[string][]byte)}
}

func (t *FakeTrie) Lookup(root externalapi.DomainHash, key []byte) ([]byte, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	entries, ok := t.roots[root]
	if !ok {
		return nil, false
	}
	data, ok := entries[string(key)]
	return data, ok
}

// Seed installs entry under root, keyed by outpoint. Seeding the same
// outpoint under two different roots lets a test model a UTXO surviving
// (or not) across a tip change.
func (t *FakeTrie) Seed(root externalapi.DomainHash, outpoint externalapi.DomainOutpoint, entry *externalapi.UTXOEntry) {
	t.mu.Lock()
	defer t.mu.Unlock()
	entries, ok := t.roots[root]
	if !ok {
		entries = make(map[string][]byte)
		t.roots[root] = entries
	}
	entries[string(OutpointKey(outpoint))] = EncodeEntry(entry)
}

// OutpointKey is domain/mempool's own UTXOKey encoding, re-exported here so
// tests share one definition of the UtxoTrieReader key contract instead of
// keeping a parallel copy.
func OutpointKey(op externalapi.DomainOutpoint) []byte {
	return mempool.UTXOKey(op)
}

// EncodeEntry is domain/mempool's own EncodeUTXOEntry wire format,
// re-exported here for the same reason.
func EncodeEntry(entry *externalapi.UTXOEntry) []byte {
	return mempool.EncodeUTXOEntry(entry)
}

// FakeChainState is a mutable ChainStateSource, settable mid-test to model a
// tip advancing.
type FakeChainState struct {
	mu     sync.RWMutex
	shard  uint32
	cover  map[uint32]struct{}
	height uint64
	params *model.NetworkParams
}

// NewFakeChainState returns a single-shard chain state covering shard 0,
// with LowFee 0.01 as spec.md's scenarios use throughout.
func NewFakeChainState() *FakeChainState {
	return &FakeChainState{
		shard:  0,
		cover:  map[uint32]struct{}{0: {}},
		height: 1,
		params: &model.NetworkParams{
			LowFee:                 0.01,
			LowFeeSizeInBlock:      100000,
			ActivationHeightShards: 0,
		},
	}
}

func (s *FakeChainState) ShardID() uint32 { return s.shard }

func (s *FakeChainState) ShardCoverSet() map[uint32]struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cover
}

func (s *FakeChainState) SetShardCoverSet(shards map[uint32]struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cover = shards
}

func (s *FakeChainState) Height() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.height
}

func (s *FakeChainState) SetHeight(height uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.height = height
}

func (s *FakeChainState) NetworkParams() *model.NetworkParams {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.params
}

// FakeValidator is a TransactionValidator that only checks the balance
// equation and shard coverage, mirroring what real deep validation would
// gate on for the purposes of these tests: script/signature correctness is
// out of scope, per spec.md §1.
type FakeValidator struct{}

func (FakeValidator) ValidateBasics(tx *externalapi.DomainTransaction) error {
	return nil
}

func (FakeValidator) ValidateDeep(tx *externalapi.DomainTransaction, buffer model.UTXOBuffer,
	header *model.BlockHeader, params *model.NetworkParams, shardCoverSet map[uint32]struct{}) error {

	var inputTotal uint64
	for _, in := range tx.Inputs {
		entry, ok := buffer.Get(in.PreviousOutpoint)
		if !ok {
			return errNotFound(in.PreviousOutpoint)
		}
		if _, covered := shardCoverSet[entry.TargetShard]; !covered {
			return errUncoveredShard(in.PreviousOutpoint)
		}
		inputTotal += entry.Amount
		buffer.Remove(in.PreviousOutpoint)
	}

	var outputTotal uint64
	for _, out := range tx.Outputs {
		outputTotal += out.Value
	}
	if !tx.IsCoinbase() && inputTotal != outputTotal+tx.Fee {
		return errBalance(inputTotal, outputTotal, tx.Fee)
	}

	txID := tx.ID()
	for i, out := range tx.Outputs {
		outpoint := externalapi.DomainOutpoint{TransactionID: txID, Index: uint32(i)}
		buffer.Add(outpoint, externalapi.NewUTXOEntry(out.Value, out.RecipientSpecHash, out.TargetShard, tx.IsCoinbase(), header.Height))
	}
	return nil
}

// FakePeerage records every broadcast tx ID, for tests asserting gossip
// behavior.
type FakePeerage struct {
	mu  sync.Mutex
	ids []externalapi.DomainTransactionID
}

func (p *FakePeerage) Broadcast(tx *externalapi.DomainTransaction) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ids = append(p.ids, tx.ID())
}

func (p *FakePeerage) Broadcasted() []externalapi.DomainTransactionID {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]externalapi.DomainTransactionID, len(p.ids))
	copy(out, p.ids)
	return out
}
