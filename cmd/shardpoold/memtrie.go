package main

import (
	"sync"

	"github.com/daglabs/shardpool/domain/consensus/model/externalapi"
)

// memTrie is a toy, single-root UtxoTrieReader backed by a plain map. Real
// deployments back model.UtxoTrieReader with an actual Merkle trie that can
// answer lookups at arbitrary historical roots; this demo only ever has one
// root, genesisRoot, since nothing here builds blocks.
type memTrie struct {
	mu      sync.RWMutex
	root    externalapi.DomainHash
	entries map[string][]byte
}

func newMemTrie(root externalapi.DomainHash) *memTrie {
	return &memTrie{root: root, entries: make(map[string][]byte)}
}

func (t *memTrie) Lookup(root externalapi.DomainHash, key []byte) ([]byte, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if root != t.root {
		return nil, false
	}
	data, ok := t.entries[string(key)]
	return data, ok
}

func (t *memTrie) seed(key []byte, value []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[string(key)] = value
}
