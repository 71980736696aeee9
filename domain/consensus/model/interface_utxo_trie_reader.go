package model

import "github.com/daglabs/shardpool/domain/consensus/model/externalapi"

// UtxoTrieReader is the read-only view of the node's persistent UTXO trie:
// the Merkle/trie-committed unspent-output set, queryable by root hash.
// Implementations must be safe to call concurrently with independent
// readers at arbitrary roots.
type UtxoTrieReader interface {
	// Lookup returns the serialized UTXOEntry stored under key at root, and
	// whether it exists. The exact encoding of key is this interface's
	// contract, not the mempool's: callers pass whatever utxo_key(...)
	// derives from an outpoint.
	Lookup(root externalapi.DomainHash, key []byte) ([]byte, bool)
}
