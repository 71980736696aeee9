package mempool

import (
	"encoding/binary"

	"github.com/daglabs/shardpool/domain/consensus/model/externalapi"
)

// UTXOKey derives the UtxoTrieReader lookup key for an outpoint: the
// transaction ID followed by the big-endian output index. spec.md §4.2
// leaves the exact encoding to "the UTXO-trie contract"; this is this
// module's half of that contract, kept in one place so a real trie
// implementation only needs to agree on this one function. Exported so
// embedders and test doubles share this module's own encoding instead of
// reimplementing it.
func UTXOKey(outpoint externalapi.DomainOutpoint) []byte {
	key := make([]byte, externalapi.DomainHashSize+4)
	copy(key, outpoint.TransactionID[:])
	binary.BigEndian.PutUint32(key[externalapi.DomainHashSize:], outpoint.Index)
	return key
}

// EncodeUTXOEntry serializes a UTXOEntry for storage behind a
// UtxoTrieReader. Used by this module's in-memory trie fakes and by any
// embedder whose trie wants a ready-made wire format.
func EncodeUTXOEntry(entry *externalapi.UTXOEntry) []byte {
	buf := make([]byte, 8+externalapi.DomainHashSize+4+1+8)
	off := 0
	binary.BigEndian.PutUint64(buf[off:], entry.Amount)
	off += 8
	copy(buf[off:], entry.RecipientSpecHash[:])
	off += externalapi.DomainHashSize
	binary.BigEndian.PutUint32(buf[off:], entry.TargetShard)
	off += 4
	if entry.IsCoinbase {
		buf[off] = 1
	}
	off++
	binary.BigEndian.PutUint64(buf[off:], entry.BlockBlueScore)
	return buf
}

// DecodeUTXOEntry is EncodeUTXOEntry's inverse.
func DecodeUTXOEntry(data []byte) (*externalapi.UTXOEntry, bool) {
	const wantLen = 8 + externalapi.DomainHashSize + 4 + 1 + 8
	if len(data) != wantLen {
		return nil, false
	}
	off := 0
	amount := binary.BigEndian.Uint64(data[off:])
	off += 8
	var spec externalapi.ScriptPublicKeyHash
	copy(spec[:], data[off:off+externalapi.DomainHashSize])
	off += externalapi.DomainHashSize
	shard := binary.BigEndian.Uint32(data[off:])
	off += 4
	isCoinbase := data[off] != 0
	off++
	blueScore := binary.BigEndian.Uint64(data[off:])
	return externalapi.NewUTXOEntry(amount, spec, shard, isCoinbase, blueScore), true
}
