package mempool

import "github.com/daglabs/shardpool/domain/consensus/model/externalapi"

// simUTXOBuffer is a mutable UTXO view seeded from a snapshot at one root
// and mutated in place as ClusterBuilder.build simulates a sequence of
// transactions against it. It satisfies model.UTXOBuffer.
//
// Grounded on the teacher's blockdag.DiffUTXOSet (a base UTXOSet plus an
// overlay UTXODiff); here the overlay is simply a map since a cluster
// simulation is short-lived and discarded after one build.
type simUTXOBuffer struct {
	trieLookup func(outpoint externalapi.DomainOutpoint) (*externalapi.UTXOEntry, bool)
	overlay    map[externalapi.DomainOutpoint]*externalapi.UTXOEntry
	spent      map[externalapi.DomainOutpoint]struct{}
}

func newSimUTXOBuffer(trieLookup func(externalapi.DomainOutpoint) (*externalapi.UTXOEntry, bool)) *simUTXOBuffer {
	return &simUTXOBuffer{
		trieLookup: trieLookup,
		overlay:    make(map[externalapi.DomainOutpoint]*externalapi.UTXOEntry),
		spent:      make(map[externalapi.DomainOutpoint]struct{}),
	}
}

func (b *simUTXOBuffer) Get(outpoint externalapi.DomainOutpoint) (*externalapi.UTXOEntry, bool) {
	if _, gone := b.spent[outpoint]; gone {
		return nil, false
	}
	if entry, ok := b.overlay[outpoint]; ok {
		return entry, true
	}
	return b.trieLookup(outpoint)
}

func (b *simUTXOBuffer) Add(outpoint externalapi.DomainOutpoint, entry *externalapi.UTXOEntry) {
	delete(b.spent, outpoint)
	b.overlay[outpoint] = entry
}

func (b *simUTXOBuffer) Remove(outpoint externalapi.DomainOutpoint) {
	delete(b.overlay, outpoint)
	b.spent[outpoint] = struct{}{}
}
