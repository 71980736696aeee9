package mempool

import "github.com/daglabs/shardpool/domain/consensus/model/externalapi"

// addressIndex is a multimap from an address spec-hash to every pool
// transaction that touches it, either as a sender (input SpecHash) or a
// recipient (output RecipientSpecHash). Grounded on the pattern the teacher
// uses for dependsByPrev/orphansByPrev (a map of sets, mutated alongside the
// pool so lookups never need to scan).
//
// Invariant: txID ∈ addressIndex[addr] iff addr ∈ known_txs[txID].InvolvedAddresses.
type addressIndex struct {
	byAddress map[externalapi.ScriptPublicKeyHash]map[externalapi.DomainTransactionID]struct{}
}

func newAddressIndex() *addressIndex {
	return &addressIndex{
		byAddress: make(map[externalapi.ScriptPublicKeyHash]map[externalapi.DomainTransactionID]struct{}),
	}
}

func (idx *addressIndex) add(info *TxInfo) {
	txID := info.ID()
	for addr := range info.InvolvedAddresses {
		set, ok := idx.byAddress[addr]
		if !ok {
			set = make(map[externalapi.DomainTransactionID]struct{})
			idx.byAddress[addr] = set
		}
		set[txID] = struct{}{}
	}
}

func (idx *addressIndex) remove(info *TxInfo) {
	txID := info.ID()
	for addr := range info.InvolvedAddresses {
		set, ok := idx.byAddress[addr]
		if !ok {
			continue
		}
		delete(set, txID)
		if len(set) == 0 {
			delete(idx.byAddress, addr)
		}
	}
}

// transactionsFor returns an immutable snapshot of the tx IDs touching addr.
func (idx *addressIndex) transactionsFor(addr externalapi.ScriptPublicKeyHash) map[externalapi.DomainTransactionID]struct{} {
	set, ok := idx.byAddress[addr]
	if !ok {
		return map[externalapi.DomainTransactionID]struct{}{}
	}
	out := make(map[externalapi.DomainTransactionID]struct{}, len(set))
	for id := range set {
		out[id] = struct{}{}
	}
	return out
}
