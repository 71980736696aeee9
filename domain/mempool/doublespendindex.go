package mempool

import "github.com/daglabs/shardpool/domain/consensus/model/externalapi"

// doubleSpendIndex maps every outpoint currently claimed by a pool
// transaction to the transaction claiming it. Grounded on the teacher's
// TxPool.outpoints map in domain/mempool/mempool.go, generalized from a
// single flat pool to spec.md's named DoubleSpendIndex component.
//
// Invariant: for every known tx T, every input of T maps to T here, and no
// two distinct known txs share an outpoint (spec.md §3).
//
// Entries leave the index only through release, when a transaction is
// purged from the pool; there is no separate compaction pass.
type doubleSpendIndex struct {
	byOutpoint map[externalapi.DomainOutpoint]externalapi.DomainTransactionID
}

func newDoubleSpendIndex() *doubleSpendIndex {
	return &doubleSpendIndex{byOutpoint: make(map[externalapi.DomainOutpoint]externalapi.DomainTransactionID)}
}

// claimant returns the tx currently claiming outpoint, if any.
func (idx *doubleSpendIndex) claimant(op externalapi.DomainOutpoint) (externalapi.DomainTransactionID, bool) {
	id, ok := idx.byOutpoint[op]
	return id, ok
}

// claim registers every input of info as claimed by info's transaction.
// Callers must have already checked for conflicts via claimant.
func (idx *doubleSpendIndex) claim(info *TxInfo) {
	txID := info.ID()
	for _, in := range info.Inputs {
		idx.byOutpoint[in] = txID
	}
}

// release removes every input of info from the index, making those
// outpoints available again. Called when info is evicted from the pool.
func (idx *doubleSpendIndex) release(info *TxInfo) {
	for _, in := range info.Inputs {
		delete(idx.byOutpoint, in)
	}
}
