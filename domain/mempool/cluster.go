package mempool

import "github.com/daglabs/shardpool/domain/consensus/model/externalapi"

// Cluster is a dependency-closed, topologically ordered bundle of pool
// transactions that must commit together: every parent a member depends on
// either precedes it in Txs or is already confirmed at BuiltForRoot.
//
// Grounded on the teacher's notion of "depends"/depCount chains in
// domain/mempool/mempool.go, generalized from a single flat depCount into an
// explicit, reusable ordered sequence per spec.md §3/§4.2.
type Cluster struct {
	Txs         []*TxInfo
	BuiltForRoot externalapi.DomainHash

	totalSize uint64
	totalFee  uint64

	// tiebreakNonce orders clusters with equal fee density deterministically
	// but arbitrarily, per spec.md §9. Generated once at construction.
	tiebreakNonce string
}

// Contains reports whether txID is a member of this cluster.
func (c *Cluster) Contains(txID externalapi.DomainTransactionID) bool {
	for _, tx := range c.Txs {
		if tx.ID() == txID {
			return true
		}
	}
	return false
}

// TotalSize is the sum of member serialized sizes.
func (c *Cluster) TotalSize() uint64 { return c.totalSize }

// TotalFee is the sum of member fees.
func (c *Cluster) TotalFee() uint64 { return c.totalFee }

// FeeDensity is TotalFee/TotalSize, the priority metric clusters are ordered
// by.
func (c *Cluster) FeeDensity() float64 {
	if c.totalSize == 0 {
		return 0
	}
	return float64(c.totalFee) / float64(c.totalSize)
}

func newCluster(root externalapi.DomainHash, orderedTxs []*TxInfo, nonce string) *Cluster {
	c := &Cluster{
		Txs:          orderedTxs,
		BuiltForRoot: root,
		tiebreakNonce: nonce,
	}
	for _, tx := range orderedTxs {
		c.totalSize += tx.SizeBytes
		c.totalFee += tx.Fee
	}
	return c
}
