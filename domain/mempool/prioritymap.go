package mempool

import (
	"sort"

	"github.com/daglabs/shardpool/domain/consensus/model/externalapi"
)

// priorityEntry pairs a cluster with the fee density it was inserted under,
// so PriorityMap can be walked in descending-density order without
// recomputing densities.
type priorityEntry struct {
	density float64
	cluster *Cluster
}

// priorityMap is a sorted multimap from fee density to Cluster, tagged with
// the UTXO root it was computed against (spec.md §3). Ties are broken by
// each cluster's tiebreakNonce (a per-cluster UUID, per spec.md §9), giving
// a stable total order without a monotonic counter.
//
// Grounded on no single teacher file (the teacher picks block-candidate
// transactions by a simple feerate sort in mining.go rather than maintaining
// a standing sorted structure); this is the generalization spec.md's §4.5
// block-assembly walk requires, built the way the pack's sorted-container
// idioms elsewhere (e.g. blockdag's blockHeap) keep an explicit slice plus a
// rebuild-on-demand Sort rather than a balanced tree.
type priorityMap struct {
	builtForRoot externalapi.DomainHash
	entries      []priorityEntry
	sorted       bool
}

func newPriorityMap(root externalapi.DomainHash) *priorityMap {
	return &priorityMap{builtForRoot: root}
}

// insert adds cluster under its fee density.
func (pm *priorityMap) insert(cluster *Cluster) {
	pm.entries = append(pm.entries, priorityEntry{density: cluster.FeeDensity(), cluster: cluster})
	pm.sorted = false
}

// clear empties the map and retags it for a new root.
func (pm *priorityMap) clear(root externalapi.DomainHash) {
	pm.builtForRoot = root
	pm.entries = pm.entries[:0]
	pm.sorted = true
}

// ensureSorted sorts entries descending by density, breaking ties by
// tiebreakNonce so that repeated sorts of the same entry set are stable.
func (pm *priorityMap) ensureSorted() {
	if pm.sorted {
		return
	}
	sort.SliceStable(pm.entries, func(i, j int) bool {
		if pm.entries[i].density != pm.entries[j].density {
			return pm.entries[i].density > pm.entries[j].density
		}
		return pm.entries[i].cluster.tiebreakNonce < pm.entries[j].cluster.tiebreakNonce
	})
	pm.sorted = true
}

// clustersDescending returns a snapshot copy of the clusters, highest fee
// density first. Copying lets callers (assemble_block) iterate without
// holding the pool lock for the whole walk, per spec.md §5.
func (pm *priorityMap) clustersDescending() []*Cluster {
	pm.ensureSorted()
	out := make([]*Cluster, len(pm.entries))
	for i, e := range pm.entries {
		out[i] = e.cluster
	}
	return out
}

// clusterContaining returns the first cluster (in descending fee-density
// order) whose member set contains txID, per spec.md §4.6 cluster_for.
func (pm *priorityMap) clusterContaining(txID externalapi.DomainTransactionID) (*Cluster, bool) {
	pm.ensureSorted()
	for _, e := range pm.entries {
		if e.cluster.Contains(txID) {
			return e.cluster, true
		}
	}
	return nil, false
}
