package mempool

import (
	"sort"
	"time"

	"github.com/daglabs/shardpool/domain/consensus/model"
	"github.com/daglabs/shardpool/domain/consensus/model/externalapi"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// clusterBuilder walks a target transaction's unconfirmed ancestry, orders
// it topologically, and deep-validates the resulting sequence against a
// simulated UTXO buffer. Grounded on spec.md §4.2; there is no single direct
// analogue in the teacher (its depCount bookkeeping is incremental, not
// rebuilt per admit), so the walk itself follows the teacher's general
// idiom of iterative, explicit-stack graph walks (blockdag/ghostdag.go,
// domain/consensus/processes/dagtraversalmanager avoid recursion on long
// chains the same way) rather than the teacher's flatter depCount scheme.
type clusterBuilder struct {
	utxoTrie   model.UtxoTrieReader
	validator  model.TransactionValidator
	chainState model.ChainStateSource
	knownTxs   func(externalapi.DomainTransactionID) (*TxInfo, bool)
}

func newClusterBuilder(cfg Config, knownTxs func(externalapi.DomainTransactionID) (*TxInfo, bool)) *clusterBuilder {
	return &clusterBuilder{
		utxoTrie:   cfg.UtxoTrie,
		validator:  cfg.Validator,
		chainState: cfg.ChainState,
		knownTxs:   knownTxs,
	}
}

// build produces target's Cluster at root, per spec.md §4.2 steps 1–5.
func (b *clusterBuilder) build(root externalapi.DomainHash, target *TxInfo) (*Cluster, error) {
	working := map[externalapi.DomainTransactionID]*TxInfo{target.ID(): target}
	// parentsOf[child] = set of parent tx IDs the child depends on, for the
	// topological sort in step 3.
	parentsOf := map[externalapi.DomainTransactionID]map[externalapi.DomainTransactionID]struct{}{}

	type pendingInput struct {
		consumer externalapi.DomainTransactionID
		outpoint externalapi.DomainOutpoint
	}
	queue := make([]pendingInput, 0, len(target.Inputs))
	for _, in := range target.Inputs {
		queue = append(queue, pendingInput{consumer: target.ID(), outpoint: in})
	}

	shardCover := b.chainState.ShardCoverSet()

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		srcTxID := item.outpoint.TransactionID
		if _, already := working[srcTxID]; already {
			addParentEdge(parentsOf, item.consumer, srcTxID)
			continue
		}

		if _, found := b.utxoTrie.Lookup(root, UTXOKey(item.outpoint)); found {
			// Satisfied by confirmed chain state; no dependency edge needed.
			continue
		}

		parentInfo, isKnown := b.knownTxs(srcTxID)
		if !isKnown {
			return nil, ruleErrorWithTx(ErrUnknownInput, "input references unknown or fully-spent output", txIDStringer(srcTxID))
		}

		parentOut := outputAt(parentInfo, item.outpoint.Index)
		if parentOut != nil {
			if _, covered := shardCover[parentOut.TargetShard]; !covered {
				return nil, ruleErrorWithTx(ErrCrossShardDependency,
					"ancestor output belongs to a shard this node does not cover", txIDStringer(srcTxID))
			}
		}

		working[srcTxID] = parentInfo
		addParentEdge(parentsOf, item.consumer, srcTxID)
		for _, grandparentIn := range parentInfo.Inputs {
			queue = append(queue, pendingInput{consumer: srcTxID, outpoint: grandparentIn})
		}
	}

	ordered := topologicalOrder(target.ID(), working, parentsOf)

	if err := b.simulate(root, ordered); err != nil {
		clusterLog.Warnf("cluster build for %s at root %s failed: %s", target.ID(), root, err)
		return nil, err
	}

	clusterLog.Debugf("built cluster for %s: %d member(s) at root %s", target.ID(), len(ordered), root)
	return newCluster(root, ordered, uuid.NewString()), nil
}

func addParentEdge(parentsOf map[externalapi.DomainTransactionID]map[externalapi.DomainTransactionID]struct{},
	child, parent externalapi.DomainTransactionID) {

	set, ok := parentsOf[child]
	if !ok {
		set = make(map[externalapi.DomainTransactionID]struct{})
		parentsOf[child] = set
	}
	set[parent] = struct{}{}
}

func outputAt(info *TxInfo, index uint32) *externalapi.DomainTransactionOutput {
	if int(index) >= len(info.Outputs) {
		return nil
	}
	return info.Outputs[index]
}

// topologicalOrder assigns each tx the most negative level reached by a
// reverse walk from target (target is level 0, its parents -1, and so on),
// then sorts ascending by level so every dependency precedes its
// dependents and target comes last. Implemented iteratively with an
// explicit stack, per spec.md §9, to avoid deep recursion on long chains.
func topologicalOrder(target externalapi.DomainTransactionID,
	working map[externalapi.DomainTransactionID]*TxInfo,
	parentsOf map[externalapi.DomainTransactionID]map[externalapi.DomainTransactionID]struct{}) []*TxInfo {

	level := map[externalapi.DomainTransactionID]int{target: 0}
	type frame struct {
		id  externalapi.DomainTransactionID
		lvl int
	}
	stack := []frame{{id: target, lvl: 0}}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for parent := range parentsOf[top.id] {
			nextLvl := top.lvl - 1
			// A cycle is consensus-impossible (an output must predate every
			// spend of it); this guard only stops a defensive implementation
			// bug from looping forever, per spec.md §4.2 edge cases.
			if existing, seen := level[parent]; seen && existing <= nextLvl {
				continue
			}
			level[parent] = nextLvl
			stack = append(stack, frame{id: parent, lvl: nextLvl})
		}
	}

	ids := make([]externalapi.DomainTransactionID, 0, len(working))
	for id := range working {
		ids = append(ids, id)
	}
	// Ascending by level (most negative first), stable tie-break on ID for
	// determinism (spec.md §8 property 5).
	sortByLevelThenID(ids, level)

	ordered := make([]*TxInfo, len(ids))
	for i, id := range ids {
		ordered[i] = working[id]
	}
	return ordered
}

func sortByLevelThenID(ids []externalapi.DomainTransactionID, level map[externalapi.DomainTransactionID]int) {
	sort.Slice(ids, func(i, j int) bool {
		li, lj := level[ids[i]], level[ids[j]]
		if li != lj {
			return li < lj
		}
		return ids[i].Less(ids[j])
	})
}

// simulate runs deep validation over ordered against a fresh buffer
// snapshotted at root, per spec.md §4.2 step 4.
func (b *clusterBuilder) simulate(root externalapi.DomainHash, ordered []*TxInfo) error {
	buffer := newSimUTXOBuffer(func(op externalapi.DomainOutpoint) (*externalapi.UTXOEntry, bool) {
		data, ok := b.utxoTrie.Lookup(root, UTXOKey(op))
		if !ok {
			return nil, false
		}
		return DecodeUTXOEntry(data)
	})

	height := b.chainState.Height() + 1
	params := b.chainState.NetworkParams()
	header := &model.BlockHeader{
		Height:    height,
		Version:   params.BlockVersionAt(height),
		Timestamp: time.Now().Unix(),
	}
	shardCover := b.chainState.ShardCoverSet()

	for _, tx := range ordered {
		err := b.validator.ValidateDeep(tx.Tx, buffer, header, params, shardCover)
		if err != nil {
			return &RuleError{Kind: ErrInvalidCluster, Description: errors.Wrap(err, "deep validation failed").Error()}
		}
	}
	return nil
}

type txIDStringValue struct {
	id externalapi.DomainTransactionID
}

func (v txIDStringValue) String() string { return v.id.String() }

func txIDStringer(id externalapi.DomainTransactionID) txIDStringValue {
	return txIDStringValue{id: id}
}
