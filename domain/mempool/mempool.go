// Package mempool implements the transaction mempool of a sharded UTXO
// node: admission, double-spend rejection, dependency-cluster construction,
// fee-density priority ordering, and size-bounded block-candidate assembly.
//
// Grounded on the teacher's domain/mempool.TxPool (daglabs-btcd), carrying
// over its single-mutex concurrency discipline and its "everything is
// rebuilt from known_txs on tip change" garbage-collection strategy, but
// replacing the teacher's flat depCount chains with spec.md's explicit
// Cluster/PriorityMap components.
package mempool

import (
	"context"
	"sync"

	"github.com/daglabs/shardpool/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
)

// Listener is notified of every successful admission. Called under the pool
// lock (spec.md §9, "Re-entrancy of listeners"): implementations must defer
// their own work (enqueue, then return) rather than re-entering the pool.
type Listener func(tx *externalapi.DomainTransaction, involvedAddresses []externalapi.ScriptPublicKeyHash)

// MemPool is the pool-wide state machine described by spec.md §3–§4. All
// mutation and all reads of knownTxs, addressIdx, doubleSpendIdx,
// priorityMap and builtForRoot go through mtx.
type MemPool struct {
	cfg Config

	mtx sync.RWMutex

	knownTxs map[externalapi.DomainTransactionID]*TxInfo
	doubleSpendIdx *doubleSpendIndex
	addressIdx     *addressIndex
	priorityMap    *priorityMap
	builtForRoot   *externalapi.DomainHash // nil until the first rebuild

	orphans *orphanPool
	builder *clusterBuilder

	listeners []Listener

	tickleHash   *externalapi.DomainHash
	tickleHashMu sync.Mutex
}

// New constructs a MemPool. cfg.ChainState, cfg.UtxoTrie and cfg.Validator
// must be non-nil; cfg.Peerage may be nil (gossip becomes a no-op).
func New(cfg Config) *MemPool {
	cfg = cfg.withDefaults()
	mp := &MemPool{
		cfg:            cfg,
		knownTxs:       make(map[externalapi.DomainTransactionID]*TxInfo),
		doubleSpendIdx: newDoubleSpendIndex(),
		addressIdx:     newAddressIndex(),
		priorityMap:    newPriorityMap(externalapi.DomainHash{}),
		orphans:        newOrphanPool(cfg.OrphanPoolSize, cfg.OrphanTTL),
	}
	mp.builder = newClusterBuilder(cfg, mp.lookupKnownTxLocked)
	return mp
}

func (mp *MemPool) lookupKnownTxLocked(id externalapi.DomainTransactionID) (*TxInfo, bool) {
	info, ok := mp.knownTxs[id]
	return info, ok
}

// AddListener registers a listener, invoked under the pool lock on every
// successful Admit.
func (mp *MemPool) AddListener(l Listener) {
	mp.mtx.Lock()
	defer mp.mtx.Unlock()
	mp.listeners = append(mp.listeners, l)
}

// Admit implements spec.md §4.3. It returns (true, nil) on success,
// (false, nil) for a harmless duplicate or for a P2P transaction while
// AcceptsP2PTx is off, and (false, err) for any other rejection.
func (mp *MemPool) Admit(tx *externalapi.DomainTransaction, fromP2P bool) (bool, error) {
	if err := mp.cfg.Validator.ValidateBasics(tx); err != nil {
		return false, errors.Wrap(err, "basic validation failed")
	}

	mp.mtx.Lock()
	defer mp.mtx.Unlock()

	return mp.admitLocked(tx, fromP2P)
}

// AdmitFromPeer is Admit's P2P entry point: it consults the configured
// PeerLimiter before validate_basics runs, mirroring the teacher's
// pre-lock/post-lock policy split (spec.md §3.3; [ADD] 4.9). peerKey
// identifies the submitting peer (its address or connection ID).
func (mp *MemPool) AdmitFromPeer(tx *externalapi.DomainTransaction, peerKey string) (bool, error) {
	if mp.cfg.PeerLimiter != nil && !mp.cfg.PeerLimiter.Allow(peerKey) {
		return false, ruleError(ErrRateLimited, "peer "+peerKey+" exceeded its admission rate")
	}
	return mp.Admit(tx, true)
}

func (mp *MemPool) admitLocked(tx *externalapi.DomainTransaction, fromP2P bool) (bool, error) {
	if fromP2P && !mp.cfg.AcceptsP2PTx {
		return false, nil
	}

	txID := tx.ID()
	if _, exists := mp.knownTxs[txID]; exists {
		return false, nil
	}

	if len(mp.knownTxs) >= mp.cfg.MaxPoolSize {
		return false, ruleError(ErrPoolFull, "mempool is at capacity")
	}

	info, err := newTxInfo(tx, mp.cfg.MassCalculator)
	if err != nil {
		return false, err
	}

	lowFee := mp.cfg.ChainState.NetworkParams().LowFee
	isLowFee := info.FeeDensity() < lowFee
	if isLowFee && len(mp.knownTxs) >= mp.cfg.MaxLowFeePoolSize {
		return false, ruleError(ErrPoolFullLowFee, "low fee-density pool is at capacity")
	}

	for _, in := range info.Inputs {
		if claimant, claimed := mp.doubleSpendIdx.claimant(in); claimed && claimant != txID {
			return false, ruleErrorWithTx(ErrDoubleSpend, "output already claimed by another pool transaction", txIDStringer(claimant))
		}
	}

	var cluster *Cluster
	if mp.builtForRoot != nil {
		cluster, err = mp.builder.build(*mp.builtForRoot, info)
		if err != nil {
			if IsRuleErrorKind(err, ErrUnknownInput) {
				mp.orphans.maybeAdd(info)
			}
			return false, err
		}
	}

	mp.installLocked(info, cluster)
	mp.replayOrphansLocked(info)

	return true, nil
}

// installLocked makes info authoritative: known_txs, both indices, and
// (when present) the priority map all gain entries, and listeners fire.
func (mp *MemPool) installLocked(info *TxInfo, cluster *Cluster) {
	mp.knownTxs[info.ID()] = info
	mp.addressIdx.add(info)
	mp.doubleSpendIdx.claim(info)
	if cluster != nil {
		mp.priorityMap.insert(cluster)
	}

	addrs := make([]externalapi.ScriptPublicKeyHash, 0, len(info.InvolvedAddresses))
	for a := range info.InvolvedAddresses {
		addrs = append(addrs, a)
	}
	for _, l := range mp.listeners {
		l(info.Tx, addrs)
	}

	log.Debugf("accepted transaction %s (pool size: %d)", info.ID(), len(mp.knownTxs))
}

// replayOrphansLocked retries every shelved orphan that spends one of
// newlyAdmitted's outputs, recursively, per the [ADD] 4.2b orphan shelf.
func (mp *MemPool) replayOrphansLocked(newlyAdmitted *TxInfo) {
	txID := newlyAdmitted.ID()
	for idx := range newlyAdmitted.Outputs {
		outpoint := externalapi.DomainOutpoint{TransactionID: txID, Index: uint32(idx)}
		for _, candidate := range mp.orphans.candidatesSpending(outpoint) {
			mp.orphans.remove(candidate.ID())
			accepted, err := mp.admitLocked(candidate.Tx, false)
			if err != nil || !accepted {
				continue
			}
			mp.replayOrphansLocked(candidate)
		}
	}
}

// RebuildPriorityMap implements spec.md §4.4: the garbage-collection pass
// run whenever the chain tip advances.
func (mp *MemPool) RebuildPriorityMap(newRoot externalapi.DomainHash) {
	mp.mtx.Lock()
	defer mp.mtx.Unlock()
	mp.rebuildPriorityMapLocked(newRoot)
}

func (mp *MemPool) rebuildPriorityMapLocked(newRoot externalapi.DomainHash) {
	mp.builtForRoot = &newRoot
	mp.priorityMap.clear(newRoot)

	// Snapshot iteration per spec.md §4.4 step 2: removals below must not
	// perturb the in-flight range over knownTxs.
	snapshot := make([]*TxInfo, 0, len(mp.knownTxs))
	for _, info := range mp.knownTxs {
		snapshot = append(snapshot, info)
	}

	var toRemove []*TxInfo
	for _, info := range snapshot {
		cluster, err := mp.builder.build(newRoot, info)
		if err != nil {
			toRemove = append(toRemove, info)
			continue
		}
		mp.priorityMap.insert(cluster)
	}

	for _, info := range toRemove {
		delete(mp.knownTxs, info.ID())
		mp.addressIdx.remove(info)
		mp.doubleSpendIdx.release(info)
	}

	if len(toRemove) > 0 {
		log.Debugf("rebuild at root %s purged %d transactions", newRoot, len(toRemove))
	}
}

// AssembleBlock implements spec.md §4.5.
func (mp *MemPool) AssembleBlock(utxoRoot externalapi.DomainHash, maxBytes uint64) []*externalapi.DomainTransaction {
	mp.mtx.Lock()
	if mp.builtForRoot == nil || *mp.builtForRoot != utxoRoot {
		mp.rebuildPriorityMapLocked(utxoRoot)
	}
	clusters := mp.priorityMap.clustersDescending()
	lowFee := mp.cfg.ChainState.NetworkParams().LowFee
	lowFeeMax := mp.cfg.ChainState.NetworkParams().LowFeeSizeInBlock
	mp.mtx.Unlock()

	var (
		result          []*externalapi.DomainTransaction
		emitted         = make(map[externalapi.DomainTransactionID]struct{})
		cumulativeSize  uint64
		lowFeeBytesUsed uint64
	)

	for _, cluster := range clusters {
		if cumulativeSize+cluster.TotalSize() > maxBytes {
			continue
		}
		isLowFee := cluster.FeeDensity() < lowFee
		if isLowFee && lowFeeBytesUsed >= lowFeeMax {
			continue
		}

		for _, member := range cluster.Txs {
			if _, already := emitted[member.ID()]; already {
				continue
			}
			emitted[member.ID()] = struct{}{}
			result = append(result, member.Tx)
			cumulativeSize += member.SizeBytes
			if isLowFee {
				lowFeeBytesUsed += member.SizeBytes
			}
		}
	}

	return result
}

// GetTransaction implements spec.md §4.6.
func (mp *MemPool) GetTransaction(txID externalapi.DomainTransactionID) (*externalapi.DomainTransaction, bool) {
	mp.mtx.RLock()
	defer mp.mtx.RUnlock()
	info, ok := mp.knownTxs[txID]
	if !ok {
		return nil, false
	}
	return info.Tx, true
}

// PoolSize implements spec.md §4.6.
func (mp *MemPool) PoolSize() int {
	mp.mtx.RLock()
	defer mp.mtx.RUnlock()
	return len(mp.knownTxs)
}

// PoolHashes implements spec.md §4.6.
func (mp *MemPool) PoolHashes() []externalapi.DomainTransactionID {
	mp.mtx.RLock()
	defer mp.mtx.RUnlock()
	ids := make([]externalapi.DomainTransactionID, 0, len(mp.knownTxs))
	for id := range mp.knownTxs {
		ids = append(ids, id)
	}
	return ids
}

// TransactionsForAddress implements spec.md §4.6.
func (mp *MemPool) TransactionsForAddress(addr externalapi.ScriptPublicKeyHash) map[externalapi.DomainTransactionID]struct{} {
	mp.mtx.RLock()
	defer mp.mtx.RUnlock()
	return mp.addressIdx.transactionsFor(addr)
}

// ClusterFor implements spec.md §4.6.
func (mp *MemPool) ClusterFor(txID externalapi.DomainTransactionID) ([]*externalapi.DomainTransaction, bool) {
	// Exclusive lock: clusterContaining may re-sort the priority map.
	mp.mtx.Lock()
	defer mp.mtx.Unlock()
	cluster, ok := mp.priorityMap.clusterContaining(txID)
	if !ok {
		return nil, false
	}
	out := make([]*externalapi.DomainTransaction, len(cluster.Txs))
	for i, info := range cluster.Txs {
		out[i] = info.Tx
	}
	return out, true
}

// RandomPoolTx implements spec.md §4.6, used by GossipDriver. Go's map
// iteration order is randomized per run, so the first entry of a fresh
// range is as good a sample as an explicit RNG draw over a slice.
func (mp *MemPool) RandomPoolTx() (*TxInfo, bool) {
	mp.mtx.RLock()
	defer mp.mtx.RUnlock()
	for _, info := range mp.knownTxs {
		return info, true
	}
	return nil, false
}

// OnNewTip notifies the mempool of a new chain tip (spec.md §4.7 contract
// point). It only records newRoot as the pending root, without taking the
// pool lock; TipDriver picks it up on its next tick and rebuilds the
// priority map from its own goroutine.
func (mp *MemPool) OnNewTip(newRoot externalapi.DomainHash) {
	mp.tickleHashMu.Lock()
	defer mp.tickleHashMu.Unlock()
	mp.tickleHash = &newRoot
}

// Run starts the background TipDriver and GossipDriver, both stopped when
// ctx is cancelled. Grounded on the teacher's util/panics.GoroutineWrapperFunc:
// each driver runs inside a panic-recovering wrapper so a single bad pass
// logs and continues rather than taking the process down (spec.md §7,
// "Background drivers swallow per-pass exceptions").
func (mp *MemPool) Run(ctx context.Context) {
	td := &tipDriver{mp: mp, period: mp.cfg.TipDriverPeriod}
	gd := &gossipDriver{
		mp:       mp,
		peerage:  mp.cfg.Peerage,
		period:   mp.cfg.GossipDriverPeriod,
		cacheTTL: mp.cfg.GossipCacheTTL,
		cacheCap: mp.cfg.GossipCacheSize,
	}
	go runDriver(ctx, "tip", td.period, td.tick)
	go runDriver(ctx, "gossip", gd.period, gd.tick)
}
