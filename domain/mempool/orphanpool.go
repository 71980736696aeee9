package mempool

import (
	"time"

	"github.com/daglabs/shardpool/domain/consensus/model/externalapi"
	"github.com/daglabs/shardpool/util/mstime"
)

// orphanTx is a transaction shelved because ClusterBuilder reported
// ErrUnknownInput: at least one input references a transaction neither the
// UTXO trie nor known_txs has. Grounded directly on the teacher's orphanTx
// in domain/mempool/mempool.go, down to the TTL-based eviction policy.
type orphanTx struct {
	info       *TxInfo
	expiration mstime.Time
}

// orphanPool is the [ADD] 4.2b non-authoritative retry shelf described in
// SPEC_FULL.md. It never makes a transaction visible to known_txs/indices;
// it only remembers it long enough to retry admission once a plausible
// parent shows up.
type orphanPool struct {
	maxSize int
	ttl     time.Duration

	byTxID  map[externalapi.DomainTransactionID]*orphanTx
	byPrev  map[externalapi.DomainOutpoint]map[externalapi.DomainTransactionID]*TxInfo
	nextExpireScan mstime.Time
}

const orphanExpireScanInterval = 5 * time.Minute

func newOrphanPool(maxSize int, ttl time.Duration) *orphanPool {
	return &orphanPool{
		maxSize:        maxSize,
		ttl:            ttl,
		byTxID:         make(map[externalapi.DomainTransactionID]*orphanTx),
		byPrev:         make(map[externalapi.DomainOutpoint]map[externalapi.DomainTransactionID]*TxInfo),
		nextExpireScan: mstime.Now().Add(orphanExpireScanInterval),
	}
}

// maybeAdd shelves info if there is room, evicting expired entries first and
// a single arbitrary entry if still over capacity, exactly as the teacher's
// limitNumOrphans does.
func (p *orphanPool) maybeAdd(info *TxInfo) {
	if p.maxSize <= 0 {
		return
	}
	p.expireIfDue()

	if len(p.byTxID)+1 > p.maxSize {
		for id := range p.byTxID {
			p.remove(id)
			driverLog.Debugf("evicted orphan %s to make room (capacity %d)", id, p.maxSize)
			break
		}
	}

	otx := &orphanTx{info: info, expiration: mstime.Now().Add(p.ttl)}
	p.byTxID[info.ID()] = otx
	for _, in := range info.Inputs {
		set, ok := p.byPrev[in]
		if !ok {
			set = make(map[externalapi.DomainTransactionID]*TxInfo)
			p.byPrev[in] = set
		}
		set[info.ID()] = info
	}
}

func (p *orphanPool) remove(id externalapi.DomainTransactionID) {
	otx, ok := p.byTxID[id]
	if !ok {
		return
	}
	for _, in := range otx.info.Inputs {
		set, ok := p.byPrev[in]
		if !ok {
			continue
		}
		delete(set, id)
		if len(set) == 0 {
			delete(p.byPrev, in)
		}
	}
	delete(p.byTxID, id)
}

func (p *orphanPool) expireIfDue() {
	now := mstime.Now()
	if !now.After(p.nextExpireScan) {
		return
	}
	for id, otx := range p.byTxID {
		if now.After(otx.expiration) {
			p.remove(id)
		}
	}
	p.nextExpireScan = now.Add(orphanExpireScanInterval)
}

// candidatesSpending returns every shelved orphan that spends outpoint,
// called after a transaction with that outpoint as an output is admitted.
func (p *orphanPool) candidatesSpending(outpoint externalapi.DomainOutpoint) []*TxInfo {
	set, ok := p.byPrev[outpoint]
	if !ok {
		return nil
	}
	out := make([]*TxInfo, 0, len(set))
	for _, info := range set {
		out = append(out, info)
	}
	return out
}
