package mempool

import (
	"time"

	"github.com/daglabs/shardpool/domain/consensus/model"
	"github.com/daglabs/shardpool/domain/consensus/model/externalapi"
	"github.com/daglabs/shardpool/util/mstime"
)

// gossipDriver implements spec.md §4.8: on every period, sample one random
// pool transaction and, unless it was handed to the peer layer recently,
// broadcast it and remember having done so. Grounded on the teacher's own
// rebroadcast loop in mempool.go (TxPool periodically re-announces its own
// transactions), generalized to the spec's sample-one/seen-cache design.
type gossipDriver struct {
	mp       *MemPool
	peerage  model.Peerage
	period   time.Duration
	cacheTTL time.Duration
	cacheCap int

	seen map[externalapi.DomainTransactionID]mstime.Time
}

func (d *gossipDriver) tick() {
	if d.peerage == nil {
		return
	}
	info, ok := d.mp.RandomPoolTx()
	if !ok {
		return
	}

	d.expireSeen()

	txID := info.ID()
	if _, seen := d.seen[txID]; seen {
		return
	}

	if len(d.seen) >= d.cacheCap {
		d.evictOneSeen()
	}

	d.peerage.Broadcast(info.Tx)
	if d.seen == nil {
		d.seen = make(map[externalapi.DomainTransactionID]mstime.Time)
	}
	d.seen[txID] = mstime.Now()
	driverLog.Debugf("gossiped transaction %s", txID)
}

func (d *gossipDriver) expireSeen() {
	if len(d.seen) == 0 {
		return
	}
	now := mstime.Now()
	for id, seenAt := range d.seen {
		if now.Sub(seenAt) >= d.cacheTTL {
			delete(d.seen, id)
		}
	}
}

// evictOneSeen drops an arbitrary entry to make room, the same bounded
// eviction policy orphanPool uses for its own capacity cap.
func (d *gossipDriver) evictOneSeen() {
	for id := range d.seen {
		delete(d.seen, id)
		return
	}
}
