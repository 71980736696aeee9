package model

import "github.com/daglabs/shardpool/domain/consensus/model/externalapi"

// Peerage is the broadcast surface GossipDriver hands sampled transactions
// to. A nil Peerage makes gossip a no-op (spec.md §6).
type Peerage interface {
	Broadcast(tx *externalapi.DomainTransaction)
}
