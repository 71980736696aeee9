package model

import "github.com/daglabs/shardpool/domain/consensus/model/externalapi"

// BlockHeader is the minimal synthesized next-block context ClusterBuilder's
// simulation step validates against (spec.md §4.2 step 4).
type BlockHeader struct {
	Height    uint64
	Version   int32
	Timestamp int64
}

// UTXOBuffer is a mutable, in-memory UTXO view ValidateDeep consumes inputs
// from and produces outputs into while simulating a cluster. It is always
// derived from a snapshot at one root and discarded after one ClusterBuilder
// run; nothing outside ClusterBuilder mutates it.
type UTXOBuffer interface {
	Get(outpoint externalapi.DomainOutpoint) (*externalapi.UTXOEntry, bool)
	Add(outpoint externalapi.DomainOutpoint, entry *externalapi.UTXOEntry)
	Remove(outpoint externalapi.DomainOutpoint)
}

// TransactionValidator is the external validation surface: cheap structural
// checks with no state (ValidateBasics), and the full consensus rule set
// against a simulated UTXO buffer (ValidateDeep). Both are out of scope per
// spec.md §1; the mempool only calls them.
type TransactionValidator interface {
	// ValidateBasics runs pure, stateless checks (well-formedness, sane
	// version, no duplicate inputs within the tx). No I/O.
	ValidateBasics(tx *externalapi.DomainTransaction) error

	// ValidateDeep checks tx against buffer as though it were the next
	// transaction appended to a block with the given header, consuming its
	// inputs and producing its outputs into buffer on success.
	ValidateDeep(tx *externalapi.DomainTransaction, buffer UTXOBuffer, header *BlockHeader,
		params *NetworkParams, shardCoverSet map[uint32]struct{}) error
}
