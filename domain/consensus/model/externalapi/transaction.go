package externalapi

import "fmt"

// ScriptPublicKeyHash is the spec-hash of an address: the domain-defined
// digest of a recipient or sender's locking script. Two outputs paying the
// same wallet carry the same ScriptPublicKeyHash.
type ScriptPublicKeyHash DomainHash

// String returns the hash as a hexadecimal string.
func (h ScriptPublicKeyHash) String() string {
	return DomainHash(h).String()
}

// DomainOutpoint identifies a single transaction output: the transaction
// that created it and its index within that transaction's output list.
type DomainOutpoint struct {
	TransactionID DomainTransactionID
	Index         uint32
}

// String returns the outpoint in "txid:index" form.
func (op DomainOutpoint) String() string {
	return fmt.Sprintf("%s:%d", op.TransactionID, op.Index)
}

// Less gives DomainOutpoint a total order: first by transaction ID, then by
// index. Used wherever spec.md requires deterministic iteration.
func (op DomainOutpoint) Less(other DomainOutpoint) bool {
	if op.TransactionID != other.TransactionID {
		return op.TransactionID.Less(other.TransactionID)
	}
	return op.Index < other.Index
}

// DomainTransactionInput is one spend within a transaction.
type DomainTransactionInput struct {
	PreviousOutpoint DomainOutpoint

	// SpecHash is the spending address's spec-hash, committed to by the
	// input itself (e.g. derived from its signature script's public key).
	// It is known without any UTXO lookup, which is what lets
	// involved_addresses include senders as well as recipients
	// (spec.md §9, "Address set includes input spec_hash").
	SpecHash ScriptPublicKeyHash

	// UTXOEntry is an optional slot for the resolved spent output. Nothing
	// in this module sets it: cluster construction and deep validation
	// resolve spent outputs through the UTXO buffer instead, so it stays nil
	// unless the caller fills it.
	UTXOEntry *UTXOEntry
}

// DomainTransactionOutput is one newly created coin.
type DomainTransactionOutput struct {
	Value               uint64
	RecipientSpecHash   ScriptPublicKeyHash
	TargetShard         uint32
}

// DomainTransaction is the decoded body of a transaction, together with the
// fee the sender claims to be paying. Fee is supplied by the transaction
// itself (spec.md §3): the mempool never independently sums input/output
// values to second-guess it, deep validation does that.
type DomainTransaction struct {
	Version  int32
	Inputs   []*DomainTransactionInput
	Outputs  []*DomainTransactionOutput
	Fee      uint64
	Payload  []byte

	// id caches the content hash once computed; it is populated by ID() or,
	// in tests, forced by SetIDForTest.
	id *DomainTransactionID
}

// ID returns the transaction's content hash, computing and caching it on
// first use. The hash is a domain-defined chain hash over the serialized
// transaction; this module only needs it to be stable and collision-free,
// so a cheap deterministic scheme over serialized fields is sufficient here.
func (tx *DomainTransaction) ID() DomainTransactionID {
	if tx.id != nil {
		return *tx.id
	}
	id := DomainTransactionID(computeTransactionHash(tx))
	tx.id = &id
	return id
}

// SetIDForTest forces the cached transaction ID, letting tests construct
// transactions with known, human-readable IDs instead of content hashes.
func (tx *DomainTransaction) SetIDForTest(id DomainTransactionID) {
	tx.id = &id
}

// IsCoinbase reports whether tx is a coinbase transaction: one with no
// inputs, by convention the reward-minting transaction a block producer
// appends outside of mempool control.
func (tx *DomainTransaction) IsCoinbase() bool {
	return len(tx.Inputs) == 0
}
