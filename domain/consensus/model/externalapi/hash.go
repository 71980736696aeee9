package externalapi

import "encoding/hex"

// DomainHashSize of array used to store hashes.
const DomainHashSize = 32

// DomainHash is the domain representation of a content hash: a transaction
// ID, a UTXO commitment root, or any other 32-byte digest this module deals
// in.
type DomainHash [DomainHashSize]byte

// String returns the hash as a hexadecimal string.
func (hash DomainHash) String() string {
	return hex.EncodeToString(hash[:])
}

// Clone clones the hash.
func (hash *DomainHash) Clone() *DomainHash {
	hashClone := *hash
	return &hashClone
}

// Equal returns whether hash equals other.
func (hash *DomainHash) Equal(other *DomainHash) bool {
	if hash == nil || other == nil {
		return hash == other
	}
	return *hash == *other
}

// Less gives DomainHash a total order, used to keep OutPoint sets
// deterministic.
func (hash DomainHash) Less(other DomainHash) bool {
	for i := range hash {
		if hash[i] != other[i] {
			return hash[i] < other[i]
		}
	}
	return false
}

// DomainTransactionID identifies a transaction by its content hash. It is a
// distinct type from DomainHash so a TxID can never be silently used where a
// UTXO-root hash was intended, or vice versa.
type DomainTransactionID DomainHash

// String returns the transaction ID as a hexadecimal string.
func (id DomainTransactionID) String() string {
	return DomainHash(id).String()
}

// Less gives DomainTransactionID a total order.
func (id DomainTransactionID) Less(other DomainTransactionID) bool {
	return DomainHash(id).Less(DomainHash(other))
}
