package externalapi

import (
	"crypto/sha256"
	"encoding/binary"
)

// computeTransactionHash double-sha256's a deterministic serialization of
// tx's inputs and outputs. Grounded on the teacher's
// domain/consensus/utils/hashserialization.TransactionID, which double-
// hashes a field-by-field encoding of the transaction; this module does not
// own the node's real wire format (spec.md §1 scopes deep transaction
// encoding out), so a minimal serialization over exactly the fields that
// must be content-addressed stands in for it.
func computeTransactionHash(tx *DomainTransaction) DomainHash {
	first := sha256.New()
	var buf [8]byte

	binary.LittleEndian.PutUint32(buf[:4], uint32(tx.Version))
	first.Write(buf[:4])

	for _, in := range tx.Inputs {
		first.Write(in.PreviousOutpoint.TransactionID[:])
		binary.LittleEndian.PutUint32(buf[:4], in.PreviousOutpoint.Index)
		first.Write(buf[:4])
		first.Write(in.SpecHash[:])
	}

	for _, out := range tx.Outputs {
		binary.LittleEndian.PutUint64(buf[:8], out.Value)
		first.Write(buf[:8])
		first.Write(out.RecipientSpecHash[:])
		binary.LittleEndian.PutUint32(buf[:4], out.TargetShard)
		first.Write(buf[:4])
	}

	binary.LittleEndian.PutUint64(buf[:8], tx.Fee)
	first.Write(buf[:8])
	first.Write(tx.Payload)

	sum := sha256.Sum256(first.Sum(nil))
	var h DomainHash
	copy(h[:], sum[:])
	return h
}
