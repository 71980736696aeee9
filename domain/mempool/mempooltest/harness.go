package mempooltest

import "github.com/daglabs/shardpool/domain/consensus/model/externalapi"

// SizeMassCalculator is a MassCalculator that reports a transaction's
// Payload length as its mass, letting a test dictate an exact SizeBytes by
// choosing BuildTx's sizeBytes argument instead of fighting the real
// overhead-based default.
func SizeMassCalculator(tx *externalapi.DomainTransaction) uint64 {
	return uint64(len(tx.Payload))
}

// Spend names one input to build into a transaction.
type Spend struct {
	Outpoint externalapi.DomainOutpoint
	SpecHash externalapi.ScriptPublicKeyHash
}

// Pay names one output to build into a transaction.
type Pay struct {
	Value    uint64
	SpecHash externalapi.ScriptPublicKeyHash
	Shard    uint32
}

// BuildTx constructs a DomainTransaction from the given spends and payments,
// with its Payload padded so that SizeMassCalculator reports exactly
// sizeBytes.
func BuildTx(spends []Spend, pays []Pay, fee uint64, sizeBytes uint64) *externalapi.DomainTransaction {
	inputs := make([]*externalapi.DomainTransactionInput, len(spends))
	for i, s := range spends {
		inputs[i] = &externalapi.DomainTransactionInput{PreviousOutpoint: s.Outpoint, SpecHash: s.SpecHash}
	}
	outputs := make([]*externalapi.DomainTransactionOutput, len(pays))
	for i, p := range pays {
		outputs[i] = &externalapi.DomainTransactionOutput{Value: p.Value, RecipientSpecHash: p.SpecHash, TargetShard: p.Shard}
	}
	return &externalapi.DomainTransaction{
		Version: 1,
		Inputs:  inputs,
		Outputs: outputs,
		Fee:     fee,
		Payload: make([]byte, sizeBytes),
	}
}

// Hash builds a DomainHash with its first byte set to b, a convenient way to
// get visually distinct, deterministic roots/addresses/IDs in tests.
func Hash(b byte) externalapi.DomainHash {
	var h externalapi.DomainHash
	h[0] = b
	return h
}

// TxID builds a DomainTransactionID with its first byte set to b.
func TxID(b byte) externalapi.DomainTransactionID {
	return externalapi.DomainTransactionID(Hash(b))
}

// SpecHash builds a ScriptPublicKeyHash with its first byte set to b.
func SpecHash(b byte) externalapi.ScriptPublicKeyHash {
	return externalapi.ScriptPublicKeyHash(Hash(b))
}
