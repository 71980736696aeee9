package mempool

import (
	"github.com/daglabs/shardpool/domain/consensus/model/externalapi"
	"github.com/daglabs/shardpool/util/mstime"
)

// TxInfo is the cached, decoded view of one transaction: everything the
// pool needs without re-walking the raw transaction on every query.
// Immutable after construction (spec.md §3).
type TxInfo struct {
	Tx                *externalapi.DomainTransaction
	Inputs            []externalapi.DomainOutpoint
	Outputs           []*externalapi.DomainTransactionOutput
	Fee               uint64
	SizeBytes         uint64
	InvolvedAddresses map[externalapi.ScriptPublicKeyHash]struct{}
	AddedAt           mstime.Time
}

// FeeDensity is fee per serialized byte, the pool's sole priority metric.
func (info *TxInfo) FeeDensity() float64 {
	if info.SizeBytes == 0 {
		return 0
	}
	return float64(info.Fee) / float64(info.SizeBytes)
}

// ID is a convenience accessor over the underlying transaction's ID.
func (info *TxInfo) ID() externalapi.DomainTransactionID {
	return info.Tx.ID()
}

// MassCalculator computes a transaction's serialized size, in the units
// fee density is measured against. Grounded on the teacher's
// blockdag.CalcTxMassFromUTXOSet: mass, not raw byte length, is the
// teacher's real fee-density denominator, since script-heavy inputs cost
// more to validate than their byte count suggests. A pluggable
// MassCalculator lets embedders reuse their own mass formula; the default
// below falls back to a byte-counting approximation appropriate when no
// richer cost model is wired in.
type MassCalculator func(tx *externalapi.DomainTransaction) uint64

// defaultMassCalculator approximates serialized size: a fixed per-input and
// per-output overhead, the way most UTXO wire formats charge for outpoint
// and script-hash fields.
func defaultMassCalculator(tx *externalapi.DomainTransaction) uint64 {
	const (
		baseOverhead  = 12
		inputOverhead = 41
		outputOverhead = 44
	)
	size := uint64(baseOverhead) + uint64(len(tx.Payload))
	size += uint64(len(tx.Inputs)) * inputOverhead
	size += uint64(len(tx.Outputs)) * outputOverhead
	return size
}

// newTxInfo decodes tx into a TxInfo. Fails with ErrMalformedTx if the
// transaction fails structural sanity (no inputs on a non-coinbase tx, no
// outputs, a zero-value output, or a duplicate input within the transaction
// itself).
// No I/O, per spec.md §4.1.
func newTxInfo(tx *externalapi.DomainTransaction, massCalc MassCalculator) (*TxInfo, error) {
	if massCalc == nil {
		massCalc = defaultMassCalculator
	}

	if !tx.IsCoinbase() && len(tx.Inputs) == 0 {
		return nil, ruleError(ErrMalformedTx, "transaction has no inputs")
	}
	if len(tx.Outputs) == 0 {
		return nil, ruleError(ErrMalformedTx, "transaction has no outputs")
	}

	seen := make(map[externalapi.DomainOutpoint]struct{}, len(tx.Inputs))
	inputs := make([]externalapi.DomainOutpoint, 0, len(tx.Inputs))
	addresses := make(map[externalapi.ScriptPublicKeyHash]struct{})

	for _, in := range tx.Inputs {
		if _, dup := seen[in.PreviousOutpoint]; dup {
			return nil, ruleError(ErrMalformedTx, "duplicate input outpoint within transaction")
		}
		seen[in.PreviousOutpoint] = struct{}{}
		inputs = append(inputs, in.PreviousOutpoint)
		addresses[in.SpecHash] = struct{}{}
	}

	for _, out := range tx.Outputs {
		if out.Value == 0 {
			return nil, ruleError(ErrMalformedTx, "transaction has a zero-value output")
		}
		addresses[out.RecipientSpecHash] = struct{}{}
	}

	return &TxInfo{
		Tx:                tx,
		Inputs:            inputs,
		Outputs:           tx.Outputs,
		Fee:               tx.Fee,
		SizeBytes:         massCalc(tx),
		InvolvedAddresses: addresses,
		AddedAt:           mstime.Now(),
	}, nil
}
