package main

import (
	"github.com/daglabs/shardpool/domain/consensus/model"
	"github.com/daglabs/shardpool/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
)

// demoValidator is a minimal model.TransactionValidator: it checks that
// every input resolves to a UTXO, that inputs exactly equal outputs plus the
// declared fee, and that every referenced output's shard is covered. Real
// script/signature verification, sequence locks and consensus rules are out
// of scope here, as they are for the mempool itself.
type demoValidator struct{}

func (demoValidator) ValidateBasics(tx *externalapi.DomainTransaction) error {
	if tx.Version < 0 {
		return errors.New("negative transaction version")
	}
	return nil
}

func (demoValidator) ValidateDeep(tx *externalapi.DomainTransaction, buffer model.UTXOBuffer,
	header *model.BlockHeader, params *model.NetworkParams, shardCoverSet map[uint32]struct{}) error {

	var inputTotal uint64
	for _, in := range tx.Inputs {
		entry, ok := buffer.Get(in.PreviousOutpoint)
		if !ok {
			return errors.Errorf("input %s:%d is not a known UTXO", in.PreviousOutpoint.TransactionID, in.PreviousOutpoint.Index)
		}
		if _, covered := shardCoverSet[entry.TargetShard]; !covered {
			return errors.Errorf("input %s:%d belongs to an uncovered shard", in.PreviousOutpoint.TransactionID, in.PreviousOutpoint.Index)
		}
		inputTotal += entry.Amount
		buffer.Remove(in.PreviousOutpoint)
	}

	var outputTotal uint64
	for _, out := range tx.Outputs {
		outputTotal += out.Value
	}

	if !tx.IsCoinbase() && inputTotal != outputTotal+tx.Fee {
		return errors.Errorf("input total %d does not match output total %d plus fee %d", inputTotal, outputTotal, tx.Fee)
	}

	txID := tx.ID()
	for i, out := range tx.Outputs {
		outpoint := externalapi.DomainOutpoint{TransactionID: txID, Index: uint32(i)}
		buffer.Add(outpoint, externalapi.NewUTXOEntry(out.Value, out.RecipientSpecHash, out.TargetShard, tx.IsCoinbase(), header.Height))
	}

	return nil
}
