package mempooltest

import (
	"github.com/daglabs/shardpool/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
)

func errNotFound(op externalapi.DomainOutpoint) error {
	return errors.Errorf("input %s is not a known UTXO", op)
}

func errUncoveredShard(op externalapi.DomainOutpoint) error {
	return errors.Errorf("input %s belongs to an uncovered shard", op)
}

func errBalance(inputTotal, outputTotal, fee uint64) error {
	return errors.Errorf("input total %d does not match output total %d plus fee %d", inputTotal, outputTotal, fee)
}
