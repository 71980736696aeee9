package main

import "github.com/daglabs/shardpool/domain/consensus/model"

// staticChainState is a fixed ChainStateSource suitable for a single-process
// demo: one shard, one covered shard, a height that never advances.
type staticChainState struct {
	shardID uint32
	cover   map[uint32]struct{}
	height  uint64
	params  *model.NetworkParams
}

func newStaticChainState(shardID uint32, coveredShards []uint32) *staticChainState {
	cover := make(map[uint32]struct{}, len(coveredShards))
	for _, s := range coveredShards {
		cover[s] = struct{}{}
	}
	return &staticChainState{
		shardID: shardID,
		cover:   cover,
		height:  1,
		params: &model.NetworkParams{
			LowFee:                 1.0,
			LowFeeSizeInBlock:      16000,
			ActivationHeightShards: 0,
		},
	}
}

func (s *staticChainState) ShardID() uint32                    { return s.shardID }
func (s *staticChainState) ShardCoverSet() map[uint32]struct{}  { return s.cover }
func (s *staticChainState) Height() uint64                     { return s.height }
func (s *staticChainState) NetworkParams() *model.NetworkParams { return s.params }
