// Command shardpoold is a minimal demo binary: it wires an in-memory UTXO
// trie and a fixed chain state to a mempool.MemPool, seeds one spendable
// UTXO, admits a transaction spending it, and prints the resulting pool and
// an assembled block candidate. It exists to show the pieces connected end
// to end, not as a production node.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/btcsuite/btclog"
	"github.com/daglabs/shardpool/domain/consensus/model/externalapi"
	"github.com/daglabs/shardpool/domain/mempool"
	"github.com/daglabs/shardpool/logs"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "shardpoold: %s\n", err)
		os.Exit(1)
	}
}

func run() error {
	logs.SetLogLevel(logs.SubsystemTags.MEMP, btclog.LevelDebug)
	logs.SetLogLevel(logs.SubsystemTags.CLST, btclog.LevelDebug)
	logs.SetLogLevel(logs.SubsystemTags.DRVR, btclog.LevelInfo)

	genesisRoot := externalapi.DomainHash{0x01}
	trie := newMemTrie(genesisRoot)
	chainState := newStaticChainState(0, []uint32{0})

	var fundingTxID externalapi.DomainTransactionID
	fundingTxID[0] = 0xaa
	fundingOutpoint := externalapi.DomainOutpoint{TransactionID: fundingTxID, Index: 0}

	var payerAddr, payeeAddr externalapi.ScriptPublicKeyHash
	payerAddr[0] = 0x10
	payeeAddr[0] = 0x20

	fundingEntry := externalapi.NewUTXOEntry(100000, payerAddr, 0, false, 0)
	trie.seed(mempool.UTXOKey(fundingOutpoint), mempool.EncodeUTXOEntry(fundingEntry))

	pool := mempool.New(mempool.Config{
		ChainState: chainState,
		UtxoTrie:   trie,
		Validator:  demoValidator{},
	})

	pool.AddListener(func(tx *externalapi.DomainTransaction, addrs []externalapi.ScriptPublicKeyHash) {
		fmt.Printf("listener: admitted %s touching %d addresses\n", tx.ID(), len(addrs))
	})

	spend := &externalapi.DomainTransaction{
		Version: 1,
		Inputs: []*externalapi.DomainTransactionInput{
			{PreviousOutpoint: fundingOutpoint, SpecHash: payerAddr},
		},
		Outputs: []*externalapi.DomainTransactionOutput{
			{Value: 99000, RecipientSpecHash: payeeAddr, TargetShard: 0},
		},
		Fee: 1000,
	}

	pool.RebuildPriorityMap(genesisRoot)

	accepted, err := pool.Admit(spend, false)
	if err != nil {
		return fmt.Errorf("admitting spend transaction: %w", err)
	}
	fmt.Printf("admitted: %v, pool size: %d\n", accepted, pool.PoolSize())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pool.Run(ctx)

	block := pool.AssembleBlock(genesisRoot, 1<<20)
	fmt.Printf("assembled block with %d transactions\n", len(block))

	return nil
}
