package mempool_test

import (
	"math/rand"
	"testing"

	"github.com/daglabs/shardpool/domain/consensus/model/externalapi"
	"github.com/daglabs/shardpool/domain/mempool"
	"github.com/daglabs/shardpool/domain/mempool/mempooltest"
)

func newTestPool(trie *mempooltest.FakeTrie, chainState *mempooltest.FakeChainState) *mempool.MemPool {
	return mempool.New(mempool.Config{
		ChainState:     chainState,
		UtxoTrie:       trie,
		Validator:      mempooltest.FakeValidator{},
		MassCalculator: mempooltest.SizeMassCalculator,
	})
}

// TestScenario_S1SingleTxAdmission mirrors spec.md's S1: a single transaction
// spending a confirmed UTXO is admitted, forms its own one-member cluster,
// and is returned whole by assemble_block.
func TestScenario_S1SingleTxAdmission(t *testing.T) {
	trie := mempooltest.NewFakeTrie()
	chainState := mempooltest.NewFakeChainState()
	pool := newTestPool(trie, chainState)

	root := mempooltest.Hash(0x01)
	fundingOutpoint := externalapi.DomainOutpoint{TransactionID: mempooltest.TxID(0xf0), Index: 0}
	payer := mempooltest.SpecHash(0x10)
	recipient := mempooltest.SpecHash(0x20)

	trie.Seed(root, fundingOutpoint, externalapi.NewUTXOEntry(100, payer, 0, false, 0))

	txA := mempooltest.BuildTx(
		[]mempooltest.Spend{{Outpoint: fundingOutpoint, SpecHash: payer}},
		[]mempooltest.Pay{{Value: 95, SpecHash: recipient, Shard: 0}},
		5, 100,
	)

	pool.RebuildPriorityMap(root)

	accepted, err := pool.Admit(txA, false)
	if err != nil || !accepted {
		t.Fatalf("Admit(A) = %v, %v; want true, nil", accepted, err)
	}
	if pool.PoolSize() != 1 {
		t.Fatalf("PoolSize() = %d; want 1", pool.PoolSize())
	}

	block := pool.AssembleBlock(root, 1000)
	if len(block) != 1 || block[0].ID() != txA.ID() {
		t.Fatalf("AssembleBlock() = %v; want [A]", block)
	}
}

// TestScenario_S2ChildPaysForParent mirrors spec.md's S2: a low fee-density
// parent is carried into a block by a high fee-density child sharing its
// cluster, even though the parent alone sits below LOW_FEE.
func TestScenario_S2ChildPaysForParent(t *testing.T) {
	trie := mempooltest.NewFakeTrie()
	chainState := mempooltest.NewFakeChainState()
	pool := newTestPool(trie, chainState)

	root := mempooltest.Hash(0x02)
	fundingOutpoint := externalapi.DomainOutpoint{TransactionID: mempooltest.TxID(0xf1), Index: 0}
	payer := mempooltest.SpecHash(0x11)
	mid := mempooltest.SpecHash(0x21)
	recipient := mempooltest.SpecHash(0x31)

	trie.Seed(root, fundingOutpoint, externalapi.NewUTXOEntry(1000, payer, 0, false, 0))

	txA := mempooltest.BuildTx(
		[]mempooltest.Spend{{Outpoint: fundingOutpoint, SpecHash: payer}},
		[]mempooltest.Pay{{Value: 999, SpecHash: mid, Shard: 0}},
		1, 1000, // density 0.001, below the fake chain state's LOW_FEE of 0.01
	)

	pool.RebuildPriorityMap(root)

	accepted, err := pool.Admit(txA, false)
	if err != nil || !accepted {
		t.Fatalf("Admit(A) = %v, %v; want true, nil", accepted, err)
	}

	txB := mempooltest.BuildTx(
		[]mempooltest.Spend{{Outpoint: externalapi.DomainOutpoint{TransactionID: txA.ID(), Index: 0}, SpecHash: mid}},
		[]mempooltest.Pay{{Value: 985, SpecHash: recipient, Shard: 0}},
		14, 100, // density 0.14
	)

	accepted, err = pool.Admit(txB, false)
	if err != nil || !accepted {
		t.Fatalf("Admit(B) = %v, %v; want true, nil", accepted, err)
	}

	cluster, ok := pool.ClusterFor(txB.ID())
	if !ok || len(cluster) != 2 {
		t.Fatalf("ClusterFor(B) = %v, %v; want [A, B]", cluster, ok)
	}
	if cluster[0].ID() != txA.ID() || cluster[1].ID() != txB.ID() {
		t.Fatalf("ClusterFor(B) out of order: %v", cluster)
	}

	block := pool.AssembleBlock(root, 10000)
	if len(block) != 2 || block[0].ID() != txA.ID() || block[1].ID() != txB.ID() {
		t.Fatalf("AssembleBlock() = %v; want [A, B] in order", block)
	}
}

// TestScenario_S3DoubleSpendRejected mirrors spec.md's S3: a second
// transaction spending an outpoint already claimed by a pool transaction is
// rejected with DoubleSpend and leaves the pool's state unchanged.
func TestScenario_S3DoubleSpendRejected(t *testing.T) {
	trie := mempooltest.NewFakeTrie()
	chainState := mempooltest.NewFakeChainState()
	pool := newTestPool(trie, chainState)

	root := mempooltest.Hash(0x03)
	fundingOutpoint := externalapi.DomainOutpoint{TransactionID: mempooltest.TxID(0xf2), Index: 0}
	payer := mempooltest.SpecHash(0x12)

	trie.Seed(root, fundingOutpoint, externalapi.NewUTXOEntry(100, payer, 0, false, 0))
	pool.RebuildPriorityMap(root)

	txA := mempooltest.BuildTx(
		[]mempooltest.Spend{{Outpoint: fundingOutpoint, SpecHash: payer}},
		[]mempooltest.Pay{{Value: 90, SpecHash: mempooltest.SpecHash(0x22), Shard: 0}},
		10, 100,
	)
	if accepted, err := pool.Admit(txA, false); err != nil || !accepted {
		t.Fatalf("Admit(A) = %v, %v; want true, nil", accepted, err)
	}

	txAPrime := mempooltest.BuildTx(
		[]mempooltest.Spend{{Outpoint: fundingOutpoint, SpecHash: payer}},
		[]mempooltest.Pay{{Value: 80, SpecHash: mempooltest.SpecHash(0x23), Shard: 0}},
		20, 100,
	)

	sizeBefore := pool.PoolSize()
	accepted, err := pool.Admit(txAPrime, false)
	if accepted {
		t.Fatalf("Admit(A') accepted; want rejection")
	}
	if !mempool.IsRuleErrorKind(err, mempool.ErrDoubleSpend) {
		t.Fatalf("Admit(A') err = %v; want DoubleSpend", err)
	}
	if pool.PoolSize() != sizeBefore {
		t.Fatalf("PoolSize() changed after rejected admit: %d -> %d", sizeBefore, pool.PoolSize())
	}
	if _, ok := pool.GetTransaction(txAPrime.ID()); ok {
		t.Fatalf("GetTransaction(A') found a transaction that should have been rejected")
	}
}

// TestScenario_S4TipAdvanceEvictsConfirmed mirrors spec.md's S4: once A is
// confirmed (its input is consumed and its output becomes part of the new
// root's UTXO set), rebuilding against the new root drops A from known_txs
// and releases its DoubleSpendIndex entries, while B survives because it can
// still cluster against the new root.
func TestScenario_S4TipAdvanceEvictsConfirmed(t *testing.T) {
	trie := mempooltest.NewFakeTrie()
	chainState := mempooltest.NewFakeChainState()
	pool := newTestPool(trie, chainState)

	rootBefore := mempooltest.Hash(0x04)
	rootAfter := mempooltest.Hash(0x05)
	fundingOutpoint := externalapi.DomainOutpoint{TransactionID: mempooltest.TxID(0xf3), Index: 0}
	payer := mempooltest.SpecHash(0x13)
	mid := mempooltest.SpecHash(0x24)
	recipient := mempooltest.SpecHash(0x34)

	trie.Seed(rootBefore, fundingOutpoint, externalapi.NewUTXOEntry(1000, payer, 0, false, 0))
	pool.RebuildPriorityMap(rootBefore)

	txA := mempooltest.BuildTx(
		[]mempooltest.Spend{{Outpoint: fundingOutpoint, SpecHash: payer}},
		[]mempooltest.Pay{{Value: 990, SpecHash: mid, Shard: 0}},
		10, 100,
	)
	if accepted, err := pool.Admit(txA, false); err != nil || !accepted {
		t.Fatalf("Admit(A) = %v, %v; want true, nil", accepted, err)
	}

	aOutpoint := externalapi.DomainOutpoint{TransactionID: txA.ID(), Index: 0}
	txB := mempooltest.BuildTx(
		[]mempooltest.Spend{{Outpoint: aOutpoint, SpecHash: mid}},
		[]mempooltest.Pay{{Value: 980, SpecHash: recipient, Shard: 0}},
		10, 100,
	)
	if accepted, err := pool.Admit(txB, false); err != nil || !accepted {
		t.Fatalf("Admit(B) = %v, %v; want true, nil", accepted, err)
	}

	// A confirms: its input is gone from the new root, its output is now a
	// confirmed, spendable entry there.
	trie.Seed(rootAfter, aOutpoint, externalapi.NewUTXOEntry(990, mid, 0, false, 1))

	pool.OnNewTip(rootAfter)
	pool.RebuildPriorityMap(rootAfter)

	if _, ok := pool.GetTransaction(txA.ID()); ok {
		t.Fatalf("GetTransaction(A) found after confirmation; want evicted")
	}
	if _, ok := pool.GetTransaction(txB.ID()); !ok {
		t.Fatalf("GetTransaction(B) not found after rebuild; want retained")
	}
}

// TestScenario_S5BlockSizeBound mirrors spec.md's S5: ten independent
// 200 KB clusters at descending densities, assembled against a 500 KB
// budget, yield exactly the top two clusters and never exceed the budget.
func TestScenario_S5BlockSizeBound(t *testing.T) {
	trie := mempooltest.NewFakeTrie()
	chainState := mempooltest.NewFakeChainState()
	pool := newTestPool(trie, chainState)

	root := mempooltest.Hash(0x06)
	const clusterSize = 200000
	const numClusters = 10

	var topTwo []externalapi.DomainTransactionID
	for i := 0; i < numClusters; i++ {
		fundingOutpoint := externalapi.DomainOutpoint{TransactionID: mempooltest.TxID(byte(0x80 + i)), Index: 0}
		payer := mempooltest.SpecHash(byte(0x40 + i))
		trie.Seed(root, fundingOutpoint, externalapi.NewUTXOEntry(100000, payer, 0, false, 0))

		fee := uint64((numClusters - i) * 1000) // descending: 10000, 9000, ..., 1000
		tx := mempooltest.BuildTx(
			[]mempooltest.Spend{{Outpoint: fundingOutpoint, SpecHash: payer}},
			[]mempooltest.Pay{{Value: 100000 - fee, SpecHash: mempooltest.SpecHash(byte(0x60 + i)), Shard: 0}},
			fee, clusterSize,
		)

		if i == 0 {
			pool.RebuildPriorityMap(root)
		}
		accepted, err := pool.Admit(tx, false)
		if err != nil || !accepted {
			t.Fatalf("Admit(tx %d) = %v, %v; want true, nil", i, accepted, err)
		}
		if i < 2 {
			topTwo = append(topTwo, tx.ID())
		}
	}

	block := pool.AssembleBlock(root, 500000)
	if len(block) != 2 {
		t.Fatalf("AssembleBlock() returned %d transactions; want 2", len(block))
	}

	var total uint64
	for i, tx := range block {
		total += clusterSize
		if tx.ID() != topTwo[i] {
			t.Fatalf("AssembleBlock()[%d] = %s; want %s", i, tx.ID(), topTwo[i])
		}
	}
	if total > 500000 {
		t.Fatalf("AssembleBlock() total size %d exceeds budget", total)
	}
}

// TestScenario_S6UnknownInput mirrors spec.md's S6: a transaction spending an
// outpoint that is neither confirmed nor in the pool is rejected with
// UnknownInput and leaves no trace in the pool.
func TestScenario_S6UnknownInput(t *testing.T) {
	trie := mempooltest.NewFakeTrie()
	chainState := mempooltest.NewFakeChainState()
	pool := newTestPool(trie, chainState)

	root := mempooltest.Hash(0x07)
	pool.RebuildPriorityMap(root)

	unknownOutpoint := externalapi.DomainOutpoint{TransactionID: mempooltest.TxID(0xee), Index: 0}
	txC := mempooltest.BuildTx(
		[]mempooltest.Spend{{Outpoint: unknownOutpoint, SpecHash: mempooltest.SpecHash(0x14)}},
		[]mempooltest.Pay{{Value: 50, SpecHash: mempooltest.SpecHash(0x25), Shard: 0}},
		5, 100,
	)

	accepted, err := pool.Admit(txC, false)
	if accepted {
		t.Fatalf("Admit(C) accepted; want rejection")
	}
	if !mempool.IsRuleErrorKind(err, mempool.ErrUnknownInput) {
		t.Fatalf("Admit(C) err = %v; want UnknownInput", err)
	}
	if pool.PoolSize() != 0 {
		t.Fatalf("PoolSize() = %d; want 0", pool.PoolSize())
	}
}

// TestInvariant_IndicesStayConsistent randomly admits a batch of independent
// (non-conflicting) transactions and, after every admission, checks the
// sender side of invariant 2 from spec.md §8: every admitted tx is still
// listed by TransactionsForAddress under its input's sender address. It
// finishes by checking that all of them are in the pool.
func TestInvariant_IndicesStayConsistent(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	trie := mempooltest.NewFakeTrie()
	chainState := mempooltest.NewFakeChainState()
	pool := newTestPool(trie, chainState)

	root := mempooltest.Hash(0x08)
	pool.RebuildPriorityMap(root)

	const n = 64
	txs := make([]*externalapi.DomainTransaction, 0, n)
	for i := 0; i < n; i++ {
		fundingOutpoint := externalapi.DomainOutpoint{TransactionID: mempooltest.TxID(byte(i + 1)), Index: 0}
		payer := mempooltest.SpecHash(byte(i + 100))
		recipient := mempooltest.SpecHash(byte(i + 150))
		amount := uint64(1000 + rng.Intn(1000))
		fee := uint64(1 + rng.Intn(20))

		trie.Seed(root, fundingOutpoint, externalapi.NewUTXOEntry(amount, payer, 0, false, 0))

		tx := mempooltest.BuildTx(
			[]mempooltest.Spend{{Outpoint: fundingOutpoint, SpecHash: payer}},
			[]mempooltest.Pay{{Value: amount - fee, SpecHash: recipient, Shard: 0}},
			fee, 100,
		)
		accepted, err := pool.Admit(tx, false)
		if err != nil || !accepted {
			t.Fatalf("Admit(tx %d) = %v, %v; want true, nil", i, accepted, err)
		}
		txs = append(txs, tx)

		for _, committed := range txs {
			addrs := pool.TransactionsForAddress(mempooltest.SpecHash(byte(committed.Inputs[0].SpecHash[0])))
			if _, ok := addrs[committed.ID()]; !ok {
				t.Fatalf("TransactionsForAddress did not list tx %s under its own sender address", committed.ID())
			}
		}
	}

	if pool.PoolSize() != n {
		t.Fatalf("PoolSize() = %d; want %d", pool.PoolSize(), n)
	}
}

// TestInvariant_RejectedDoubleSpendLeavesNoTrace exercises invariant 6: a
// randomized sequence of conflicting admits never leaves a rejected
// transaction visible anywhere in the pool.
func TestInvariant_RejectedDoubleSpendLeavesNoTrace(t *testing.T) {
	rng := rand.New(rand.NewSource(2))

	trie := mempooltest.NewFakeTrie()
	chainState := mempooltest.NewFakeChainState()
	pool := newTestPool(trie, chainState)

	root := mempooltest.Hash(0x09)
	fundingOutpoint := externalapi.DomainOutpoint{TransactionID: mempooltest.TxID(0xfa), Index: 0}
	payer := mempooltest.SpecHash(0x15)
	trie.Seed(root, fundingOutpoint, externalapi.NewUTXOEntry(10000, payer, 0, false, 0))
	pool.RebuildPriorityMap(root)

	winner := mempooltest.BuildTx(
		[]mempooltest.Spend{{Outpoint: fundingOutpoint, SpecHash: payer}},
		[]mempooltest.Pay{{Value: 9000, SpecHash: mempooltest.SpecHash(0x26), Shard: 0}},
		1000, 100,
	)
	if accepted, err := pool.Admit(winner, false); err != nil || !accepted {
		t.Fatalf("Admit(winner) = %v, %v; want true, nil", accepted, err)
	}

	for i := 0; i < 32; i++ {
		fee := uint64(1 + rng.Intn(5000))
		rival := mempooltest.BuildTx(
			[]mempooltest.Spend{{Outpoint: fundingOutpoint, SpecHash: payer}},
			[]mempooltest.Pay{{Value: 10000 - fee, SpecHash: mempooltest.SpecHash(byte(0x27 + i)), Shard: 0}},
			fee, 100,
		)
		if rival.ID() == winner.ID() {
			continue
		}

		sizeBefore := pool.PoolSize()
		accepted, err := pool.Admit(rival, false)
		if accepted {
			t.Fatalf("Admit(rival %d) accepted; want rejection", i)
		}
		if !mempool.IsRuleErrorKind(err, mempool.ErrDoubleSpend) {
			t.Fatalf("Admit(rival %d) err = %v; want DoubleSpend", i, err)
		}
		if pool.PoolSize() != sizeBefore {
			t.Fatalf("PoolSize() changed after rejected admit %d", i)
		}
		if _, ok := pool.GetTransaction(rival.ID()); ok {
			t.Fatalf("GetTransaction(rival %d) found a rejected transaction", i)
		}
	}
}
