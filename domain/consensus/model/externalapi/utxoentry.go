package externalapi

// UTXOEntry houses details about an individual unspent transaction output:
// how much it pays, who can spend it, which shard it belongs to, and
// whether it came from a coinbase transaction (coinbase outputs are subject
// to additional maturity rules enforced by TransactionValidator, not by the
// mempool itself).
type UTXOEntry struct {
	Amount            uint64
	RecipientSpecHash ScriptPublicKeyHash
	TargetShard       uint32
	IsCoinbase        bool
	BlockBlueScore    uint64
}

// Clone returns a deep copy of the entry.
func (entry *UTXOEntry) Clone() *UTXOEntry {
	if entry == nil {
		return nil
	}
	clone := *entry
	return &clone
}

// NewUTXOEntry constructs a UTXOEntry from an output's fields.
func NewUTXOEntry(amount uint64, recipientSpecHash ScriptPublicKeyHash, targetShard uint32,
	isCoinbase bool, blockBlueScore uint64) *UTXOEntry {

	return &UTXOEntry{
		Amount:            amount,
		RecipientSpecHash: recipientSpecHash,
		TargetShard:       targetShard,
		IsCoinbase:        isCoinbase,
		BlockBlueScore:    blockBlueScore,
	}
}
