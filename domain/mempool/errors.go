package mempool

import "fmt"

// ErrorKind enumerates the disposition table in spec.md §7. Grounded on the
// teacher's RejectCode/txRuleError pattern (domain/mempool/mempool.go calls
// txRuleError(RejectDuplicate, ...) etc.; the definition of that pair lives
// outside the retrieved slice, so this module defines its own under the
// spec's own error-kind names rather than guessing at the teacher's reject
// codes).
type ErrorKind int

const (
	// ErrMalformedTx: decoding or basic invariants failed.
	ErrMalformedTx ErrorKind = iota
	// ErrPoolFull: known_txs already holds MaxPoolSize entries.
	ErrPoolFull
	// ErrPoolFullLowFee: fee density below LowFee and known_txs already holds
	// MaxLowFeePoolSize entries.
	ErrPoolFullLowFee
	// ErrDoubleSpend: an input's outpoint is already claimed by a different tx.
	ErrDoubleSpend
	// ErrUnknownInput: an input's source tx is in neither the UTXO trie nor known_txs.
	ErrUnknownInput
	// ErrCrossShardDependency: an ancestor's output belongs to an uncovered shard.
	ErrCrossShardDependency
	// ErrInvalidCluster: deep validation failed during cluster simulation.
	ErrInvalidCluster
	// ErrRateLimited: the submitting peer has exhausted its admission budget.
	ErrRateLimited
)

func (k ErrorKind) String() string {
	switch k {
	case ErrMalformedTx:
		return "MalformedTx"
	case ErrPoolFull:
		return "PoolFull"
	case ErrPoolFullLowFee:
		return "PoolFullLowFee"
	case ErrDoubleSpend:
		return "DoubleSpend"
	case ErrUnknownInput:
		return "UnknownInput"
	case ErrCrossShardDependency:
		return "CrossShardDependency"
	case ErrInvalidCluster:
		return "InvalidCluster"
	case ErrRateLimited:
		return "RateLimited"
	default:
		return "UnknownError"
	}
}

// RuleError is the error type returned by every admission-rejecting path.
// Callers match on Kind via errors.As, following the teacher's own
// pattern of a single typed rule-violation error rather than sentinel
// errors per case.
type RuleError struct {
	Kind        ErrorKind
	Description string

	// TxID, when non-nil, names the other transaction involved: the
	// offending input's source transaction for ErrUnknownInput and
	// ErrCrossShardDependency, and the pool transaction already claiming the
	// outpoint for ErrDoubleSpend.
	TxID fmt.Stringer
}

func (e *RuleError) Error() string {
	if e.TxID != nil {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Description, e.TxID)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Description)
}

func ruleError(kind ErrorKind, description string) error {
	return &RuleError{Kind: kind, Description: description}
}

func ruleErrorWithTx(kind ErrorKind, description string, txID fmt.Stringer) error {
	return &RuleError{Kind: kind, Description: description, TxID: txID}
}

// IsRuleErrorKind reports whether err is a *RuleError of the given kind.
func IsRuleErrorKind(err error, kind ErrorKind) bool {
	ruleErr, ok := err.(*RuleError)
	return ok && ruleErr.Kind == kind
}
