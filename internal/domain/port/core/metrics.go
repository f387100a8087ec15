package core

// Metrics records reward engine counters
type Metrics interface {
	// SpinConsumed counts a paid spin by outcome slot type
	SpinConsumed(slotType string)
	// SpinsGranted counts spins granted by grant source
	SpinsGranted(source string, spins int64)
	// WordClaimed counts a redeemed word
	WordClaimed(word string)
	// LedgerRetry counts a retried ledger unit by operation
	LedgerRetry(operation string)
	// LedgerFailure counts a failed ledger unit by operation and error code
	LedgerFailure(operation string, code int)
}
