package core

// RandomSource supplies uniformly distributed integers to the slot selector
type RandomSource interface {
	// Int63n returns a non-negative pseudo-random number in [0,n). It panics if n <= 0.
	Int63n(n int64) int64
}
