package scoped

import "sync/atomic"

type bridgeState int32

const (
	bridgePending bridgeState = iota
	bridgeValue
	bridgeErr
	bridgeCancelled
)

// bridge is the one-shot completion primitive backing [BoundComputation]
// (spec §3, "bridge completion"). Its terminal state transitions at most
// once: value/error arrival from the source and a cancel request both
// attempt the transition via atomic.CompareAndSwap, and the first
// attempt wins. Publishing the payload before closing done, and readers
// only ever observing the payload after receiving on done, gives the
// happens-before guarantee spec §5 demands: cancellation happens-before
// any would-be continuation scheduled after the original source value.
type bridge[T any] struct {
	state atomic.Int32
	done  chan struct{}
	val   T
	err   error
}

func newBridge[T any]() *bridge[T] {
	return &bridge[T]{done: make(chan struct{})}
}

// tryComplete attempts the terminal transition. It returns true if this
// call won the race and actually set the bridge's outcome.
func (b *bridge[T]) tryComplete(state bridgeState, val T, err error) bool {
	if !b.state.CompareAndSwap(int32(bridgePending), int32(state)) {
		return false
	}
	b.val = val
	b.err = err
	close(b.done)
	return true
}

// peek returns the current terminal state without blocking. Must only
// be called after the caller has observed b.done closed (or knows the
// bridge was completed synchronously by the calling goroutine itself).
func (b *bridge[T]) peek() (bridgeState, T, error) {
	return bridgeState(b.state.Load()), b.val, b.err
}
