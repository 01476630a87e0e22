package scoped

import "errors"

// CatchCancellations runs block and absorbs a *CancellationSignal
// raised by this scope's own [Scope.CancelAll], returning nil in that
// case. Any other error — including a CancellationSignal raised by a
// different scope — propagates unchanged (spec §8).
//
// Go has no dynamic guarded context to intercept a signal raised deep
// inside block's call stack the way the source specification's host
// does; CatchCancellations instead runs block on its own goroutine and
// joins on it, so the absorb decision is made once, synchronously, on
// the goroutine that called CatchCancellations, after block has fully
// returned.
func (s *Scope) CatchCancellations(block func() error) error {
	return CatchAllCancellations(block, func(sig *CancellationSignal) bool {
		return sig.ScopeID() == s.id
	})
}

// CatchAllCancellations runs block and absorbs a *CancellationSignal
// error for which predicate returns true, returning nil in that case.
// Any other error propagates unchanged. A nil predicate matches every
// CancellationSignal, regardless of which scope raised it.
func CatchAllCancellations(block func() error, predicate func(sig *CancellationSignal) bool) error {
	done := make(chan error, 1)
	go func() {
		done <- block()
	}()
	err := <-done

	if err == nil {
		return nil
	}
	var sig *CancellationSignal
	if errors.As(err, &sig) && (predicate == nil || predicate(sig)) {
		return nil
	}
	return err
}
