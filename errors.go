package scoped

import "fmt"

// ScopeAlreadyCancelledError is returned by every bind operation on a
// [Scope] that has already run [Scope.CancelAll]. It is a programmer fault:
// it is never absorbed by [Scope.CatchCancellations] or
// [CatchAllCancellations].
type ScopeAlreadyCancelledError struct {
	ScopeID uint64
}

func (e *ScopeAlreadyCancelledError) Error() string {
	return fmt.Sprintf("scoped: scope %d already cancelled, bind rejected", e.ScopeID)
}

// CancellationSignal is the control fault raised on awaiters of a cancelled
// [BoundComputation] and on listeners of a cancelled [BoundSequence]. It is
// stamped with the identity of the [Scope] whose [Scope.CancelAll] produced
// it. Two signals are considered the same cancellation by [errors.Is] when
// they share a scope identity.
type CancellationSignal struct {
	scopeID uint64
}

func (e *CancellationSignal) Error() string {
	return fmt.Sprintf("scoped: cancelled by scope %d", e.scopeID)
}

// ScopeID returns the identity of the scope that raised this signal.
func (e *CancellationSignal) ScopeID() uint64 { return e.scopeID }

// Is reports whether target is a CancellationSignal stamped with the same
// scope identity, so [errors.Is] matches a signal only against a signal
// from the same scope.
func (e *CancellationSignal) Is(target error) bool {
	other, ok := target.(*CancellationSignal)
	if !ok {
		return false
	}
	return other.scopeID == e.scopeID
}

