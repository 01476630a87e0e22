package scoped

import "sync"

// CancelListener is a one-shot callback registered with
// [Scope.AddCancelListener]. It fires at most once: either eagerly, if
// the scope is already cancelled at registration time, or synchronously
// from within [Scope.CancelAll] otherwise — never both, and never
// concurrently with a second firing (spec §6 "cancellation listeners").
type CancelListener struct {
	once sync.Once
	fn   func()
}

func (l *CancelListener) cancel(sig *CancellationSignal) {
	l.once.Do(l.fn)
}

// invokeEarly runs fn immediately for a scope that has already
// cancelled, guaranteeing the same once-only semantics as a listener
// reached through CancelAll's normal fan-out.
func (l *CancelListener) invokeEarly() {
	l.once.Do(l.fn)
}

// AddCancelListener registers cb to run when s cancels. If s is already
// cancelled, cb runs synchronously before AddCancelListener returns
// (spec §6: a listener must not miss a cancellation that already
// happened) and the returned error is nil — a late registration is not a
// fault. The returned [*CancelListener] can be ignored; it exists so
// callers with their own bookkeeping can compare identity. The error
// return exists for symmetry with every other bind operation in this
// package ([BindComputation], [BindSequence]); AddCancelListener never
// actually fails since, unlike those, it has no work to reject once the
// scope is already cancelled — it simply runs cb instead.
func (s *Scope) AddCancelListener(cb func()) (*CancelListener, error) {
	l := &CancelListener{fn: cb}

	s.mu.Lock()
	if s.cancelled {
		s.mu.Unlock()
		l.invokeEarly()
		return l, nil
	}
	s.handles[l] = struct{}{}
	s.mu.Unlock()

	return l, nil
}
