package stream

// Listener holds the three callbacks a [Source] dispatches to: OnData for
// each event, OnError for a source fault (the sequence continues unless
// the producer chooses otherwise), and OnDone exactly once when the
// source is exhausted. Nil callbacks are treated as no-ops.
type Listener[T any] struct {
	OnData  func(T)
	OnError func(error)
	OnDone  func()
}

func (l Listener[T]) data(v T) {
	if l.OnData != nil {
		l.OnData(v)
	}
}

func (l Listener[T]) errorEvent(err error) {
	if l.OnError != nil {
		l.OnError(err)
	}
}

func (l Listener[T]) done() {
	if l.OnDone != nil {
		l.OnDone()
	}
}

// Subscription is returned by [Source.Listen]. Cancel detaches the
// listener (single-subscription sources also close); Pause/Resume are
// honored by single-subscription sources and ignored by broadcast ones.
type Subscription interface {
	Cancel() error
	Pause()
	Resume()
}

// Source is the collaborator primitive described in spec §6: a push-based
// event sequence a [Transformer] wraps and a [Scope] binds. Implementations
// are provided by [NewController] (single-subscription) and
// [NewBroadcastController] (broadcast); FromSlice and FromChan adapt plain
// Go values into single-subscription sources.
type Source[T any] interface {
	// Listen registers l as the (or, for a broadcast source, one of the)
	// consumer(s) of this source. A single-subscription source returns
	// [DuplicateListenerError] synchronously on any call after the first
	// that has not yet been cancelled.
	Listen(l Listener[T]) (Subscription, error)

	// IsBroadcast reports whether this source accepts concurrent listeners.
	IsBroadcast() bool
}
