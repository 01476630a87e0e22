package scoped

import (
	"sync"

	"github.com/corbelmatic/taskscope/stream"
)

// BoundSequence is a scope-wrapped asynchronous event sequence. Create
// one via [BindSequence]; consume it with [BoundSequence.Listen].
//
// Per spec §4.5, a bound sequence distinguishes two different
// cancellations: the *user* cancelling their subscription to the
// destination (forwarded to the source; if the source is
// single-subscription the scope also forgets the handle), and the
// *scope* cancelling the task (the source subscription is cancelled,
// then — if the destination is still open — exactly one
// [*CancellationSignal] error is pushed, followed by done).
type BoundSequence[T any] struct {
	source stream.Source[T]
}

// Listen subscribes l to the bound sequence. Listening twice to a
// single-subscription bound sequence fails synchronously with
// [stream.DuplicateListenerError] on the second call.
func (b *BoundSequence[T]) Listen(l stream.Listener[T]) (stream.Subscription, error) {
	return b.source.Listen(l)
}

func (b *BoundSequence[T]) IsBroadcast() bool { return b.source.IsBroadcast() }

// sequenceHandle is the [handle] BindSequence registers with its owning
// [Scope]. It tracks the live source subscription (for the scope-driven
// cancel path, which bypasses the destination entirely) and the
// destination controller (so that path can still push the terminal
// cancellation signal through it).
type sequenceHandle[T any] struct {
	mu        sync.Mutex
	dest      stream.DestController[T]
	sourceSub stream.Subscription
	settle    sync.Once
	onSettle  func()
}

func (h *sequenceHandle[T]) setSub(sub stream.Subscription) {
	h.mu.Lock()
	h.sourceSub = sub
	h.mu.Unlock()
}

func (h *sequenceHandle[T]) cancelSource() {
	h.mu.Lock()
	sub := h.sourceSub
	h.mu.Unlock()
	if sub != nil {
		_ = sub.Cancel()
	}
}

func (h *sequenceHandle[T]) markSettled() {
	h.settle.Do(h.onSettle)
}

// cancel implements the scope-driven cancellation path of spec §4.5: it
// cancels the source subscription directly — bypassing the destination's
// own Cancel, which would be read as a user cancel — then, if the
// destination is still open, pushes exactly one cancellation error
// followed by done.
func (h *sequenceHandle[T]) cancel(sig *CancellationSignal) {
	h.cancelSource()
	if !h.dest.IsClosed() {
		h.dest.AddError(sig)
		h.dest.Close()
	}
	h.markSettled()
}

// sequenceTransformer is BindSequence's specialised C1 transformer (spec
// §2/§4.2): it forwards source events to the destination unchanged via
// [stream.DefaultTransformer]'s passthrough, and layers the bookkeeping
// sequenceHandle needs for the scope-driven cancel path — remembering
// the live source subscription and the destination controller, and
// marking the handle settled once the destination can no longer receive
// a scope-driven cancellation signal.
type sequenceTransformer[T any] struct {
	stream.DefaultTransformer[T, T]
	h *sequenceHandle[T]
}

func newSequenceTransformer[T any](h *sequenceHandle[T]) *sequenceTransformer[T] {
	t := &sequenceTransformer[T]{h: h}
	t.Self = t
	return t
}

func (t *sequenceTransformer[T]) BindDestination(source stream.Source[T], hooks stream.Hooks) stream.DestController[T] {
	dest := t.DefaultTransformer.BindDestination(source, hooks)
	t.h.dest = dest
	return dest
}

func (t *sequenceTransformer[T]) OnDestListen(ctx *stream.TransformerContext[T, T]) (stream.Subscription, error) {
	sub, err := t.DefaultTransformer.OnDestListen(ctx)
	if err == nil {
		t.h.setSub(sub)
	}
	return sub, err
}

// OnDestCancel is the user-cancel path: forward to the source as usual,
// and — if the source is single-subscription — let the scope forget this
// handle, since nothing further can ever flow through this sequence
// (spec §4.5).
func (t *sequenceTransformer[T]) OnDestCancel(ctx *stream.TransformerContext[T, T]) (stream.Subscription, error) {
	sub, err := t.DefaultTransformer.OnDestCancel(ctx)
	if !ctx.Source.IsBroadcast() {
		t.h.markSettled()
	}
	return sub, err
}

func (t *sequenceTransformer[T]) OnSourceData(ctx *stream.TransformerContext[T, T], v T) {
	ctx.Dest.Add(v)
}

// OnSourceDone runs the default close-on-done behavior, then settles the
// handle: once the source is done there is no destination left for the
// scope's cancel path to deliver a signal to.
func (t *sequenceTransformer[T]) OnSourceDone(ctx *stream.TransformerContext[T, T]) {
	t.DefaultTransformer.OnSourceDone(ctx)
	t.h.markSettled()
}

// BindSequence registers source as a task handle owned by s. Binding
// to an already-cancelled scope fails immediately with
// [*ScopeAlreadyCancelledError] (spec §4.4); source is never listened
// to in that case.
func BindSequence[T any](s *Scope, source stream.Source[T]) (*BoundSequence[T], error) {
	h := &sequenceHandle[T]{}
	h.onSettle = func() { s.removeHandle(h); s.wg.Done() }

	dest := stream.Transform[T, T](source, newSequenceTransformer(h))

	if err := s.addHandle(h); err != nil {
		return nil, err
	}
	s.wg.Add(1)

	return &BoundSequence[T]{source: dest}, nil
}
