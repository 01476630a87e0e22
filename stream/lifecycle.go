package stream

// TransformerContext is the immutable-shape record [Transformer] hooks
// receive on every call: the wrapped source, the subscription currently
// held against it (nil before the destination's first listen), and the
// destination controller hooks push into. It is re-derived — in practice,
// mutated in place by the driver — at each hook call rather than rebuilt,
// matching spec §4.1 ("re-derived at each hook call; the transformer
// itself is stateless from the framework's perspective").
type TransformerContext[S, D any] struct {
	Source              Source[S]
	CurrentSubscription Subscription
	Dest                DestController[D]
}

// DestController is the subset of [Controller] / [BroadcastController]
// behavior a [Transformer] needs to drive its destination: push data and
// errors, close, and query closed state. [Transformer.BindDestination]
// returns one of the two concrete controllers through this interface.
type DestController[D any] interface {
	Add(D)
	AddError(error)
	Close()
	IsClosed() bool
	Source() Source[D]
}

// Transformer is the override-based source→destination adapter from
// spec §4.1. Every hook receives the current [TransformerContext]. Embed
// [DefaultTransformer] to get faithful-passthrough defaults for every
// hook except OnSourceData, which has no sensible default since the
// destination element type generally differs from the source's.
type Transformer[S, D any] interface {
	BindDestination(source Source[S], hooks Hooks) DestController[D]
	OnDestListen(ctx *TransformerContext[S, D]) (Subscription, error)
	OnDestCancel(ctx *TransformerContext[S, D]) (Subscription, error)
	OnDestPause(ctx *TransformerContext[S, D])
	OnDestResume(ctx *TransformerContext[S, D])
	OnSourceData(ctx *TransformerContext[S, D], v S)
	OnSourceError(ctx *TransformerContext[S, D], err error)
	OnSourceDone(ctx *TransformerContext[S, D])
}

// DefaultTransformer implements every hook of [Transformer] except
// OnSourceData with the passthrough behavior spec §4.1 describes. Embed
// it and set Self to the outer value so the default hooks can dispatch
// to whichever OnSourceData/OnSourceError/OnSourceDone the outer type
// provides:
//
//	type identity[T any] struct{ stream.DefaultTransformer[T, T] }
//	func newIdentity[T any]() *identity[T] {
//	    t := &identity[T]{}
//	    t.Self = t
//	    return t
//	}
//	func (t *identity[T]) OnSourceData(ctx *stream.TransformerContext[T, T], v T) {
//	    ctx.Dest.Add(v)
//	}
type DefaultTransformer[S, D any] struct {
	Self Transformer[S, D]
}

func (d *DefaultTransformer[S, D]) BindDestination(source Source[S], hooks Hooks) DestController[D] {
	if source.IsBroadcast() {
		return NewBroadcastController[D](hooks)
	}
	return NewController[D](hooks)
}

func (d *DefaultTransformer[S, D]) OnDestListen(ctx *TransformerContext[S, D]) (Subscription, error) {
	self := d.Self
	return ctx.Source.Listen(Listener[S]{
		OnData:  func(v S) { self.OnSourceData(ctx, v) },
		OnError: func(err error) { self.OnSourceError(ctx, err) },
		OnDone:  func() { self.OnSourceDone(ctx) },
	})
}

func (d *DefaultTransformer[S, D]) OnDestCancel(ctx *TransformerContext[S, D]) (Subscription, error) {
	if ctx.CurrentSubscription != nil {
		_ = ctx.CurrentSubscription.Cancel()
	}
	if !ctx.Source.IsBroadcast() {
		ctx.Dest.Close()
	}
	return nil, nil
}

func (d *DefaultTransformer[S, D]) OnDestPause(ctx *TransformerContext[S, D]) {
	if ctx.CurrentSubscription != nil {
		ctx.CurrentSubscription.Pause()
	}
}

func (d *DefaultTransformer[S, D]) OnDestResume(ctx *TransformerContext[S, D]) {
	if ctx.CurrentSubscription != nil {
		ctx.CurrentSubscription.Resume()
	}
}

func (d *DefaultTransformer[S, D]) OnSourceError(ctx *TransformerContext[S, D], err error) {
	ctx.Dest.AddError(err)
}

func (d *DefaultTransformer[S, D]) OnSourceDone(ctx *TransformerContext[S, D]) {
	if !ctx.Dest.IsClosed() {
		ctx.Dest.Close()
	}
}

// Transform wraps source with t, producing the destination [Source]
// described by t's hooks. The destination's listen/cancel/pause/resume
// are wired directly to t.OnDestListen/OnDestCancel/OnDestPause/
// OnDestResume; t.OnDestListen's returned error — e.g. a
// [DuplicateListenerError] from re-listening to an already-listened
// single-subscription source — propagates synchronously as the
// destination's own Listen error.
func Transform[S, D any](source Source[S], t Transformer[S, D]) Source[D] {
	ctx := &TransformerContext[S, D]{Source: source}

	hooks := Hooks{
		OnListen: func() error {
			sub, err := t.OnDestListen(ctx)
			ctx.CurrentSubscription = sub
			return err
		},
		OnCancel: func() error {
			sub, err := t.OnDestCancel(ctx)
			ctx.CurrentSubscription = sub
			return err
		},
		OnPause:  func() { t.OnDestPause(ctx) },
		OnResume: func() { t.OnDestResume(ctx) },
	}

	dest := t.BindDestination(source, hooks)
	ctx.Dest = dest
	return dest.Source()
}

// IdentityTransformer forwards every source event unchanged. It exists
// for invariant 6 in spec §8 (round-trip property) and as a template for
// writing new transformers.
type IdentityTransformer[T any] struct {
	DefaultTransformer[T, T]
}

// NewIdentityTransformer returns a ready-to-use identity transformer.
func NewIdentityTransformer[T any]() *IdentityTransformer[T] {
	t := &IdentityTransformer[T]{}
	t.Self = t
	return t
}

func (t *IdentityTransformer[T]) OnSourceData(ctx *TransformerContext[T, T], v T) {
	ctx.Dest.Add(v)
}
