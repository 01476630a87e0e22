package stream

// Completion is one resolved or rejected outcome emitted by
// [AsFutures]: exactly one of a value or an error, never both. It lets a
// consumer iterate a sequence with an ordinary per-event error check
// instead of a side-channel error callback that would otherwise end the
// iteration (spec §4.3).
type Completion[T any] struct {
	val   T
	err   error
	isErr bool
}

// Value returns the completion's value and whether it resolved (false
// if it's a rejection).
func (c Completion[T]) Value() (T, bool) { return c.val, !c.isErr }

// Err returns the rejection error, or nil if the completion resolved.
func (c Completion[T]) Err() error { return c.err }

func resolved[T any](v T) Completion[T]   { return Completion[T]{val: v} }
func rejected[T any](err error) Completion[T] {
	return Completion[T]{err: err, isErr: true}
}

// AsFutures turns source into a destination that never errors: every
// source data event becomes a resolved [Completion], every source error
// becomes a rejected Completion, and source done closes the
// destination. Single-subscription-ness is preserved; listening twice
// to a single-subscription source's AsFutures destination fails
// synchronously with [DuplicateListenerError] exactly as listening
// directly to source would.
func AsFutures[T any](source Source[T]) Source[Completion[T]] {
	return Transform[T, Completion[T]](source, newFuturesTransformer[T]())
}

type futuresTransformer[T any] struct {
	DefaultTransformer[T, Completion[T]]
}

func newFuturesTransformer[T any]() *futuresTransformer[T] {
	t := &futuresTransformer[T]{}
	t.Self = t
	return t
}

func (t *futuresTransformer[T]) OnSourceData(ctx *TransformerContext[T, Completion[T]], v T) {
	ctx.Dest.Add(resolved(v))
}

// OnSourceError overrides the default (which would forward the error on
// the destination's error channel) to instead emit a rejected
// Completion as ordinary data — the whole point of the adapter.
func (t *futuresTransformer[T]) OnSourceError(ctx *TransformerContext[T, Completion[T]], err error) {
	ctx.Dest.Add(rejected[T](err))
}
