package stream

import "sync"

// OriginError is the error payload a merged destination delivers when one
// of its sources errors: the original error wrapped with the index and
// identity of the source that raised it. Spec §4.2: "the original error
// is wrapped with origin metadata".
type OriginError struct {
	Index  int
	Source any
	Err    error
}

func (e *OriginError) Error() string { return e.Err.Error() }
func (e *OriginError) Unwrap() error { return e.Err }

// mergeItem is the internal event [multiSource] fans N sources into: one
// indexed data item flowing through the single upstream [Source] that
// [mergeTransformer] consumes. Errors are wrapped into [OriginError] and
// pushed on multiSource's own error channel rather than carried here, so
// mergeTransformer's default OnSourceError passthrough needs no override.
type mergeItem struct {
	index int
	value any
}

// Merge combines N sources of possibly-mixed types into one
// single-subscription destination emitting a fresh []any snapshot of
// length N every time every source has produced at least one value.
// Tuple order matches the order sources were passed in, not map
// iteration order. Merge() with no sources returns an [ArgumentError].
//
// Per spec §2/§4.2, the combinator is a specialised C1 transformer: the
// N-way fan-in lives in [multiSource], a plain [Source] that multiplexes
// every source's events onto one upstream channel, and the actual
// combining logic — tracking each lane's latest value and emitting a
// tuple once every lane has one — lives in [mergeTransformer], driven by
// [Transform] exactly as [AsFutures] drives [futuresTransformer].
//
// The destination closes when the last still-active source completes,
// whether or not a tuple was ever emitted (spec §9 open question,
// resolved this way in DESIGN.md / SPEC_FULL.md).
func Merge(sources ...Source[any]) (Source[[]any], error) {
	if len(sources) == 0 {
		return nil, &ArgumentError{Msg: "Merge requires at least one source"}
	}
	multi := newMultiSource(sources)
	return Transform[mergeItem, []any](multi, newMergeTransformer(len(sources))), nil
}

// multiSource subscribes to every one of sources the moment it is
// listened to, and forwards each one's data as a [mergeItem] carrying
// that source's index, each one's error wrapped in [OriginError], and
// closes once every source has completed. Cancelling multiSource cancels
// every still-active source subscription concurrently.
type multiSource struct {
	ctrl *Controller[mergeItem]
}

func newMultiSource(sources []Source[any]) Source[mergeItem] {
	n := len(sources)

	var mu sync.Mutex
	subs := make([]Subscription, n)
	active := n

	var ctrl *Controller[mergeItem]
	ctrl = NewController[mergeItem](Hooks{
		OnListen: func() error {
			for i, src := range sources {
				i, src := i, src
				sub, err := src.Listen(Listener[any]{
					OnData: func(v any) { ctrl.Add(mergeItem{index: i, value: v}) },
					OnError: func(err error) {
						ctrl.AddError(&OriginError{Index: i, Source: src, Err: err})
					},
					OnDone: func() {
						mu.Lock()
						active--
						last := active == 0
						mu.Unlock()
						if last {
							ctrl.Close()
						}
					},
				})
				if err != nil {
					return err
				}
				mu.Lock()
				subs[i] = sub
				mu.Unlock()
			}
			return nil
		},
		OnCancel: func() error {
			mu.Lock()
			toCancel := append([]Subscription(nil), subs...)
			mu.Unlock()
			var wg sync.WaitGroup
			for _, sub := range toCancel {
				if sub == nil {
					continue
				}
				sub := sub
				wg.Add(1)
				go func() {
					defer wg.Done()
					_ = sub.Cancel()
				}()
			}
			wg.Wait()
			ctrl.Close()
			return nil
		},
	})

	return ctrl.Source()
}

// mergeTransformer holds the per-lane latest-value bookkeeping for
// [Merge]. It embeds [DefaultTransformer] for the listen/cancel/pause/
// resume passthrough and overrides only OnSourceData, which is exactly
// the "hard part" the spec calls out: emit a tuple only once every lane
// has produced at least one value.
type mergeTransformer struct {
	DefaultTransformer[mergeItem, []any]
	mu     sync.Mutex
	latest []any
	hasVal []bool
}

func newMergeTransformer(n int) *mergeTransformer {
	t := &mergeTransformer{
		latest: make([]any, n),
		hasVal: make([]bool, n),
	}
	t.Self = t
	return t
}

func (t *mergeTransformer) OnSourceData(ctx *TransformerContext[mergeItem, []any], item mergeItem) {
	t.mu.Lock()
	t.latest[item.index] = item.value
	t.hasVal[item.index] = true
	ready := true
	for _, ok := range t.hasVal {
		if !ok {
			ready = false
			break
		}
	}
	var snapshot []any
	if ready {
		snapshot = append([]any(nil), t.latest...)
	}
	t.mu.Unlock()

	if ready {
		ctx.Dest.Add(snapshot)
	}
}

// Pair2 is the typed result of [Merge2].
type Pair2[A, B any] struct {
	A A
	B B
}

// Merge2 is a typed convenience over [Merge] for exactly two sources. It
// carries no semantics of its own: it threads the dynamic []any tuple
// back into a Pair2 value. Merge3..Merge5 follow the identical pattern
// for larger fixed arities.
func Merge2[A, B any](a Source[A], b Source[B]) (Source[Pair2[A, B]], error) {
	dyn, err := Merge(boxSource(a), boxSource(b))
	if err != nil {
		return nil, err
	}
	return Transform[[]any, Pair2[A, B]](dyn, newTupleTransformer[Pair2[A, B]](func(tuple []any) Pair2[A, B] {
		return Pair2[A, B]{A: tuple[0].(A), B: tuple[1].(B)}
	})), nil
}

// Pair3 is the typed result of [Merge3].
type Pair3[A, B, C any] struct {
	A A
	B B
	C C
}

func Merge3[A, B, C any](a Source[A], b Source[B], c Source[C]) (Source[Pair3[A, B, C]], error) {
	dyn, err := Merge(boxSource(a), boxSource(b), boxSource(c))
	if err != nil {
		return nil, err
	}
	return Transform[[]any, Pair3[A, B, C]](dyn, newTupleTransformer[Pair3[A, B, C]](func(tuple []any) Pair3[A, B, C] {
		return Pair3[A, B, C]{A: tuple[0].(A), B: tuple[1].(B), C: tuple[2].(C)}
	})), nil
}

// Pair4 is the typed result of [Merge4].
type Pair4[A, B, C, D any] struct {
	A A
	B B
	C C
	D D
}

func Merge4[A, B, C, D any](a Source[A], b Source[B], c Source[C], d Source[D]) (Source[Pair4[A, B, C, D]], error) {
	dyn, err := Merge(boxSource(a), boxSource(b), boxSource(c), boxSource(d))
	if err != nil {
		return nil, err
	}
	return Transform[[]any, Pair4[A, B, C, D]](dyn, newTupleTransformer[Pair4[A, B, C, D]](func(tuple []any) Pair4[A, B, C, D] {
		return Pair4[A, B, C, D]{A: tuple[0].(A), B: tuple[1].(B), C: tuple[2].(C), D: tuple[3].(D)}
	})), nil
}

// Pair5 is the typed result of [Merge5].
type Pair5[A, B, C, D, E any] struct {
	A A
	B B
	C C
	D D
	E E
}

func Merge5[A, B, C, D, E any](a Source[A], b Source[B], c Source[C], d Source[D], e Source[E]) (Source[Pair5[A, B, C, D, E]], error) {
	dyn, err := Merge(boxSource(a), boxSource(b), boxSource(c), boxSource(d), boxSource(e))
	if err != nil {
		return nil, err
	}
	return Transform[[]any, Pair5[A, B, C, D, E]](dyn, newTupleTransformer[Pair5[A, B, C, D, E]](func(tuple []any) Pair5[A, B, C, D, E] {
		return Pair5[A, B, C, D, E]{A: tuple[0].(A), B: tuple[1].(B), C: tuple[2].(C), D: tuple[3].(D), E: tuple[4].(E)}
	})), nil
}

// boxSource widens a typed Source[T] into a Source[any] so it can be
// merged dynamically alongside differently-typed sources.
func boxSource[T any](s Source[T]) Source[any] {
	return Transform[T, any](s, newBoxTransformer[T]())
}

type boxTransformer[T any] struct {
	DefaultTransformer[T, any]
}

func newBoxTransformer[T any]() *boxTransformer[T] {
	t := &boxTransformer[T]{}
	t.Self = t
	return t
}

func (t *boxTransformer[T]) OnSourceData(ctx *TransformerContext[T, any], v T) {
	ctx.Dest.Add(v)
}

type tupleTransformer[Out any] struct {
	DefaultTransformer[[]any, Out]
	convert func([]any) Out
}

func newTupleTransformer[Out any](convert func([]any) Out) *tupleTransformer[Out] {
	t := &tupleTransformer[Out]{convert: convert}
	t.Self = t
	return t
}

func (t *tupleTransformer[Out]) OnSourceData(ctx *TransformerContext[[]any, Out], v []any) {
	ctx.Dest.Add(t.convert(v))
}
