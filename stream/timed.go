package stream

import (
	"context"
	"time"

	"github.com/corbelmatic/taskscope/chanx"
)

// Debounce, Throttle, and Window are time-based supplements to the core
// lifecycle-transformer vocabulary (spec §9 "supplemented features"): none
// of them has a teacher or spec precedent, so rather than hand-roll timer
// bookkeeping they delegate the actual windowing/rate-limiting logic to
// the [chanx] subpackage's plain-channel primitives, bridging a push-based
// [Source] to a channel and back. They carry no error channel: a source
// error during windowing is dropped, matching the channel-only shape of
// the underlying chanx primitive.

func sourceToChan[T any](ctx context.Context, source Source[T]) <-chan T {
	ch := make(chan T)
	sub, err := source.Listen(Listener[T]{
		OnData: func(v T) {
			select {
			case ch <- v:
			case <-ctx.Done():
			}
		},
		OnDone: func() { close(ch) },
	})
	if err != nil {
		close(ch)
		return ch
	}
	go func() {
		<-ctx.Done()
		_ = sub.Cancel()
	}()
	return ch
}

func chanToSource[T any](ctx context.Context, cancel context.CancelFunc, ch <-chan T) Source[T] {
	var c *Controller[T]
	c = NewController[T](Hooks{
		OnListen: func() error {
			go func() {
				for {
					select {
					case v, ok := <-ch:
						if !ok {
							c.Close()
							return
						}
						c.Add(v)
					case <-ctx.Done():
						c.Close()
						return
					}
				}
			}()
			return nil
		},
		OnCancel: func() error {
			cancel()
			return nil
		},
	})
	return c.Source()
}

// Debounce emits source's latest value only after it has stayed quiet
// for d. Grounded on [chanx.Debounce].
func Debounce[T any](source Source[T], d time.Duration) Source[T] {
	ctx, cancel := context.WithCancel(context.Background())
	in := sourceToChan(ctx, source)
	out := chanx.Debounce(ctx, in, d)
	return chanToSource(ctx, cancel, out)
}

// Throttle rate-limits source to at most n values per duration per,
// token-bucket style. Grounded on [chanx.Throttle].
func Throttle[T any](source Source[T], n int, per time.Duration) Source[T] {
	ctx, cancel := context.WithCancel(context.Background())
	in := sourceToChan(ctx, source)
	out := chanx.Throttle(ctx, in, n, per)
	return chanToSource(ctx, cancel, out)
}

// Window batches source's values into time-based windows, tumbling or
// sliding per mode. Grounded on [chanx.Window].
func Window[T any](source Source[T], d time.Duration, mode chanx.WindowMode) Source[[]T] {
	ctx, cancel := context.WithCancel(context.Background())
	in := sourceToChan(ctx, source)
	out := chanx.Window(ctx, in, d, mode)
	return chanToSource(ctx, cancel, out)
}
