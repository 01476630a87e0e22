package stream

import (
	"context"
	"sync"
)

// FromSlice returns a single-subscription Source that emits each item of
// items, in order, then closes. Grounded on the pull-based
// scoped.FromSlice in the teacher package, rendered push-based.
func FromSlice[T any](items []T) Source[T] {
	var c *Controller[T]
	done := make(chan struct{})
	c = NewController[T](Hooks{
		OnListen: func() error {
			go func() {
				for _, v := range items {
					select {
					case <-done:
						return
					default:
					}
					c.Add(v)
				}
				c.Close()
			}()
			return nil
		},
		OnCancel: func() error {
			close(done)
			return nil
		},
	})
	return c.Source()
}

// FromChan returns a single-subscription Source that relays every value
// received from ch until ch is closed or ctx is cancelled, at which
// point the source closes (ctx cancellation is not surfaced as an error
// event — observational cancellation only, per spec §1 Non-goals).
func FromChan[T any](ctx context.Context, ch <-chan T) Source[T] {
	var c *Controller[T]
	var once sync.Once
	cancelled := make(chan struct{})
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
					case <-cancelled:
						return
					}
				}
			}()
			return nil
		},
		OnCancel: func() error {
			once.Do(func() { close(cancelled) })
			return nil
		},
	})
	return c.Source()
}
