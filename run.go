package scoped

import "context"

// Run creates a root [Scope], links it to ctx (cancelling the scope
// when ctx is done), runs fn to spawn tasks via [Scope.Go], and blocks
// until every spawned task has settled, returning the aggregated
// [Scope.Wait] error. It is sugar over [New] for callers who don't need
// to keep the [*Scope] around past fn's return. If ctx is already done,
// Run returns ctx.Err() without calling fn.
func Run(ctx context.Context, fn func(s *Scope), opts ...Option) error {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	s := New(opts...)

	if ctx != nil && ctx.Done() != nil {
		stop := make(chan struct{})
		defer close(stop)
		go func() {
			select {
			case <-ctx.Done():
				s.CancelAll()
			case <-stop:
			}
		}()
	}

	fn(s)
	return s.Wait()
}
