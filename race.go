package scoped

import (
	"context"
	"fmt"
)

// Race runs every task bound to one child scope of parent, shared by
// all the tasks, and returns the result of the first to succeed (return nil error). The
// moment one succeeds, the child scope cancels — via [Scope.CancelAll]
// — every other still-running task, so a slow loser observes
// cancellation exactly the way any other bound computation would (spec
// §4.4).
//
// If all tasks fail, Race returns the zero value and the error of the
// task that finished last. If parent is cancelled before any task
// succeeds, the cancellation reaches the child scope, the tasks settle
// with a [*CancellationSignal], and Race returns that signal.
//
// If tasks is empty, Race returns (zero, nil). Race panics if any
// element of tasks is nil.
func Race[T any](parent *Scope, tasks ...func(context.Context) (T, error)) (T, error) {
	var zero T
	if len(tasks) == 0 {
		return zero, nil
	}
	for i, fn := range tasks {
		if fn == nil {
			panic(fmt.Sprintf("scoped: Race task[%d] must not be nil", i))
		}
	}

	child := NewChild(parent)

	bcs := make([]*BoundComputation[T], 0, len(tasks))
	for _, fn := range tasks {
		bc, err := BindComputation(child, fn)
		if err != nil {
			// child was already cancelled at construction (parent had
			// already cancelled); nothing to race.
			return zero, err
		}
		bcs = append(bcs, bc)
	}

	type result struct {
		val T
		err error
	}
	results := make(chan result, len(bcs))
	for _, bc := range bcs {
		bc := bc
		go func() {
			val, err := bc.Wait(context.Background())
			results <- result{val: val, err: err}
		}()
	}

	var lastErr error
	for range bcs {
		res := <-results
		if res.err == nil {
			child.CancelAll()
			return res.val, nil
		}
		lastErr = res.err
	}

	child.CancelAll()
	return zero, lastErr
}
