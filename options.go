package scoped

import "time"

// Policy determines how a [Scope] handles errors from its [Scope.Go]
// tasks. It has no bearing on raw [BindComputation]/[BindSequence] calls,
// whose error delivery is governed solely by spec §4.7 (first-wins
// terminal state) — Policy is ambient sugar layered on top for the
// fire-and-forget helpers, exactly as in the teacher package.
type Policy int

const (
	// FailFast cancels the scope (via [Scope.CancelAll]) on the first
	// [Scope.Go] task error. [Scope.Wait] returns that first error.
	FailFast Policy = iota

	// Collect gathers every [Scope.Go] task error without cancelling the
	// scope. [Scope.Wait] returns all errors joined via errors.Join.
	Collect
)

// EventKind classifies a [TaskEvent].
type EventKind int

const (
	EventStarted EventKind = iota
	EventDone
	EventErrored
	EventPanicked
	EventCancelled
)

// TaskInfo identifies a [Scope.Go] task for observability hooks and
// [TaskError] attribution.
type TaskInfo struct {
	Name string
}

// TaskEvent is delivered to a [WithOnEvent] hook for every task lifecycle
// transition.
type TaskEvent struct {
	Kind     EventKind
	Task     TaskInfo
	Err      error
	Duration time.Duration
}

type config struct {
	policy     Policy
	limit      int
	panicAsErr bool
	maxErrors  int
	onStart    func(TaskInfo)
	onDone     func(TaskInfo, error, time.Duration)
	onEvent    func(TaskEvent)
}

// Option configures a [Scope].
type Option func(*config)

func defaultConfig() config {
	return config{policy: FailFast}
}

// WithPolicy sets the error-handling policy for [Scope.Go] tasks.
// It panics if p is not a known Policy value.
func WithPolicy(p Policy) Option {
	return func(c *config) {
		switch p {
		case FailFast, Collect:
			c.policy = p
		default:
			panic("scoped: invalid policy")
		}
	}
}

// WithLimit bounds the number of [Scope.Go] tasks executing concurrently
// within the scope. Tasks beyond the limit block until a slot frees up
// or the scope's context is cancelled.
//
// A limit of zero (the default) means unlimited concurrency.
// WithLimit panics if n is negative.
func WithLimit(n int) Option {
	return func(c *config) {
		if n < 0 {
			panic("scoped: limit must be non-negative")
		}
		c.limit = n
	}
}

// WithMaxErrors caps the number of errors retained under [Collect]
// policy; errors beyond the cap are counted in [Scope.DroppedErrors] but
// not stored. Zero (the default) means unbounded.
func WithMaxErrors(n int) Option {
	return func(c *config) {
		if n < 0 {
			panic("scoped: maxErrors must be non-negative")
		}
		c.maxErrors = n
	}
}

// WithPanicAsError makes [Scope.Wait] return panics captured from
// [Scope.Go] tasks as [*PanicError] values among its ordinary errors,
// instead of re-raising them. Bound computations convert a panic to a
// [*PanicError] whether or not this option is set.
func WithPanicAsError() Option {
	return func(c *config) { c.panicAsErr = true }
}

// WithOnStart registers a hook invoked when each [Scope.Go] task begins
// executing. The hook runs inside the task's goroutine before the task
// function.
func WithOnStart(fn func(TaskInfo)) Option {
	return func(c *config) { c.onStart = fn }
}

// WithOnDone registers a hook invoked when each [Scope.Go] task finishes.
// The hook receives the task's error (nil on success) and wall-clock
// duration, and runs inside the task's goroutine after the task function
// returns.
func WithOnDone(fn func(TaskInfo, error, time.Duration)) Option {
	return func(c *config) { c.onDone = fn }
}

// WithOnEvent registers a unified hook receiving a [TaskEvent] for every
// [Scope.Go] task state change, including cancellation.
func WithOnEvent(fn func(TaskEvent)) Option {
	return func(c *config) { c.onEvent = fn }
}
