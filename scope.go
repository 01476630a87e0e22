// Package scoped implements a structured-concurrency core: Scopes own a
// set of cancellable task handles and guarantee that cancellation is
// observable synchronously to anyone watching [Scope.IsCancelled], even
// though completions themselves propagate through goroutines and
// channels. See SPEC_FULL.md for the full specification this package
// implements.
//
// # Binding work to a scope
//
// [BindComputation] adapts a one-shot function into a [BoundComputation]
// whose result loses any race against a concurrent [Scope.CancelAll].
// [BindSequence] adapts a push-based [stream.Source] into a
// [BoundSequence] that, on cancellation, delivers one [*CancellationSignal]
// error followed by done and nothing else.
//
//	sc := scoped.New()
//	bc, err := scoped.BindComputation(sc, func(ctx context.Context) (int, error) {
//	    return fetch(ctx)
//	})
//	v, err := bc.Wait(context.Background())
//
// # Fire-and-forget tasks
//
// [Scope.Go] is sugar over [BindComputation] for tasks whose result is a
// plain error, folded into the scope's [Policy] ([FailFast] or
// [Collect], configured via [WithPolicy]). [Scope.Wait] blocks until
// every bound computation and bound sequence started in the scope has
// settled, then returns the aggregated error.
//
// # Cancellation filtering
//
// [Scope.CatchCancellations] and [CatchAllCancellations] let a block of
// code absorb [*CancellationSignal] values matching a predicate while
// letting every other fault propagate, so user code can treat
// cancellation as a normal, catchable control-flow exit instead of a
// crash.
package scoped

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

var scopeIDSeq atomic.Uint64

// handle is a cancellable task owned by a [Scope]. cancel must not block
// or suspend — spec §5 requires [Scope.CancelAll] to be synchronous.
type handle interface {
	cancel(sig *CancellationSignal)
}

// Scope owns a set of task handles (bound computations, bound
// sequences, and cancel listeners) plus an ordered list of child scopes.
// Create one with [New] or [NewChild]; tear it down with [Scope.CancelAll]
// or let it go out of scope once every bound task has settled.
//
// Scope.cancelled transitions false→true exactly once, synchronously
// from whichever goroutine calls [Scope.CancelAll] first; once true, the
// handle set is empty and every subsequent bind fails with
// [*ScopeAlreadyCancelledError] (spec §3).
type Scope struct {
	id uint64

	mu        sync.Mutex
	handles   map[handle]struct{}
	children  []*Scope
	cancelled bool

	ctx    context.Context
	cancel context.CancelCauseFunc

	cfg config
	sem chan struct{}

	wg sync.WaitGroup

	errOnce       sync.Once
	firstErr      atomic.Pointer[TaskError]
	errMu         sync.Mutex
	errs          []*TaskError
	droppedErrors int

	panicMu sync.Mutex
	panics  []*PanicError

	totalSpawned atomic.Int64
	activeTasks  atomic.Int64
}

// New creates a root [Scope] with no parent.
func New(opts ...Option) *Scope {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	ctx, cancel := context.WithCancelCause(context.Background())
	s := &Scope{
		id:      scopeIDSeq.Add(1),
		handles: make(map[handle]struct{}),
		ctx:     ctx,
		cancel:  cancel,
		cfg:     cfg,
	}
	if cfg.limit > 0 {
		s.sem = make(chan struct{}, cfg.limit)
	}
	return s
}

// NewChild creates a [Scope] attached to parent: parent.CancelAll fans
// out to it (parent→children only; children never cancel their
// parent). If parent is already cancelled, the child is constructed
// already cancelled — it registers nowhere and every subsequent bind on
// it fails immediately, per spec §9's "refuse" resolution for
// constructing a child of an already-cancelled scope.
func NewChild(parent *Scope, opts ...Option) *Scope {
	child := New(opts...)

	parent.mu.Lock()
	if parent.cancelled {
		parent.mu.Unlock()
		child.CancelAll()
		return child
	}
	parent.children = append(parent.children, child)
	parent.mu.Unlock()

	return child
}

// Context returns a context.Context cancelled when the scope cancels,
// for interop with context-aware APIs that aren't bound via
// [BindComputation]/[BindSequence].
func (s *Scope) Context() context.Context { return s.ctx }

// IsCancelled reports whether [Scope.CancelAll] has run.
func (s *Scope) IsCancelled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelled
}

// ID returns this scope's stable identity, used to stamp
// [*CancellationSignal] values and to compare scopes without holding a
// pointer to the parent (spec §9: "use a non-owning identity handle").
func (s *Scope) ID() uint64 { return s.id }

// CancelAll synchronously cancels every handle currently owned by this
// scope, then recurses into each child scope in the order they were
// created. It does not suspend: by the time it returns on the caller's
// stack frame, IsCancelled reads true and no previously-bound
// computation or sequence can deliver a further value — only a
// [*CancellationSignal].
//
// Idempotent: a second call observes cancelled already true and is a
// no-op. Handles registered by a cancel callback while CancelAll is
// running are not visited — the handle set is snapshotted to a local
// slice before iterating (spec §9 open question, resolved this way).
func (s *Scope) CancelAll() {
	s.mu.Lock()
	if s.cancelled {
		s.mu.Unlock()
		return
	}
	snapshot := make([]handle, 0, len(s.handles))
	for h := range s.handles {
		snapshot = append(snapshot, h)
	}
	s.handles = make(map[handle]struct{})
	children := append([]*Scope(nil), s.children...)
	s.cancelled = true
	s.mu.Unlock()

	sig := &CancellationSignal{scopeID: s.id}
	s.cancel(sig)

	for _, h := range snapshot {
		h.cancel(sig)
	}
	for _, child := range children {
		child.CancelAll()
	}
}

func (s *Scope) addHandle(h handle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelled {
		return &ScopeAlreadyCancelledError{ScopeID: s.id}
	}
	s.handles[h] = struct{}{}
	return nil
}

func (s *Scope) removeHandle(h handle) {
	s.mu.Lock()
	delete(s.handles, h)
	s.mu.Unlock()
}

func (s *Scope) recordPanic(pe *PanicError) {
	s.panicMu.Lock()
	s.panics = append(s.panics, pe)
	s.panicMu.Unlock()
}

// recordError applies the scope's [Policy] to a named [Scope.Go] task
// failure. Raw BindComputation/BindSequence errors never reach here —
// they are governed solely by the bridge's first-wins terminal state.
func (s *Scope) recordError(info TaskInfo, err error) {
	te := &TaskError{Task: info, Err: err}
	switch s.cfg.policy {
	case FailFast:
		s.errOnce.Do(func() {
			s.firstErr.Store(te)
			s.CancelAll()
		})
	case Collect:
		s.errMu.Lock()
		if s.cfg.maxErrors > 0 && len(s.errs) >= s.cfg.maxErrors {
			s.droppedErrors++
		} else {
			s.errs = append(s.errs, te)
		}
		s.errMu.Unlock()
	}
}

func (s *Scope) emitEvent(e TaskEvent) {
	if s.cfg.onEvent != nil {
		s.cfg.onEvent(e)
	}
}

// Go spawns a fire-and-forget named task bound to the scope: sugar over
// [BindComputation] whose error feeds the scope's [Policy] and whose
// completion is joined by [Scope.Wait]. Panics if the scope has already
// cancelled — mirroring the teacher package's Spawner contract, since
// Go (unlike BindComputation) has no error return of its own.
func (s *Scope) Go(name string, fn func(ctx context.Context) error) {
	info := TaskInfo{Name: name}
	s.totalSpawned.Add(1)

	_, err := BindComputation(s, func(ctx context.Context) (struct{}, error) {
		if s.sem != nil {
			select {
			case s.sem <- struct{}{}:
				defer func() { <-s.sem }()
			case <-ctx.Done():
				return struct{}{}, ctx.Err()
			}
		}

		s.activeTasks.Add(1)
		defer s.activeTasks.Add(-1)

		if s.cfg.onStart != nil {
			s.cfg.onStart(info)
		}
		s.emitEvent(TaskEvent{Kind: EventStarted, Task: info})

		start := time.Now()
		taskErr := func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = newPanicError(r)
				}
			}()
			return fn(ctx)
		}()
		elapsed := time.Since(start)

		if s.cfg.onDone != nil {
			s.cfg.onDone(info, taskErr, elapsed)
		}
		s.emitEvent(TaskEvent{Kind: completionKind(taskErr, s.IsCancelled()), Task: info, Err: taskErr, Duration: elapsed})

		if taskErr != nil {
			if isPanicError(taskErr) {
				var pe *PanicError
				errors.As(taskErr, &pe)
				s.recordPanic(pe)
			}
			s.recordError(info, taskErr)
		}
		return struct{}{}, taskErr
	})
	if err != nil {
		panic("scoped: Go called after scope cancellation")
	}
}

func completionKind(err error, cancelled bool) EventKind {
	switch {
	case err == nil:
		return EventDone
	case isPanicError(err):
		return EventPanicked
	case cancelled:
		return EventCancelled
	default:
		return EventErrored
	}
}

func isPanicError(err error) bool {
	var pe *PanicError
	return errors.As(err, &pe)
}

// Wait blocks until every bound computation and bound sequence started
// in the scope (via [BindComputation], [BindSequence], or [Scope.Go])
// has settled, then returns the aggregated [Scope.Go] error according
// to [Policy]. Re-panics with the first captured [*PanicError] unless
// [WithPanicAsError] was set. Idempotent.
func (s *Scope) Wait() error {
	s.wg.Wait()

	s.panicMu.Lock()
	var pe *PanicError
	if len(s.panics) > 0 && !s.cfg.panicAsErr {
		pe = s.panics[0]
	}
	s.panicMu.Unlock()
	if pe != nil {
		panic(pe)
	}

	switch s.cfg.policy {
	case FailFast:
		if te := s.firstErr.Load(); te != nil {
			return te
		}
		return nil
	case Collect:
		s.errMu.Lock()
		defer s.errMu.Unlock()
		if len(s.errs) == 0 {
			return nil
		}
		errs := make([]error, len(s.errs))
		for i, te := range s.errs {
			errs[i] = te
		}
		return errors.Join(errs...)
	default:
		return nil
	}
}

// ActiveTasks returns the number of [Scope.Go] tasks currently executing.
func (s *Scope) ActiveTasks() int64 { return s.activeTasks.Load() }

// TotalSpawned returns the total number of [Scope.Go] tasks ever started.
func (s *Scope) TotalSpawned() int64 { return s.totalSpawned.Load() }

// DroppedErrors returns the number of [Collect]-policy errors discarded
// because [WithMaxErrors] was reached.
func (s *Scope) DroppedErrors() int {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	return s.droppedErrors
}
