package stream

import "sync"

// Hooks are the lifecycle callbacks a producer installs on a [Controller]
// or [BroadcastController]. They mirror spec §4.1's onListen/onCancel/
// onPause/onResume and are invoked synchronously from the corresponding
// Source method — in particular OnListen's returned error becomes
// Listen's own return value, which is how duplicate-listen detection
// surfaces synchronously without the "listen proxy" indirection the
// source specification describes for hosts that swallow synchronous
// listen-time faults (see DESIGN.md).
type Hooks struct {
	OnListen func() error
	OnCancel func() error
	OnPause  func()
	OnResume func()
}

type bufferedEvent[T any] struct {
	isError bool
	val     T
	err     error
}

// Controller is a single-subscription [Source] producer primitive: the
// runtime collaborator described in spec §6 ("add, addError, close,
// isClosed") for the non-broadcast case. Pause nests: the Paused hooks
// fire only on transitions into and out of the paused state, and events
// produced while paused are buffered and flushed in order on Resume.
type Controller[T any] struct {
	mu          sync.Mutex
	hooks       Hooks
	listener    Listener[T]
	hasListener bool
	cancelled   bool
	closed      bool
	pauseDepth  int
	buffered    []bufferedEvent[T]
	sourceName  string
}

// NewController creates a single-subscription Controller. hooks may be
// the zero value if the producer needs no lifecycle callbacks.
func NewController[T any](hooks Hooks) *Controller[T] {
	return &Controller[T]{hooks: hooks}
}

// WithName attaches a diagnostic name surfaced in [DuplicateListenerError].
func (c *Controller[T]) WithName(name string) *Controller[T] {
	c.sourceName = name
	return c
}

func (c *Controller[T]) IsBroadcast() bool { return false }

func (c *Controller[T]) Listen(l Listener[T]) (Subscription, error) {
	c.mu.Lock()
	if c.hasListener {
		c.mu.Unlock()
		return nil, &DuplicateListenerError{SourceName: c.sourceName}
	}
	c.hasListener = true
	c.listener = l
	c.mu.Unlock()

	if c.hooks.OnListen != nil {
		if err := c.hooks.OnListen(); err != nil {
			c.mu.Lock()
			c.hasListener = false
			c.mu.Unlock()
			return nil, err
		}
	}
	return &controllerSubscription[T]{c: c}, nil
}

// Add delivers v to the listener, or buffers it if paused. A no-op once
// the controller is closed.
func (c *Controller[T]) Add(v T) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if c.pauseDepth > 0 {
		c.buffered = append(c.buffered, bufferedEvent[T]{val: v})
		c.mu.Unlock()
		return
	}
	l := c.listener
	c.mu.Unlock()
	l.data(v)
}

// AddError delivers err to the listener's error callback, or buffers it
// if paused. A no-op once the controller is closed.
func (c *Controller[T]) AddError(err error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if c.pauseDepth > 0 {
		c.buffered = append(c.buffered, bufferedEvent[T]{isError: true, err: err})
		c.mu.Unlock()
		return
	}
	l := c.listener
	c.mu.Unlock()
	l.errorEvent(err)
}

// Close delivers done to the listener, if any, and marks the controller
// closed. Idempotent.
func (c *Controller[T]) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	l := c.listener
	hasListener := c.hasListener
	c.mu.Unlock()
	if hasListener {
		l.done()
	}
}

func (c *Controller[T]) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Source returns this controller as the [Source] consumers listen to.
func (c *Controller[T]) Source() Source[T] { return c }

func (c *Controller[T]) pause() {
	c.mu.Lock()
	c.pauseDepth++
	enter := c.pauseDepth == 1
	c.mu.Unlock()
	if enter && c.hooks.OnPause != nil {
		c.hooks.OnPause()
	}
}

func (c *Controller[T]) resume() {
	c.mu.Lock()
	if c.pauseDepth == 0 {
		c.mu.Unlock()
		return
	}
	c.pauseDepth--
	exit := c.pauseDepth == 0
	var flush []bufferedEvent[T]
	if exit {
		flush = c.buffered
		c.buffered = nil
	}
	l := c.listener
	c.mu.Unlock()

	if exit && c.hooks.OnResume != nil {
		c.hooks.OnResume()
	}
	for _, ev := range flush {
		if ev.isError {
			l.errorEvent(ev.err)
		} else {
			l.data(ev.val)
		}
	}
}

func (c *Controller[T]) cancel() error {
	c.mu.Lock()
	if c.cancelled {
		c.mu.Unlock()
		return nil
	}
	c.cancelled = true
	c.hasListener = false
	c.mu.Unlock()
	if c.hooks.OnCancel != nil {
		return c.hooks.OnCancel()
	}
	return nil
}

type controllerSubscription[T any] struct {
	c *Controller[T]
}

func (s *controllerSubscription[T]) Cancel() error { return s.c.cancel() }
func (s *controllerSubscription[T]) Pause()        { s.c.pause() }
func (s *controllerSubscription[T]) Resume()       { s.c.resume() }
