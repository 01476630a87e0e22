// Package chanx provides context-aware, goroutine-safe channel utilities
// for time-based stream shaping.
//
// Go channels are powerful but have sharp edges: combining them with
// context cancellation requires careful select statements, and timer
// bookkeeping (quiet periods, token buckets, tumbling/sliding windows) is
// easy to get subtly wrong. chanx provides three building blocks that
// handle this:
//
//   - [Debounce]: emits the last value received after a quiet period.
//   - [Throttle]: rate-limits a channel to N items per duration.
//   - [Window]: batches items into tumbling or sliding time windows.
//
// All three tie their spawned goroutine to a [context.Context], ensuring
// it terminates when the context is canceled. They are wired into the
// [github.com/corbelmatic/taskscope/stream] package's Debounce/Throttle/
// Window operators, which bridge a push-based Source to the plain-channel
// shape these functions expect and back.
package chanx
