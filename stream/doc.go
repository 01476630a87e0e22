// Package stream provides the push-based event-sequence primitives that
// back scope-bound sequences in the parent scoped package: a Source/
// Controller collaborator pair (onListen/onCancel/onPause/onResume plus
// Add/AddError/Close/IsClosed), a Transformer hook interface that wraps a
// source with overridable lifecycle behavior while defaulting to a
// faithful passthrough, and two Transformer-based combinators: Merge
// (latest-value N-way join) and AsFutures (per-event completion
// isolation).
//
// Sources come in two flavors. A single-subscription Source accepts
// exactly one Listen call; a second call fails synchronously with
// [DuplicateListenerError]. A broadcast Source accepts any number of
// concurrent listeners and ignores Pause/Resume.
package stream
