package scoped

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corbelmatic/taskscope/stream"
)

func TestBindSequenceForwardsDataErrorDone(t *testing.T) {
	s := New()
	src := stream.NewController[int](stream.Hooks{})
	bs, err := BindSequence(s, src.Source())
	require.NoError(t, err)

	var got []int
	var gotErr error
	doneCh := make(chan struct{})
	_, err = bs.Listen(stream.Listener[int]{
		OnData:  func(v int) { got = append(got, v) },
		OnError: func(e error) { gotErr = e },
		OnDone:  func() { close(doneCh) },
	})
	require.NoError(t, err)

	src.Add(1)
	src.Add(2)
	src.AddError(assert.AnError)
	src.Close()

	<-doneCh
	assert.Equal(t, []int{1, 2}, got)
	assert.ErrorIs(t, gotErr, assert.AnError)
	require.NoError(t, s.Wait())
}

// TestBindSequenceScopeCancelPushesSignalThenDone is spec scenario S2:
// a scope-driven cancellation delivers exactly one CancellationSignal
// error followed by done, and nothing else.
func TestBindSequenceScopeCancelPushesSignalThenDone(t *testing.T) {
	s := New()
	src := stream.NewController[int](stream.Hooks{})
	bs, err := BindSequence(s, src.Source())
	require.NoError(t, err)

	var events []string
	_, err = bs.Listen(stream.Listener[int]{
		OnData:  func(int) { events = append(events, "data") },
		OnError: func(error) { events = append(events, "error") },
		OnDone:  func() { events = append(events, "done") },
	})
	require.NoError(t, err)

	src.Add(1)
	s.CancelAll()

	require.NoError(t, s.Wait())
	assert.Equal(t, []string{"data", "error", "done"}, events)
}

func TestBindSequenceUserCancelForwardsToSourceWithoutSignal(t *testing.T) {
	var sourceCancelled bool
	s := New()
	src := stream.NewController[int](stream.Hooks{OnCancel: func() error {
		sourceCancelled = true
		return nil
	}})
	bs, err := BindSequence(s, src.Source())
	require.NoError(t, err)

	var gotErr error
	sub, err := bs.Listen(stream.Listener[int]{OnError: func(e error) { gotErr = e }})
	require.NoError(t, err)

	require.NoError(t, sub.Cancel())
	assert.True(t, sourceCancelled)
	assert.NoError(t, gotErr, "a user cancel must not surface a CancellationSignal")

	require.NoError(t, s.Wait())
}

func TestBindSequenceAfterScopeCancelledFailsSynchronously(t *testing.T) {
	s := New()
	s.CancelAll()

	src := stream.NewController[int](stream.Hooks{})
	_, err := BindSequence(s, src.Source())
	var sac *ScopeAlreadyCancelledError
	assert.ErrorAs(t, err, &sac)
}

func TestBindSequenceDuplicateListenFailsSynchronously(t *testing.T) {
	s := New()
	src := stream.NewController[int](stream.Hooks{})
	bs, err := BindSequence(s, src.Source())
	require.NoError(t, err)

	_, err = bs.Listen(stream.Listener[int]{})
	require.NoError(t, err)

	_, err = bs.Listen(stream.Listener[int]{})
	var dup *stream.DuplicateListenerError
	assert.ErrorAs(t, err, &dup)

	s.CancelAll()
	_ = s.Wait()
}

func TestBindSequenceIsBroadcastReflectsSource(t *testing.T) {
	s := New()
	src := stream.NewBroadcastController[int](stream.Hooks{})
	bs, err := BindSequence(s, src.Source())
	require.NoError(t, err)
	assert.True(t, bs.IsBroadcast())

	s.CancelAll()
	_ = s.Wait()
}
