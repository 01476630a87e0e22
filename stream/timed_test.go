package stream

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corbelmatic/taskscope/chanx"
)

func TestDebounceEmitsOnlyLastValueAfterQuietPeriod(t *testing.T) {
	c := NewController[int](Hooks{})
	debounced := Debounce[int](c.Source(), 20*time.Millisecond)

	var got []int
	doneCh := make(chan struct{})
	_, err := debounced.Listen(Listener[int]{
		OnData: func(v int) { got = append(got, v) },
		OnDone: func() { close(doneCh) },
	})
	require.NoError(t, err)

	c.Add(1)
	c.Add(2)
	c.Add(3)
	c.Close()

	select {
	case <-doneCh:
	case <-time.After(time.Second):
		t.Fatal("debounced source never closed")
	}

	assert.Equal(t, []int{3}, got)
}

func TestThrottlePassesEveryValueEventually(t *testing.T) {
	c := NewController[int](Hooks{})
	throttled := Throttle[int](c.Source(), 2, 20*time.Millisecond)

	var got []int
	doneCh := make(chan struct{})
	_, err := throttled.Listen(Listener[int]{
		OnData: func(v int) { got = append(got, v) },
		OnDone: func() { close(doneCh) },
	})
	require.NoError(t, err)

	for i := 1; i <= 5; i++ {
		c.Add(i)
	}
	c.Close()

	select {
	case <-doneCh:
	case <-time.After(2 * time.Second):
		t.Fatal("throttled source never closed")
	}

	assert.Equal(t, []int{1, 2, 3, 4, 5}, got)
}

func TestWindowBatchesValuesByDuration(t *testing.T) {
	c := NewController[int](Hooks{})
	windowed := Window[int](c.Source(), 30*time.Millisecond, chanx.Tumbling)

	var got [][]int
	doneCh := make(chan struct{})
	_, err := windowed.Listen(Listener[[]int]{
		OnData: func(batch []int) { got = append(got, batch) },
		OnDone: func() { close(doneCh) },
	})
	require.NoError(t, err)

	c.Add(1)
	c.Add(2)
	c.Close()

	select {
	case <-doneCh:
	case <-time.After(time.Second):
		t.Fatal("windowed source never closed")
	}

	require.Len(t, got, 1)
	assert.Equal(t, []int{1, 2}, got[0])
}
