package scoped

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRaceFirstWins(t *testing.T) {
	s := New()
	val, err := Race(s,
		func(ctx context.Context) (int, error) {
			return 1, nil // fast
		},
		func(ctx context.Context) (int, error) {
			<-ctx.Done()
			return 0, ctx.Err()
		},
	)
	require.NoError(t, err)
	assert.Equal(t, 1, val)
}

func TestRaceAllFail(t *testing.T) {
	s := New()
	sentinel := errors.New("fail")
	_, err := Race(s,
		func(ctx context.Context) (int, error) { return 0, sentinel },
		func(ctx context.Context) (int, error) { return 0, errors.New("other") },
	)
	assert.Error(t, err)
}

func TestRaceEmpty(t *testing.T) {
	s := New()
	val, err := Race[int](s)
	require.NoError(t, err)
	assert.Equal(t, 0, val)
}

func TestRaceOnAlreadyCancelledScopeFailsSynchronously(t *testing.T) {
	s := New()
	s.CancelAll()
	_, err := Race(s,
		func(ctx context.Context) (int, error) {
			<-ctx.Done()
			return 0, ctx.Err()
		},
	)
	var scopeErr *ScopeAlreadyCancelledError
	assert.ErrorAs(t, err, &scopeErr)
}

func TestRaceNilTaskPanics(t *testing.T) {
	s := New()
	mustPanicContains(t, "must not be nil", func() {
		Race(s,
			func(ctx context.Context) (int, error) { return 1, nil },
			nil,
		)
	})
}

func TestRaceSingleTask(t *testing.T) {
	s := New()
	val, err := Race(s,
		func(ctx context.Context) (int, error) { return 42, nil },
	)
	require.NoError(t, err)
	assert.Equal(t, 42, val)
}

// TestRaceCancelsLosers is the spec scenario: the winner's success cancels
// the race's child scope, and every loser observes that cancellation
// through its own task context rather than running to completion.
func TestRaceCancelsLosers(t *testing.T) {
	s := New()
	loserCancelled := make(chan struct{})
	val, err := Race(s,
		func(ctx context.Context) (int, error) {
			return 1, nil
		},
		func(ctx context.Context) (int, error) {
			select {
			case <-ctx.Done():
				close(loserCancelled)
				return 0, ctx.Err()
			case <-time.After(5 * time.Second):
				return 0, errors.New("timeout: loser was not cancelled")
			}
		},
	)
	require.NoError(t, err)
	assert.Equal(t, 1, val)

	select {
	case <-loserCancelled:
	case <-time.After(time.Second):
		t.Fatal("loser task context was never cancelled")
	}
}

// TestRaceBindsTasksToSharedChildScope verifies Race fans every task out
// under a shared child of the parent passed in, so cancelling that parent
// cancels every in-flight racer.
func TestRaceBindsTasksToSharedChildScope(t *testing.T) {
	parent := New()
	started := make(chan struct{})
	stopped := make(chan struct{})

	resultCh := make(chan struct {
		val int
		err error
	}, 1)
	go func() {
		val, err := Race(parent,
			func(ctx context.Context) (int, error) {
				close(started)
				<-ctx.Done()
				close(stopped)
				return 0, ctx.Err()
			},
		)
		resultCh <- struct {
			val int
			err error
		}{val, err}
	}()

	<-started
	parent.CancelAll()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("racing task was never cancelled by parent's CancelAll")
	}

	res := <-resultCh
	assert.Error(t, res.err)
}
