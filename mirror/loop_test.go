package mirror

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/AlexMincu/dirsync/internal/testlogging"
	"github.com/AlexMincu/dirsync/internal/testutil"
)

func TestLoopRunsPassesUntilCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(testlogging.Context(t))
	defer cancel()

	sink := &testSink{}
	l := &Loop{
		Syncer: &Syncer{
			SourceRoot: testutil.TempDirectory(t),
			DestRoot:   testutil.TempDirectory(t),
			Sink:       sink,
		},
		Interval: 10 * time.Millisecond,
	}

	done := make(chan error, 1)

	go func() {
		done <- l.Run(ctx)
	}()

	require.Eventually(t, func() bool {
		return sink.numSummaries() >= 3
	}, 5*time.Second, time.Millisecond, "loop did not keep re-running passes")

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)

	case <-time.After(time.Second):
		t.Fatal("loop did not stop promptly after cancellation")
	}
}

func TestLoopStopsBeforeFirstPassWhenAlreadyCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(testlogging.Context(t))
	cancel()

	sink := &testSink{}
	l := &Loop{
		Syncer: &Syncer{
			SourceRoot: testutil.TempDirectory(t),
			DestRoot:   testutil.TempDirectory(t),
			Sink:       sink,
		},
		Interval: time.Hour,
	}

	require.NoError(t, l.Run(ctx))
	require.Equal(t, 0, sink.numSummaries())
}

func TestLoopKeepsRunningWhenPassFails(t *testing.T) {
	ctx, cancel := context.WithCancel(testlogging.Context(t))
	defer cancel()

	dst := testutil.TempDirectory(t)

	l := &Loop{
		Syncer: &Syncer{
			SourceRoot: dst + "/no-such-source",
			DestRoot:   dst,
		},
		Interval: time.Millisecond,
	}

	done := make(chan error, 1)

	go func() {
		done <- l.Run(ctx)
	}()

	// give the loop time to fail a few passes, then stop it
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)

	case <-time.After(time.Second):
		t.Fatal("loop did not stop after cancellation")
	}
}
