package spend_broadcaster_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/require"

	"github.com/bitcoin-sv/spend-broadcaster/internal/spend_broadcaster"
	"github.com/bitcoin-sv/spend-broadcaster/internal/spend_broadcaster/mocks"
)

func TestSupervisorRun(t *testing.T) {
	errFatal := errors.New("fatal")

	tt := []struct {
		name          string
		opts          []spend_broadcaster.SupervisorOption
		runErrs       []error
		cancelOnCall  int
		expectedCalls int

		expectedErrs []error
	}{
		{
			name:    "restarts disabled - first fatal error returned",
			runErrs: []error{errFatal},

			expectedCalls: 1,
			expectedErrs:  []error{errFatal},
		},
		{
			name: "restarted until backoff is exhausted",
			opts: []spend_broadcaster.SupervisorOption{
				spend_broadcaster.WithBackOff(func() backoff.BackOff {
					return backoff.WithMaxRetries(&backoff.ZeroBackOff{}, 2)
				}),
			},
			runErrs: []error{errFatal, errFatal, errFatal},

			expectedCalls: 3,
			expectedErrs:  []error{spend_broadcaster.ErrRestartsExhausted, errFatal},
		},
		{
			name: "restarted and stopped cleanly",
			opts: []spend_broadcaster.SupervisorOption{
				spend_broadcaster.WithBackOff(func() backoff.BackOff {
					return backoff.WithMaxRetries(&backoff.ZeroBackOff{}, 5)
				}),
			},
			runErrs: []error{errFatal, nil},

			expectedCalls: 2,
		},
		{
			name: "cancelled while running",
			opts: []spend_broadcaster.SupervisorOption{
				spend_broadcaster.WithRestartPolicy(true, time.Millisecond, time.Millisecond, time.Minute),
			},
			runErrs:      []error{errFatal, errFatal},
			cancelOnCall: 2,

			expectedCalls: 2,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			// given
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			var calls atomic.Int32
			runner := &mocks.RunnerMock{
				RunFunc: func(_ context.Context) error {
					call := int(calls.Add(1))
					if call == tc.cancelOnCall {
						cancel()
					}
					if call > len(tc.runErrs) {
						return nil
					}
					return tc.runErrs[call-1]
				},
			}

			sut := spend_broadcaster.NewSupervisor(runner, newLogger(), tc.opts...)

			// when
			err := sut.Run(ctx)

			// then
			if len(tc.expectedErrs) == 0 {
				require.NoError(t, err)
			}
			for _, expectedErr := range tc.expectedErrs {
				require.ErrorIs(t, err, expectedErr)
			}
			require.Len(t, runner.RunCalls(), tc.expectedCalls)
			require.False(t, sut.Running())
		})
	}
}

func TestSupervisorBackOffReset(t *testing.T) {
	errFatal := errors.New("fatal")

	tt := []struct {
		name       string
		secondRun  time.Duration
		healthyRun time.Duration
		runErrs    []error

		expectedCalls int
		expectedErrs  []error
	}{
		{
			name:       "long run resets the backoff",
			secondRun:  time.Hour,
			healthyRun: 10 * time.Minute,
			runErrs:    []error{errFatal, errFatal, nil},

			expectedCalls: 3,
		},
		{
			name:       "short run keeps the backoff",
			secondRun:  time.Minute,
			healthyRun: 10 * time.Minute,
			runErrs:    []error{errFatal, errFatal, nil},

			expectedCalls: 2,
			expectedErrs:  []error{spend_broadcaster.ErrRestartsExhausted, errFatal},
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			// given
			clock := time.Date(2024, 9, 1, 13, 0, 0, 0, time.UTC)
			var calls int
			runner := &mocks.RunnerMock{
				RunFunc: func(_ context.Context) error {
					calls++
					if calls == 2 {
						clock = clock.Add(tc.secondRun)
					}
					return tc.runErrs[calls-1]
				},
			}

			sut := spend_broadcaster.NewSupervisor(runner, newLogger(),
				spend_broadcaster.WithBackOff(func() backoff.BackOff {
					return backoff.WithMaxRetries(&backoff.ZeroBackOff{}, 1)
				}),
				spend_broadcaster.WithHealthyRunDuration(tc.healthyRun),
				spend_broadcaster.WithSupervisorNow(func() time.Time { return clock }),
			)

			// when
			err := sut.Run(context.Background())

			// then
			if len(tc.expectedErrs) == 0 {
				require.NoError(t, err)
			}
			for _, expectedErr := range tc.expectedErrs {
				require.ErrorIs(t, err, expectedErr)
			}
			require.Len(t, runner.RunCalls(), tc.expectedCalls)
		})
	}
}

func TestSupervisorRunning(t *testing.T) {
	// given
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	started := make(chan struct{})
	runner := &mocks.RunnerMock{
		RunFunc: func(ctx context.Context) error {
			close(started)
			<-ctx.Done()
			return nil
		},
	}

	sut := spend_broadcaster.NewSupervisor(runner, newLogger())
	require.False(t, sut.Running())

	done := make(chan error, 1)
	go func() {
		done <- sut.Run(ctx)
	}()

	// when
	<-started

	// then
	require.True(t, sut.Running())

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("supervisor did not stop")
	}
	require.False(t, sut.Running())
}
