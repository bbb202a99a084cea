package services

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bitcoin-sv/spend-broadcaster/internal/message_queue/nats/nats_connection"
)

func TestWatchMessageQueueClosed(t *testing.T) {
	// given
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	clientClosedCh := make(chan struct{}, 1)
	shutdownCh := make(chan ShutdownReason, 1)

	go watchMessageQueueClosed(logger, clientClosedCh, shutdownCh)

	// when
	clientClosedCh <- struct{}{}

	// then
	select {
	case reason := <-shutdownCh:
		require.ErrorIs(t, reason.Err, nats_connection.ErrConnectionClosed)
		require.True(t, reason.IsFatal())
	case <-time.After(time.Second):
		t.Fatal("no shutdown reason sent")
	}
}

func TestShutdownReasonIsFatal(t *testing.T) {
	tt := []struct {
		name string
		err  error

		expected bool
	}{
		{
			name: "no error",
		},
		{
			name: "cancelled",
			err:  errors.Join(errors.New("stopped"), context.Canceled),
		},
		{
			name:     "error",
			err:      errors.New("spend broadcaster failed"),
			expected: true,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, ShutdownReason{Reason: tc.name, Err: tc.err}.IsFatal())
		})
	}
}

func TestSendShutdown(t *testing.T) {
	// given
	shutdownCh := make(chan ShutdownReason, 1)
	sendShutdown(shutdownCh, ShutdownReason{Reason: "first"})

	// when
	sendShutdown(shutdownCh, ShutdownReason{Reason: "second"})

	// then
	require.Len(t, shutdownCh, 1)
	require.Equal(t, "first", (<-shutdownCh).Reason)
}
