package spend_broadcaster

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/bitcoin-sv/spend-broadcaster/internal/node_client"
)

func TestStats(t *testing.T) {
	t.Run("collectors updated", func(t *testing.T) {
		// given
		sut, err := NewStats()
		require.NoError(t, err)
		defer sut.Unregister()

		// when
		sut.tick()
		sut.tick()
		sut.observeTick(20 * time.Millisecond)
		sut.fetchError()
		sut.setPending(3)
		sut.marked(node_client.OutcomeAccepted)
		sut.marked(node_client.OutcomeAccepted)
		sut.marked(node_client.OutcomeAlreadyKnown)
		sut.rejected()
		sut.fatalError()
		sut.restart()

		// then
		require.Equal(t, 2.0, testutil.ToFloat64(sut.ticks))
		require.Equal(t, 1.0, testutil.ToFloat64(sut.fetchErrors))
		require.Equal(t, 3.0, testutil.ToFloat64(sut.pendingTxs))
		require.Equal(t, 2.0, testutil.ToFloat64(sut.broadcasted))
		require.Equal(t, 1.0, testutil.ToFloat64(sut.alreadyKnown))
		require.Equal(t, 1.0, testutil.ToFloat64(sut.rejectedTxs))
		require.Equal(t, 1.0, testutil.ToFloat64(sut.fatalErrors))
		require.Equal(t, 1.0, testutil.ToFloat64(sut.restarts))
		require.Equal(t, 1, testutil.CollectAndCount(sut.tickDuration))
	})

	t.Run("registered twice", func(t *testing.T) {
		// given
		first, err := NewStats()
		require.NoError(t, err)
		defer first.Unregister()

		// when
		second, err := NewStats()

		// then
		require.ErrorIs(t, err, ErrFailedToRegisterStats)
		require.Nil(t, second)
	})

	t.Run("unregister allows registering again", func(t *testing.T) {
		// given
		first, err := NewStats()
		require.NoError(t, err)
		first.Unregister()

		// when
		second, err := NewStats()

		// then
		require.NoError(t, err)
		second.Unregister()
	})

	t.Run("nil stats", func(t *testing.T) {
		var sut *Stats

		require.NotPanics(t, func() {
			sut.tick()
			sut.observeTick(time.Second)
			sut.fetchError()
			sut.setPending(1)
			sut.marked(node_client.OutcomeAccepted)
			sut.rejected()
			sut.fatalError()
			sut.restart()
			sut.Unregister()
		})
	})
}
