package spend_broadcaster_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/health/grpc_health_v1"

	"github.com/bitcoin-sv/spend-broadcaster/internal/spend_broadcaster"
	"github.com/bitcoin-sv/spend-broadcaster/internal/spend_broadcaster/mocks"
)

type runningReporter bool

func (r runningReporter) Running() bool {
	return bool(r)
}

func TestHealthServer(t *testing.T) {
	tt := []struct {
		name       string
		running    bool
		nodeErr    error
		natsErr    error
		withChecks bool

		expectedStatus grpc_health_v1.HealthCheckResponse_ServingStatus
	}{
		{
			name:       "serving",
			running:    true,
			withChecks: true,

			expectedStatus: grpc_health_v1.HealthCheckResponse_SERVING,
		},
		{
			name:    "serving - no dependency checks",
			running: true,

			expectedStatus: grpc_health_v1.HealthCheckResponse_SERVING,
		},
		{
			name:       "not running",
			running:    false,
			withChecks: true,

			expectedStatus: grpc_health_v1.HealthCheckResponse_NOT_SERVING,
		},
		{
			name:       "node unhealthy",
			running:    true,
			nodeErr:    errors.New("connection refused"),
			withChecks: true,

			expectedStatus: grpc_health_v1.HealthCheckResponse_NOT_SERVING,
		},
		{
			name:       "nats unhealthy",
			running:    true,
			natsErr:    errors.New("not connected"),
			withChecks: true,

			expectedStatus: grpc_health_v1.HealthCheckResponse_NOT_SERVING,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			// given
			var checks []spend_broadcaster.DependencyCheck
			if tc.withChecks {
				checks = []spend_broadcaster.DependencyCheck{
					{Name: "node", Check: func(_ context.Context) error { return tc.nodeErr }},
					{Name: "nats", Check: func(_ context.Context) error { return tc.natsErr }},
				}
			}

			sut := spend_broadcaster.NewHealthServer(newLogger(), runningReporter(tc.running), checks...)

			// when
			resp, err := sut.Check(context.Background(), &grpc_health_v1.HealthCheckRequest{})

			// then
			require.NoError(t, err)
			require.Equal(t, tc.expectedStatus, resp.GetStatus())

			// when
			var sent *grpc_health_v1.HealthCheckResponse
			watchServer := &mocks.HealthWatchServerMock{
				ContextFunc: context.Background,
				SendFunc: func(resp *grpc_health_v1.HealthCheckResponse) error {
					sent = resp
					return nil
				},
			}
			err = sut.Watch(&grpc_health_v1.HealthCheckRequest{}, watchServer)

			// then
			require.NoError(t, err)
			require.Len(t, watchServer.SendCalls(), 1)
			require.Equal(t, tc.expectedStatus, sent.GetStatus())
		})
	}
}
