package integration_test

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/ory/dockertest/v3"
	"github.com/stretchr/testify/require"

	"github.com/bitcoin-sv/spend-broadcaster/internal/message_queue/nats/client/nats_core"
	"github.com/bitcoin-sv/spend-broadcaster/internal/message_queue/nats/nats_connection"
	testutils "github.com/bitcoin-sv/spend-broadcaster/internal/test_utils"
)

const spendBroadcastedTopic = "spend-broadcasted"

var natsURL string

func TestMain(m *testing.M) {
	flag.Parse()

	if testing.Short() {
		os.Exit(0)
	}

	os.Exit(testmain(m))
}

func testmain(m *testing.M) int {
	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Printf("failed to create pool: %v", err)
		return 1
	}

	port := "4336"
	name := "nats-core"
	resource, url, err := testutils.RunNats(pool, port, name)
	if err != nil {
		log.Print(err)
		return 1
	}
	defer func() {
		err = pool.Purge(resource)
		if err != nil {
			log.Fatalf("failed to purge pool: %v", err)
		}
	}()

	natsURL = url
	return m.Run()
}

func TestPublish(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	// given
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	subscriberConn, err := nats_connection.New(natsURL, logger)
	require.NoError(t, err)
	defer subscriberConn.Close()

	publisherConn, err := nats_connection.New(natsURL, logger)
	require.NoError(t, err)

	sut := nats_core.New(publisherConn, nats_core.WithLogger(logger))
	defer sut.Shutdown()

	received := make(chan *nats.Msg, 1)
	_, err = subscriberConn.ChanSubscribe(spendBroadcastedTopic, received)
	require.NoError(t, err)
	require.NoError(t, subscriberConn.Flush())

	require.NoError(t, sut.Health(context.TODO()))

	// when
	err = sut.Publish(context.TODO(), spendBroadcastedTopic, []byte(`{"txid":"b042"}`))
	require.NoError(t, err)

	// then
	select {
	case msg := <-received:
		require.Equal(t, []byte(`{"txid":"b042"}`), msg.Data)
	case <-time.After(5 * time.Second):
		t.Fatal("message was not received")
	}
}
