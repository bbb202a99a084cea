package spend_broadcaster

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/bitcoin-sv/spend-broadcaster/internal/node_client"
	"github.com/bitcoin-sv/spend-broadcaster/internal/spend_broadcaster/store"
	"github.com/bitcoin-sv/spend-broadcaster/pkg/tracing"
)

const defaultInterval = 30 * time.Second

var (
	ErrBroadcastBatch  = errors.New("failed to broadcast batch of spend transactions")
	ErrMarkBroadcasted = errors.New("failed to mark spend transaction as broadcasted")
	ErrResultsMismatch = errors.New("number of broadcast results does not match number of submitted transactions")
)

type NodeClient interface {
	BroadcastBatch(ctx context.Context, rawTxs [][]byte) ([]node_client.BroadcastResult, error)
	Classify(err error) node_client.Outcome
}

type MessageQueueClient interface {
	Publish(ctx context.Context, topic string, data []byte) error
}

// SpendBroadcaster periodically submits all pending spend transactions to the node and marks
// those the node accepted or already knows as broadcasted.
type SpendBroadcaster struct {
	store    store.SpendStore
	node     NodeClient
	logger   *slog.Logger
	interval time.Duration
	now      func() time.Time
	stats    *Stats

	mqClient MessageQueueClient
	mqTopic  string

	tracingEnabled    bool
	tracingAttributes []attribute.KeyValue
}

type Option func(*SpendBroadcaster)

func WithInterval(d time.Duration) Option {
	return func(b *SpendBroadcaster) {
		b.interval = d
	}
}

func WithNow(nowFunc func() time.Time) Option {
	return func(b *SpendBroadcaster) {
		b.now = nowFunc
	}
}

func WithStats(stats *Stats) Option {
	return func(b *SpendBroadcaster) {
		b.stats = stats
	}
}

// WithMessageQueueClient publishes an event to topic for every spend transaction marked as
// broadcasted.
func WithMessageQueueClient(client MessageQueueClient, topic string) Option {
	return func(b *SpendBroadcaster) {
		b.mqClient = client
		b.mqTopic = topic
	}
}

func WithTracer(attr ...attribute.KeyValue) Option {
	return func(b *SpendBroadcaster) {
		b.tracingEnabled = true
		if len(attr) > 0 {
			b.tracingAttributes = append(b.tracingAttributes, attr...)
		}
		_, file, _, ok := runtime.Caller(1)
		if ok {
			b.tracingAttributes = append(b.tracingAttributes, attribute.String("file", file))
		}
	}
}

func NewSpendBroadcaster(spendStore store.SpendStore, node NodeClient, logger *slog.Logger, opts ...Option) (*SpendBroadcaster, error) {
	if spendStore == nil {
		return nil, errors.New("spend store is required")
	}
	if node == nil {
		return nil, errors.New("node client is required")
	}

	b := &SpendBroadcaster{
		store:    spendStore,
		node:     node,
		logger:   logger.With(slog.String("module", "spend-broadcaster")),
		interval: defaultInterval,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(b)
	}

	if b.interval <= 0 {
		return nil, fmt.Errorf("interval must be positive, got %s", b.interval)
	}

	return b, nil
}

// Run broadcasts pending spend transactions right away and then once per interval. Attempts never
// overlap. Ticks missed during a long attempt are coalesced into one. Run returns nil once ctx is
// cancelled and a non-nil error only for a fatal failure.
func (b *SpendBroadcaster) Run(ctx context.Context) error {
	b.logger.Info("Starting spend broadcaster", slog.String("interval", b.interval.String()))

	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		err := b.broadcastPending(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}

			return err
		}

		select {
		case <-ctx.Done():
			b.logger.Info("Stopping spend broadcaster")
			return nil
		case <-ticker.C:
		}
	}
}

func (b *SpendBroadcaster) broadcastPending(ctx context.Context) (err error) {
	ctx, span := tracing.StartTracing(ctx, "SpendBroadcaster_broadcastPending", b.tracingEnabled, b.tracingAttributes...)
	start := b.now()
	defer func() {
		b.stats.observeTick(b.now().Sub(start))
		tracing.EndTracing(span, err)
	}()

	b.stats.tick()
	b.logger.Debug("Broadcasting pending spend transactions")

	txs, err := b.store.GetPending(ctx)
	if err != nil {
		// retried on the next tick
		b.stats.fetchError()
		b.logger.Error("Failed to get pending spend transactions", slog.String("err", err.Error()))
		return nil
	}

	b.stats.setPending(len(txs))

	if len(txs) == 0 {
		b.logger.Debug("No pending spend transactions")
		return nil
	}

	rawTxs := make([][]byte, len(txs))
	for i, tx := range txs {
		rawTxs[i] = tx.RawTx
	}

	results, err := b.node.BroadcastBatch(ctx, rawTxs)
	if err != nil {
		return errors.Join(ErrBroadcastBatch, err)
	}

	if len(results) != len(txs) {
		return errors.Join(ErrBroadcastBatch, ErrResultsMismatch, fmt.Errorf("submitted %d, received %d", len(txs), len(results)))
	}

	var broadcasted, alreadyKnown, rejected int

	for i, result := range results {
		tx := txs[i]
		hash := tx.TxID.String()

		outcome := b.node.Classify(result.Err)
		switch outcome {
		case node_client.OutcomeAccepted, node_client.OutcomeAlreadyKnown:
			if result.TxID != nil && !result.TxID.IsEqual(tx.TxID) {
				b.logger.Warn("Node returned a different transaction id", slog.String("hash", hash), slog.String("returned", result.TxID.String()))
			}

			err = b.store.SetBroadcasted(ctx, tx.TxID)
			if err != nil {
				return errors.Join(ErrMarkBroadcasted, fmt.Errorf("hash: %s", hash), err)
			}

			if outcome == node_client.OutcomeAccepted {
				broadcasted++
			} else {
				alreadyKnown++
			}
			b.stats.marked(outcome)

			b.logger.Info("Spend transaction broadcasted", slog.String("hash", hash), slog.String("outcome", outcome.String()))
			b.publish(ctx, tx, outcome)

		default:
			rejected++
			b.stats.rejected()

			args := []any{slog.String("hash", hash), slog.String("err", result.Err.Error())}
			var rpcErr *node_client.RPCError
			if errors.As(result.Err, &rpcErr) {
				args = append(args, slog.Int("code", rpcErr.Code))
			}
			b.logger.Debug("Spend transaction not accepted", args...)
		}
	}

	b.logger.Debug("Broadcast completed",
		slog.Int("submitted", len(txs)),
		slog.Int("broadcasted", broadcasted),
		slog.Int("already_known", alreadyKnown),
		slog.Int("rejected", rejected),
	)

	return nil
}
