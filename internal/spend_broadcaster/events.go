package spend_broadcaster

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/bitcoin-sv/spend-broadcaster/internal/node_client"
	"github.com/bitcoin-sv/spend-broadcaster/internal/spend_broadcaster/store"
)

// SpendBroadcastedEvent is published once a spend transaction has been marked as broadcasted.
type SpendBroadcastedEvent struct {
	ID        uuid.UUID `json:"id"`
	TxID      string    `json:"txid"`
	Outcome   string    `json:"outcome"`
	Timestamp time.Time `json:"timestamp"`
}

// publish is best effort. The transaction is already marked, so a failed publish is only logged.
func (b *SpendBroadcaster) publish(ctx context.Context, tx *store.SpendTx, outcome node_client.Outcome) {
	if b.mqClient == nil {
		return
	}

	event := SpendBroadcastedEvent{
		ID:        uuid.New(),
		TxID:      tx.TxID.String(),
		Outcome:   outcome.String(),
		Timestamp: b.now().UTC(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		b.logger.Error("Failed to marshal spend broadcasted event", slog.String("hash", event.TxID), slog.String("err", err.Error()))
		return
	}

	err = b.mqClient.Publish(ctx, b.mqTopic, data)
	if err != nil {
		b.logger.Error("Failed to publish spend broadcasted event", slog.String("hash", event.TxID), slog.String("err", err.Error()))
	}
}
