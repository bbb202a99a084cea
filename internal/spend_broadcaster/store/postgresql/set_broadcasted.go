package postgresql

import (
	"context"
	"errors"

	"github.com/bsv-blockchain/go-sdk/chainhash"

	"github.com/bitcoin-sv/spend-broadcaster/internal/spend_broadcaster/store"
	"github.com/bitcoin-sv/spend-broadcaster/pkg/tracing"
)

// SetBroadcasted only touches rows which are still pending, so repeated calls keep the
// timestamp of the first one.
func (p *PostgreSQL) SetBroadcasted(ctx context.Context, txID *chainhash.Hash) (err error) {
	ctx, span := tracing.StartTracing(ctx, "SetBroadcasted", p.tracingEnabled, p.tracingAttributes...)
	defer func() {
		tracing.EndTracing(span, err)
	}()

	const q = `
		UPDATE spend_broadcaster.spend_txs
		SET broadcasted = TRUE
			,broadcasted_at = $2
		WHERE tx_id = $1 AND broadcasted = FALSE
	`

	_, err = p.db.ExecContext(ctx, q, txID[:], p.now().UTC())
	if err != nil {
		return errors.Join(store.ErrFailedToSetBroadcast, err)
	}

	return nil
}
