package postgresql

import (
	"context"
	"errors"
	"time"

	"github.com/bsv-blockchain/go-sdk/chainhash"

	"github.com/bitcoin-sv/spend-broadcaster/internal/spend_broadcaster/store"
	"github.com/bitcoin-sv/spend-broadcaster/pkg/tracing"
)

type spendTxRow struct {
	TxID      []byte    `db:"tx_id"`
	RawTx     []byte    `db:"raw_tx"`
	CreatedAt time.Time `db:"created_at"`
}

func (p *PostgreSQL) GetPending(ctx context.Context) (txs []*store.SpendTx, err error) {
	ctx, span := tracing.StartTracing(ctx, "GetPending", p.tracingEnabled, p.tracingAttributes...)
	defer func() {
		tracing.EndTracing(span, err)
	}()

	const q = `
		SELECT
			tx_id
			,raw_tx
			,created_at
		FROM spend_broadcaster.spend_txs
		WHERE broadcasted = FALSE
		ORDER BY id ASC
	`

	var rows []spendTxRow
	err = p.db.SelectContext(ctx, &rows, q)
	if err != nil {
		return nil, errors.Join(store.ErrFailedToGetPending, err)
	}

	txs = make([]*store.SpendTx, 0, len(rows))
	for _, row := range rows {
		txID, hashErr := chainhash.NewHash(row.TxID)
		if hashErr != nil {
			return nil, errors.Join(store.ErrFailedToGetPending, store.ErrInvalidTxID, hashErr)
		}

		txs = append(txs, &store.SpendTx{
			TxID:      txID,
			RawTx:     row.RawTx,
			CreatedAt: row.CreatedAt.UTC(),
		})
	}

	return txs, nil
}
