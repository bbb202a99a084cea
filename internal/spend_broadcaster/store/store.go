package store

import (
	"context"
	"errors"
	"time"

	"github.com/bsv-blockchain/go-sdk/chainhash"
)

var (
	ErrFailedToOpenDB       = errors.New("failed to open postgres database")
	ErrFailedToGetPending   = errors.New("failed to get pending spend transactions")
	ErrFailedToSetBroadcast = errors.New("failed to set spend transaction broadcasted")
	ErrInvalidTxID          = errors.New("stored spend transaction has an invalid id")
)

// SpendStore is the persistent set of spend transactions. A transaction is pending until
// SetBroadcasted has been called for its id.
type SpendStore interface {
	// GetPending returns all pending spend transactions in insertion order.
	GetPending(ctx context.Context) ([]*SpendTx, error)
	// SetBroadcasted marks the transaction as broadcasted. Marking an unknown or an already
	// broadcasted transaction is a no-op.
	SetBroadcasted(ctx context.Context, txID *chainhash.Hash) error
	Close() error
}

type SpendTx struct {
	TxID      *chainhash.Hash
	RawTx     []byte
	CreatedAt time.Time
}
