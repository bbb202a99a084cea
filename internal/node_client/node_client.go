package node_client

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"runtime"

	"github.com/bsv-blockchain/go-sdk/chainhash"
	"github.com/ordishs/go-bitcoin"
	"go.opentelemetry.io/otel/attribute"

	"github.com/bitcoin-sv/spend-broadcaster/pkg/tracing"
)

// RPCVerifyAlreadyInChain is returned by the node for a transaction which is already known.
const RPCVerifyAlreadyInChain = -27

var (
	ErrNodeHealthDisabled = errors.New("node health probe not configured")
	ErrNodeUnhealthy      = errors.New("node is unhealthy")
)

type Outcome int

const (
	OutcomeAccepted Outcome = iota
	OutcomeAlreadyKnown
	OutcomeRetryable
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAccepted:
		return "ACCEPTED"
	case OutcomeAlreadyKnown:
		return "ALREADY_KNOWN"
	case OutcomeRetryable:
		return "RETRYABLE"
	}

	return fmt.Sprintf("OUTCOME(%d)", int(o))
}

// BroadcastResult is the node's answer for one transaction of a batch. Err is nil if the node
// accepted the transaction. TxID holds the id returned by the node, nil if the result was not a
// valid hash.
type BroadcastResult struct {
	TxID *chainhash.Hash
	Err  error
}

type NodeClient struct {
	rpcClient         *RPCClient
	bitcoinClient     *bitcoin.Bitcoind
	tracingEnabled    bool
	tracingAttributes []attribute.KeyValue
}

func WithTracer(attr ...attribute.KeyValue) func(s *NodeClient) {
	return func(p *NodeClient) {
		p.tracingEnabled = true
		if len(attr) > 0 {
			p.tracingAttributes = append(p.tracingAttributes, attr...)
		}
		_, file, _, ok := runtime.Caller(1)
		if ok {
			p.tracingAttributes = append(p.tracingAttributes, attribute.String("file", file))
		}
	}
}

// WithBitcoinClient enables the health probe.
func WithBitcoinClient(bitcoinClient *bitcoin.Bitcoind) func(s *NodeClient) {
	return func(n *NodeClient) {
		n.bitcoinClient = bitcoinClient
	}
}

func New(rpcClient *RPCClient, opts ...func(client *NodeClient)) *NodeClient {
	n := &NodeClient{
		rpcClient: rpcClient,
	}

	for _, opt := range opts {
		opt(n)
	}

	return n
}

// BroadcastBatch submits all raw transactions in a single JSON-RPC batch of sendrawtransaction
// calls. On success the i-th result belongs to the i-th raw transaction.
func (n *NodeClient) BroadcastBatch(ctx context.Context, rawTxs [][]byte) (results []BroadcastResult, err error) {
	attrs := append([]attribute.KeyValue{attribute.Int("txs", len(rawTxs))}, n.tracingAttributes...)
	ctx, span := tracing.StartTracing(ctx, "NodeClient_BroadcastBatch", n.tracingEnabled, attrs...)
	defer func() {
		tracing.EndTracing(span, err)
	}()

	if len(rawTxs) == 0 {
		return []BroadcastResult{}, nil
	}

	requests := make([]RPCRequest, len(rawTxs))
	for i, rawTx := range rawTxs {
		requests[i] = RPCRequest{
			Method:  "sendrawtransaction",
			Params:  []interface{}{hex.EncodeToString(rawTx)},
			ID:      int64(i),
			JSONRpc: "1.0",
		}
	}

	responses, err := n.rpcClient.sendBatch(ctx, requests)
	if err != nil {
		return nil, err
	}

	results = make([]BroadcastResult, len(rawTxs))
	seen := make([]bool, len(rawTxs))

	for _, resp := range responses {
		if resp.ID < 0 || resp.ID >= int64(len(rawTxs)) || seen[resp.ID] {
			return nil, errors.Join(ErrBatchFailed, fmt.Errorf("unexpected response id %d", resp.ID))
		}
		seen[resp.ID] = true

		results[resp.ID] = toBroadcastResult(resp)
	}

	return results, nil
}

func toBroadcastResult(resp RPCResponse) BroadcastResult {
	if resp.Err != nil {
		return BroadcastResult{Err: resp.Err}
	}

	// a missing error means accepted, whatever the result looks like
	var txID string
	err := json.Unmarshal(resp.Result, &txID)
	if err != nil || txID == "" {
		return BroadcastResult{}
	}

	hash, err := chainhash.NewHashFromHex(txID)
	if err != nil {
		return BroadcastResult{}
	}

	return BroadcastResult{TxID: hash}
}

// Classify decides what a per transaction error means for the transaction. Only -27 is treated as
// already known, every other error is retried on the next tick.
func (n *NodeClient) Classify(err error) Outcome {
	if err == nil {
		return OutcomeAccepted
	}

	var rpcErr *RPCError
	if errors.As(err, &rpcErr) && rpcErr.Code == RPCVerifyAlreadyInChain {
		return OutcomeAlreadyKnown
	}

	return OutcomeRetryable
}

// Health probes the node with getinfo.
func (n *NodeClient) Health(ctx context.Context) error {
	if n.bitcoinClient == nil {
		return ErrNodeHealthDisabled
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := n.bitcoinClient.GetInfo()
	if err != nil {
		return errors.Join(ErrNodeUnhealthy, err)
	}

	return nil
}
