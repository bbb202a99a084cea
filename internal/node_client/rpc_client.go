package node_client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

var ErrBatchFailed = errors.New("batch rpc call failed")

type RPCRequest struct {
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
	ID      int64         `json:"id"`
	JSONRpc string        `json:"jsonrpc"`
}

type RPCResponse struct {
	ID     int64           `json:"id"`
	Result json.RawMessage `json:"result"`
	Err    *RPCError       `json:"error"`
}

// RPCError is an error reported by the node for a single call.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

type RPCClient struct {
	host       string
	port       int
	user       string
	password   string
	httpClient *http.Client
}

func WithTimeout(timeout time.Duration) func(*RPCClient) {
	return func(c *RPCClient) {
		c.httpClient.Timeout = timeout
	}
}

func WithHTTPClient(httpClient *http.Client) func(*RPCClient) {
	return func(c *RPCClient) {
		c.httpClient = httpClient
	}
}

func NewRPCClient(host string, port int, user, password string, opts ...func(*RPCClient)) (*RPCClient, error) {
	if host == "" {
		return nil, errors.New("rpc host is required")
	}

	c := &RPCClient{
		host:       host,
		port:       port,
		user:       user,
		password:   password,
		httpClient: &http.Client{},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

func (c *RPCClient) url() string {
	return fmt.Sprintf("%s://%s:%d", "http", c.host, c.port)
}

// sendBatch posts all requests as one JSON-RPC batch. The responses are returned in the order the
// node sent them. Any failure of the batch as a whole is reported as ErrBatchFailed.
func (c *RPCClient) sendBatch(ctx context.Context, requests []RPCRequest) ([]RPCResponse, error) {
	payloadBuffer := &bytes.Buffer{}
	jsonEncoder := json.NewEncoder(payloadBuffer)

	err := jsonEncoder.Encode(requests)
	if err != nil {
		return nil, errors.Join(ErrBatchFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(), payloadBuffer)
	if err != nil {
		return nil, errors.Join(ErrBatchFailed, err)
	}

	req.SetBasicAuth(c.user, c.password)
	req.Header.Add("Content-Type", "application/json;charset=utf-8")
	req.Header.Add("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Join(ErrBatchFailed, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Join(ErrBatchFailed, err)
	}

	var responses []RPCResponse
	err = json.Unmarshal(data, &responses)
	if err != nil {
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, errors.Join(ErrBatchFailed, httpError(resp, data))
		}

		return nil, errors.Join(ErrBatchFailed, fmt.Errorf("failed to unmarshal batch response: %v", err))
	}

	if len(responses) != len(requests) {
		return nil, errors.Join(ErrBatchFailed, fmt.Errorf("expected %d responses, got %d", len(requests), len(responses)))
	}

	return responses, nil
}

// httpError extracts the node's error message from a non batch response, falling back to the
// HTTP status.
func httpError(resp *http.Response, data []byte) error {
	var rpcResponse RPCResponse

	_ = json.Unmarshal(data, &rpcResponse)
	if rpcResponse.Err != nil {
		return rpcResponse.Err
	}

	return errors.New("HTTP error: " + resp.Status)
}
