package solana

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client is a minimal JSON-RPC 2.0 client for a Solana node.
type Client struct {
	rpcURL string
	http   *http.Client
}

var _ Ledger = (*Client)(nil)

// NewClient returns a client for the given RPC endpoint. Every call is
// bounded by timeout in addition to the caller's context.
func NewClient(rpcURL string, timeout time.Duration) *Client {
	return &Client{
		rpcURL: rpcURL,
		http:   &http.Client{Timeout: timeout},
	}
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type getTransactionResult struct {
	Slot      uint64 `json:"slot"`
	BlockTime *int64 `json:"blockTime"`
	Meta      *struct {
		Err          any     `json:"err"`
		PreBalances  []int64 `json:"preBalances"`
		PostBalances []int64 `json:"postBalances"`
	} `json:"meta"`
	Transaction struct {
		Message struct {
			AccountKeys []string `json:"accountKeys"`
		} `json:"message"`
	} `json:"transaction"`
}

// GetTransaction fetches a confirmed transaction by its signature.
// A JSON-RPC null result maps to ErrTransactionNotFound.
func (c *Client) GetTransaction(ctx context.Context, signature string) (*TransactionInfo, error) {
	params := []any{
		signature,
		map[string]any{
			"encoding":                       "json",
			"commitment":                     "confirmed",
			"maxSupportedTransactionVersion": 0,
		},
	}

	var result *getTransactionResult

	err := c.call(ctx, "getTransaction", params, &result)
	if err != nil {
		return nil, err
	}

	if result == nil {
		return nil, ErrTransactionNotFound
	}

	info := &TransactionInfo{
		Slot:        result.Slot,
		BlockTime:   result.BlockTime,
		AccountKeys: result.Transaction.Message.AccountKeys,
	}

	if result.Meta != nil {
		info.Failed = result.Meta.Err != nil
		info.PreBalances = result.Meta.PreBalances
		info.PostBalances = result.Meta.PostBalances
	}

	return info, nil
}

func (c *Client) call(ctx context.Context, method string, params []any, result any) error {
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.rpcURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("rpc %s: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("rpc %s: unexpected status %d", method, resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("rpc %s: read body: %w", method, err)
	}

	var envelope struct {
		Result json.RawMessage `json:"result"`
		Error  *rpcError       `json:"error"`
	}

	err = json.Unmarshal(raw, &envelope)
	if err != nil {
		return fmt.Errorf("rpc %s: decode envelope: %w", method, err)
	}

	if envelope.Error != nil {
		return fmt.Errorf("rpc %s: node error %d: %s", method, envelope.Error.Code, envelope.Error.Message)
	}

	if len(envelope.Result) == 0 || bytes.Equal(envelope.Result, []byte("null")) {
		// leave result at its zero value; GetTransaction maps nil to not-found
		return nil
	}

	err = json.Unmarshal(envelope.Result, result)
	if err != nil {
		return fmt.Errorf("rpc %s: decode result: %w", method, err)
	}

	return nil
}
