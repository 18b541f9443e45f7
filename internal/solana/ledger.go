// Package solana reads confirmed transactions from a Solana JSON-RPC node.
// It covers exactly the surface payment verification needs: fetch a
// transaction by signature with its account list and pre/post balances.
package solana

import (
	"context"
	"errors"
)

var ErrTransactionNotFound = errors.New("transaction not found on ledger")

// TransactionInfo is the flattened view of a confirmed transaction.
//
// AccountKeys keeps the ledger's ordering: index 0 is the fee payer (sender),
// index 1 the transfer destination. PreBalances/PostBalances are lamport
// balances aligned with AccountKeys.
type TransactionInfo struct {
	Slot         uint64
	BlockTime    *int64
	Failed       bool
	AccountKeys  []string
	PreBalances  []int64
	PostBalances []int64
}

// Ledger answers "what happened in transaction X" against the external chain.
type Ledger interface {
	GetTransaction(ctx context.Context, signature string) (*TransactionInfo, error)
}
