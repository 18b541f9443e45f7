package purchases

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

var (
	// ErrDuplicateTransaction signals the unique constraint on tx_signature
	// fired: this payment was already credited.
	ErrDuplicateTransaction = errors.New("duplicate transaction")

	ErrPurchaseNotFound = errors.New("purchase not found")
)

type Purchase struct {
	ID             uint64
	UserID         uint64
	TxSignature    string
	AmountLamports int64
	SpinsAdded     int64
	Status         string
	CreatedAt      time.Time
}

type Purchases interface {
	Insert(tx *sql.Tx, userID uint64, txSignature string, amountLamports, spinsAdded int64) error
	GetBySignature(ctx context.Context, txSignature string) (*Purchase, error)
}
