package spins

import (
	"context"
	"database/sql"
	"time"
)

// Record is one spin's audit row, written once and never updated.
type Record struct {
	ID          uint64
	UserID      uint64
	Result      string
	RewardType  string
	RewardValue int64
	Symbol      *string
	CreatedAt   time.Time
}

type Spins interface {
	Insert(tx *sql.Tx, userID uint64, result, rewardType string, rewardValue int64, symbol *string) error
	ListByUser(ctx context.Context, userID uint64, limit int) ([]Record, error)
}
