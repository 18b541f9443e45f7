package users

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrInsufficientSpins = errors.New("insufficient spins")
)

type User struct {
	ID               uint64
	WalletAddress    string
	Username         *string
	SpinsBalance     int64
	TotalSpins       int64
	TotalRewards     int64
	LastDailyClaimAt *time.Time
	CreatedAt        time.Time
}

type Users interface {
	GetByWallet(ctx context.Context, wallet string) (*User, error)
	Create(ctx context.Context, wallet string) (*User, error)

	// LockByID locks the user row (FOR UPDATE) for the duration of tx.
	LockByID(tx *sql.Tx, id uint64) (*User, error)

	// AdjustSpins changes spins_balance by delta. A negative delta that would
	// take the balance below zero returns ErrInsufficientSpins and changes
	// nothing.
	AdjustSpins(tx *sql.Tx, id uint64, delta int64) error

	AddRewards(tx *sql.Tx, id uint64, amount int64) error
	IncrementTotalSpins(tx *sql.Tx, id uint64) error
	StampDailyClaim(tx *sql.Tx, id uint64, at time.Time) error
}
