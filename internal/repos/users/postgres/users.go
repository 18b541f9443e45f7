package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/spinvault/backend/internal/repos/users"
)

var _ users.Users = (*usersRepo)(nil)

type usersRepo struct{ db *sql.DB }

func New(db *sql.DB) *usersRepo {
	return &usersRepo{db: db}
}

const userColumns = `id, wallet_address, username, spins_balance, total_spins, total_rewards, last_daily_claim_at, created_at`

func scanUser(row *sql.Row) (*users.User, error) {
	var u users.User

	err := row.Scan(
		&u.ID,
		&u.WalletAddress,
		&u.Username,
		&u.SpinsBalance,
		&u.TotalSpins,
		&u.TotalRewards,
		&u.LastDailyClaimAt,
		&u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &u, nil
}

func (r *usersRepo) GetByWallet(ctx context.Context, wallet string) (*users.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE wallet_address = $1
	`, wallet))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, users.ErrUserNotFound
		}

		return nil, fmt.Errorf("get user by wallet: %w", err)
	}

	return u, nil
}

func (r *usersRepo) Create(ctx context.Context, wallet string) (*users.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, `
		INSERT INTO users (wallet_address, spins_balance, total_spins, total_rewards)
		VALUES ($1, 0, 0, 0)
		RETURNING `+userColumns+`
	`, wallet))
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return u, nil
}

func (r *usersRepo) LockByID(tx *sql.Tx, id uint64) (*users.User, error) {
	u, err := scanUser(tx.QueryRow(`
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
		FOR UPDATE
	`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, users.ErrUserNotFound
		}

		return nil, fmt.Errorf("lock user: %w", err)
	}

	return u, nil
}

func (r *usersRepo) AdjustSpins(tx *sql.Tx, id uint64, delta int64) error {
	res, err := tx.Exec(`
		UPDATE users
		SET spins_balance = spins_balance + $2
		WHERE id = $1
		  AND spins_balance + $2 >= 0
	`, id, delta)
	if err != nil {
		return fmt.Errorf("adjust spins: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		return users.ErrInsufficientSpins
	}

	return nil
}

func (r *usersRepo) AddRewards(tx *sql.Tx, id uint64, amount int64) error {
	_, err := tx.Exec(`
		UPDATE users
		SET total_rewards = total_rewards + $2
		WHERE id = $1
	`, id, amount)
	if err != nil {
		return fmt.Errorf("add rewards: %w", err)
	}

	return nil
}

func (r *usersRepo) IncrementTotalSpins(tx *sql.Tx, id uint64) error {
	_, err := tx.Exec(`
		UPDATE users
		SET total_spins = total_spins + 1
		WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("increment total spins: %w", err)
	}

	return nil
}

func (r *usersRepo) StampDailyClaim(tx *sql.Tx, id uint64, at time.Time) error {
	_, err := tx.Exec(`
		UPDATE users
		SET last_daily_claim_at = $2
		WHERE id = $1
	`, id, at)
	if err != nil {
		return fmt.Errorf("stamp daily claim: %w", err)
	}

	return nil
}
