package spins

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spinvault/backend/internal/repos/spins"
)

var _ spins.Spins = (*spinsRepo)(nil)

type spinsRepo struct{ db *sql.DB }

func New(db *sql.DB) *spinsRepo {
	return &spinsRepo{db: db}
}

func (r *spinsRepo) Insert(tx *sql.Tx, userID uint64, result, rewardType string, rewardValue int64, symbol *string) error {
	_, err := tx.Exec(`
		INSERT INTO spins (user_id, result, reward_type, reward_value, symbol)
		VALUES ($1, $2, $3, $4, $5)
	`, userID, result, rewardType, rewardValue, symbol)
	if err != nil {
		return fmt.Errorf("insert spin: %w", err)
	}

	return nil
}

func (r *spinsRepo) ListByUser(ctx context.Context, userID uint64, limit int) ([]spins.Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, result, reward_type, reward_value, symbol, created_at
		FROM spins
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list spins: %w", err)
	}
	defer rows.Close()

	var records []spins.Record

	for rows.Next() {
		var rec spins.Record

		err = rows.Scan(&rec.ID, &rec.UserID, &rec.Result, &rec.RewardType, &rec.RewardValue, &rec.Symbol, &rec.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan spin: %w", err)
		}

		records = append(records, rec)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate spins: %w", err)
	}

	return records, nil
}
