package rewards

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spinvault/backend/internal/repos/rewards"
)

var _ rewards.Rewards = (*rewardsRepo)(nil)

type rewardsRepo struct{ db *sql.DB }

func New(db *sql.DB) *rewardsRepo {
	return &rewardsRepo{db: db}
}

func (r *rewardsRepo) ListActive(ctx context.Context) ([]rewards.Reward, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT segment_index, reward_type, reward_value, symbol, label, weight, color_hex, icon_url
		FROM rewards_config
		WHERE is_active = TRUE
		ORDER BY segment_index ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list active rewards: %w", err)
	}
	defer rows.Close()

	var table []rewards.Reward

	for rows.Next() {
		var rw rewards.Reward

		err = rows.Scan(
			&rw.SegmentIndex,
			&rw.RewardType,
			&rw.RewardValue,
			&rw.Symbol,
			&rw.Label,
			&rw.Weight,
			&rw.ColorHex,
			&rw.IconURL,
		)
		if err != nil {
			return nil, fmt.Errorf("scan reward: %w", err)
		}

		err = rw.Validate()
		if err != nil {
			return nil, fmt.Errorf("reward table: %w", err)
		}

		table = append(table, rw)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate rewards: %w", err)
	}

	return table, nil
}
