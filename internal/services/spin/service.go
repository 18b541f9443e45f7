// Package spin executes server-trusted wheel draws: the randomness, the
// reward table, and the balance bookkeeping all live on this side of the
// wire, so a client can neither pick its prize nor spin on credit.
package spin

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/spinvault/backend/internal/infra/pgutils"
	"github.com/spinvault/backend/internal/repos/rewards"
	"github.com/spinvault/backend/internal/repos/spins"
	"github.com/spinvault/backend/internal/repos/users"
)

var ErrInsufficientSpins = errors.New("insufficient spins")

// DailyClaimedError reports a daily bonus attempt inside the 24h window.
type DailyClaimedError struct {
	NextClaimAt time.Time
}

func (e *DailyClaimedError) Error() string {
	return fmt.Sprintf("daily spin already claimed, next claim at %s", e.NextClaimAt.Format(time.RFC3339))
}

const (
	dailyClaimInterval = 24 * time.Hour
	defaultHistoryLen  = 50
	maxHistoryLen      = 200
)

type Service struct {
	db      *sql.DB
	users   users.Users
	spins   spins.Spins
	rewards rewards.Rewards

	// randFloat returns a uniform sample in [0,1); injected for tests.
	randFloat func() float64
	now       func() time.Time
}

func NewService(db *sql.DB, usersRepo users.Users, spinsRepo spins.Spins, rewardsRepo rewards.Rewards) *Service {
	return &Service{
		db:        db,
		users:     usersRepo,
		spins:     spinsRepo,
		rewards:   rewardsRepo,
		randFloat: rand.Float64,
		now:       time.Now,
	}
}

type Result struct {
	Outcome      Outcome
	SpinsBalance int64
	TotalRewards int64
}

// Execute runs one spin for the user in a single DB transaction:
//
// 1) Lock the user row.
// 2) Reject if no spendable balance.
// 3) Draw from the live reward table.
// 4) Decrement one spin, apply the reward effect.
// 5) Insert the audit row.
//
// The row lock serializes concurrent spins by the same user, and the
// conditional decrement can never take the balance negative.
func (s *Service) Execute(ctx context.Context, userID uint64) (*Result, error) {
	var result *Result

	err := pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		user, err := s.users.LockByID(tx, userID)
		if err != nil {
			return fmt.Errorf("lock user: %w", err)
		}

		if user.SpinsBalance <= 0 {
			return ErrInsufficientSpins
		}

		table, err := s.rewards.ListActive(ctx)
		if err != nil {
			return fmt.Errorf("load reward table: %w", err)
		}

		outcome := Draw(table, s.randFloat)

		err = s.users.AdjustSpins(tx, userID, -1)
		if err != nil {
			return fmt.Errorf("spend spin: %w", err)
		}

		balance := user.SpinsBalance - 1
		totalRewards := user.TotalRewards

		switch outcome.RewardType {
		case rewards.TypeExtraSpin:
			err = s.users.AdjustSpins(tx, userID, outcome.RewardValue)
			if err != nil {
				return fmt.Errorf("credit extra spins: %w", err)
			}

			balance += outcome.RewardValue

		case rewards.TypePoints, rewards.TypeJackpot, rewards.TypeToken:
			err = s.users.AddRewards(tx, userID, outcome.RewardValue)
			if err != nil {
				return fmt.Errorf("credit rewards: %w", err)
			}

			totalRewards += outcome.RewardValue

		case rewards.TypeNone:
			// nothing to credit
		}

		err = s.users.IncrementTotalSpins(tx, userID)
		if err != nil {
			return fmt.Errorf("count spin: %w", err)
		}

		err = s.spins.Insert(tx, userID, outcome.Message, string(outcome.RewardType), outcome.RewardValue, outcome.Symbol)
		if err != nil {
			return fmt.Errorf("record spin: %w", err)
		}

		result = &Result{
			Outcome:      outcome,
			SpinsBalance: balance,
			TotalRewards: totalRewards,
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("spin executed",
		"user_id", userID,
		"segment", result.Outcome.SegmentIndex,
		"reward_type", result.Outcome.RewardType,
		"reward_value", result.Outcome.RewardValue,
	)

	return result, nil
}

type ClaimResult struct {
	SpinsBalance int64
}

// ClaimDaily grants the free daily spin, at most once per 24 hours.
func (s *Service) ClaimDaily(ctx context.Context, userID uint64) (*ClaimResult, error) {
	var result *ClaimResult

	err := pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		user, err := s.users.LockByID(tx, userID)
		if err != nil {
			return fmt.Errorf("lock user: %w", err)
		}

		now := s.now()

		if user.LastDailyClaimAt != nil {
			next := user.LastDailyClaimAt.Add(dailyClaimInterval)
			if now.Before(next) {
				return &DailyClaimedError{NextClaimAt: next}
			}
		}

		err = s.users.StampDailyClaim(tx, userID, now)
		if err != nil {
			return fmt.Errorf("stamp claim: %w", err)
		}

		err = s.users.AdjustSpins(tx, userID, 1)
		if err != nil {
			return fmt.Errorf("grant daily spin: %w", err)
		}

		result = &ClaimResult{SpinsBalance: user.SpinsBalance + 1}

		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("daily spin claimed", "user_id", userID)

	return result, nil
}

// Configuration returns the active wheel layout for display.
func (s *Service) Configuration(ctx context.Context) ([]rewards.Reward, error) {
	return s.rewards.ListActive(ctx)
}

// History lists the user's most recent spins.
func (s *Service) History(ctx context.Context, userID uint64, limit int) ([]spins.Record, error) {
	if limit <= 0 {
		limit = defaultHistoryLen
	}
	if limit > maxHistoryLen {
		limit = maxHistoryLen
	}

	return s.spins.ListByUser(ctx, userID, limit)
}
