package rewards

import (
	"context"
	"errors"
	"fmt"
)

// Type tags what a wheel segment pays out.
type Type string

const (
	TypePoints    Type = "points"
	TypeExtraSpin Type = "extra_spin"
	TypeJackpot   Type = "jackpot"
	TypeToken     Type = "token"
	TypeNone      Type = "none"
)

func (t Type) Valid() bool {
	switch t {
	case TypePoints, TypeExtraSpin, TypeJackpot, TypeToken, TypeNone:
		return true
	default:
		return false
	}
}

var ErrInvalidRewardRow = errors.New("invalid reward row")

// Reward is one active wheel segment. Ordering (by SegmentIndex) matters for
// display only, not for draw fairness.
type Reward struct {
	SegmentIndex int
	RewardType   Type
	RewardValue  int64
	Symbol       *string
	Label        string
	Weight       float64
	ColorHex     *string
	IconURL      *string
}

// Validate rejects rows that would corrupt a draw: non-positive weights and
// unknown reward kinds fail at load time, not at spin time.
func (r Reward) Validate() error {
	if !r.RewardType.Valid() {
		return fmt.Errorf("%w: segment %d has unknown type %q", ErrInvalidRewardRow, r.SegmentIndex, r.RewardType)
	}

	if r.Weight <= 0 {
		return fmt.Errorf("%w: segment %d has non-positive weight %v", ErrInvalidRewardRow, r.SegmentIndex, r.Weight)
	}

	return nil
}

type Rewards interface {
	// ListActive returns active segments ordered by segment_index, every row
	// already validated.
	ListActive(ctx context.Context) ([]Reward, error)
}
