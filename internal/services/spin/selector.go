package spin

import (
	"fmt"

	"github.com/spinvault/backend/internal/repos/rewards"
)

// Outcome is the immutable result of one draw, persisted verbatim as the
// audit record.
type Outcome struct {
	SegmentIndex int
	RewardType   rewards.Type
	RewardValue  int64
	Symbol       *string
	Message      string
}

// NoWinOutcome is returned when the reward table is empty or carries no
// weight: the spin resolves, it just pays nothing.
func NoWinOutcome() Outcome {
	return Outcome{
		SegmentIndex: 1,
		RewardType:   rewards.TypeNone,
		RewardValue:  0,
		Message:      "Better luck next time!",
	}
}

// Draw selects one entry from table with probability weight/totalWeight,
// using a single uniform sample and cumulative subtraction. randFloat must
// return a uniform value in [0, 1) from a server-trusted source.
//
// The last entry is the fallback when floating-point accumulation leaves a
// sliver of the sample unclaimed; a non-empty table always selects an entry.
func Draw(table []rewards.Reward, randFloat func() float64) Outcome {
	if len(table) == 0 {
		return NoWinOutcome()
	}

	var totalWeight float64
	for _, r := range table {
		totalWeight += r.Weight
	}

	if totalWeight <= 0 {
		return NoWinOutcome()
	}

	remainder := randFloat() * totalWeight

	for _, r := range table {
		remainder -= r.Weight
		if remainder <= 0 {
			return outcomeFor(r)
		}
	}

	return outcomeFor(table[len(table)-1])
}

func outcomeFor(r rewards.Reward) Outcome {
	return Outcome{
		SegmentIndex: r.SegmentIndex,
		RewardType:   r.RewardType,
		RewardValue:  r.RewardValue,
		Symbol:       r.Symbol,
		Message:      messageFor(r),
	}
}

func messageFor(r rewards.Reward) string {
	if r.Label != "" {
		return r.Label
	}

	switch r.RewardType {
	case rewards.TypePoints:
		return fmt.Sprintf("You won %d points!", r.RewardValue)
	case rewards.TypeExtraSpin:
		suffix := ""
		if r.RewardValue > 1 {
			suffix = "s"
		}

		return fmt.Sprintf("You won %d extra spin%s!", r.RewardValue, suffix)
	case rewards.TypeJackpot:
		return fmt.Sprintf("JACKPOT! You won %d points!", r.RewardValue)
	case rewards.TypeToken:
		return fmt.Sprintf("You won %d tokens!", r.RewardValue)
	default:
		return "Better luck next time!"
	}
}
