package spin

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spinvault/backend/internal/repos/rewards"
)

func table(weights ...float64) []rewards.Reward {
	t := make([]rewards.Reward, len(weights))
	for i, w := range weights {
		t[i] = rewards.Reward{
			SegmentIndex: i + 1,
			RewardType:   rewards.TypePoints,
			RewardValue:  int64(10 * (i + 1)),
			Label:        "prize",
			Weight:       w,
		}
	}

	return t
}

func TestDraw_EmptyTableIsNoWin(t *testing.T) {
	t.Parallel()

	out := Draw(nil, func() float64 { return 0.5 })

	require.Equal(t, rewards.TypeNone, out.RewardType)
	require.Equal(t, int64(0), out.RewardValue)
	require.Equal(t, 1, out.SegmentIndex)
}

func TestDraw_SampleFallsInWeightInterval(t *testing.T) {
	t.Parallel()

	// Weights [1,1,2] partition [0,4) into [0,1) [1,2) [2,4).
	tbl := table(1, 1, 2)

	tests := []struct {
		sample      float64 // uniform sample in [0,1), scaled by total=4
		wantSegment int
	}{
		{0.0, 1},
		{0.2499, 1},
		// The <= 0 threshold puts an exact interval boundary on the earlier
		// segment: 0.25*4 = 1.0 still selects segment 1.
		{0.25, 1},
		{0.26, 2},
		{0.4999, 2},
		// 0.5*4 = 2.0 is the seg2/seg3 boundary, landing on segment 2.
		{0.5, 2},
		{0.51, 3},
		{0.999, 3},
	}

	for _, tt := range tests {
		out := Draw(tbl, func() float64 { return tt.sample })
		require.Equal(t, tt.wantSegment, out.SegmentIndex, "sample %v", tt.sample)
	}
}

func TestDraw_FrequenciesMatchWeights(t *testing.T) {
	t.Parallel()

	tbl := table(1, 1, 2)
	rng := rand.New(rand.NewPCG(42, 1337))

	const draws = 200_000

	counts := make(map[int]int)
	for range draws {
		out := Draw(tbl, rng.Float64)
		counts[out.SegmentIndex]++
	}

	wantShare := map[int]float64{1: 0.25, 2: 0.25, 3: 0.50}

	for segment, want := range wantShare {
		got := float64(counts[segment]) / draws
		require.InDelta(t, want, got, 0.01, "segment %d share", segment)
	}
}

func TestDraw_AlwaysSelectsFromNonEmptyTable(t *testing.T) {
	t.Parallel()

	// Awkward fractional weights provoke float accumulation error; the last
	// entry is the fallback, so a draw can never come back empty-handed.
	tbl := table(0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1)
	rng := rand.New(rand.NewPCG(7, 7))

	for range 50_000 {
		out := Draw(tbl, rng.Float64)
		require.NotEqual(t, rewards.TypeNone, out.RewardType)
		require.NotZero(t, out.SegmentIndex)
	}

	// Sample at the very top of [0,1) lands on the last entry.
	out := Draw(tbl, func() float64 { return 0.9999999999999999 })
	require.Equal(t, len(tbl), out.SegmentIndex)
}

func TestDraw_ZeroTotalWeightIsNoWin(t *testing.T) {
	t.Parallel()

	// Load-time validation rejects non-positive weights, but Draw degrades
	// instead of misbehaving if handed such a table anyway.
	out := Draw(table(0, 0), func() float64 { return 0.5 })
	require.Equal(t, rewards.TypeNone, out.RewardType)
}

func TestDraw_MessageFallbacks(t *testing.T) {
	t.Parallel()

	tbl := []rewards.Reward{{
		SegmentIndex: 2,
		RewardType:   rewards.TypeExtraSpin,
		RewardValue:  2,
		Weight:       1,
	}}

	out := Draw(tbl, func() float64 { return 0 })
	require.Equal(t, "You won 2 extra spins!", out.Message)
}
