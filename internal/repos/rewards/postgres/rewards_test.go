package rewards

import (
	"context"
	"errors"
	"testing"

	"github.com/spinvault/backend/internal/infra/pgtestutil"
	"github.com/spinvault/backend/internal/repos/rewards"
)

func TestListActive_SeededWheel(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	repo := New(db)

	table, err := repo.ListActive(context.Background())
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(table) == 0 {
		t.Fatalf("migrated wheel is empty")
	}

	for i, seg := range table {
		if i > 0 && table[i-1].SegmentIndex >= seg.SegmentIndex {
			t.Fatalf("segments not ordered: %d then %d", table[i-1].SegmentIndex, seg.SegmentIndex)
		}
		if err := seg.Validate(); err != nil {
			t.Fatalf("segment %d invalid: %v", seg.SegmentIndex, err)
		}
	}
}

func TestListActive_SkipsInactive(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	repo := New(db)

	_, err := db.Exec(`UPDATE rewards_config SET is_active = FALSE WHERE segment_index > 2`)
	if err != nil {
		t.Fatalf("deactivate segments: %v", err)
	}

	table, err := repo.ListActive(context.Background())
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(table) != 2 {
		t.Fatalf("want 2 active segments, got %d", len(table))
	}
}

func TestListActive_RejectsCorruptRow(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	repo := New(db)

	_, err := db.Exec(`
		UPDATE rewards_config SET reward_type = 'mystery' WHERE segment_index = 1
	`)
	if err != nil {
		t.Fatalf("corrupt row: %v", err)
	}

	_, err = repo.ListActive(context.Background())
	if !errors.Is(err, rewards.ErrInvalidRewardRow) {
		t.Fatalf("want ErrInvalidRewardRow, got %v", err)
	}
}
