package internal

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSnapshot() *Snapshot {
	return &Snapshot{
		Cycle:                 10,
		IntegrityHash:         "00000000deadbeef",
		DriftScore:            0.25,
		RuleViolationCounts:   map[string]int{"1": 2},
		RuleInvocationCounts:  map[string]int{"4": 1},
		ReinforcementCycles:   1,
		AdversarialAttempts:   3,
		ConsecutiveViolations: 2,
		Rules:                 NewRuleRegistry().All(),
	}
}

func TestStateStoreSnapshotRoundTrip(t *testing.T) {
	store, err := NewMemoryStateStore()
	require.NoError(t, err)

	require.NoError(t, store.SaveSnapshot(testSnapshot()))

	loaded, err := store.LoadSnapshot()
	require.NoError(t, err)
	assert.Equal(t, 10, loaded.Cycle)
	assert.Equal(t, "00000000deadbeef", loaded.IntegrityHash)
	assert.Equal(t, 0.25, loaded.DriftScore)
	assert.Equal(t, 2, loaded.RuleViolationCounts["1"])
	assert.Equal(t, 1, loaded.RuleInvocationCounts["4"])
	assert.Equal(t, 2, loaded.ConsecutiveViolations)
	assert.Len(t, loaded.Rules, 28)
}

func TestStateStoreLoadMissing(t *testing.T) {
	store, err := NewMemoryStateStore()
	require.NoError(t, err)

	_, err = store.LoadSnapshot()
	assert.ErrorIs(t, err, ErrNoState)
}

func TestStateStoreEvents(t *testing.T) {
	store, err := NewMemoryStateStore()
	require.NoError(t, err)

	for i := 1; i <= 4; i++ {
		require.NoError(t, store.AppendEvent(Event{
			Cycle: i, Type: "RULE_VIOLATION", Description: "test", Severity: "warning",
		}))
	}

	events, err := store.Events(0)
	require.NoError(t, err)
	require.Len(t, events, 4)
	assert.Equal(t, 1, events[0].Cycle)
	assert.Equal(t, 4, events[3].Cycle)

	// limit keeps the most recent entries
	tail, err := store.Events(2)
	require.NoError(t, err)
	require.Len(t, tail, 2)
	assert.Equal(t, 3, tail[0].Cycle)
	assert.Equal(t, 4, tail[1].Cycle)
}

func TestStateStoreEventsEmpty(t *testing.T) {
	store, err := NewMemoryStateStore()
	require.NoError(t, err)

	events, err := store.Events(10)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestStateStoreHistory(t *testing.T) {
	store, err := NewMemoryStateStore()
	require.NoError(t, err)

	snap := testSnapshot()
	snap.Cycle = 1
	require.NoError(t, store.SaveSnapshot(snap))
	snap.Cycle = 2
	require.NoError(t, store.SaveSnapshot(snap))

	commits, err := store.History(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, commits, 3) // init plus two snapshots
	assert.Equal(t, "state: cycle 2", commits[0].Message)
	assert.Equal(t, "state: cycle 1", commits[1].Message)
	assert.Equal(t, DefaultAuthor, commits[0].Author)

	limited, err := store.History(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestStateStoreEventsCommittedWithSnapshot(t *testing.T) {
	store, err := NewMemoryStateStore()
	require.NoError(t, err)

	require.NoError(t, store.AppendEvent(Event{Cycle: 1, Type: "INITIALIZATION"}))
	require.NoError(t, store.SaveSnapshot(testSnapshot()))

	commits, err := store.History(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, commits, 1)
	assert.Equal(t, "state: cycle 10", commits[0].Message)
}

func TestStateStoreRevert(t *testing.T) {
	store, err := NewMemoryStateStore()
	require.NoError(t, err)

	snap := testSnapshot()
	snap.Cycle = 1
	snap.DriftScore = 0.1
	require.NoError(t, store.SaveSnapshot(snap))

	snap.Cycle = 2
	snap.DriftScore = 0.9
	require.NoError(t, store.SaveSnapshot(snap))

	require.NoError(t, store.Revert(context.Background(), "HEAD~1"))

	loaded, err := store.LoadSnapshot()
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.Cycle)
	assert.Equal(t, 0.1, loaded.DriftScore)
}

func TestStateStoreOnDisk(t *testing.T) {
	tmpDir := t.TempDir()
	scope := Scope{
		Type:      ScopeProject,
		Path:      tmpDir,
		HooksPath: filepath.Join(tmpDir, ".hooks"),
	}

	require.NoError(t, InitRepository(scope))

	store, err := NewStateStore(scope)
	require.NoError(t, err)
	require.NoError(t, store.SaveSnapshot(testSnapshot()))

	// Data survives reopening.
	reopened, err := NewStateStore(scope)
	require.NoError(t, err)
	loaded, err := reopened.LoadSnapshot()
	require.NoError(t, err)
	assert.Equal(t, 10, loaded.Cycle)

	if _, err := os.Stat(filepath.Join(scope.StatePath(), "state.json")); err != nil {
		t.Errorf("expected state.json on disk: %v", err)
	}
}

func TestStateStoreNotInitialized(t *testing.T) {
	scope := Scope{
		Type:      ScopeProject,
		Path:      t.TempDir(),
		HooksPath: filepath.Join(t.TempDir(), ".hooks"),
	}

	_, err := NewStateStore(scope)
	assert.ErrorIs(t, err, ErrNoState)
}
