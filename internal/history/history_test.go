package history

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calcsh/calcsh/internal/logging"
	"github.com/calcsh/calcsh/internal/store"
)

func trackers(t *testing.T) map[string]Tracker {
	t.Helper()

	db, err := store.Open(":memory:", logging.Nop())
	require.NoError(t, err)

	return map[string]Tracker{
		"memory": NewMemory(),
		"sqlite": NewSQLite(db),
	}
}

func TestTracker_AddAndAll(t *testing.T) {
	for name, tr := range trackers(t) {
		t.Run(name, func(t *testing.T) {
			defer tr.Close()

			require.NoError(t, tr.Add("add", []string{"2", "3"}, "5.0", true))
			require.NoError(t, tr.Add("divide", []string{"1", "0"}, "Error: division by zero is not allowed", false))

			entries, err := tr.All()
			require.NoError(t, err)
			require.Len(t, entries, 2)

			assert.Equal(t, "add", entries[0].Command)
			assert.Equal(t, []string{"2", "3"}, entries[0].Args)
			assert.Equal(t, "5.0", entries[0].Result)
			assert.True(t, entries[0].Success)
			assert.NotEmpty(t, entries[0].ID)
			assert.False(t, entries[0].Timestamp.IsZero())

			assert.Equal(t, "divide", entries[1].Command)
			assert.False(t, entries[1].Success)
		})
	}
}

func TestTracker_NeverPruned(t *testing.T) {
	for name, tr := range trackers(t) {
		t.Run(name, func(t *testing.T) {
			defer tr.Close()

			for i := 0; i < 25; i++ {
				require.NoError(t, tr.Add("add", []string{fmt.Sprint(i), "1"}, "x", true))
			}
			entries, err := tr.All()
			require.NoError(t, err)
			assert.Len(t, entries, 25)
		})
	}
}

func TestTracker_Clear(t *testing.T) {
	for name, tr := range trackers(t) {
		t.Run(name, func(t *testing.T) {
			defer tr.Close()

			require.NoError(t, tr.Add("add", []string{"1", "2"}, "3.0", true))
			require.NoError(t, tr.Clear())

			entries, err := tr.All()
			require.NoError(t, err)
			assert.Empty(t, entries)
		})
	}
}

func TestMemory_AllIsACopy(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.Add("add", []string{"1", "2"}, "3.0", true))

	entries, err := m.All()
	require.NoError(t, err)
	entries[0].Result = "mutated"

	again, err := m.All()
	require.NoError(t, err)
	assert.Equal(t, "3.0", again[0].Result)
}

func TestSQLite_SessionScoped(t *testing.T) {
	db, err := store.Open(":memory:", logging.Nop())
	require.NoError(t, err)
	defer db.Close()

	first := NewSQLite(db)
	second := NewSQLite(db)
	require.NotEqual(t, first.SessionID(), second.SessionID())

	require.NoError(t, first.Add("add", []string{"1", "2"}, "3.0", true))

	entries, err := second.All()
	require.NoError(t, err)
	assert.Empty(t, entries, "a new session starts with no visible history")
}
