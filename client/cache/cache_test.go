package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailyTasksKey(t *testing.T) {
	day := time.Date(2026, 8, 28, 14, 30, 0, 0, time.Local)
	assert.Equal(t, "dailyTasks-2026-08-28", DailyTasksKey(day))

	assert.True(t, IsDailyTasksKey("dailyTasks-2026-08-28"))
	assert.False(t, IsDailyTasksKey("dailyTasks-"))
	assert.False(t, IsDailyTasksKey(WeeklyTasksKey))
	assert.False(t, IsDailyTasksKey(DailyProgressKey))
}

func TestMemoryStore(t *testing.T) {
	store := NewMemory()

	var out []string
	ok, err := store.Get("missing", &out)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set("list", []string{"a", "b"}))
	ok, err = store.Get("list", &out)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, out)

	require.NoError(t, store.Delete("list"))
	ok, _ = store.Get("list", &out)
	assert.False(t, ok)

	// Deleting an absent key is not an error.
	assert.NoError(t, store.Delete("list"))
}

func TestMemoryStoreKeysAndClear(t *testing.T) {
	store := NewMemory()
	require.NoError(t, store.Set("a", 1))
	require.NoError(t, store.Set("b", 2))

	keys, err := store.Keys()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, keys)

	require.NoError(t, store.Clear())
	keys, err = store.Keys()
	require.NoError(t, err)
	assert.Empty(t, keys)
}
