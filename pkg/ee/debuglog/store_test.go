package debuglog_test

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/libee/pkg/ee/debuglog"
)

// storeFactory creates a store instance for testing.
type storeFactory func(t *testing.T) debuglog.Store

// storeContractTest runs contract tests against any Store implementation.
func storeContractTest(t *testing.T, name string, factory storeFactory) {
	t.Run(name+"/Append_and_List", func(t *testing.T) {
		store := factory(t)
		defer store.Close()

		require.NoError(t, store.Append("ctx-1", "hello"))
		require.NoError(t, store.Append("ctx-1", "world!"))

		entries, err := store.List("ctx-1")
		require.NoError(t, err)
		require.Len(t, entries, 2)

		assert.Equal(t, "ctx-1", entries[0].ContextID)
		assert.Equal(t, 1, entries[0].Sequence)
		assert.Equal(t, "hello", entries[0].Message)
		assert.Equal(t, 5, entries[0].Length)
		assert.False(t, entries[0].Timestamp.IsZero())

		assert.Equal(t, 2, entries[1].Sequence)
		assert.Equal(t, "world!", entries[1].Message)
		assert.Equal(t, 6, entries[1].Length)
	})

	t.Run(name+"/List_Empty", func(t *testing.T) {
		store := factory(t)
		defer store.Close()

		entries, err := store.List("ctx-nonexistent")
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run(name+"/Sequences_Per_Context", func(t *testing.T) {
		store := factory(t)
		defer store.Close()

		require.NoError(t, store.Append("ctx-a", "a1"))
		require.NoError(t, store.Append("ctx-b", "b1"))
		require.NoError(t, store.Append("ctx-a", "a2"))

		a, err := store.List("ctx-a")
		require.NoError(t, err)
		require.Len(t, a, 2)
		assert.Equal(t, 2, a[1].Sequence)

		b, err := store.List("ctx-b")
		require.NoError(t, err)
		require.Len(t, b, 1)
		assert.Equal(t, 1, b[0].Sequence)

		ids, err := store.Contexts()
		require.NoError(t, err)
		assert.Equal(t, []string{"ctx-a", "ctx-b"}, ids)
	})

	t.Run(name+"/DeleteContext", func(t *testing.T) {
		store := factory(t)
		defer store.Close()

		require.NoError(t, store.Append("ctx-1", "gone"))
		require.NoError(t, store.Append("ctx-2", "kept"))
		require.NoError(t, store.DeleteContext("ctx-1"))
		require.NoError(t, store.DeleteContext("ctx-nonexistent"))

		entries, err := store.List("ctx-1")
		require.NoError(t, err)
		assert.Empty(t, entries)

		ids, err := store.Contexts()
		require.NoError(t, err)
		assert.Equal(t, []string{"ctx-2"}, ids)
	})

	t.Run(name+"/Closed", func(t *testing.T) {
		store := factory(t)
		require.NoError(t, store.Close())

		assert.ErrorIs(t, store.Append("ctx-1", "x"), debuglog.ErrStoreClosed)
		_, err := store.List("ctx-1")
		assert.ErrorIs(t, err, debuglog.ErrStoreClosed)
		_, err = store.Contexts()
		assert.ErrorIs(t, err, debuglog.ErrStoreClosed)
		assert.ErrorIs(t, store.DeleteContext("ctx-1"), debuglog.ErrStoreClosed)

		assert.NoError(t, store.Close())
	})

	t.Run(name+"/Concurrent", func(t *testing.T) {
		store := factory(t)
		defer store.Close()

		const numGoroutines = 20
		const numOps = 10

		var wg sync.WaitGroup
		wg.Add(numGoroutines)
		for i := 0; i < numGoroutines; i++ {
			go func() {
				defer wg.Done()
				for j := 0; j < numOps; j++ {
					_ = store.Append("ctx-shared", "msg")
					_, _ = store.List("ctx-shared")
				}
			}()
		}
		wg.Wait()

		entries, err := store.List("ctx-shared")
		require.NoError(t, err)
		require.Len(t, entries, numGoroutines*numOps)
		for i, e := range entries {
			assert.Equal(t, i+1, e.Sequence)
		}
	})
}

func TestMemoryStore(t *testing.T) {
	storeContractTest(t, "MemoryStore", func(t *testing.T) debuglog.Store {
		return debuglog.NewMemoryStore()
	})
}

func TestSQLiteStore(t *testing.T) {
	storeContractTest(t, "SQLiteStore", func(t *testing.T) debuglog.Store {
		store, err := debuglog.NewSQLiteStore(filepath.Join(t.TempDir(), "debug.db"))
		require.NoError(t, err)
		return store
	})
}

func TestMemoryStore_Len(t *testing.T) {
	store := debuglog.NewMemoryStore()
	require.NoError(t, store.Append("ctx-1", "a"))
	require.NoError(t, store.Append("ctx-2", "b"))
	assert.Equal(t, 2, store.Len())
}

func TestSQLiteStore_Persistence(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "debug.db")

	store1, err := debuglog.NewSQLiteStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, store1.Append("ctx-1", "persistent"))
	require.NoError(t, store1.Close())

	store2, err := debuglog.NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer store2.Close()

	entries, err := store2.List("ctx-1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "persistent", entries[0].Message)

	// Sequence continues after reopen.
	require.NoError(t, store2.Append("ctx-1", "again"))
	entries, err = store2.List("ctx-1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 2, entries[1].Sequence)
}

func TestSQLiteStore_InMemory(t *testing.T) {
	store, err := debuglog.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Append("ctx-1", "x"))
	entries, err := store.List("ctx-1")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSQLiteStore_InvalidPath(t *testing.T) {
	_, err := debuglog.NewSQLiteStore("/nonexistent/path/debug.db")
	assert.Error(t, err)
}
