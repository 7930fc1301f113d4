package persistence_test

import (
	"context"
	"sync"
	"testing"

	"github.com/felixgeelhaar/todolist/internal/tasks/domain/task"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runStoreSuite exercises the behaviour every task.Store must share.
// newStore must return an empty store.
func runStoreSuite(t *testing.T, newStore func(t *testing.T) task.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("insert assigns id and round trips", func(t *testing.T) {
		store := newStore(t)
		tk := &task.Task{Title: "Buy milk", Status: task.StatusStarted}

		require.NoError(t, store.Insert(ctx, tk))
		require.NotEqual(t, uuid.Nil, tk.ID)

		got, err := store.FindByID(ctx, tk.ID)
		require.NoError(t, err)
		assert.Equal(t, tk, got)
	})

	t.Run("insert keeps empty status", func(t *testing.T) {
		store := newStore(t)
		tk := &task.Task{Title: "No status"}

		require.NoError(t, store.Insert(ctx, tk))

		got, err := store.FindByID(ctx, tk.ID)
		require.NoError(t, err)
		assert.Empty(t, got.Status)
	})

	t.Run("find missing id returns not found", func(t *testing.T) {
		store := newStore(t)

		_, err := store.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, task.ErrNotFound)
	})

	t.Run("find all lists in insertion order", func(t *testing.T) {
		store := newStore(t)
		empty, err := store.FindAll(ctx)
		require.NoError(t, err)
		assert.NotNil(t, empty)
		assert.Empty(t, empty)

		titles := []string{"first", "second", "third"}
		for _, title := range titles {
			require.NoError(t, store.Insert(ctx, &task.Task{Title: title, Status: task.StatusStarted}))
		}

		all, err := store.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 3)
		for i, tk := range all {
			assert.Equal(t, titles[i], tk.Title)
		}
	})

	t.Run("find by status matches exactly", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Insert(ctx, &task.Task{Title: "a", Status: task.StatusCompleted}))
		require.NoError(t, store.Insert(ctx, &task.Task{Title: "b", Status: "concluido"}))
		require.NoError(t, store.Insert(ctx, &task.Task{Title: "c", Status: task.StatusCompleted}))

		got, err := store.FindByStatus(ctx, task.StatusCompleted)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "a", got[0].Title)
		assert.Equal(t, "c", got[1].Title)

		none, err := store.FindByStatus(ctx, "Unknown")
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("replace overwrites fields", func(t *testing.T) {
		store := newStore(t)
		tk := &task.Task{Title: "draft", Status: task.StatusStarted}
		require.NoError(t, store.Insert(ctx, tk))

		require.NoError(t, store.Replace(ctx, tk.ID, &task.Task{ID: tk.ID, Title: "final", Status: task.StatusCompleted}))

		got, err := store.FindByID(ctx, tk.ID)
		require.NoError(t, err)
		assert.Equal(t, "final", got.Title)
		assert.Equal(t, task.StatusCompleted, got.Status)

		// Order is preserved after replace
		require.NoError(t, store.Insert(ctx, &task.Task{Title: "later"}))
		all, err := store.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, tk.ID, all[0].ID)
	})

	t.Run("replace missing id returns not found", func(t *testing.T) {
		store := newStore(t)

		err := store.Replace(ctx, uuid.New(), &task.Task{Title: "ghost"})
		assert.ErrorIs(t, err, task.ErrNotFound)

		n, err := store.Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("delete reports whether a record was removed", func(t *testing.T) {
		store := newStore(t)
		tk := &task.Task{Title: "temp", Status: task.StatusDeleted}
		require.NoError(t, store.Insert(ctx, tk))

		removed, err := store.Delete(ctx, tk.ID)
		require.NoError(t, err)
		assert.True(t, removed)

		removed, err = store.Delete(ctx, tk.ID)
		require.NoError(t, err)
		assert.False(t, removed)

		_, err = store.FindByID(ctx, tk.ID)
		assert.ErrorIs(t, err, task.ErrNotFound)
	})

	t.Run("count tracks inserts and deletes", func(t *testing.T) {
		store := newStore(t)
		a := &task.Task{Title: "a"}
		require.NoError(t, store.Insert(ctx, a))
		require.NoError(t, store.Insert(ctx, &task.Task{Title: "b"}))

		n, err := store.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		_, err = store.Delete(ctx, a.ID)
		require.NoError(t, err)
		n, err = store.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("concurrent inserts", func(t *testing.T) {
		store := newStore(t)
		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, store.Insert(ctx, &task.Task{Title: "parallel"}))
			}()
		}
		wg.Wait()

		n, err := store.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 10, n)
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, newStore(t).Ping(ctx))
	})
}
