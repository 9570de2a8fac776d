package store

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/readyq/pkg/task"
)

func TestResolve(t *testing.T) {
	tasks := []task.Task{
		storeTask("aaaa1111aaaa1111aaaa1111aaaa1111", "First"),
		storeTask("aaab2222aaab2222aaab2222aaab2222", "Second"),
		storeTask("bbbb3333bbbb3333bbbb3333bbbb3333", "Third"),
	}

	t.Run("unique prefix", func(t *testing.T) {
		got, err := Resolve(tasks, "bb")
		require.NoError(t, err)
		assert.Equal(t, "Third", got.Title)
	})

	t.Run("full id", func(t *testing.T) {
		got, err := Resolve(tasks, "aaaa1111aaaa1111aaaa1111aaaa1111")
		require.NoError(t, err)
		assert.Equal(t, "First", got.Title)
	})

	t.Run("ambiguous prefix", func(t *testing.T) {
		_, err := Resolve(tasks, "aaa")
		require.Error(t, err)
		assert.True(t, errors.Is(err, task.ErrAmbiguous))

		var ambiguous *task.AmbiguousError
		require.True(t, errors.As(err, &ambiguous))
		assert.Len(t, ambiguous.Matches, 2)
		assert.Equal(t, "aaa", ambiguous.Prefix)
	})

	t.Run("no match", func(t *testing.T) {
		_, err := Resolve(tasks, "ffff")
		assert.True(t, errors.Is(err, task.ErrNotFound))
	})

	t.Run("empty prefix", func(t *testing.T) {
		_, err := Resolve(tasks, "")
		assert.True(t, errors.Is(err, task.ErrNotFound))
	})

	t.Run("mutates in place", func(t *testing.T) {
		got, err := Resolve(tasks, "bb")
		require.NoError(t, err)
		got.Title = "Renamed"
		assert.Equal(t, "Renamed", tasks[2].Title)
	})
}
