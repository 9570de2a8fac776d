package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/readyq/internal/lockfile"
	"github.com/mesh-intelligence/readyq/pkg/task"
)

func storeTask(id, title string) task.Task {
	ts := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)
	return task.Task{
		ID:        id,
		Title:     title,
		Status:    task.StatusOpen,
		CreatedAt: ts,
		UpdatedAt: ts,
		Blocks:    []string{},
		BlockedBy: []string{},
		Sessions:  []task.Session{},
	}
}

func TestOpenCodecByExtension(t *testing.T) {
	dir := t.TempDir()

	assert.Equal(t, "line", Open(filepath.Join(dir, "tasks.jsonl")).CodecName())
	assert.Equal(t, "document", Open(filepath.Join(dir, "tasks.md")).CodecName())
	assert.Equal(t, "document", Open(filepath.Join(dir, "tasks")).CodecName())
}

func TestOpenCodecByContent(t *testing.T) {
	dir := t.TempDir()

	// Content wins over extension: a .md file holding line records is
	// read as line format.
	path := filepath.Join(dir, "tasks.md")
	require.NoError(t, os.WriteFile(path, []byte(`{"id":"x","title":"t"}`+"\n"), 0o644))
	assert.Equal(t, "line", Open(path).CodecName())

	path = filepath.Join(dir, "tasks.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("# Task: t\n\n**ID**: x\n"), 0o644))
	assert.Equal(t, "document", Open(path).CodecName())
}

func TestLoadAbsentFile(t *testing.T) {
	st := Open(filepath.Join(t.TempDir(), "missing.md"))

	tasks, err := st.Load()
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	for _, name := range []string{"tasks.jsonl", "tasks.md"} {
		t.Run(name, func(t *testing.T) {
			st := Open(filepath.Join(t.TempDir(), name))

			a := storeTask("aaaa1111aaaa1111aaaa1111aaaa1111", "First")
			a.Description = "with\nnewlines"
			b := storeTask("bbbb2222bbbb2222bbbb2222bbbb2222", "Second")
			want := []task.Task{a, b}

			require.NoError(t, st.Save(want))
			got, err := st.Load()
			require.NoError(t, err)
			assert.Equal(t, want, got)

			// The lock is released once the save returns.
			_, err = os.Stat(lockfile.Path(st.Path()))
			assert.True(t, os.IsNotExist(err))
		})
	}
}

func TestSaveLastWriterWins(t *testing.T) {
	st := Open(filepath.Join(t.TempDir(), "tasks.md"))

	a := storeTask("aaaa1111aaaa1111aaaa1111aaaa1111", "First")
	require.NoError(t, st.Save([]task.Task{a}))

	b := storeTask("bbbb2222bbbb2222bbbb2222bbbb2222", "Second")
	require.NoError(t, st.Save([]task.Task{b}))

	got, err := st.Load()
	require.NoError(t, err)
	assert.Equal(t, []task.Task{b}, got)
}

func TestAppend(t *testing.T) {
	for _, name := range []string{"tasks.jsonl", "tasks.md"} {
		t.Run(name, func(t *testing.T) {
			st := Open(filepath.Join(t.TempDir(), name))

			a := storeTask("aaaa1111aaaa1111aaaa1111aaaa1111", "First")
			b := storeTask("bbbb2222bbbb2222bbbb2222bbbb2222", "Second")
			require.NoError(t, st.Append(a))
			require.NoError(t, st.Append(b))

			got, err := st.Load()
			require.NoError(t, err)
			assert.Equal(t, []task.Task{a, b}, got)
		})
	}
}

func TestAppendAfterSave(t *testing.T) {
	st := Open(filepath.Join(t.TempDir(), "tasks.md"))

	a := storeTask("aaaa1111aaaa1111aaaa1111aaaa1111", "Saved")
	require.NoError(t, st.Save([]task.Task{a}))

	b := storeTask("bbbb2222bbbb2222bbbb2222bbbb2222", "Appended")
	require.NoError(t, st.Append(b))

	got, err := st.Load()
	require.NoError(t, err)
	assert.Equal(t, []task.Task{a, b}, got)
}

func TestSaveWaitsForLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.md")
	st := Open(path, WithLockTimeout(100*time.Millisecond))

	// A fresh lock held by someone else times the save out.
	lock, err := lockfile.Acquire(path, time.Second)
	require.NoError(t, err)
	defer lock.Release()

	err = st.Save([]task.Task{storeTask("aaaa1111aaaa1111aaaa1111aaaa1111", "Blocked write")})
	require.Error(t, err)
	assert.ErrorIs(t, err, lockfile.ErrTimeout)

	// Nothing was written.
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestIndependentStores(t *testing.T) {
	dir := t.TempDir()
	one := Open(filepath.Join(dir, "one.md"))
	two := Open(filepath.Join(dir, "two.md"))

	a := storeTask("aaaa1111aaaa1111aaaa1111aaaa1111", "In one")
	require.NoError(t, one.Save([]task.Task{a}))

	got, err := two.Load()
	require.NoError(t, err)
	assert.Empty(t, got)
}
