package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/readyq/internal/store"
	"github.com/mesh-intelligence/readyq/pkg/task"
)

const (
	idA = "aaaa1111aaaa1111aaaa1111aaaa1111"
	idB = "bbbb2222bbbb2222bbbb2222bbbb2222"
)

func webTask(id, title string) task.Task {
	ts := time.Date(2026, 6, 7, 8, 9, 10, 0, time.UTC)
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

// newTestServer seeds a store with tasks and returns the routed handler
// plus the store for post-request assertions.
func newTestServer(t *testing.T, tasks []task.Task) (http.Handler, *store.Store) {
	t.Helper()
	st := store.Open(filepath.Join(t.TempDir(), "tasks.md"))
	if len(tasks) > 0 {
		require.NoError(t, st.Save(tasks))
	}
	return New(st, "127.0.0.1", 0).Handler(), st
}

func postForm(h http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestIndex(t *testing.T) {
	h, _ := newTestServer(t, nil)

	w := get(h, "/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "readyq")
}

func TestTasks(t *testing.T) {
	h, _ := newTestServer(t, []task.Task{webTask(idA, "First"), webTask(idB, "Second")})

	w := get(h, "/api/tasks")
	require.Equal(t, http.StatusOK, w.Code)

	var got []task.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "First", got[0].Title)
}

func TestTasksEmptyStore(t *testing.T) {
	h, _ := newTestServer(t, nil)

	w := get(h, "/api/tasks")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]\n", w.Body.String())
}

func TestUpdateStatus(t *testing.T) {
	h, st := newTestServer(t, []task.Task{webTask(idA, "First")})

	w := get(h, "/api/update?id="+idA[:8]+"&status=in_progress")
	require.Equal(t, http.StatusFound, w.Code)

	tasks, err := st.Load()
	require.NoError(t, err)
	assert.Equal(t, task.StatusInProgress, tasks[0].Status)
}

func TestUpdateStatusDoneCascades(t *testing.T) {
	a := webTask(idA, "Blocker")
	b := webTask(idB, "Blocked")
	a.Blocks = []string{idB}
	b.BlockedBy = []string{idA}
	b.Status = task.StatusBlocked
	h, st := newTestServer(t, []task.Task{a, b})

	w := get(h, "/api/update?id="+idA[:8]+"&status=done")
	require.Equal(t, http.StatusFound, w.Code)

	tasks, err := st.Load()
	require.NoError(t, err)
	assert.Equal(t, task.StatusDone, tasks[0].Status)
	assert.Equal(t, task.StatusOpen, tasks[1].Status)
	assert.Empty(t, tasks[1].BlockedBy)
}

func TestUpdateStatusErrors(t *testing.T) {
	h, _ := newTestServer(t, []task.Task{webTask(idA, "First")})

	assert.Equal(t, http.StatusBadRequest, get(h, "/api/update?id="+idA).Code)
	assert.Equal(t, http.StatusBadRequest, get(h, "/api/update?id="+idA+"&status=nope").Code)

	w := get(h, "/api/update?id=ffff&status=open")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "error")
}

func TestCreate(t *testing.T) {
	h, st := newTestServer(t, nil)

	w := postForm(h, "/api/create", url.Values{
		"title":       {"Fresh task"},
		"description": {"details"},
	})
	require.Equal(t, http.StatusFound, w.Code)

	tasks, err := st.Load()
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Fresh task", tasks[0].Title)
	assert.Equal(t, task.StatusOpen, tasks[0].Status)
}

func TestCreateBlocked(t *testing.T) {
	h, st := newTestServer(t, []task.Task{webTask(idA, "Blocker")})

	w := postForm(h, "/api/create", url.Values{
		"title":      {"Dependent"},
		"blocked_by": {idA[:8]},
	})
	require.Equal(t, http.StatusFound, w.Code)

	tasks, err := st.Load()
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	created := tasks[1]
	assert.Equal(t, task.StatusBlocked, created.Status)
	assert.Equal(t, []string{idA}, created.BlockedBy)
	assert.Equal(t, []string{created.ID}, tasks[0].Blocks)
}

func TestCreateMissingTitle(t *testing.T) {
	h, _ := newTestServer(t, nil)
	assert.Equal(t, http.StatusBadRequest, postForm(h, "/api/create", url.Values{}).Code)
}

func TestEdit(t *testing.T) {
	h, st := newTestServer(t, []task.Task{webTask(idA, "Before")})

	w := postForm(h, "/api/edit", url.Values{
		"id":    {idA[:8]},
		"title": {"After"},
		"log":   {"made progress"},
	})
	require.Equal(t, http.StatusFound, w.Code)

	tasks, err := st.Load()
	require.NoError(t, err)
	assert.Equal(t, "After", tasks[0].Title)
	require.Len(t, tasks[0].Sessions, 1)
	assert.Equal(t, "made progress", tasks[0].Sessions[0].Log)
}

func TestEditAddsEdges(t *testing.T) {
	h, st := newTestServer(t, []task.Task{webTask(idA, "One"), webTask(idB, "Two")})

	w := postForm(h, "/api/edit", url.Values{
		"id":             {idB[:8]},
		"add_blocked_by": {idA[:8]},
	})
	require.Equal(t, http.StatusFound, w.Code)

	tasks, err := st.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{idB}, tasks[0].Blocks)
	assert.Equal(t, []string{idA}, tasks[1].BlockedBy)
	assert.Equal(t, task.StatusBlocked, tasks[1].Status)
}

func TestEditRejectsCycle(t *testing.T) {
	a := webTask(idA, "One")
	b := webTask(idB, "Two")
	a.Blocks = []string{idB}
	b.BlockedBy = []string{idA}
	b.Status = task.StatusBlocked
	h, st := newTestServer(t, []task.Task{a, b})

	w := postForm(h, "/api/edit", url.Values{
		"id":             {idA[:8]},
		"add_blocked_by": {idB[:8]},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "error")

	// The store is unchanged.
	tasks, err := st.Load()
	require.NoError(t, err)
	assert.Empty(t, tasks[0].BlockedBy)
}

func TestDelete(t *testing.T) {
	a := webTask(idA, "Blocker")
	b := webTask(idB, "Blocked")
	a.Blocks = []string{idB}
	b.BlockedBy = []string{idA}
	b.Status = task.StatusBlocked
	h, st := newTestServer(t, []task.Task{a, b})

	w := postForm(h, "/api/delete", url.Values{"id": {idA[:8]}})
	require.Equal(t, http.StatusFound, w.Code)

	tasks, err := st.Load()
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, idB, tasks[0].ID)
	assert.Empty(t, tasks[0].BlockedBy)
	assert.Equal(t, task.StatusOpen, tasks[0].Status)
}

func TestDeleteLog(t *testing.T) {
	a := webTask(idA, "Logged")
	a.Sessions = []task.Session{
		{Timestamp: a.CreatedAt, Log: "first"},
		{Timestamp: a.CreatedAt.Add(time.Hour), Log: "second"},
	}
	h, st := newTestServer(t, []task.Task{a})

	w := postForm(h, "/api/delete-log", url.Values{
		"id":        {idA[:8]},
		"log_index": {"0"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success": true}`, w.Body.String())

	tasks, err := st.Load()
	require.NoError(t, err)
	require.Len(t, tasks[0].Sessions, 1)
	assert.Equal(t, "second", tasks[0].Sessions[0].Log)
}

func TestDeleteLogBadIndex(t *testing.T) {
	h, _ := newTestServer(t, []task.Task{webTask(idA, "No logs")})

	w := postForm(h, "/api/delete-log", url.Values{
		"id":        {idA[:8]},
		"log_index": {"3"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postForm(h, "/api/delete-log", url.Values{
		"id":        {idA[:8]},
		"log_index": {"not a number"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
