package web

import (
	_ "embed"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mesh-intelligence/readyq/internal/graph"
	"github.com/mesh-intelligence/readyq/internal/store"
	"github.com/mesh-intelligence/readyq/pkg/task"
)

//go:embed index.html
var indexHTML []byte

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Write(indexHTML)
}

func (s *Server) handleTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.store.Load()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

// handleUpdateStatus services the status dropdown: GET /api/update?id&status.
func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	status := task.Status(r.URL.Query().Get("status"))
	if id == "" || status == "" {
		writeError(w, http.StatusBadRequest, errors.New("missing 'id' or 'status'"))
		return
	}
	if !status.IsValid() {
		writeError(w, http.StatusBadRequest, errors.New("invalid status"))
		return
	}

	tasks, err := s.store.Load()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	t, err := store.Resolve(tasks, id)
	if err != nil {
		writeResolveError(w, err)
		return
	}
	if err := setStatus(tasks, t, status); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if err := s.store.Save(tasks); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	title := r.PostFormValue("title")
	if title == "" {
		writeError(w, http.StatusBadRequest, errors.New("missing 'title'"))
		return
	}
	description := r.PostFormValue("description")
	blockedBy := splitList(r.PostFormValue("blocked_by"))

	t := task.New(title, description)

	if len(blockedBy) == 0 {
		if err := s.store.Append(t); err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	tasks, err := s.store.Load()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	t.Status = task.StatusBlocked
	tasks = append(tasks, t)
	for _, prefix := range blockedBy {
		blocker, err := store.Resolve(tasks, prefix)
		if err != nil {
			slog.Warn("ignoring unknown blocker", "prefix", prefix)
			continue
		}
		if err := graph.AddEdge(tasks, blocker.ID, t.ID); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}
	if err := s.store.Save(tasks); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	id := r.PostFormValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, errors.New("missing 'id'"))
		return
	}

	tasks, err := s.store.Load()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	t, err := store.Resolve(tasks, id)
	if err != nil {
		writeResolveError(w, err)
		return
	}

	now := time.Now().UTC()
	if title := r.PostFormValue("title"); title != "" {
		t.Title = title
		t.Touch(now)
	}
	if r.PostForm.Has("description") {
		t.Description = r.PostFormValue("description")
		t.Touch(now)
	}
	if log := r.PostFormValue("log"); log != "" {
		t.Sessions = append(t.Sessions, task.Session{Timestamp: now, Log: log})
		t.Touch(now)
	}

	for _, prefix := range splitList(r.PostFormValue("add_blocks")) {
		blocked, err := store.Resolve(tasks, prefix)
		if err != nil {
			slog.Warn("ignoring unknown task", "prefix", prefix)
			continue
		}
		if err := graph.AddEdge(tasks, t.ID, blocked.ID); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}
	for _, prefix := range splitList(r.PostFormValue("add_blocked_by")) {
		blocker, err := store.Resolve(tasks, prefix)
		if err != nil {
			slog.Warn("ignoring unknown blocker", "prefix", prefix)
			continue
		}
		if err := graph.AddEdge(tasks, blocker.ID, t.ID); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}

	if status := task.Status(r.PostFormValue("status")); status != "" {
		if !status.IsValid() {
			writeError(w, http.StatusBadRequest, errors.New("invalid status"))
			return
		}
		if err := setStatus(tasks, t, status); err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
	}

	if err := s.store.Save(tasks); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	id := r.PostFormValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, errors.New("missing 'id'"))
		return
	}

	tasks, err := s.store.Load()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	t, err := store.Resolve(tasks, id)
	if err != nil {
		writeResolveError(w, err)
		return
	}
	remaining, _, err := graph.Delete(tasks, t.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if err := s.store.Save(remaining); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) handleDeleteLog(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	id := r.PostFormValue("id")
	indexValue := r.PostFormValue("log_index")
	if id == "" || indexValue == "" {
		writeError(w, http.StatusBadRequest, errors.New("missing 'id' or 'log_index'"))
		return
	}
	logIndex, err := strconv.Atoi(indexValue)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid log_index format"))
		return
	}

	tasks, err := s.store.Load()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	t, err := store.Resolve(tasks, id)
	if err != nil {
		writeResolveError(w, err)
		return
	}
	if logIndex < 0 || logIndex >= len(t.Sessions) {
		writeError(w, http.StatusBadRequest, errors.New("invalid log index"))
		return
	}
	t.Sessions = append(t.Sessions[:logIndex], t.Sessions[logIndex+1:]...)
	t.Touch(time.Now().UTC())

	if err := s.store.Save(tasks); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// setStatus applies a status change to t, running the done-cascade when
// the new status is done.
func setStatus(tasks []task.Task, t *task.Task, status task.Status) error {
	if status == task.StatusDone {
		_, err := graph.Complete(tasks, t.ID)
		return err
	}
	t.Status = status
	t.Touch(time.Now().UTC())
	return nil
}

func splitList(value string) []string {
	parts := []string{}
	for _, p := range strings.Split(value, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeResolveError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, task.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, task.ErrAmbiguous):
		status = http.StatusBadRequest
	}
	writeError(w, status, err)
}
