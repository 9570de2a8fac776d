package store

import (
	"strings"

	"github.com/mesh-intelligence/readyq/pkg/task"
)

// Resolve finds the single task whose id starts with prefix. Matching is
// case-sensitive over the full id. The returned pointer aliases the
// element in tasks so the caller can mutate it in place before saving.
// Zero matches yield a NotFoundError, more than one an AmbiguousError
// listing every candidate. An empty prefix never matches.
func Resolve(tasks []task.Task, prefix string) (*task.Task, error) {
	if prefix == "" {
		return nil, &task.NotFoundError{Prefix: prefix}
	}

	var matches []*task.Task
	for i := range tasks {
		if strings.HasPrefix(tasks[i].ID, prefix) {
			matches = append(matches, &tasks[i])
		}
	}

	switch len(matches) {
	case 0:
		return nil, &task.NotFoundError{Prefix: prefix}
	case 1:
		return matches[0], nil
	}

	found := make([]task.Match, len(matches))
	for i, m := range matches {
		found[i] = task.Match{ID: m.ID, Title: m.Title}
	}
	return nil, &task.AmbiguousError{Prefix: prefix, Matches: found}
}
