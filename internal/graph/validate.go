package graph

import (
	"fmt"
	"strings"

	"github.com/mesh-intelligence/readyq/pkg/task"
)

// Issue is one structural problem found by Validate.
type Issue struct {
	TaskID  string
	Message string
}

func (i Issue) String() string {
	if i.TaskID == "" {
		return i.Message
	}
	return fmt.Sprintf("%s: %s", task.ShortID(i.TaskID), i.Message)
}

// Report holds the outcome of an advisory validation pass. Errors are
// integrity violations; warnings are suspicious but tolerable. Neither
// blocks loading, so damaged data stays inspectable and fixable.
type Report struct {
	Errors   []Issue
	Warnings []Issue
}

// OK reports whether the collection passed without errors.
func (r Report) OK() bool { return len(r.Errors) == 0 }

func (r *Report) errorf(id, format string, args ...any) {
	r.Errors = append(r.Errors, Issue{TaskID: id, Message: fmt.Sprintf(format, args...)})
}

func (r *Report) warnf(id, format string, args ...any) {
	r.Warnings = append(r.Warnings, Issue{TaskID: id, Message: fmt.Sprintf(format, args...)})
}

// Validate checks the structural integrity of a collection: id uniqueness
// and format, required fields, edge references, edge symmetry, and
// cycles. It reports problems without mutating anything.
func Validate(tasks []task.Task) Report {
	var r Report
	idx := index(tasks)

	seen := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		switch {
		case t.ID == "":
			r.errorf("", "task %q has no id", t.Title)
		case seen[t.ID]:
			r.errorf(t.ID, "duplicate id")
		default:
			seen[t.ID] = true
			if !task.ValidID(t.ID) {
				r.warnf(t.ID, "unexpected id format (want %d lowercase hex characters)", task.IDLength)
			}
		}
		if strings.TrimSpace(t.Title) == "" {
			r.errorf(t.ID, "missing title")
		}
		if !t.Status.IsValid() {
			r.errorf(t.ID, "invalid status %q", t.Status)
		}

		for _, id := range t.Blocks {
			if id == t.ID {
				r.errorf(t.ID, "task blocks itself")
				continue
			}
			other := idx[id]
			if other == nil {
				r.warnf(t.ID, "blocks unknown task %s", task.ShortID(id))
			} else if !contains(other.BlockedBy, t.ID) {
				r.warnf(t.ID, "blocks %s but is missing from its blocked_by list", task.ShortID(id))
			}
		}
		for _, id := range t.BlockedBy {
			if id == t.ID {
				r.errorf(t.ID, "task is blocked by itself")
				continue
			}
			other := idx[id]
			if other == nil {
				r.warnf(t.ID, "blocked by unknown task %s", task.ShortID(id))
			} else if !contains(other.Blocks, t.ID) {
				r.warnf(t.ID, "blocked by %s but is missing from its blocks list", task.ShortID(id))
			}
		}
	}

	if cycle := FindCycle(tasks); cycle != nil {
		short := make([]string, len(cycle))
		for i, id := range cycle {
			short[i] = task.ShortID(id)
		}
		r.errorf(cycle[0], "dependency cycle: %s", strings.Join(short, " -> "))
	}

	return r
}
