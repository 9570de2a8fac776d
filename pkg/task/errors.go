package task

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for classification with errors.Is. The typed errors
// below carry the detail a caller needs to render a useful message.
var (
	ErrNotFound  = errors.New("task not found")
	ErrAmbiguous = errors.New("ambiguous task id prefix")
	ErrCycle     = errors.New("dependency cycle")
	ErrSelfLoop  = errors.New("task cannot block itself")
)

// Match is one candidate task for an ambiguous prefix.
type Match struct {
	ID    string
	Title string
}

// NotFoundError reports that no task id starts with the given prefix.
type NotFoundError struct {
	Prefix string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("task %q not found", e.Prefix)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// AmbiguousError reports that more than one task id starts with the given
// prefix. Matches lists every candidate so the caller can disambiguate
// with a longer prefix.
type AmbiguousError struct {
	Prefix  string
	Matches []Match
}

func (e *AmbiguousError) Error() string {
	ids := make([]string, len(e.Matches))
	for i, m := range e.Matches {
		ids[i] = m.ID
	}
	return fmt.Sprintf("ambiguous id prefix %q matches %s", e.Prefix, strings.Join(ids, ", "))
}

func (e *AmbiguousError) Is(target error) bool { return target == ErrAmbiguous }

// CycleError reports that an edge addition would create a dependency
// cycle. Path is the offending id sequence, first id repeated last.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle: %s", strings.Join(e.Path, " -> "))
}

func (e *CycleError) Is(target error) bool { return target == ErrCycle }
