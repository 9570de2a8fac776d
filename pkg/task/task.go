// Package task defines the persisted record model for the readyq store:
// tasks, their dependency edges, and session log entries. It is pure data;
// persistence and graph maintenance live in internal/store and
// internal/graph.
package task

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Task states. Blocked is normally an effect of having blockers and is
// cleared automatically when the last blocker goes away; the other states
// are user-driven.
const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusBlocked    Status = "blocked"
	StatusDone       Status = "done"
)

// Status is the workflow state of a task.
type Status string

// validStatuses is the set of recognized status values.
var validStatuses = map[Status]bool{
	StatusOpen:       true,
	StatusInProgress: true,
	StatusBlocked:    true,
	StatusDone:       true,
}

// IsValid reports whether s is one of the recognized status values.
func (s Status) IsValid() bool {
	return validStatuses[s]
}

// Statuses returns the recognized status values in display order.
func Statuses() []Status {
	return []Status{StatusOpen, StatusInProgress, StatusBlocked, StatusDone}
}

// Session is one session log entry on a task. Entries are append-mostly
// but individually deletable by position.
type Session struct {
	Timestamp time.Time `json:"timestamp"`
	Log       string    `json:"log"`
}

// Task is the sole persisted entity. Blocks and BlockedBy hold the two
// redundant sides of every dependency edge: for tasks A and B,
// B.ID in A.Blocks if and only if A.ID in B.BlockedBy.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Blocks      []string  `json:"blocks"`
	BlockedBy   []string  `json:"blocked_by"`
	Sessions    []Session `json:"sessions"`
}

// IDLength is the length of a generated task identifier. Prefix
// resolution assumes every id has this stable fixed format.
const IDLength = 32

// NewID generates a new 32-character lowercase hex task identifier.
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// New creates a task with a fresh id, open status, and both timestamps
// set to the current UTC time.
func New(title, description string) Task {
	now := time.Now().UTC()
	return Task{
		ID:          NewID(),
		Title:       title,
		Description: description,
		Status:      StatusOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
		Blocks:      []string{},
		BlockedBy:   []string{},
		Sessions:    []Session{},
	}
}

// EnsureDefaults fills zero-valued optional fields so that codecs and the
// graph engine always operate over a fully populated structure.
func (t *Task) EnsureDefaults() {
	if t.Status == "" {
		t.Status = StatusOpen
	}
	if t.Blocks == nil {
		t.Blocks = []string{}
	}
	if t.BlockedBy == nil {
		t.BlockedBy = []string{}
	}
	if t.Sessions == nil {
		t.Sessions = []Session{}
	}
}

// Touch advances UpdatedAt to now.
func (t *Task) Touch(now time.Time) {
	t.UpdatedAt = now
}

// ShortID returns the first eight characters of id for display.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// ValidID reports whether id looks like a generated identifier:
// exactly IDLength lowercase hex characters.
func ValidID(id string) bool {
	if len(id) != IDLength {
		return false
	}
	for _, c := range id {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
