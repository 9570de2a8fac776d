// Package graph maintains the dependency edges between tasks: mirrored
// blocks/blocked_by consistency, the automatic block/unblock status
// transitions, the done-cascade, cycle detection, and the ready-work
// query. Every operation acts transactionally on the in-memory collection
// it is handed; callers persist via the store afterward.
package graph

import (
	"time"

	"github.com/mesh-intelligence/readyq/pkg/task"
)

// index maps ids to pointers into tasks for in-place mutation.
func index(tasks []task.Task) map[string]*task.Task {
	idx := make(map[string]*task.Task, len(tasks))
	for i := range tasks {
		idx[tasks[i].ID] = &tasks[i]
	}
	return idx
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func remove(ids []string, id string) ([]string, bool) {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...), true
		}
	}
	return ids, false
}

// AddEdge records that blocker gates blocked, mirroring the edge on both
// endpoints. Adding an existing edge is a no-op. The blocked task's
// status moves to blocked unless it is already done or blocked. An edge
// that would close a cycle, or a self-loop, is rejected and the
// collection is left unchanged.
func AddEdge(tasks []task.Task, blockerID, blockedID string) error {
	if blockerID == blockedID {
		return task.ErrSelfLoop
	}
	idx := index(tasks)
	blocker, ok := idx[blockerID]
	if !ok {
		return &task.NotFoundError{Prefix: blockerID}
	}
	blocked, ok := idx[blockedID]
	if !ok {
		return &task.NotFoundError{Prefix: blockedID}
	}

	// Reject before mutating: if the blocker transitively depends on the
	// blocked task, this edge would close a cycle.
	if chain := dependencyChain(idx, blockerID, blockedID); chain != nil {
		return &task.CycleError{Path: append([]string{blockedID}, chain...)}
	}

	now := time.Now().UTC()
	if !contains(blocker.Blocks, blockedID) {
		blocker.Blocks = append(blocker.Blocks, blockedID)
		blocker.Touch(now)
	}
	if !contains(blocked.BlockedBy, blockerID) {
		blocked.BlockedBy = append(blocked.BlockedBy, blockerID)
		blocked.Touch(now)
		if blocked.Status != task.StatusDone && blocked.Status != task.StatusBlocked {
			blocked.Status = task.StatusBlocked
		}
	}
	return nil
}

// RemoveEdge removes the mirrored edge from both endpoints. When the
// blocked task's last blocker goes away and its status was blocked, it
// reopens; the returned flag reports that transition.
func RemoveEdge(tasks []task.Task, blockerID, blockedID string) (bool, error) {
	idx := index(tasks)
	blocker, ok := idx[blockerID]
	if !ok {
		return false, &task.NotFoundError{Prefix: blockerID}
	}
	blocked, ok := idx[blockedID]
	if !ok {
		return false, &task.NotFoundError{Prefix: blockedID}
	}

	now := time.Now().UTC()
	if next, removed := remove(blocker.Blocks, blockedID); removed {
		blocker.Blocks = next
		blocker.Touch(now)
	}

	unblocked := false
	if next, removed := remove(blocked.BlockedBy, blockerID); removed {
		blocked.BlockedBy = next
		blocked.Touch(now)
		if len(blocked.BlockedBy) == 0 && blocked.Status == task.StatusBlocked {
			blocked.Status = task.StatusOpen
			unblocked = true
		}
	}
	return unblocked, nil
}

// Complete marks a task done and runs the automatic unblocking pass: the
// task is removed from the blocked_by list of everything it blocks, and
// any task left with no blockers reopens if it was blocked. It returns
// the ids of tasks that reopened. Every status transition to done must go
// through here.
func Complete(tasks []task.Task, id string) ([]string, error) {
	idx := index(tasks)
	t, ok := idx[id]
	if !ok {
		return nil, &task.NotFoundError{Prefix: id}
	}

	now := time.Now().UTC()
	t.Status = task.StatusDone
	t.Touch(now)

	var unblocked []string
	for _, blockedID := range t.Blocks {
		blocked, ok := idx[blockedID]
		if !ok {
			continue
		}
		next, removed := remove(blocked.BlockedBy, id)
		if !removed {
			continue
		}
		blocked.BlockedBy = next
		blocked.Touch(now)
		if len(blocked.BlockedBy) == 0 && blocked.Status == task.StatusBlocked {
			blocked.Status = task.StatusOpen
			unblocked = append(unblocked, blockedID)
		}
	}
	return unblocked, nil
}

// Delete removes a task and strips every mirrored reference to it from
// the remaining tasks, applying the same auto-unblock rule as RemoveEdge
// wherever a blocked_by list empties. It returns the new collection and
// the ids of tasks that reopened.
func Delete(tasks []task.Task, id string) ([]task.Task, []string, error) {
	idx := index(tasks)
	if _, ok := idx[id]; !ok {
		return tasks, nil, &task.NotFoundError{Prefix: id}
	}

	now := time.Now().UTC()
	var unblocked []string
	for i := range tasks {
		other := &tasks[i]
		if other.ID == id {
			continue
		}
		if next, removed := remove(other.Blocks, id); removed {
			other.Blocks = next
			other.Touch(now)
		}
		if next, removed := remove(other.BlockedBy, id); removed {
			other.BlockedBy = next
			other.Touch(now)
			if len(other.BlockedBy) == 0 && other.Status == task.StatusBlocked {
				other.Status = task.StatusOpen
				unblocked = append(unblocked, other.ID)
			}
		}
	}

	remaining := make([]task.Task, 0, len(tasks)-1)
	for _, t := range tasks {
		if t.ID != id {
			remaining = append(remaining, t)
		}
	}
	return remaining, unblocked, nil
}

// Ready returns the open work: every task that is not done and whose
// blockers, if any, are all done. A blocker id that resolves to no task
// counts as not done, keeping the task non-ready.
func Ready(tasks []task.Task) []task.Task {
	idx := index(tasks)
	ready := []task.Task{}
	for _, t := range tasks {
		if t.Status == task.StatusDone {
			continue
		}
		ok := true
		for _, blockerID := range t.BlockedBy {
			blocker, exists := idx[blockerID]
			if !exists || blocker.Status != task.StatusDone {
				ok = false
				break
			}
		}
		if ok {
			ready = append(ready, t)
		}
	}
	return ready
}

// FindCycle walks the blocked_by edges depth-first and returns the first
// cycle found as an id sequence with the entry id repeated last, or nil
// when the graph is acyclic. Edges to missing tasks are ignored.
func FindCycle(tasks []task.Task) []string {
	idx := index(tasks)

	const (
		unvisited = iota
		inStack
		done
	)
	state := make(map[string]int, len(tasks))
	var stack []string
	var cycle []string

	var visit func(id string) bool
	visit = func(id string) bool {
		state[id] = inStack
		stack = append(stack, id)
		if t := idx[id]; t != nil {
			for _, dep := range t.BlockedBy {
				if idx[dep] == nil {
					continue
				}
				switch state[dep] {
				case inStack:
					for i, sid := range stack {
						if sid == dep {
							cycle = append(append([]string{}, stack[i:]...), dep)
							return true
						}
					}
				case unvisited:
					if visit(dep) {
						return true
					}
				}
			}
		}
		stack = stack[:len(stack)-1]
		state[id] = done
		return false
	}

	for _, t := range tasks {
		if state[t.ID] == unvisited && visit(t.ID) {
			return cycle
		}
	}
	return nil
}

// dependencyChain returns the blocked_by chain from start to target, or
// nil when start does not transitively depend on target.
func dependencyChain(idx map[string]*task.Task, start, target string) []string {
	seen := map[string]bool{}
	var walk func(id string) []string
	walk = func(id string) []string {
		if id == target {
			return []string{id}
		}
		if seen[id] {
			return nil
		}
		seen[id] = true
		t := idx[id]
		if t == nil {
			return nil
		}
		for _, dep := range t.BlockedBy {
			if chain := walk(dep); chain != nil {
				return append([]string{id}, chain...)
			}
		}
		return nil
	}
	return walk(start)
}
