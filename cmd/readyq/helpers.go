// Shared helpers for readyq CLI commands.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/mesh-intelligence/readyq/internal/store"
	"github.com/mesh-intelligence/readyq/pkg/task"
)

// statusColors maps each status to its display color.
var statusColors = map[task.Status]*color.Color{
	task.StatusOpen:       color.New(color.FgBlue),
	task.StatusInProgress: color.New(color.FgYellow),
	task.StatusBlocked:    color.New(color.FgRed),
	task.StatusDone:       color.New(color.FgGreen),
}

// openStore resolves the task file and opens a store on it with the
// configured lock timeout.
func openStore() (*store.Store, error) {
	path, err := resolveStoreFile()
	if err != nil {
		return nil, fmt.Errorf("resolve task file: %w", err)
	}
	return store.Open(path, store.WithLockTimeout(lockTimeout())), nil
}

// loadTasks opens the store and loads the whole collection.
func loadTasks() (*store.Store, []task.Task, error) {
	st, err := openStore()
	if err != nil {
		return nil, nil, err
	}
	tasks, err := st.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load tasks: %w", err)
	}
	return st, tasks, nil
}

// resolveOrExit resolves an id prefix against the collection, printing
// the same diagnostics for absence and ambiguity the store errors carry
// and exiting with a user error.
func resolveOrExit(tasks []task.Task, prefix string) *task.Task {
	t, err := store.Resolve(tasks, prefix)
	if err != nil {
		var ambiguous *task.AmbiguousError
		if errors.As(err, &ambiguous) {
			fmt.Fprintf(os.Stderr, "Error: ID prefix '%s' is ambiguous. Matches:\n", prefix)
			for _, m := range ambiguous.Matches {
				fmt.Fprintf(os.Stderr, "  %s  %s\n", task.ShortID(m.ID), m.Title)
			}
		} else {
			fmt.Fprintf(os.Stderr, "Error: no task found with ID prefix '%s'\n", prefix)
		}
		os.Exit(exitUserError)
	}
	return t
}

// printTaskList renders tasks as an aligned table with colored statuses,
// or as JSON when --json is set.
func printTaskList(tasks []task.Task) {
	if flagJSON {
		printJSON(tasks)
		return
	}
	if len(tasks) == 0 {
		fmt.Println("No tasks found.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tTITLE\tBLOCKED BY")
	fmt.Fprintln(w, "--\t------\t-----\t----------")
	for _, t := range tasks {
		blockedBy := ""
		for i, id := range t.BlockedBy {
			if i > 0 {
				blockedBy += ", "
			}
			blockedBy += task.ShortID(id)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", task.ShortID(t.ID), coloredStatus(t.Status), t.Title, blockedBy)
	}
	w.Flush()
	fmt.Printf("\nTotal: %d task(s)\n", len(tasks))
}

func coloredStatus(s task.Status) string {
	if c, ok := statusColors[s]; ok {
		return c.Sprint(string(s))
	}
	return string(s)
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, "marshal JSON:", err)
		os.Exit(exitSysError)
	}
	fmt.Println(string(out))
}
