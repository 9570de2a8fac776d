// Update command modifies an existing task: fields, session logs, and
// dependency edges.
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/readyq/internal/graph"
	"github.com/mesh-intelligence/readyq/pkg/task"
)

var (
	updateTitle           string
	updateDescription     string
	updateStatus          string
	updateLog             string
	updateDeleteLog       int
	updateAddBlocks       string
	updateAddBlockedBy    string
	updateRemoveBlocks    string
	updateRemoveBlockedBy string
)

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a task's fields, logs, or dependencies",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, tasks, err := loadTasks()
		if err != nil {
			fmt.Fprintln(os.Stderr, "update:", err)
			os.Exit(exitSysError)
		}
		t := resolveOrExit(tasks, args[0])

		now := time.Now().UTC()
		updated := false

		if updateTitle != "" {
			t.Title = updateTitle
			t.Touch(now)
			updated = true
			fmt.Printf("Updated title to '%s'\n", t.Title)
		}
		if cmd.Flags().Changed("description") {
			t.Description = updateDescription
			t.Touch(now)
			updated = true
			fmt.Println("Updated description")
		}
		if cmd.Flags().Changed("delete-log") {
			if updateDeleteLog < 0 || updateDeleteLog >= len(t.Sessions) {
				fmt.Fprintf(os.Stderr, "Error: log index %d out of range (task has %d log(s))\n", updateDeleteLog, len(t.Sessions))
				os.Exit(exitUserError)
			}
			t.Sessions = append(t.Sessions[:updateDeleteLog], t.Sessions[updateDeleteLog+1:]...)
			t.Touch(now)
			updated = true
			fmt.Printf("Deleted session log %d\n", updateDeleteLog)
		}
		if updateLog != "" {
			t.Sessions = append(t.Sessions, task.Session{Timestamp: now, Log: updateLog})
			t.Touch(now)
			updated = true
			fmt.Println("Added session log")
		}

		for _, prefix := range splitPrefixes(updateAddBlocks) {
			other := resolveOrExit(tasks, prefix)
			if err := graph.AddEdge(tasks, t.ID, other.ID); err != nil {
				fmt.Fprintln(os.Stderr, "update:", err)
				os.Exit(exitUserError)
			}
			updated = true
			fmt.Printf("%s now blocks %s\n", task.ShortID(t.ID), task.ShortID(other.ID))
		}
		for _, prefix := range splitPrefixes(updateAddBlockedBy) {
			other := resolveOrExit(tasks, prefix)
			if err := graph.AddEdge(tasks, other.ID, t.ID); err != nil {
				fmt.Fprintln(os.Stderr, "update:", err)
				os.Exit(exitUserError)
			}
			updated = true
			fmt.Printf("%s is now blocked by %s\n", task.ShortID(t.ID), task.ShortID(other.ID))
		}
		for _, prefix := range splitPrefixes(updateRemoveBlocks) {
			other := resolveOrExit(tasks, prefix)
			unblocked, err := graph.RemoveEdge(tasks, t.ID, other.ID)
			if err != nil {
				fmt.Fprintln(os.Stderr, "update:", err)
				os.Exit(exitUserError)
			}
			updated = true
			fmt.Printf("%s no longer blocks %s\n", task.ShortID(t.ID), task.ShortID(other.ID))
			if unblocked {
				fmt.Printf("%s is now unblocked\n", task.ShortID(other.ID))
			}
		}
		for _, prefix := range splitPrefixes(updateRemoveBlockedBy) {
			other := resolveOrExit(tasks, prefix)
			unblocked, err := graph.RemoveEdge(tasks, other.ID, t.ID)
			if err != nil {
				fmt.Fprintln(os.Stderr, "update:", err)
				os.Exit(exitUserError)
			}
			updated = true
			fmt.Printf("%s is no longer blocked by %s\n", task.ShortID(t.ID), task.ShortID(other.ID))
			if unblocked {
				fmt.Printf("%s is now unblocked\n", task.ShortID(t.ID))
			}
		}

		if updateStatus != "" {
			status := task.Status(updateStatus)
			if !status.IsValid() {
				fmt.Fprintf(os.Stderr, "Error: invalid status '%s' (valid: %s)\n", updateStatus, validStatusList())
				os.Exit(exitUserError)
			}
			if status == task.StatusDone {
				unblocked, err := graph.Complete(tasks, t.ID)
				if err != nil {
					fmt.Fprintln(os.Stderr, "update:", err)
					os.Exit(exitSysError)
				}
				for _, id := range unblocked {
					fmt.Printf("%s is now unblocked\n", task.ShortID(id))
				}
			} else {
				t.Status = status
				t.Touch(now)
			}
			updated = true
			fmt.Printf("Updated status to '%s'\n", status)
		}

		if !updated {
			fmt.Println("Nothing to update.")
			return nil
		}

		if err := st.Save(tasks); err != nil {
			fmt.Fprintln(os.Stderr, "update:", err)
			os.Exit(exitSysError)
		}
		return nil
	},
}

func splitPrefixes(value string) []string {
	var prefixes []string
	for _, p := range strings.Split(value, ",") {
		if p = strings.TrimSpace(p); p != "" {
			prefixes = append(prefixes, p)
		}
	}
	return prefixes
}

func validStatusList() string {
	var names []string
	for _, s := range task.Statuses() {
		names = append(names, string(s))
	}
	return strings.Join(names, ", ")
}

func init() {
	updateCmd.Flags().StringVar(&updateTitle, "title", "", "new title")
	updateCmd.Flags().StringVar(&updateDescription, "description", "", "new description")
	updateCmd.Flags().StringVar(&updateStatus, "status", "", "new status (open, in_progress, blocked, done)")
	updateCmd.Flags().StringVar(&updateLog, "log", "", "append a session log entry")
	updateCmd.Flags().IntVar(&updateDeleteLog, "delete-log", 0, "delete the session log at this index")
	updateCmd.Flags().StringVar(&updateAddBlocks, "add-blocks", "", "comma-separated id prefixes this task should block")
	updateCmd.Flags().StringVar(&updateAddBlockedBy, "add-blocked-by", "", "comma-separated id prefixes that block this task")
	updateCmd.Flags().StringVar(&updateRemoveBlocks, "remove-blocks", "", "comma-separated id prefixes this task should stop blocking")
	updateCmd.Flags().StringVar(&updateRemoveBlockedBy, "remove-blocked-by", "", "comma-separated id prefixes to remove from this task's blockers")
}
