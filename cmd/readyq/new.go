// New command adds a task, optionally blocked by existing tasks.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/readyq/internal/graph"
	"github.com/mesh-intelligence/readyq/pkg/task"
)

var (
	newDescription string
	newBlockedBy   string
)

var newCmd = &cobra.Command{
	Use:   "new <title>",
	Short: "Add a new task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t := task.New(args[0], newDescription)

		// Without blockers the new record is independent of every
		// existing one, so an append suffices. With blockers the
		// mirrored edges touch other records and the whole collection
		// is rewritten.
		if newBlockedBy == "" {
			st, err := openStore()
			if err != nil {
				fmt.Fprintln(os.Stderr, "new:", err)
				os.Exit(exitSysError)
			}
			if err := st.Append(t); err != nil {
				fmt.Fprintln(os.Stderr, "new:", err)
				os.Exit(exitSysError)
			}
			fmt.Printf("Created task %s: %s\n", task.ShortID(t.ID), t.Title)
			return nil
		}

		st, tasks, err := loadTasks()
		if err != nil {
			fmt.Fprintln(os.Stderr, "new:", err)
			os.Exit(exitSysError)
		}

		t.Status = task.StatusBlocked
		tasks = append(tasks, t)
		for _, prefix := range strings.Split(newBlockedBy, ",") {
			prefix = strings.TrimSpace(prefix)
			if prefix == "" {
				continue
			}
			blocker := resolveOrExit(tasks, prefix)
			if err := graph.AddEdge(tasks, blocker.ID, t.ID); err != nil {
				fmt.Fprintln(os.Stderr, "new:", err)
				os.Exit(exitUserError)
			}
		}

		if err := st.Save(tasks); err != nil {
			fmt.Fprintln(os.Stderr, "new:", err)
			os.Exit(exitSysError)
		}
		fmt.Printf("Created task %s: %s (blocked)\n", task.ShortID(t.ID), t.Title)
		return nil
	},
}

func init() {
	newCmd.Flags().StringVar(&newDescription, "description", "", "task description")
	newCmd.Flags().StringVar(&newBlockedBy, "blocked-by", "", "comma-separated id prefixes of blocking tasks")
}
