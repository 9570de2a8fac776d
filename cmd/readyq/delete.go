// Delete command removes a task and every reference to it.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/readyq/internal/graph"
	"github.com/mesh-intelligence/readyq/pkg/task"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, tasks, err := loadTasks()
		if err != nil {
			fmt.Fprintln(os.Stderr, "delete:", err)
			os.Exit(exitSysError)
		}
		t := resolveOrExit(tasks, args[0])
		id, title := t.ID, t.Title

		remaining, unblocked, err := graph.Delete(tasks, id)
		if err != nil {
			fmt.Fprintln(os.Stderr, "delete:", err)
			os.Exit(exitSysError)
		}
		if err := st.Save(remaining); err != nil {
			fmt.Fprintln(os.Stderr, "delete:", err)
			os.Exit(exitSysError)
		}

		fmt.Printf("Deleted task %s: %s\n", task.ShortID(id), title)
		for _, uid := range unblocked {
			fmt.Printf("%s is now unblocked\n", task.ShortID(uid))
		}
		return nil
	},
}
