// Ready command shows tasks whose blockers are all done.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/readyq/internal/graph"
)

var readyCmd = &cobra.Command{
	Use:   "ready",
	Short: "List tasks that are ready to work on",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, tasks, err := loadTasks()
		if err != nil {
			fmt.Fprintln(os.Stderr, "ready:", err)
			os.Exit(exitSysError)
		}

		printTaskList(graph.Ready(tasks))
		return nil
	},
}
