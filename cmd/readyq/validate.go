// Validate command reports structural problems without changing anything.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/readyq/internal/graph"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the task file for structural problems",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, tasks, err := loadTasks()
		if err != nil {
			fmt.Fprintln(os.Stderr, "validate:", err)
			os.Exit(exitSysError)
		}

		report := graph.Validate(tasks)
		if flagJSON {
			printJSON(report)
		} else {
			for _, issue := range report.Errors {
				fmt.Printf("error: %s\n", issue)
			}
			for _, issue := range report.Warnings {
				fmt.Printf("warning: %s\n", issue)
			}
			if report.OK() && len(report.Warnings) == 0 {
				fmt.Printf("OK: %d task(s), no problems found\n", len(tasks))
			}
		}

		if !report.OK() {
			os.Exit(exitUserError)
		}
		return nil
	},
}
