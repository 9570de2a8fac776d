// Show command displays one task in full detail.
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/readyq/pkg/task"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show detailed information about a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, tasks, err := loadTasks()
		if err != nil {
			fmt.Fprintln(os.Stderr, "show:", err)
			os.Exit(exitSysError)
		}
		t := resolveOrExit(tasks, args[0])

		if flagJSON {
			printJSON(t)
			return nil
		}

		rule := strings.Repeat("=", 70)
		fmt.Printf("\n%s\n", rule)
		fmt.Printf("Task ID: %s\n", t.ID)
		fmt.Println(rule)
		fmt.Printf("Title: %s\n", t.Title)
		fmt.Printf("Status: %s\n", coloredStatus(t.Status))
		if t.Description != "" {
			fmt.Printf("\nDescription:\n%s\n", t.Description)
		}
		fmt.Printf("\nCreated: %s\n", t.CreatedAt.Format(time.RFC3339Nano))
		fmt.Printf("Updated: %s\n", t.UpdatedAt.Format(time.RFC3339Nano))

		if len(t.Blocks) > 0 {
			fmt.Printf("\nBlocks: %s\n", shortIDList(t.Blocks))
		}
		if len(t.BlockedBy) > 0 {
			fmt.Printf("Blocked by: %s\n", shortIDList(t.BlockedBy))
		}

		if len(t.Sessions) > 0 {
			fmt.Printf("\n%s\n", strings.Repeat("-", 70))
			fmt.Printf("Session Logs (%d):\n", len(t.Sessions))
			for i, s := range t.Sessions {
				fmt.Printf("\n[%d] %s\n%s\n", i, s.Timestamp.Format(time.RFC3339Nano), s.Log)
			}
		}
		fmt.Println()
		return nil
	},
}

func shortIDList(ids []string) string {
	short := make([]string, len(ids))
	for i, id := range ids {
		short[i] = task.ShortID(id)
	}
	return strings.Join(short, ", ")
}
