// Quickstart command initializes an empty task file.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var quickstartCmd = &cobra.Command{
	Use:   "quickstart",
	Short: "Create an empty task file in the working directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveStoreFile()
		if err != nil {
			fmt.Fprintln(os.Stderr, "quickstart:", err)
			os.Exit(exitSysError)
		}

		if _, err := os.Stat(path); err == nil {
			fmt.Printf("'%s' already exists.\n", path)
			return nil
		}
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			fmt.Fprintln(os.Stderr, "quickstart:", err)
			os.Exit(exitSysError)
		}
		fmt.Printf("Initialized empty readyq file at '%s'.\n", path)
		return nil
	},
}
