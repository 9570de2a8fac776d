// Migrate command converts a line-format task file to document format.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/readyq/internal/store"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Convert a line-format task file to the document format",
	Long: `Migrate converts a line-format (JSON lines) task file to the
document format. The converted file is written next to the original and
the original is kept with a .backup suffix. Migration runs at most once:
if the document-format file already exists, nothing happens.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveStoreFile()
		if err != nil {
			fmt.Fprintln(os.Stderr, "migrate:", err)
			os.Exit(exitSysError)
		}

		migrated, err := store.Migrate(path, lockTimeout())
		if err != nil {
			fmt.Fprintln(os.Stderr, "migrate:", err)
			os.Exit(exitSysError)
		}
		if !migrated {
			fmt.Println("Nothing to migrate.")
			return nil
		}
		fmt.Printf("Migrated '%s' to '%s' (original kept as '%s%s').\n",
			path, store.DocumentPath(path), path, store.BackupSuffix)
		return nil
	},
}
