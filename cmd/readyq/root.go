// Root command for the readyq CLI.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/readyq/internal/paths"
)

// Exit codes: 1 for user errors (bad input, not found), 2 for system
// errors (I/O, lock contention).
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// Global flag values.
var (
	flagFile    string
	flagConfig  string
	flagJSON    bool
	flagVerbose bool
)

// cfg holds the loaded configuration. Set by PersistentPreRunE so all
// subcommands can use it.
var cfg *viper.Viper

var rootCmd = &cobra.Command{
	Use:     "readyq",
	Short:   "readyq is a local, file-backed task tracker with dependencies",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if flagVerbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

		var err error
		cfg, err = loadConfig(flagConfig)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagFile, "file", "", "task file (default: .readyq.md in the working directory)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default: .readyq.yaml)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "enable debug logging")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(quickstartCmd)
	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(readyCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(webCmd)
}

// resolveStoreFile returns the task file path by precedence: --file flag >
// config file value > READYQ_FILE env > default in the working directory.
func resolveStoreFile() (string, error) {
	return paths.ResolveFile(flagFile, cfg.GetString(cfgKeyFile))
}
