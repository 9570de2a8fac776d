// Web command serves the browser UI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/readyq/internal/web"
)

var (
	webHost string
	webPort int
)

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Serve the browser UI",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			fmt.Fprintln(os.Stderr, "web:", err)
			os.Exit(exitSysError)
		}

		host := webHost
		if !cmd.Flags().Changed("host") {
			host = cfg.GetString(cfgKeyWebHost)
		}
		port := webPort
		if !cmd.Flags().Changed("port") {
			port = cfg.GetInt(cfgKeyWebPort)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := web.New(st, host, port)
		fmt.Printf("Serving readyq web UI on %s (Ctrl-C to stop)\n", srv.URL())
		if err := srv.ListenAndServe(ctx); err != nil {
			fmt.Fprintln(os.Stderr, "web:", err)
			os.Exit(exitSysError)
		}
		return nil
	},
}

func init() {
	webCmd.Flags().StringVar(&webHost, "host", defaultWebHost, "interface to listen on")
	webCmd.Flags().IntVar(&webPort, "port", defaultWebPort, "port to listen on")
}
