package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "scenectl",
		Short: "Tick-driven scene control server",
		Long: `scenectl runs the scene control endpoint the way an embedding
host would: a fixed-rate frame loop drives the server's Tick against an
in-memory world. Clients send JSON intent commands over plain TCP.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(serveCmd(), versionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "scenectl: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the scenectl version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("scenectl %s\n", version)
		},
	}
}
