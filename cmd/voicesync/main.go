package main

import (
	"os"

	"voicesync/cmd/voicesync/setup"
	syncmd "voicesync/cmd/voicesync/sync"
	"voicesync/internal/logger"

	"github.com/spf13/cobra"
)

func main() {
	logger.Init()
	rootCmd := &cobra.Command{
		Use:   "voicesync",
		Short: "Keep Ultravox agent templates in sync with the clients table",
	}

	rootCmd.AddCommand(setup.Cmd)
	rootCmd.AddCommand(syncmd.Cmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
