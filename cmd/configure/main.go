package main

import (
	"fmt"
	"os"

	"github.com/lifebots/assistant-api/cmd/configure/commands"
	"github.com/spf13/cobra"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "assistant-configure",
		Short: "Operations tool for the assistant API",
		Long:  "CLI tool for inspecting user context documents and exercising the job queue",
	}

	rootCmd.AddCommand(commands.NewContextCmd())
	rootCmd.AddCommand(commands.NewQueueCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
