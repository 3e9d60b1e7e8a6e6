package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/benvon/thai-toolkit/cmd/configure/commands"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "thai-toolkit-configure",
		Short: "Configuration tool for Thai Toolkit",
		Long:  "CLI tool for managing learner progress, CORS and rate limit settings",
	}

	rootCmd.AddCommand(commands.NewProgressCmd())
	rootCmd.AddCommand(commands.NewCorsCmd())
	rootCmd.AddCommand(commands.NewRatelimitCmd())
	rootCmd.AddCommand(commands.NewTestCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
