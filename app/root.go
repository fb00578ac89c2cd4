// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "go-auth-bridge",
	Short: "GoAuthBridge is an authentication gateway built on Fiber",
	Long: `GoAuthBridge is an authentication gateway built on Fiber that mounts
a server-side authentication provider under a base path, guards application
routes with configurable access levels and maps authentication failures to
structured JSON responses.`,
	Args: cobra.OnlyValidArgs,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
