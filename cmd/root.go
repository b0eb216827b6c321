package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the draftpilot application
var rootCmd = &cobra.Command{
	Use:   "draftpilot",
	Short: "Classifies inbound Gmail threads and drafts replies",
	Long: `draftpilot watches a Gmail inbox, classifies each unread message by
response category, analyzes its conversation thread, and leaves a reply
draft in the mailbox. Nothing is ever sent automatically.

It can run as:
  - A single mailbox check (default)
  - A continuous watcher with a Prometheus metrics listener`,
	SilenceUsage: true,
}

// configPath is the shared --config flag.
var configPath string

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "draftpilot version %s\n" .Version}}`)

	// If no subcommand is provided, run a single check by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "check")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the YAML configuration file (default: $DRAFTPILOT_CONFIG)")

	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newVersionCmd())
}
