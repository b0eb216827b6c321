// Package cmd implements the command-line interface for draftpilot.
//
// This package provides the following commands:
//   - check: Run a single mailbox check and draft replies (supports --dry-run)
//   - watch: Continuously check the mailbox with a Prometheus metrics listener
//   - auth: Authorize a Google account and cache its OAuth token
//   - version: Display version information
//
// The check command is the default command when no subcommand is specified.
package cmd
