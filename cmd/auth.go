package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xecurify/draftpilot/internal/google"
)

func newAuthCmd() *cobra.Command {
	var account string

	cmd := &cobra.Command{
		Use:   "auth [auth-code]",
		Short: "Authorize a Google account for mailbox access",
		Long: `Cache an OAuth token for the given account name.

Run without arguments to print the authorization URL. Open it, grant
access, and run the command again with the code Google displays:

  draftpilot auth
  draftpilot auth 4/0AX4...`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				if google.HasToken(account) {
					fmt.Printf("Account %q already has a cached token.\n", account)
					return nil
				}
				url, err := google.GetAuthURL()
				if err != nil {
					return err
				}
				fmt.Printf("Open the following URL, grant access, then run\n'draftpilot auth <code>' with the code shown:\n\n%s\n", url)
				return nil
			}

			if err := google.SaveToken(context.Background(), account, args[0]); err != nil {
				return fmt.Errorf("save token for account %s: %w", account, err)
			}
			fmt.Printf("Token cached for account %q.\n", account)
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "default", "Google account name to use (default: 'default')")
	return cmd
}
