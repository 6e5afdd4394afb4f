package cli

import (
	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the persisted session",
	Long:  `Drop the local session and revoke the refresh token on the server.`,
	RunE:  runLogout,
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

func runLogout(cmd *cobra.Command, args []string) error {
	manager, _, err := requireSession(cmd.Context())
	if err != nil {
		return err
	}
	manager.Logout(cmd.Context())
	printer.Success("signed out")
	return nil
}
