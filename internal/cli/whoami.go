package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account",
	RunE:  runWhoami,
}

func init() {
	rootCmd.AddCommand(whoamiCmd)

	whoamiCmd.Flags().Bool("json", false, "output as JSON")
}

func runWhoami(cmd *cobra.Command, args []string) error {
	_, identity, err := requireSession(cmd.Context())
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(identity)
	}

	printer.Print("%s", printer.Bold(describeIdentity(identity)))
	switch {
	case identity.IsUser() && identity.User != nil:
		printer.Print("  email: %s", identity.User.Email)
		if identity.User.Role != "" {
			printer.Print("  role:  %s", identity.User.Role)
		}
		if len(identity.User.Skills) > 0 {
			printer.Print("  skills: %v", identity.User.Skills)
		}
	case identity.IsNGO() && identity.NGO != nil:
		printer.Print("  email:     %s", identity.NGO.Email)
		printer.Print("  principal: %s", identity.NGO.Principal)
	}
	return nil
}
