package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	sdk "github.com/vereint/vereint-go"
	"github.com/vereint/vereint-go/internal/output"
)

var applicationsCmd = &cobra.Command{
	Use:     "applications",
	Aliases: []string{"apps"},
	Short:   "Inspect project applications",
}

var applicationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List applications",
	Long: `List the signed-in volunteer's applications, or the applications for
one project when --project is given.

Examples:
  vereintctl applications list
  vereintctl applications list --project proj-7`,
	RunE: runApplicationsList,
}

func init() {
	rootCmd.AddCommand(applicationsCmd)
	applicationsCmd.AddCommand(applicationsListCmd)

	applicationsListCmd.Flags().String("project", "", "list applications for this project instead")
	applicationsListCmd.Flags().Bool("json", false, "output as JSON")
}

func runApplicationsList(cmd *cobra.Command, args []string) error {
	manager, identity, err := requireSession(cmd.Context())
	if err != nil {
		return err
	}
	client, err := newAPIClient(manager)
	if err != nil {
		return err
	}

	projectID, _ := cmd.Flags().GetString("project")

	var applications []sdk.Application
	switch {
	case projectID != "":
		applications, err = client.Applications.ListForProject(cmd.Context(), projectID)
	case identity.IsUser():
		applications, err = client.Applications.ListForUser(cmd.Context(), identity.ID())
	default:
		return fmt.Errorf("organisation accounts must pass --project")
	}
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(applications)
	}

	if len(applications) == 0 {
		printer.Print("no applications found")
		return nil
	}
	table := output.NewTable([]string{"ID", "PROJECT", "STATUS", "CREATED"})
	for _, a := range applications {
		project := a.ProjectID
		if a.Project.Title != "" {
			project = a.Project.Title
		}
		created := "-"
		if !a.CreatedAt.IsZero() {
			created = a.CreatedAt.Format("2006-01-02")
		}
		table.AddRow([]string{a.ID, project, string(a.Status), created})
	}
	table.Render()
	return nil
}
