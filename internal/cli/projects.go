package cli

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	sdk "github.com/vereint/vereint-go"
	"github.com/vereint/vereint-go/internal/output"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "Browse volunteering projects",
}

var projectsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects, optionally filtered",
	Long: `List projects visible to the signed-in account.

Examples:
  vereintctl projects list
  vereintctl projects list --category umwelt --skill erste-hilfe
  vereintctl projects list --ngo ngo-42 --json`,
	RunE: runProjectsList,
}

var projectsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one project",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectsShow,
}

func init() {
	rootCmd.AddCommand(projectsCmd)
	projectsCmd.AddCommand(projectsListCmd)
	projectsCmd.AddCommand(projectsShowCmd)

	projectsListCmd.Flags().String("category", "", "filter by category")
	projectsListCmd.Flags().StringSlice("skill", nil, "filter by skill (repeatable)")
	projectsListCmd.Flags().String("location", "", "filter by location")
	projectsListCmd.Flags().String("ngo", "", "filter by owning NGO id")
	projectsListCmd.Flags().Bool("json", false, "output as JSON")

	projectsShowCmd.Flags().Bool("json", false, "output as JSON")
}

func runProjectsList(cmd *cobra.Command, args []string) error {
	manager, _, err := requireSession(cmd.Context())
	if err != nil {
		return err
	}
	client, err := newAPIClient(manager)
	if err != nil {
		return err
	}

	category, _ := cmd.Flags().GetString("category")
	skills, _ := cmd.Flags().GetStringSlice("skill")
	location, _ := cmd.Flags().GetString("location")
	ngoID, _ := cmd.Flags().GetString("ngo")

	projects, err := client.Projects.List(cmd.Context(), sdk.ProjectFilter{
		Category: category,
		Skills:   skills,
		Location: location,
		NgoID:    ngoID,
	})
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(projects)
	}

	if len(projects) == 0 {
		printer.Print("no projects found")
		return nil
	}
	table := output.NewTable([]string{"ID", "TITLE", "CATEGORY", "LOCATION", "NGO"})
	for _, p := range projects {
		table.AddRow([]string{p.ID, p.Title, orDash(p.Category), orDash(p.Location), p.NgoID})
	}
	table.Render()
	return nil
}

func runProjectsShow(cmd *cobra.Command, args []string) error {
	manager, _, err := requireSession(cmd.Context())
	if err != nil {
		return err
	}
	client, err := newAPIClient(manager)
	if err != nil {
		return err
	}

	project, err := client.Projects.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(project)
	}

	printer.Print("%s", printer.Bold(project.Title))
	printer.Print("  id:       %s", project.ID)
	printer.Print("  ngo:      %s", project.NgoID)
	printer.Print("  category: %s", orDash(project.Category))
	printer.Print("  location: %s", orDash(project.Location))
	if len(project.Skills) > 0 {
		printer.Print("  skills:   %s", strings.Join(project.Skills, ", "))
	}
	if !project.StartsAt.IsZero() {
		printer.Print("  starts:   %s", project.StartsAt.Format("2006-01-02"))
	}
	if project.Description != "" {
		printer.Print("")
		printer.Print("%s", project.Description)
	}
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
