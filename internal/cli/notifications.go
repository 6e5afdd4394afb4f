package cli

import (
	"encoding/json"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	sdk "github.com/vereint/vereint-go"
	"github.com/vereint/vereint-go/internal/output"
)

var notificationsCmd = &cobra.Command{
	Use:     "notifications",
	Aliases: []string{"notify"},
	Short:   "Read and follow notifications",
}

var notificationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notifications for the signed-in account",
	RunE:  runNotificationsList,
}

var notificationsWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow the live notification stream",
	Long: `Subscribe to the server-sent notification stream and print events as
they arrive. Interrupt with Ctrl-C.`,
	RunE: runNotificationsWatch,
}

func init() {
	rootCmd.AddCommand(notificationsCmd)
	notificationsCmd.AddCommand(notificationsListCmd)
	notificationsCmd.AddCommand(notificationsWatchCmd)

	notificationsListCmd.Flags().Bool("json", false, "output as JSON")
	notificationsListCmd.Flags().Bool("unread", false, "only unread notifications")
}

func runNotificationsList(cmd *cobra.Command, args []string) error {
	manager, _, err := requireSession(cmd.Context())
	if err != nil {
		return err
	}
	client, err := newAPIClient(manager)
	if err != nil {
		return err
	}

	notifications, err := client.Notifications.List(cmd.Context())
	if err != nil {
		return err
	}
	if unread, _ := cmd.Flags().GetBool("unread"); unread {
		filtered := notifications[:0]
		for _, n := range notifications {
			if !n.Read {
				filtered = append(filtered, n)
			}
		}
		notifications = filtered
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(notifications)
	}

	if len(notifications) == 0 {
		printer.Print("no notifications")
		return nil
	}
	table := output.NewTable([]string{"ID", "TYPE", "TITLE", "READ", "CREATED"})
	for _, n := range notifications {
		read := ""
		if n.Read {
			read = "✓"
		}
		created := "-"
		if !n.CreatedAt.IsZero() {
			created = n.CreatedAt.Format("2006-01-02 15:04")
		}
		table.AddRow([]string{n.ID, n.Type, n.Title, read, created})
	}
	table.Render()
	return nil
}

func runNotificationsWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	manager, identity, err := requireSession(ctx)
	if err != nil {
		return err
	}
	client, err := newAPIClient(manager)
	if err != nil {
		return err
	}

	cache := sdk.NewNotificationCache()
	printer.Print("%s", printer.Dim("watching notifications, Ctrl-C to stop"))

	return client.Notifications.Watch(ctx, identity.Kind, identity.ID(), sdk.WatchOptions{
		Cache: cache,
		OnEvent: func(event sdk.NotificationEvent) {
			switch event.Name {
			case sdk.EventNotificationDeleted:
				printer.Print("%s %s", printer.Dim("deleted"), event.NotificationID)
			default:
				if n := event.Notification; n != nil {
					printer.Print("%s %s  %s", printer.Bold(n.Title), printer.Dim(n.ID), n.Body)
				}
			}
		},
	})
}
