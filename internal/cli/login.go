package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vereint/vereint-go/auth"
	"github.com/vereint/vereint-go/session"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and persist the session",
	Long: `Authenticate against the platform and store the token bundle on disk.

Examples:
  vereintctl login --email anna@example.org
  vereintctl login --ngo --email info@seenotrettung.example.org`,
	RunE: runLogin,
}

func init() {
	rootCmd.AddCommand(loginCmd)

	loginCmd.Flags().String("email", "", "account email")
	loginCmd.Flags().String("password", "", "account password (prompted when omitted)")
	loginCmd.Flags().Bool("ngo", false, "sign in as an organisation account")
}

func runLogin(cmd *cobra.Command, args []string) error {
	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")
	asNGO, _ := cmd.Flags().GetBool("ngo")

	if email == "" {
		return fmt.Errorf("--email is required")
	}
	if password == "" {
		var err error
		password, err = promptPassword(cmd)
		if err != nil {
			return err
		}
	}

	manager, err := newManager()
	if err != nil {
		return err
	}

	creds := auth.Credentials{Email: email, Password: password}
	var identity session.Identity
	if asNGO {
		identity, err = manager.LoginNGO(cmd.Context(), creds)
	} else {
		identity, err = manager.LoginUser(cmd.Context(), creds)
	}
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	printer.Success("signed in as %s", printer.Bold(describeIdentity(identity)))
	return nil
}

func promptPassword(cmd *cobra.Command) (string, error) {
	fmt.Fprint(os.Stderr, "Password: ")
	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", fmt.Errorf("password must not be empty")
	}
	return password, nil
}

func describeIdentity(identity session.Identity) string {
	switch {
	case identity.IsNGO() && identity.NGO != nil:
		return fmt.Sprintf("%s (NGO %s)", identity.NGO.Name, identity.NGO.ID)
	case identity.IsUser() && identity.User != nil:
		name := strings.TrimSpace(identity.User.FirstName + " " + identity.User.LastName)
		if name == "" {
			name = identity.User.Email
		}
		return fmt.Sprintf("%s (user %s)", name, identity.User.ID)
	default:
		return identity.ID()
	}
}
