// Package cli contains the vereintctl commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	sdk "github.com/vereint/vereint-go"
	"github.com/vereint/vereint-go/auth"
	"github.com/vereint/vereint-go/internal/output"
	"github.com/vereint/vereint-go/session"
)

func newPrinter() *output.Printer {
	return output.NewPrinter(viper.GetBool("colors"))
}

var (
	cfgFile string
	verbose bool
	printer = newPrinter()
	version = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "vereintctl",
	Short: "Vereint platform CLI",
	Long: `vereintctl talks to the Vereint volunteering platform from the terminal.

It keeps a session on disk, refreshes tokens transparently, and exposes the
platform's projects, applications, and notification stream.

Example usage:
  vereintctl login --email anna@example.org     # Sign in as a volunteer
  vereintctl projects list --category umwelt    # Browse projects
  vereintctl notifications watch                # Follow live notifications`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string reported by the version command.
func SetVersion(v string) {
	version = v
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.config/vereintctl/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().String("api-url", "", "API base URL")

	_ = viper.BindPFlag("api_url", rootCmd.PersistentFlags().Lookup("api-url"))
}

func initConfig() error {
	viper.SetDefault("api_url", "https://api.vereint.org/api/v1")
	viper.SetDefault("colors", true)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		dir, err := configDir()
		if err == nil {
			viper.AddConfigPath(dir)
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	viper.SetEnvPrefix("VEREINT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && cfgFile != "" {
			return fmt.Errorf("reading config: %w", err)
		}
	}

	printer = newPrinter()
	return nil
}

func configDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "vereintctl"), nil
}

func sessionPath() (string, error) {
	if p := viper.GetString("session_file"); p != "" {
		return p, nil
	}
	dir, err := configDir()
	if err != nil {
		return "", fmt.Errorf("resolving session path: %w", err)
	}
	return filepath.Join(dir, "session.json"), nil
}

func cliLogger() zerolog.Logger {
	if !verbose {
		return zerolog.Nop()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
}

// newManager wires the auth client and the on-disk session store. The
// session is not hydrated yet; login writes a fresh one, every other
// command calls requireSession.
func newManager() (*session.Manager, error) {
	authClient, err := auth.NewClient(auth.Config{
		BaseURL:   viper.GetString("api_url"),
		UserAgent: "vereintctl/" + version,
	})
	if err != nil {
		return nil, err
	}
	path, err := sessionPath()
	if err != nil {
		return nil, err
	}
	return session.NewManager(session.Config{
		Auth:   authClient,
		Store:  session.NewFileStore(path),
		Logger: cliLogger(),
	})
}

// requireSession hydrates the persisted session and fails when nobody is
// signed in.
func requireSession(ctx context.Context) (*session.Manager, session.Identity, error) {
	manager, err := newManager()
	if err != nil {
		return nil, session.Identity{}, err
	}
	if err := manager.Hydrate(ctx); err != nil {
		return nil, session.Identity{}, fmt.Errorf("restoring session: %w", err)
	}
	identity, ok := manager.Current()
	if !ok {
		return nil, session.Identity{}, errors.New("not signed in, run `vereintctl login` first")
	}
	return manager, identity, nil
}

func newAPIClient(manager *session.Manager) (*sdk.Client, error) {
	return sdk.NewClient(sdk.Config{
		BaseURL:   viper.GetString("api_url"),
		Tokens:    manager,
		UserAgent: "vereintctl/" + version,
	})
}
