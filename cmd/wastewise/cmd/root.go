package cmd

import (
	"os"

	"github.com/nfrund/wastewise/internal/config"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	backendURL      string
	credentialsFile string
	verbose         bool

	// fs holds the credentials file. Tests replace it with a memory filesystem.
	fs afero.Fs = afero.NewOsFs()

	// cfg is loaded before any subcommand runs.
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "wastewise",
	Short: "WasteWise terminal client",
	Long: `WasteWise is the terminal client for the waste-management service.

It signs in against the same backend as the web front-end and keeps the
credential in a file under your config directory.

Available commands:
  serve        Run the web front-end
  register     Create an account
  verify-otp   Confirm a registration with the emailed code
  login        Sign in
  logout       Forget the stored credential
  dashboard    Show your dashboard
  complain     File a complaint
  users        Manage accounts (admins only)

Use "wastewise [command] --help" for more information about a command.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&backendURL, "backend", "", "Backend base URL (overrides BACKEND_URL)")
	rootCmd.PersistentFlags().StringVar(&credentialsFile, "credentials", "", "Credentials file (overrides CREDENTIALS_FILE)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")
}

func loadConfig(cmd *cobra.Command, args []string) error {
	c, err := config.Load()
	if err != nil {
		return err
	}
	if backendURL != "" {
		c.BackendURL = backendURL
	}
	if credentialsFile != "" {
		c.CredentialsFile = credentialsFile
	}
	cfg = c
	return nil
}
