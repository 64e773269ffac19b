package cmd

import (
	"fmt"

	"github.com/nfrund/wastewise/internal/authflow"
	"github.com/nfrund/wastewise/internal/view"
	"github.com/spf13/cobra"
)

var loginInput authflow.SignInInput

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in",
	Long: `Sign in and store the credential in the credentials file.

A failed sign-in leaves any stored credential untouched. When --password is
omitted it is read from the first line of stdin.

Example:
  echo "$PASSWORD" | wastewise login --email ada@example.com`,
	RunE: runLogin,
}

func runLogin(cmd *cobra.Command, args []string) error {
	password, err := readSecret(cmd, loginInput.Password, "Password")
	if err != nil {
		return err
	}
	in := loginInput
	in.Password = password

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close(cmd)

	out := s.deps.AuthFlow.SignIn(cmd.Context(), s.clientID, s.store, in)
	if !out.Succeeded() {
		return outcomeError(out)
	}

	cred, _ := s.store.Get(cmd.Context())
	printSuccess(cmd.OutOrStdout(), fmt.Sprintf("Signed in as %s (%s).", cred.User.Email, view.Label(cred.User.Role)))
	return nil
}

func init() {
	rootCmd.AddCommand(loginCmd)

	loginCmd.Flags().StringVar(&loginInput.Email, "email", "", "Email address")
	loginCmd.Flags().StringVar(&loginInput.Password, "password", "", "Password (read from stdin when omitted)")
}
