package cmd

import (
	"fmt"

	"github.com/nfrund/wastewise/internal/authflow"
	"github.com/spf13/cobra"
)

var registerInput authflow.SignUpInput

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account",
	Long: `Register a new account with the waste-management service.

The service emails a one-time code to confirm the address. Pass it to
"wastewise verify-otp" together with the same --email. When --password is
omitted it is read from the first line of stdin.

Example:
  wastewise register --name "Ada Lovelace" --email ada@example.com --location Kigali`,
	RunE: runRegister,
}

func runRegister(cmd *cobra.Command, args []string) error {
	password, err := readSecret(cmd, registerInput.Password, "Password")
	if err != nil {
		return err
	}
	in := registerInput
	in.Password = password

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close(cmd)

	res := s.deps.AuthFlow.SignUp(cmd.Context(), s.clientID, in)
	if !res.Succeeded() {
		return outcomeError(res.Outcome)
	}

	out := cmd.OutOrStdout()
	printSuccess(out, res.Message)
	fmt.Fprintf(out, "Next: wastewise verify-otp --email %s --otp <code>\n", res.Pending.Email)
	return nil
}

func init() {
	rootCmd.AddCommand(registerCmd)

	registerCmd.Flags().StringVar(&registerInput.Name, "name", "", "Full name")
	registerCmd.Flags().StringVar(&registerInput.Email, "email", "", "Email address")
	registerCmd.Flags().StringVar(&registerInput.Location, "location", "", "Collection location")
	registerCmd.Flags().StringVar(&registerInput.Password, "password", "", "Password (read from stdin when omitted)")
}
