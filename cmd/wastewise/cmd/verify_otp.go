package cmd

import (
	"errors"

	"github.com/nfrund/wastewise/internal/authflow"
	"github.com/nfrund/wastewise/internal/domain"
	"github.com/spf13/cobra"
)

var (
	otpEmail string
	otpCode  string
)

var verifyOTPCmd = &cobra.Command{
	Use:   "verify-otp",
	Short: "Confirm a registration with the emailed code",
	Long: `Confirm the email address of a registration.

--email must be the address passed to "wastewise register". When the service
issues a token on verification you are signed in straight away.

Example:
  wastewise verify-otp --email ada@example.com --otp 123456`,
	RunE: runVerifyOTP,
}

func runVerifyOTP(cmd *cobra.Command, args []string) error {
	pending := &domain.PendingRegistration{Email: otpEmail}
	if out := authflow.RequirePending(pending); out.Err != nil {
		return errors.New("no registration to verify: pass the --email you registered with")
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close(cmd)

	out := s.deps.AuthFlow.VerifyOTP(cmd.Context(), s.clientID, s.store, pending, authflow.VerifyOTPInput{OTP: otpCode})
	if !out.Succeeded() {
		return outcomeError(out)
	}

	w := cmd.OutOrStdout()
	if cred, ok := s.store.Get(cmd.Context()); ok && cred.User.Email == pending.Email {
		printSuccess(w, "Email verified. You are signed in.")
		return nil
	}
	printSuccess(w, "Email verified. Sign in with: wastewise login --email "+otpEmail)
	return nil
}

func init() {
	rootCmd.AddCommand(verifyOTPCmd)

	verifyOTPCmd.Flags().StringVar(&otpEmail, "email", "", "Email address used to register")
	verifyOTPCmd.Flags().StringVar(&otpCode, "otp", "", "Code from the verification email")
}
