package cmd

import (
	"errors"

	"github.com/nfrund/wastewise/internal/domain"
	"github.com/spf13/cobra"
)

var (
	complaintType        string
	complaintDescription string
)

var complainCmd = &cobra.Command{
	Use:   "complain",
	Short: "File a complaint",
	Long: `File a complaint with the waste-management service.

Complaint types:
  Missed Collection (default), Service Quality, Staff Behavior,
  Payment Status, Other

Example:
  wastewise complain --type "Service Quality" --description "Bins left open"`,
	RunE: runComplain,
}

func runComplain(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close(cmd)

	draft := domain.ComplaintDraft{Type: domain.ComplaintType(complaintType), Description: complaintDescription}
	res := s.deps.Bootstrap.SubmitComplaint(cmd.Context(), s.store, draft)
	if res.Redirect != "" {
		return signedOutError(res.Err)
	}
	if !res.Success {
		if len(res.FieldErrors) > 0 {
			return errors.New(res.Banner + "\n" + formatFieldErrors(res.FieldErrors))
		}
		return errors.New(res.Banner)
	}
	printSuccess(cmd.OutOrStdout(), res.Banner)
	return nil
}

func init() {
	rootCmd.AddCommand(complainCmd)

	complainCmd.Flags().StringVar(&complaintType, "type", string(domain.ComplaintMissedCollection), "Complaint type")
	complainCmd.Flags().StringVar(&complaintDescription, "description", "", "What went wrong")
	_ = complainCmd.RegisterFlagCompletionFunc("type", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		names := make([]string, 0, len(domain.ComplaintTypes))
		for _, t := range domain.ComplaintTypes {
			names = append(names, string(t))
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})
}
