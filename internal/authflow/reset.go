package authflow

import (
	"context"
	"strings"

	"github.com/nfrund/wastewise/internal/activity"
	"github.com/nfrund/wastewise/internal/domain"
	"github.com/nfrund/wastewise/internal/validation"
)

// The forgot-password flow is local only: there is no backend endpoint for
// reset codes yet, so phase two always reports the flow as unavailable.

// ResetPhase is the step of the forgot-password form.
type ResetPhase int

const (
	ResetRequestCode ResetPhase = iota
	ResetEnterCode
)

// ResetRequestInput is phase one of the forgot-password form.
type ResetRequestInput struct {
	Email string `form:"email" validate:"required,email"`
}

// ResetCodeInput is phase two of the forgot-password form.
type ResetCodeInput struct {
	Code string `form:"code" validate:"required,numeric,max=6"`
}

// ResetResult extends Outcome with the phase to render next.
type ResetResult struct {
	Outcome
	Phase ResetPhase
	Email string
}

// ResetCodeLength is the maximum number of digits in a reset code.
const ResetCodeLength = 6

// SanitizeResetCode strips non-digits and truncates to ResetCodeLength.
func SanitizeResetCode(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			if b.Len() == ResetCodeLength {
				break
			}
		}
	}
	return b.String()
}

// RequestResetCode records the email and moves to the code phase.
func (c *Controller) RequestResetCode(ctx context.Context, in ResetRequestInput) ResetResult {
	in.Email = strings.TrimSpace(in.Email)
	if err := validation.Validate(in); err != nil {
		return ResetResult{Outcome: invalid(FormForgotPassword, err), Phase: ResetRequestCode, Email: in.Email}
	}

	c.recorder.Record(ctx, activity.Event{Kind: activity.ResetCodeRequested, Email: in.Email})
	return ResetResult{
		Outcome: Outcome{Form: FormForgotPassword, State: Succeeded, Message: MsgResetCodeSent},
		Phase:   ResetEnterCode,
		Email:   in.Email,
	}
}

// SubmitResetCode accepts the sanitized code and reports that resetting is
// not available.
func (c *Controller) SubmitResetCode(ctx context.Context, email string, in ResetCodeInput) ResetResult {
	in.Code = SanitizeResetCode(in.Code)
	if err := validation.Validate(in); err != nil {
		return ResetResult{Outcome: invalid(FormForgotPassword, err), Phase: ResetEnterCode, Email: email}
	}
	return ResetResult{
		Outcome: failed(FormForgotPassword, MsgResetUnavailable, domain.ErrResetUnavailable),
		Phase:   ResetEnterCode,
		Email:   email,
	}
}
