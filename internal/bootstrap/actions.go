package bootstrap

import (
	"context"
	"errors"
	"strings"

	"github.com/nfrund/wastewise/internal/activity"
	"github.com/nfrund/wastewise/internal/api"
	"github.com/nfrund/wastewise/internal/credentials"
	"github.com/nfrund/wastewise/internal/domain"
	"github.com/nfrund/wastewise/internal/validation"
)

// Banners for dashboard actions.
const (
	MsgComplaintSubmitted = "Complaint submitted successfully!"
	MsgComplaintFailed    = "Failed to submit complaint. Please try again."
	MsgUsersLoadFailed    = "Failed to load users"
	MsgUserUpdated        = "User updated successfully"
	MsgUserUpdateFailed   = "Failed to update user"
	MsgUserDeleted        = "User deleted successfully"
	MsgUserDeleteFailed   = "Failed to delete user"
)

// ActionResult is the outcome of an action taken from a ready dashboard.
// Actions never re-run the bootstrap.
type ActionResult struct {
	Success bool
	Banner  string
	// Redirect is set when the credential was missing or rejected.
	Redirect    string
	FieldErrors map[string]string
	Err         error
}

// ComplaintResult adds the draft to redisplay: reset on success, retained
// otherwise.
type ComplaintResult struct {
	ActionResult
	Draft domain.ComplaintDraft
}

// SubmitComplaint validates and files a complaint. Validation runs before any
// network call.
func (c *Controller) SubmitComplaint(ctx context.Context, store credentials.Store, draft domain.ComplaintDraft) ComplaintResult {
	draft = draft.Normalize()
	if draft.Type == "" {
		draft.Type = domain.ComplaintMissedCollection
	}
	res := ComplaintResult{Draft: draft}

	if err := validation.Validate(draft); err != nil {
		res.Err = err
		res.Banner = MsgComplaintFailed
		var valErr *validation.ValidationError
		if errors.As(err, &valErr) {
			res.Banner = valErr.Message()
			res.FieldErrors = valErr.Fields()
		}
		return res
	}

	cred, ok := store.Get(ctx)
	if !ok {
		res.Err = domain.ErrNoCredential
		res.Redirect = domain.PathSignIn
		return res
	}

	if err := c.backend.SubmitComplaint(ctx, store, draft); err != nil {
		res.ActionResult = c.actionFailed(ctx, store, err, MsgComplaintFailed)
		return res
	}

	c.recorder.Record(ctx, activity.Event{Kind: activity.ComplaintFiled, Email: cred.User.Email, Detail: string(draft.Type)})
	return ComplaintResult{
		ActionResult: ActionResult{Success: true, Banner: MsgComplaintSubmitted},
		Draft:        domain.NewComplaintDraft(),
	}
}

// ListUsers loads the accounts for the admin users page.
func (c *Controller) ListUsers(ctx context.Context, store credentials.Store) ([]domain.AdminUser, ActionResult) {
	if _, ok := store.Get(ctx); !ok {
		return nil, ActionResult{Redirect: domain.PathSignIn, Err: domain.ErrNoCredential}
	}
	users, err := c.backend.ListUsers(ctx, store)
	if err != nil {
		return nil, c.actionFailed(ctx, store, err, api.MessageFrom(err, MsgUsersLoadFailed))
	}
	return users, ActionResult{Success: true}
}

// UpdateUser saves the edited fields of an account.
func (c *Controller) UpdateUser(ctx context.Context, store credentials.Store, id string, update domain.UserUpdate) ActionResult {
	update.FullName = strings.TrimSpace(update.FullName)
	update.Email = strings.TrimSpace(update.Email)
	update.Location = strings.TrimSpace(update.Location)
	update.AccountStatus = domain.AccountStatus(strings.ToUpper(strings.TrimSpace(string(update.AccountStatus))))
	update.Role = domain.Role(strings.ToUpper(strings.TrimSpace(string(update.Role))))

	if err := validation.Validate(update); err != nil {
		res := ActionResult{Banner: MsgUserUpdateFailed, Err: err}
		var valErr *validation.ValidationError
		if errors.As(err, &valErr) {
			res.Banner = valErr.Message()
			res.FieldErrors = valErr.Fields()
		}
		return res
	}

	cred, ok := store.Get(ctx)
	if !ok {
		return ActionResult{Redirect: domain.PathSignIn, Err: domain.ErrNoCredential}
	}
	if err := c.backend.UpdateUser(ctx, store, id, update); err != nil {
		return c.actionFailed(ctx, store, err, api.MessageFrom(err, MsgUserUpdateFailed))
	}

	c.recorder.Record(ctx, activity.Event{
		Kind:   activity.UserUpdated,
		Email:  cred.User.Email,
		Role:   string(cred.User.Role),
		Detail: id + " " + update.Email + " " + string(update.AccountStatus),
	})
	return ActionResult{Success: true, Banner: MsgUserUpdated}
}

// DeleteUser removes an account.
func (c *Controller) DeleteUser(ctx context.Context, store credentials.Store, id string) ActionResult {
	cred, ok := store.Get(ctx)
	if !ok {
		return ActionResult{Redirect: domain.PathSignIn, Err: domain.ErrNoCredential}
	}
	if err := c.backend.DeleteUser(ctx, store, id); err != nil {
		return c.actionFailed(ctx, store, err, api.MessageFrom(err, MsgUserDeleteFailed))
	}

	c.recorder.Record(ctx, activity.Event{
		Kind:   activity.UserDeleted,
		Email:  cred.User.Email,
		Role:   string(cred.User.Role),
		Detail: id,
	})
	return ActionResult{Success: true, Banner: MsgUserDeleted}
}

// actionFailed maps a backend error to an ActionResult showing banner. A
// rejected credential is cleared and the caller is sent to sign in instead.
func (c *Controller) actionFailed(ctx context.Context, store credentials.Store, err error, banner string) ActionResult {
	if errors.Is(err, api.ErrUnauthorized) {
		c.clear(ctx, store, err)
		return ActionResult{Redirect: domain.PathSignIn, Err: err}
	}
	return ActionResult{Banner: banner, Err: err}
}
