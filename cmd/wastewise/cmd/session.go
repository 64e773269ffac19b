package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/nfrund/wastewise/internal/api"
	"github.com/nfrund/wastewise/internal/app"
	"github.com/nfrund/wastewise/internal/authflow"
	"github.com/nfrund/wastewise/internal/credentials"
	"github.com/nfrund/wastewise/internal/logging"
	"github.com/spf13/cobra"
)

var (
	errNotSignedIn    = errors.New("not signed in: run `wastewise login` first")
	errSessionExpired = errors.New("your session was rejected by the server and has been cleared: run `wastewise login` again")
	errAdminOnly      = errors.New("this command requires an administrator account")
)

// session is what a backend command runs against: the resolved services and
// the credentials file.
type session struct {
	deps     *app.Dependencies
	store    *credentials.FileStore
	clientID string
}

func openSession(cmd *cobra.Command) (*session, error) {
	level := "warn"
	if verbose {
		level = "debug"
	}
	logger := logging.NewWithWriter(cfg.GetLogFormat(), level, cmd.ErrOrStderr())

	path := cfg.GetCredentialsFile()
	if path == "" {
		p, err := credentials.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	deps, err := app.Resolve(app.NewInjector(cfg, logger))
	if err != nil {
		return nil, fmt.Errorf("wire services: %w", err)
	}
	if err := deps.Start(cmd.Context()); err != nil {
		return nil, fmt.Errorf("start activity log: %w", err)
	}
	logger.Debug("Session opened", "backend", cfg.GetBackendURL(), "credentials", path)

	return &session{
		deps:     deps,
		store:    credentials.NewFileStore(fs, path),
		clientID: uuid.NewString(),
	}, nil
}

func (s *session) close(cmd *cobra.Command) {
	if err := s.deps.Close(context.WithoutCancel(cmd.Context())); err != nil {
		slog.Warn("Failed to close services", "error", err)
	}
}

// signedOutError explains why a command was sent back to sign in.
func signedOutError(cause error) error {
	if errors.Is(cause, api.ErrUnauthorized) {
		return errSessionExpired
	}
	return errNotSignedIn
}

// outcomeError turns a failed form submission into a command error, listing
// any field errors in a stable order.
func outcomeError(out authflow.Outcome) error {
	msg := out.Message
	if msg == "" && out.Err != nil {
		msg = out.Err.Error()
	}
	if len(out.FieldErrors) == 0 {
		return errors.New(msg)
	}
	return errors.New(msg + "\n" + formatFieldErrors(out.FieldErrors))
}

func formatFieldErrors(fields map[string]string) string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := make([]string, 0, len(names))
	for _, name := range names {
		lines = append(lines, fmt.Sprintf("  %s: %s", name, fields[name]))
	}
	return strings.Join(lines, "\n")
}

// readSecret returns flagValue, or the first line of stdin when the flag was
// left empty so passwords can be piped in.
func readSecret(cmd *cobra.Command, flagValue, prompt string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	fmt.Fprint(cmd.ErrOrStderr(), prompt+": ")
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read %s: %w", strings.ToLower(prompt), err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
