package commands

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/storerate/storerate/internal/cli/app"
	"github.com/storerate/storerate/internal/cli/client"
	"github.com/storerate/storerate/internal/cli/forms"
	"github.com/storerate/storerate/internal/cli/guard"
)

// Loader builds the client for a command. The caller closes the returned App.
type Loader func(cmd *cobra.Command) (*app.App, error)

// withApp runs fn against a freshly loaded App and closes it afterwards
func withApp(cmd *cobra.Command, load Loader, fn func(a *app.App) error) error {
	a, err := load(cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

// firstNonEmpty returns the flag value, falling back to an environment variable
func firstNonEmpty(flag, envKey string) string {
	if flag != "" {
		return flag
	}
	return os.Getenv(envKey)
}

// readSecret prompts for a hidden value on a terminal. In non-interactive mode it
// fails with hint, so scripts pass secrets by flag or environment instead.
func readSecret(cmd *cobra.Command, label, hint string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("%s is required in non-interactive mode (%s)", strings.ToLower(label), hint)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: ", label)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(cmd.OutOrStdout())
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", strings.ToLower(label), err)
	}
	return string(b), nil
}

// userError turns validation and API failures into the message a user should see
func userError(action string, err error) error {
	var verr *forms.ValidationError
	if errors.As(err, &verr) {
		return verr
	}
	if errors.Is(err, app.ErrSessionExpired) {
		return err
	}
	return fmt.Errorf("%s: %s", action, client.Message(err, err.Error()))
}

// errNotLoggedIn is returned by commands that need a session
var errNotLoggedIn = errors.New("not logged in. Run 'storerate login' first")

// requireScreen checks the route table before a command acts on the screen at path,
// so commands and screens share one set of access rules.
func requireScreen(a *app.App, path string) error {
	st := a.Sessions.Snapshot()
	switch a.Guard.Decide(st, path).Outcome {
	case guard.RedirectLogin:
		return errNotLoggedIn
	case guard.RedirectUnauthorized:
		return fmt.Errorf("access denied: %s is not available to %s accounts", path, st.Role())
	}
	return nil
}
