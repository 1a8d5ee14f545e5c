package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/storerate/storerate/internal/cli/app"
	"github.com/storerate/storerate/internal/cli/forms"
	"github.com/storerate/storerate/internal/cli/guard"
)

// NewLoginCmd creates the login command
func NewLoginCmd(load Loader) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the rating platform",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, load, func(a *app.App) error {
				return runLogin(cmd, a, email, password)
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address (or set STORERATE_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "Password (or set STORERATE_PASSWORD, will prompt if not provided)")

	return cmd
}

func runLogin(cmd *cobra.Command, a *app.App, email, password string) error {
	// Check for environment variables (useful for scripts)
	email = firstNonEmpty(email, "STORERATE_EMAIL")
	password = firstNonEmpty(password, "STORERATE_PASSWORD")

	if st := a.Sessions.Snapshot(); st.Authenticated() {
		fmt.Fprintf(cmd.OutOrStdout(), "Already logged in as %s (%s). Run 'storerate logout' first.\n", st.Identity.Email, st.Role())
		return nil
	}

	if email == "" {
		return errors.New("email is required (use --email flag or STORERATE_EMAIL env var)")
	}

	if password == "" {
		p, err := readSecret(cmd, "Password", "use --password flag or STORERATE_PASSWORD env var")
		if err != nil {
			return err
		}
		password = p
	}

	form := forms.Login{Email: email, Password: password}
	if err := form.Validate(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Logging in to %s...\n", a.Config.API.BaseURL)

	res := a.Gateway.Login(cmd.Context(), form.Email, form.Password)
	if !res.Success {
		return fmt.Errorf("login failed: %s", res.Message)
	}

	st := a.Sessions.Snapshot()
	fmt.Fprintln(out, "✓ Login successful!")
	fmt.Fprintf(out, "  User: %s (%s)\n", st.Identity.Name, st.Identity.Email)
	fmt.Fprintf(out, "  Role: %s\n", st.Role().Label())
	fmt.Fprintf(out, "  Home: %s\n", guard.HomePath(st.Role()))
	return nil
}
