package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/storerate/storerate/internal/cli/app"
	"github.com/storerate/storerate/internal/cli/forms"
)

// NewSignupCmd creates the signup command
func NewSignupCmd(load Loader) *cobra.Command {
	var form forms.Signup

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create a user account and log in",
		Long: `Create a normal user account and log in.

Name must be 20 to 60 characters. The password must be 8 to 16 characters with
at least one uppercase letter and one special character.

Example:
  $ storerate signup --name "Jordan Example Customer" --email jordan@example.com --address "12 Main St"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, load, func(a *app.App) error {
				return runSignup(cmd, a, form)
			})
		},
	}

	cmd.Flags().StringVar(&form.Name, "name", "", "Full name (20-60 characters)")
	cmd.Flags().StringVar(&form.Email, "email", "", "Email address (or set STORERATE_EMAIL)")
	cmd.Flags().StringVar(&form.Password, "password", "", "Password (or set STORERATE_PASSWORD, will prompt if not provided)")
	cmd.Flags().StringVar(&form.Address, "address", "", "Address (optional, max 400 characters)")

	return cmd
}

func runSignup(cmd *cobra.Command, a *app.App, form forms.Signup) error {
	form.Email = firstNonEmpty(form.Email, "STORERATE_EMAIL")
	form.Password = firstNonEmpty(form.Password, "STORERATE_PASSWORD")

	if st := a.Sessions.Snapshot(); st.Authenticated() {
		fmt.Fprintf(cmd.OutOrStdout(), "Already logged in as %s. Run 'storerate logout' first.\n", st.Identity.Email)
		return nil
	}

	if form.Password == "" {
		p, err := readSecret(cmd, "Password", "use --password flag or STORERATE_PASSWORD env var")
		if err != nil {
			return err
		}
		form.Password = p
	}

	if err := form.Validate(); err != nil {
		return err
	}

	res := a.Gateway.Signup(cmd.Context(), form.Request())
	if !res.Success {
		return fmt.Errorf("signup failed: %s", res.Message)
	}

	st := a.Sessions.Snapshot()
	fmt.Fprintln(cmd.OutOrStdout(), "✓ Account created!")
	fmt.Fprintf(cmd.OutOrStdout(), "  Logged in as %s (%s)\n", st.Identity.Name, st.Identity.Email)
	return nil
}
