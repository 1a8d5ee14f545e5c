package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/storerate/storerate/internal/cli/app"
	"github.com/storerate/storerate/internal/cli/forms"
	"github.com/storerate/storerate/internal/cli/guard"
)

// NewLogoutCmd creates the logout command
func NewLogoutCmd(load Loader) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, load, func(a *app.App) error {
				res := a.Gateway.Logout(cmd.Context())
				fmt.Fprintf(cmd.OutOrStdout(), "✓ %s\n", res.Message)
				return nil
			})
		},
	}
}

// NewWhoamiCmd creates the whoami command
func NewWhoamiCmd(load Loader) *cobra.Command {
	var offline bool

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		Long: `Show the logged-in user.

The stored session is checked against the server unless --offline is given; a
rejected or changed session is cleared.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, load, func(a *app.App) error {
				return runWhoami(cmd, a, offline)
			})
		},
	}

	cmd.Flags().BoolVar(&offline, "offline", false, "Only show the stored session, without asking the server")

	return cmd
}

func runWhoami(cmd *cobra.Command, a *app.App, offline bool) error {
	out := cmd.OutOrStdout()

	if !a.Sessions.Snapshot().Authenticated() {
		fmt.Fprintln(out, "Not logged in. Run 'storerate login'.")
		return nil
	}

	if !offline {
		if res := a.Gateway.RefreshProfile(cmd.Context()); !res.Success {
			if !a.Sessions.Snapshot().Authenticated() {
				return fmt.Errorf("session is no longer valid: %s", res.Message)
			}
			return fmt.Errorf("could not verify session: %s", res.Message)
		}
	}

	st := a.Sessions.Snapshot()
	fmt.Fprintf(out, "Name:  %s\n", st.Identity.Name)
	fmt.Fprintf(out, "Email: %s\n", st.Identity.Email)
	fmt.Fprintf(out, "Role:  %s\n", st.Role().Label())
	fmt.Fprintf(out, "API:   %s\n", a.Config.API.BaseURL)
	return nil
}

// NewPasswdCmd creates the passwd command
func NewPasswdCmd(load Loader) *cobra.Command {
	var form forms.ChangePassword

	cmd := &cobra.Command{
		Use:   "passwd",
		Short: "Change your password",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, load, func(a *app.App) error {
				return runPasswd(cmd, a, form)
			})
		},
	}

	cmd.Flags().StringVar(&form.CurrentPassword, "current", "", "Current password (will prompt if not provided)")
	cmd.Flags().StringVar(&form.NewPassword, "new", "", "New password (will prompt if not provided)")
	cmd.Flags().StringVar(&form.ConfirmPassword, "confirm", "", "New password again (will prompt if not provided)")

	return cmd
}

func runPasswd(cmd *cobra.Command, a *app.App, form forms.ChangePassword) error {
	if err := requireScreen(a, guard.ChangePasswordPath); err != nil {
		return err
	}

	prompts := []struct {
		value *string
		label string
		flag  string
	}{
		{&form.CurrentPassword, "Current password", "--current"},
		{&form.NewPassword, "New password", "--new"},
		{&form.ConfirmPassword, "Confirm new password", "--confirm"},
	}
	for _, p := range prompts {
		if *p.value != "" {
			continue
		}
		v, err := readSecret(cmd, p.label, "use the "+p.flag+" flag")
		if err != nil {
			return err
		}
		*p.value = v
	}

	if err := form.Validate(); err != nil {
		return err
	}

	res := a.Gateway.ChangePassword(cmd.Context(), form.CurrentPassword, form.NewPassword)
	if !res.Success {
		return fmt.Errorf("failed to change password: %s", res.Message)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ %s\n", res.Message)
	return nil
}
