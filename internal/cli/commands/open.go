package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/storerate/storerate/internal/cli/app"
	"github.com/storerate/storerate/internal/cli/navselect"
)

// NewOpenCmd creates the open command
func NewOpenCmd(load Loader) *cobra.Command {
	return &cobra.Command{
		Use:   "open <path>",
		Short: "Open a screen by path",
		Long: `Open a screen by path, the way a browser would.

Examples:
  $ storerate open /stores
  $ storerate open "/stores?name=coffee&sortBy=rating&sortOrder=desc"
  $ storerate open /admin/users/01J8ZQ6T9C4W7R2M5N3P1K0XYZ`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, load, func(a *app.App) error {
				return a.Open(cmd.Context(), args[0])
			})
		},
	}
}

// NewHomeCmd creates the home command
func NewHomeCmd(load Loader) *cobra.Command {
	return &cobra.Command{
		Use:     "home",
		Aliases: []string{"dash"},
		Short:   "Open the home screen for your role",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, load, func(a *app.App) error {
				return a.Home(cmd.Context())
			})
		},
	}
}

// NewNavCmd creates the nav command
func NewNavCmd(load Loader) *cobra.Command {
	return &cobra.Command{
		Use:   "nav [path-or-label]",
		Short: "Pick a screen from your role's menu",
		Long: `Pick a screen from your role's menu.

If no param is provided, an interactive prompt will be shown.

Examples:
  $ storerate nav              # Interactive selection
  $ storerate nav /my-ratings  # Select by path
  $ storerate nav "My Ratings" # Select by label`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var explicit string
			if len(args) > 0 {
				explicit = args[0]
			}
			return withApp(cmd, load, func(a *app.App) error {
				return runNav(cmd, a, explicit)
			})
		},
	}
}

func runNav(cmd *cobra.Command, a *app.App, explicit string) error {
	st := a.Sessions.Snapshot()
	if !st.Authenticated() {
		return a.Home(cmd.Context())
	}

	choice, err := navselect.Resolve(navselect.Options(a.Guard, st.Role()), explicit)
	if err != nil {
		return err
	}

	if choice.Path == navselect.LogoutPath {
		res := a.Gateway.Logout(cmd.Context())
		fmt.Fprintf(cmd.OutOrStdout(), "✓ %s\n", res.Message)
		return nil
	}
	return a.Open(cmd.Context(), choice.Path)
}
