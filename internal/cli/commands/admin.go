package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/storerate/storerate/internal/cli/app"
	"github.com/storerate/storerate/internal/cli/forms"
)

const (
	createUserPath  = "/admin/users/create"
	createStorePath = "/admin/stores/create"
)

// NewAdminCmd creates the admin command group
func NewAdminCmd(load Loader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administrator actions",
	}

	cmd.AddCommand(newCreateUserCmd(load))
	cmd.AddCommand(newCreateStoreCmd(load))

	return cmd
}

func newCreateUserCmd(load Loader) *cobra.Command {
	var form forms.CreateUser

	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create a user, store owner or administrator",
		Long: `Create an account with any role.

Examples:
  $ storerate admin create-user --name "Store Owner For The Bakery" --email owner@example.com --role store_owner`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, load, func(a *app.App) error {
				return runCreateUser(cmd, a, form)
			})
		},
	}

	cmd.Flags().StringVar(&form.Name, "name", "", "Full name (20-60 characters)")
	cmd.Flags().StringVar(&form.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&form.Password, "password", "", "Initial password (will prompt if not provided)")
	cmd.Flags().StringVar(&form.Address, "address", "", "Address (optional, max 400 characters)")
	cmd.Flags().StringVar(&form.Role, "role", "user", "Role: user, store_owner or admin")

	return cmd
}

func runCreateUser(cmd *cobra.Command, a *app.App, form forms.CreateUser) error {
	if err := requireScreen(a, createUserPath); err != nil {
		return err
	}

	if form.Password == "" {
		p, err := readSecret(cmd, "Password", "use the --password flag")
		if err != nil {
			return err
		}
		form.Password = p
	}

	if err := form.Validate(); err != nil {
		return err
	}

	u, err := a.API.Admin.CreateUser(cmd.Context(), form.Request())
	if err != nil {
		return userError("failed to create user", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Created %s %s (%s)\n", u.Role.Label(), u.Name, u.Email)
	fmt.Fprintf(cmd.OutOrStdout(), "  ID: %s\n", u.ID)
	return nil
}

func newCreateStoreCmd(load Loader) *cobra.Command {
	var form forms.CreateStore

	cmd := &cobra.Command{
		Use:   "create-store",
		Short: "Create a store and assign it to a store owner",
		Long: `Create a store and assign it to a store owner.

List store owners with:
  $ storerate open "/admin/users?role=store_owner"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, load, func(a *app.App) error {
				return runCreateStore(cmd, a, form)
			})
		},
	}

	cmd.Flags().StringVar(&form.Name, "name", "", "Store name (max 100 characters)")
	cmd.Flags().StringVar(&form.Email, "email", "", "Store email")
	cmd.Flags().StringVar(&form.Address, "address", "", "Store address (max 400 characters)")
	cmd.Flags().StringVar(&form.Description, "description", "", "Description (optional, max 1000 characters)")
	cmd.Flags().StringVar(&form.OwnerID, "owner", "", "ID of the store owner")

	return cmd
}

func runCreateStore(cmd *cobra.Command, a *app.App, form forms.CreateStore) error {
	if err := requireScreen(a, createStorePath); err != nil {
		return err
	}
	if err := form.Validate(); err != nil {
		return err
	}

	s, err := a.API.Admin.CreateStore(cmd.Context(), form.Input())
	if err != nil {
		return userError("failed to create store", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Created store %s\n", s.Name)
	fmt.Fprintf(cmd.OutOrStdout(), "  ID: %s\n", s.ID)
	return nil
}
