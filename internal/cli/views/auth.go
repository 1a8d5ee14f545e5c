package views

import (
	"context"
	"fmt"

	"github.com/storerate/storerate/internal/cli/nav"
	"github.com/storerate/storerate/internal/cli/session"
)

func (r *Renderer) login(ctx context.Context, st session.State, loc nav.Location) error {
	r.title("Sign in to your account")
	fmt.Fprintln(r.out, "Run 'storerate login' to sign in.")
	fmt.Fprintln(r.out, "Don't have an account? Run 'storerate signup'.")
	return nil
}

func (r *Renderer) signup(ctx context.Context, st session.State, loc nav.Location) error {
	r.title("Create your account")
	fmt.Fprintln(r.out, "Run 'storerate signup' to register.")
	fmt.Fprintln(r.out, "  Name: 20 to 60 characters")
	fmt.Fprintln(r.out, "  Password: 8 to 16 characters, one uppercase letter and one special character")
	fmt.Fprintln(r.out, "  Address: optional, at most 400 characters")
	fmt.Fprintln(r.out, "Already have an account? Run 'storerate login'.")
	return nil
}

func (r *Renderer) changePassword(ctx context.Context, st session.State, loc nav.Location) error {
	r.title("Change Password")
	fmt.Fprintln(r.out, "Run 'storerate passwd' to change your password.")
	return nil
}

func (r *Renderer) unauthorized(ctx context.Context, st session.State, loc nav.Location) error {
	r.title("Access Denied")
	fmt.Fprintln(r.out, "You don't have permission to access this page.")
	if st.Identity != nil {
		fmt.Fprintf(r.out, "Logged in as: %s\n", st.Role())
	}
	return nil
}
