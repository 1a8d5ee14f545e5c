// Package views renders each screen of the client as plain text. Screens never check
// roles themselves; by the time one is rendered the guard has already allowed it.
package views

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"

	"github.com/storerate/storerate/internal/cli/client"
	"github.com/storerate/storerate/internal/cli/guard"
	"github.com/storerate/storerate/internal/cli/nav"
	"github.com/storerate/storerate/internal/cli/session"
)

const appTitle = "Rate & Review"

type screen func(ctx context.Context, st session.State, loc nav.Location) error

// Renderer draws screens to an io.Writer
type Renderer struct {
	api     *client.Client
	out     io.Writer
	logger  zerolog.Logger
	screens map[string]screen
}

// New creates a renderer that loads data through api
func New(api *client.Client, out io.Writer, logger zerolog.Logger) *Renderer {
	r := &Renderer{
		api:    api,
		out:    out,
		logger: logger.With().Str("component", "views").Logger(),
	}
	r.screens = map[string]screen{
		guard.LoginPath:          r.login,
		guard.SignupPath:         r.signup,
		guard.ChangePasswordPath: r.changePassword,
		guard.UnauthorizedPath:   r.unauthorized,

		guard.UserHomePath: r.browseStores,
		"/stores":          r.browseStores,
		"/my-ratings":      r.myRatings,

		guard.AdminHomePath:    r.adminDashboard,
		"/admin/users":         r.adminUsers,
		"/admin/users/create":  r.adminCreateUser,
		"/admin/users/:id":     r.adminUserDetails,
		"/admin/stores":        r.adminStores,
		"/admin/stores/create": r.adminCreateStore,

		guard.StoreOwnerHomePath: r.ownerDashboard,
		"/store-owner/stores":    r.ownerStores,
		"/store-owner/ratings":   r.ownerRaters,
	}
	return r
}

// Render draws the screen for a settled navigation. API errors are returned as is so
// the caller can react to an expired session.
func (r *Renderer) Render(ctx context.Context, st session.State, loc nav.Location) error {
	switch loc.Decision.Outcome {
	case guard.Placeholder:
		fmt.Fprintln(r.out, "Loading...")
		return nil
	case guard.NotFound:
		fmt.Fprintln(r.out, "404 Page not found")
		return nil
	case guard.Render:
	default:
		return fmt.Errorf("navigation to %s did not settle (%s)", loc.Path, loc.Decision.Outcome)
	}

	route := loc.Decision.Route
	draw, ok := r.screens[route.Pattern]
	if !ok {
		return fmt.Errorf("no screen for %s", route.Pattern)
	}

	if st.Authenticated() && route.Access == guard.Protected {
		r.navbar(st)
	}
	if err := draw(ctx, st, loc); err != nil {
		r.logger.Debug().Err(err).Str("path", loc.Path).Msg("Screen failed")
		return err
	}
	return nil
}

func (r *Renderer) navbar(st session.State) {
	fmt.Fprintf(r.out, "%s  |  Welcome, %s (%s)\n", appTitle, st.Identity.Name, st.Role().Label())
	fmt.Fprintf(r.out, "%s\n\n", strings.Join(guard.NavLinks(st.Role()), "  "))
}

func (r *Renderer) title(s string) {
	fmt.Fprintln(r.out, s)
	fmt.Fprintln(r.out, strings.Repeat("=", len(s)))
}

func (r *Renderer) table() *tabwriter.Writer {
	return tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
}

// header writes a column header and its underline
func header(w io.Writer, cols ...string) {
	under := make([]string, len(cols))
	for i, c := range cols {
		under[i] = strings.Repeat("─", len([]rune(c)))
	}
	fmt.Fprintln(w, strings.Join(cols, "\t"))
	fmt.Fprintln(w, strings.Join(under, "\t"))
}

func stars(n int) string {
	if n < 0 {
		n = 0
	}
	if n > 5 {
		n = 5
	}
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func date(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02")
}
