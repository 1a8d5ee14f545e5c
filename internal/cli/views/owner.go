package views

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/storerate/storerate/internal/cli/client"
	"github.com/storerate/storerate/internal/cli/nav"
	"github.com/storerate/storerate/internal/cli/session"
)

// ownerDashboard loads the overview and the raters list together, like the web page
func (r *Renderer) ownerDashboard(ctx context.Context, st session.State, loc nav.Location) error {
	var (
		dash   *client.OwnerDashboard
		raters []client.Rater
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		dash, err = r.api.StoreOwner.Dashboard(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		raters, err = r.api.StoreOwner.Raters(gctx, "")
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	r.title("Store Owner Dashboard")
	if st.Identity != nil {
		fmt.Fprintf(r.out, "Welcome back, %s\n\n", st.Identity.Name)
	}

	w := r.table()
	fmt.Fprintf(w, "Total Stores\t%d\n", dash.Overview.TotalStores)
	fmt.Fprintf(w, "Ratings Received\t%d\n", dash.Overview.TotalRatingsReceived)
	fmt.Fprintf(w, "Overall Average\t%s★\n", dash.Overview.OverallAverageRating)
	w.Flush()

	fmt.Fprintln(r.out)
	r.renderOwnerStores(dash.Stores)
	fmt.Fprintln(r.out)
	r.renderRaters(raters, "Recent Ratings from Users")
	return nil
}

func (r *Renderer) ownerStores(ctx context.Context, st session.State, loc nav.Location) error {
	dash, err := r.api.StoreOwner.Dashboard(ctx)
	if err != nil {
		return err
	}
	r.renderOwnerStores(dash.Stores)
	return nil
}

// ownerRaters accepts ?store=<id> to narrow to one store
func (r *Renderer) ownerRaters(ctx context.Context, st session.State, loc nav.Location) error {
	raters, err := r.api.StoreOwner.Raters(ctx, loc.Query.Get("store"))
	if err != nil {
		return err
	}
	r.renderRaters(raters, "Users Who Rated Your Stores")
	return nil
}

func (r *Renderer) renderOwnerStores(stores []client.OwnerStore) {
	fmt.Fprintln(r.out, "My Stores")
	if len(stores) == 0 {
		fmt.Fprintln(r.out, "No stores yet. Contact admin to get a store assigned.")
		return
	}

	w := r.table()
	header(w, "ID", "NAME", "ADDRESS", "AVERAGE", "RATINGS", "BREAKDOWN")
	for _, s := range stores {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
			s.ID, s.Name, s.Address, s.RatingStats.AverageRating, s.RatingStats.TotalRatings, breakdown(s.RatingStats.StarBreakdown))
	}
	w.Flush()
}

func (r *Renderer) renderRaters(raters []client.Rater, heading string) {
	fmt.Fprintln(r.out, heading)
	if len(raters) == 0 {
		fmt.Fprintln(r.out, "No ratings received yet.")
		return
	}

	w := r.table()
	header(w, "USER", "EMAIL", "STORE", "RATING", "DATE", "COMMENT")
	for _, rt := range raters {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			rt.Name, rt.Email, rt.StoreName, stars(rt.Rating), date(rt.CreatedAt), orDash(rt.Comment))
	}
	w.Flush()
}

// breakdown renders {"5":2,"3":1} as "5★:2 3★:1", highest first
func breakdown(m map[string]int) string {
	if len(m) == 0 {
		return "-"
	}
	keys := make([]string, 0, len(m))
	for k, n := range m {
		if n > 0 {
			keys = append(keys, k)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))

	out := ""
	for i, k := range keys {
		if i > 0 {
			out += " "
		}
		out += fmt.Sprintf("%s★:%d", k, m[k])
	}
	if out == "" {
		return "-"
	}
	return out
}
