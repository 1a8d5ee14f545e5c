package views

import (
	"context"
	"fmt"

	"github.com/storerate/storerate/internal/cli/client"
	"github.com/storerate/storerate/internal/cli/nav"
	"github.com/storerate/storerate/internal/cli/session"
)

// browseStores lists stores with the caller's own rating. Filters come from the path's
// query string, e.g. /stores?name=coffee&sortBy=name.
func (r *Renderer) browseStores(ctx context.Context, st session.State, loc nav.Location) error {
	stores, err := r.api.Stores.List(ctx, client.StoreFilterFrom(loc.Query))
	if err != nil {
		return err
	}

	r.title("Browse Stores")
	if len(stores) == 0 {
		fmt.Fprintln(r.out, "No stores found matching your criteria.")
		return nil
	}

	w := r.table()
	header(w, "ID", "NAME", "ADDRESS", "OVERALL", "RATINGS", "YOUR RATING")
	for _, s := range stores {
		mine := "not rated"
		if s.UserRating != nil {
			mine = stars(s.UserRating.Rating)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
			s.ID,
			s.Name,
			s.Address,
			s.RatingInfo.AverageRating,
			s.RatingInfo.TotalRatings,
			mine,
		)
	}
	w.Flush()

	fmt.Fprintln(r.out, "\nRate a store with: storerate rate <store-id> <1-5>")
	return nil
}

func (r *Renderer) myRatings(ctx context.Context, st session.State, loc nav.Location) error {
	ratings, err := r.api.Ratings.Mine(ctx)
	if err != nil {
		return err
	}

	r.title("My Ratings")
	if len(ratings) == 0 {
		fmt.Fprintln(r.out, "You have not rated any stores yet.")
		return nil
	}

	w := r.table()
	header(w, "STORE", "RATING", "COMMENT", "DATE")
	for _, rt := range ratings {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", orDash(rt.StoreName), stars(rt.Rating), orDash(rt.Comment), date(rt.CreatedAt))
	}
	w.Flush()
	return nil
}
