package views

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/storerate/storerate/internal/cli/client"
	"github.com/storerate/storerate/internal/cli/nav"
	"github.com/storerate/storerate/internal/cli/session"
)

const topStores = 5

func (r *Renderer) adminDashboard(ctx context.Context, st session.State, loc nav.Location) error {
	var (
		dash   *client.AdminDashboard
		stores []client.Store
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		dash, err = r.api.Admin.Dashboard(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		stores, err = r.api.Admin.Stores(gctx, client.StoreFilter{SortBy: "rating", SortOrder: "desc"})
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	r.title("Admin Dashboard")
	w := r.table()
	header(w, "", "TOTAL", "THIS MONTH")
	fmt.Fprintf(w, "Users\t%d\t+%d\n", dash.TotalUsers, dash.RecentActivity.UsersThisMonth)
	fmt.Fprintf(w, "Stores\t%d\t+%d\n", dash.TotalStores, dash.RecentActivity.StoresThisMonth)
	fmt.Fprintf(w, "Ratings\t%d\t+%d\n", dash.TotalRatings, dash.RecentActivity.RatingsThisMonth)
	w.Flush()
	fmt.Fprintf(r.out, "\nPlatform Average Rating: %s★\n", dash.AveragePlatformRating)

	if len(stores) > 0 {
		fmt.Fprintln(r.out, "\nTop Rated Stores")
		w = r.table()
		for i, s := range stores {
			if i == topStores {
				break
			}
			fmt.Fprintf(w, "%d.\t%s\t%s★\t(%d)\n", i+1, s.Name, s.AverageRating, s.TotalRatings)
		}
		w.Flush()
	}

	fmt.Fprintln(r.out, "\nUser Management:  /admin/users/create  /admin/users")
	fmt.Fprintln(r.out, "Store Management: /admin/stores/create  /admin/stores")
	return nil
}

func (r *Renderer) adminUsers(ctx context.Context, st session.State, loc nav.Location) error {
	users, err := r.api.Admin.Users(ctx, client.UserFilterFrom(loc.Query))
	if err != nil {
		return err
	}

	r.title("Manage Users")
	if len(users) == 0 {
		fmt.Fprintln(r.out, "No users found matching your criteria.")
		return nil
	}

	w := r.table()
	header(w, "ID", "NAME", "EMAIL", "ADDRESS", "ROLE", "RATING")
	for _, u := range users {
		rating := "-"
		if u.Role == session.RoleStoreOwner && u.AverageRating != nil {
			rating = u.AverageRating.String()
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", u.ID, u.Name, u.Email, orDash(u.Address), u.Role.Label(), rating)
	}
	w.Flush()
	return nil
}

func (r *Renderer) adminUserDetails(ctx context.Context, st session.State, loc nav.Location) error {
	u, err := r.api.Admin.User(ctx, loc.Param("id"))
	if err != nil {
		return err
	}

	r.title("User Details")
	w := r.table()
	fmt.Fprintf(w, "Full Name\t%s\n", u.Name)
	fmt.Fprintf(w, "Email\t%s\n", u.Email)
	fmt.Fprintf(w, "Address\t%s\n", orDash(u.Address))
	fmt.Fprintf(w, "Role\t%s\n", u.Role.Label())
	fmt.Fprintf(w, "Member Since\t%s\n", date(u.CreatedAt))
	w.Flush()

	if u.Role != session.RoleStoreOwner {
		return nil
	}

	fmt.Fprintln(r.out, "\nOwned Stores")
	if len(u.Stores) == 0 {
		fmt.Fprintln(r.out, "No stores assigned yet.")
		return nil
	}
	w = r.table()
	header(w, "STORE", "AVERAGE", "RATINGS")
	for _, s := range u.Stores {
		avg := "-"
		if s.AverageRating > 0 {
			avg = s.AverageRating.String()
		}
		fmt.Fprintf(w, "%s\t%s\t%d\n", s.StoreName, avg, s.TotalRatings)
	}
	w.Flush()
	return nil
}

func (r *Renderer) adminStores(ctx context.Context, st session.State, loc nav.Location) error {
	stores, err := r.api.Admin.Stores(ctx, client.StoreFilterFrom(loc.Query))
	if err != nil {
		return err
	}

	r.title("Store Management")
	if len(stores) == 0 {
		fmt.Fprintln(r.out, "No stores found")
		return nil
	}

	w := r.table()
	header(w, "ID", "NAME", "EMAIL", "ADDRESS", "OWNER", "RATING", "RATINGS")
	for _, s := range stores {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%d\n",
			s.ID, s.Name, orDash(s.Email), s.Address, orDash(s.OwnerName), s.AverageRating, s.TotalRatings)
	}
	w.Flush()
	return nil
}

func (r *Renderer) adminCreateUser(ctx context.Context, st session.State, loc nav.Location) error {
	r.title("Create New User")
	fmt.Fprintln(r.out, "Run 'storerate admin create-user --name ... --email ... --role user|store_owner|admin'.")
	return nil
}

func (r *Renderer) adminCreateStore(ctx context.Context, st session.State, loc nav.Location) error {
	owners, err := r.api.Admin.Users(ctx, client.UserFilter{Role: string(session.RoleStoreOwner)})
	if err != nil {
		return err
	}

	r.title("Create New Store")
	if len(owners) == 0 {
		fmt.Fprintln(r.out, "No store owners available. Create a store owner user first.")
		return nil
	}

	fmt.Fprintln(r.out, "Available store owners:")
	w := r.table()
	header(w, "ID", "NAME", "EMAIL")
	for _, o := range owners {
		fmt.Fprintf(w, "%s\t%s\t%s\n", o.ID, o.Name, o.Email)
	}
	w.Flush()
	fmt.Fprintln(r.out, "\nRun 'storerate admin create-store --owner <id> --name ... --email ... --address ...'.")
	return nil
}
