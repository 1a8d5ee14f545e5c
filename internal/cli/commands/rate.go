package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/storerate/storerate/internal/cli/app"
	"github.com/storerate/storerate/internal/cli/forms"
)

const browseStoresPath = "/stores"

// NewRateCmd creates the rate command
func NewRateCmd(load Loader) *cobra.Command {
	var comment string

	cmd := &cobra.Command{
		Use:   "rate <store-id> <1-5>",
		Short: "Rate a store, or change your existing rating",
		Long: `Rate a store from 1 to 5 stars.

If you already rated the store, your rating is updated instead.

Examples:
  $ storerate rate 01J8ZQ6T9C4W7R2M5N3P1K0XYZ 4
  $ storerate rate 01J8ZQ6T9C4W7R2M5N3P1K0XYZ 5 --comment "Great coffee"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			stars, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("rating must be a whole number from 1 to 5, got %q", args[1])
			}
			form := forms.Rating{StoreID: args[0], Rating: stars, Comment: comment}
			return withApp(cmd, load, func(a *app.App) error {
				return runRate(cmd, a, form)
			})
		},
	}

	cmd.Flags().StringVarP(&comment, "comment", "c", "", "Optional comment (max 500 characters)")

	return cmd
}

func runRate(cmd *cobra.Command, a *app.App, form forms.Rating) error {
	if err := requireScreen(a, browseStoresPath); err != nil {
		return err
	}
	if err := form.Validate(); err != nil {
		return err
	}

	ctx := cmd.Context()
	store, err := a.API.Stores.Get(ctx, form.StoreID)
	if err != nil {
		return userError("failed to load store", err)
	}

	verb := "Submitted"
	if store.UserRating != nil && store.UserRating.ID != "" {
		_, err = a.API.Ratings.Update(ctx, store.UserRating.ID.String(), form.Input())
		verb = "Updated"
	} else {
		_, err = a.API.Ratings.Submit(ctx, form.Input())
	}
	if err != nil {
		return userError("failed to save rating", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ %s rating for %s: %s\n", verb, store.Name, starBar(form.Rating))
	return nil
}

func starBar(n int) string {
	if n < 0 {
		n = 0
	}
	if n > 5 {
		n = 5
	}
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}
