// Package navselect is the interactive menu behind `storerate nav`: the same links
// the web navbar shows for the current role.
package navselect

import (
	"fmt"

	"github.com/manifoldco/promptui"

	"github.com/storerate/storerate/internal/cli/guard"
	"github.com/storerate/storerate/internal/cli/session"
)

// LogoutPath is a menu entry that is not a route
const LogoutPath = "logout"

// Option is one menu entry
type Option struct {
	Label string
	Path  string
}

// Options returns the menu for a role, titles taken from the route table
func Options(g *guard.Guard, role session.Role) []Option {
	var opts []Option
	for _, link := range guard.NavLinks(role) {
		label := link
		if r, _, ok := g.Lookup(link); ok && r.Title != "" {
			label = r.Title
		}
		opts = append(opts, Option{Label: label, Path: link})
	}
	return append(opts, Option{Label: "Logout", Path: LogoutPath})
}

// Resolve picks the destination:
// 1. an explicit path argument wins
// 2. a single option is used without asking
// 3. otherwise the user is prompted
func Resolve(options []Option, explicit string) (Option, error) {
	if explicit != "" {
		for _, o := range options {
			if o.Path == explicit || o.Label == explicit {
				return o, nil
			}
		}
		return Option{}, fmt.Errorf("'%s' is not in the menu", explicit)
	}

	if len(options) == 1 {
		return options[0], nil
	}

	return Prompt(options)
}

// Prompt shows an interactive prompt for the user to pick a menu entry
func Prompt(options []Option) (Option, error) {
	if len(options) == 0 {
		return Option{}, fmt.Errorf("nothing to choose from")
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "> {{ .Label | cyan }} {{ .Path | faint }}",
		Inactive: "  {{ .Label }} {{ .Path | faint }}",
		Selected: "{{ .Label | green }}",
	}

	prompt := promptui.Select{
		Label:     "Go to",
		Items:     options,
		Templates: templates,
		Size:      10,
	}

	index, _, err := prompt.Run()
	if err != nil {
		return Option{}, fmt.Errorf("navigation cancelled: %w", err)
	}

	return options[index], nil
}
