package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/storerate/storerate/internal/cli/guard"
)

type routeDoc struct {
	Path   string   `yaml:"path"`
	Access string   `yaml:"access"`
	Roles  []string `yaml:"roles,omitempty"`
	Title  string   `yaml:"title"`
}

// NewRoutesCmd creates the routes command
func NewRoutesCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "List every screen and who may open it",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoutes(cmd, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format: table or yaml")

	return cmd
}

func runRoutes(cmd *cobra.Command, output string) error {
	routes := guard.New(nil).Routes()

	docs := make([]routeDoc, 0, len(routes))
	for _, r := range routes {
		doc := routeDoc{Path: r.Pattern, Access: r.Access.String(), Title: r.Title}
		for _, role := range r.Roles {
			doc.Roles = append(doc.Roles, string(role))
		}
		docs = append(docs, doc)
	}

	switch output {
	case "yaml":
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(docs); err != nil {
			return fmt.Errorf("failed to encode routes: %w", err)
		}
		return enc.Close()
	case "table", "":
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "PATH\tACCESS\tROLES\tTITLE")
		fmt.Fprintln(w, "────\t──────\t─────\t─────")
		for _, d := range docs {
			roles := "any"
			if len(d.Roles) > 0 {
				roles = strings.Join(d.Roles, ",")
			} else if d.Access != guard.Protected.String() {
				roles = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", d.Path, d.Access, roles, d.Title)
		}
		return w.Flush()
	default:
		return fmt.Errorf("unknown output format %q (want table or yaml)", output)
	}
}
