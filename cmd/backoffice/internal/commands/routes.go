package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/wolfeidau/backoffice/internal/access"
	"github.com/wolfeidau/backoffice/internal/guard"
	"github.com/wolfeidau/backoffice/internal/navigation"
)

// ErrCatalogMismatch is reported by routes --check when a menu entry and
// its route disagree on the access they require.
var ErrCatalogMismatch = errors.New("navigation entry does not match its route")

// RoutesCmd lists the route table with the decision for the current session.
type RoutesCmd struct {
	OutputFlag
	Check bool `help:"Validate the navigation catalog against the route table"`
}

type routeView struct {
	guard.Route `yaml:",inline"`
	Outcome     guard.Outcome `json:"outcome" yaml:"outcome"`
	Redirect    string        `json:"redirect,omitempty" yaml:"redirect,omitempty"`
}

func (r *RoutesCmd) Run(ctx context.Context, globals *Globals) error {
	g := guard.New(guard.DefaultRoutes())

	if r.Check {
		if err := checkCatalog(navigation.DefaultCatalog(), g); err != nil {
			return err
		}
		fmt.Fprintln(globals.stdout(), "Navigation catalog and route table agree.")
		return nil
	}

	store, _, err := globals.openSession()
	if err != nil {
		return err
	}
	snap := store.Snapshot()

	views := make([]routeView, 0, len(g.Routes()))
	for _, route := range g.Routes() {
		d := guard.Evaluate(snap, route)
		views = append(views, routeView{Route: route, Outcome: d.Outcome, Redirect: d.Redirect})
	}

	return r.render(globals.stdout(), views, func(out io.Writer) error {
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "PATH\tROLES\tMODULE\tACCESS")
		for _, v := range views {
			roles := "public"
			if !v.Public {
				roles = joinRoles(v.Roles)
			}
			module := "-"
			if v.Module != "" {
				module = v.Module.String()
			}
			decision := string(v.Outcome)
			if v.Redirect != "" {
				decision += " → " + v.Redirect
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", v.Pattern, roles, module, decision)
		}
		return w.Flush()
	})
}

// checkCatalog validates the catalog and that every entry is guarded by a
// route requiring the same roles and module.
func checkCatalog(catalog *navigation.Catalog, g *guard.Guard) error {
	errs := []error{catalog.Validate()}

	for _, e := range catalog.Entries() {
		route, _, ok := g.Lookup(e.Path)
		switch {
		case !ok:
			errs = append(errs, fmt.Errorf("%w: %s has no route", ErrCatalogMismatch, e.Path))
		case route.Module != e.Module:
			errs = append(errs, fmt.Errorf("%w: %s requires module %q, route requires %q",
				ErrCatalogMismatch, e.Path, e.Module, route.Module))
		case !sameRoles(route.Roles, e.Roles):
			errs = append(errs, fmt.Errorf("%w: %s roles %s, route roles %s",
				ErrCatalogMismatch, e.Path, joinRoles(e.Roles), joinRoles(route.Roles)))
		}
	}

	return errors.Join(errs...)
}

func sameRoles(a, b []access.Role) bool {
	a, b = slices.Clone(a), slices.Clone(b)
	slices.Sort(a)
	slices.Sort(b)
	return slices.Equal(a, b)
}

func joinRoles(roles []access.Role) string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = r.String()
	}
	return strings.Join(names, ",")
}
