package commands

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/wolfeidau/backoffice/internal/navigation"
)

// MenuCmd prints the navigation menu of the current session.
type MenuCmd struct {
	OutputFlag
}

func (m *MenuCmd) Run(ctx context.Context, globals *Globals) error {
	store, _, err := globals.openSession()
	if err != nil {
		return err
	}

	snap := store.Snapshot()
	menu := navigation.BuildMenu(ctx, navigation.DefaultCatalog(), snap.Role, snap.Permissions)

	return m.render(globals.stdout(), menu, func(out io.Writer) error {
		if !snap.Resolved() {
			fmt.Fprintln(out, "Not logged in.")
			return nil
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		for _, section := range menu.Sections {
			indent := ""
			if section.Grouped() {
				fmt.Fprintf(w, "▾ %s\t\n", section.Label)
				indent = "  "
			}
			for _, e := range section.Entries {
				fmt.Fprintf(w, "%s%s\t%s\n", indent, e.Label, e.Path)
			}
		}
		if err := w.Flush(); err != nil {
			return err
		}

		if menu.ModuleInactive {
			fmt.Fprintln(out)
			fmt.Fprintln(out, "The commission module is not active for this company.")
			fmt.Fprintln(out, "See: /empresa/meus-modulos")
		}
		return nil
	})
}
