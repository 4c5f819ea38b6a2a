package navigation

import (
	"context"

	"github.com/wolfeidau/backoffice/internal/access"
	"github.com/wolfeidau/backoffice/internal/telemetry"
)

// Section is a run of menu entries. Sections with a Label are collapsible.
type Section struct {
	Label    string  `json:"label,omitempty" yaml:"label,omitempty"`
	Expanded bool    `json:"expanded" yaml:"expanded"`
	Entries  []Entry `json:"entries" yaml:"entries"`
}

// Grouped reports whether the section renders under a collapsible header.
func (s Section) Grouped() bool {
	return s.Label != ""
}

// Menu is the filtered navigation arranged for display.
type Menu struct {
	Role     access.Role `json:"role" yaml:"role"`
	Sections []Section   `json:"sections" yaml:"sections"`

	// ModuleInactive is set for a tenant administrator whose menu holds no
	// commission module entry; the menu shows a "module not active" notice.
	ModuleInactive bool `json:"module_inactive" yaml:"module_inactive"`
}

// Entries flattens the menu back into the filtered entries, in display order.
func (m Menu) Entries() []Entry {
	var out []Entry
	for _, s := range m.Sections {
		out = append(out, s.Entries...)
	}
	return out
}

// BuildMenu filters the catalog and arranges the result. Consecutive ungrouped
// entries share one flat section; grouped entries are collected under the
// section of their label, placed where the label first occurs. Groups start
// expanded.
func BuildMenu(ctx context.Context, catalog *Catalog, role access.Role, perms access.ModuleSet) Menu {
	entries := Filter(catalog, role, perms)

	menu := Menu{Role: role, Sections: []Section{}}
	groups := make(map[string]int)

	for _, e := range entries {
		if e.GroupLabel == "" {
			last := len(menu.Sections) - 1
			if last >= 0 && !menu.Sections[last].Grouped() {
				menu.Sections[last].Entries = append(menu.Sections[last].Entries, e)
				continue
			}
			menu.Sections = append(menu.Sections, Section{Expanded: true, Entries: []Entry{e}})
			continue
		}

		if idx, ok := groups[e.GroupLabel]; ok {
			menu.Sections[idx].Entries = append(menu.Sections[idx].Entries, e)
			continue
		}
		groups[e.GroupLabel] = len(menu.Sections)
		menu.Sections = append(menu.Sections, Section{Label: e.GroupLabel, Expanded: true, Entries: []Entry{e}})
	}

	if role == access.RoleAdmin {
		menu.ModuleInactive = true
		for _, e := range entries {
			if e.Module == access.ModuleCommission {
				menu.ModuleInactive = false
				break
			}
		}
	}

	telemetry.GetMetrics().RecordMenuBuild(ctx, role.String(), len(entries))

	return menu
}
