package navigation

import "github.com/wolfeidau/backoffice/internal/access"

// Filter returns, in catalog order, the entries the menu shows for role and
// perms.
//
// A tenant administrator sees base entries plus, when the commission module
// is active, the commission entries; entries of any other module stay hidden
// even when their key is present. Every other role gets a uniform module gate.
func Filter(catalog *Catalog, role access.Role, perms access.ModuleSet) []Entry {
	if role == "" {
		return []Entry{}
	}

	eligible := make([]Entry, 0, catalog.Len())
	for _, e := range catalog.entries {
		if e.AllowsRole(role) {
			eligible = append(eligible, e)
		}
	}

	out := make([]Entry, 0, len(eligible))

	if role == access.RoleAdmin {
		commission := perms.Has(access.ModuleCommission)
		for _, e := range eligible {
			switch {
			case !e.RequiresModule():
				out = append(out, cloneEntry(e))
			case commission && e.Module == access.ModuleCommission:
				out = append(out, cloneEntry(e))
			}
		}
		return out
	}

	for _, e := range eligible {
		if !e.RequiresModule() || perms.Has(e.Module) {
			out = append(out, cloneEntry(e))
		}
	}
	return out
}
