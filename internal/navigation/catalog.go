package navigation

import (
	"errors"
	"fmt"
	"slices"

	"github.com/wolfeidau/backoffice/internal/access"
)

var (
	// ErrDuplicatePath is reported by Validate when two entries share a path.
	ErrDuplicatePath = errors.New("duplicate navigation path")

	// ErrNoRoles is reported by Validate when an entry is visible to nobody.
	ErrNoRoles = errors.New("navigation entry has no roles")
)

// Entry is one navigation destination and the access it requires.
type Entry struct {
	Path  string        `json:"path" yaml:"path"`
	Label string        `json:"label" yaml:"label"`
	Icon  string        `json:"icon,omitempty" yaml:"icon,omitempty"`
	Roles []access.Role `json:"roles" yaml:"roles"`

	// Module is the module key the entry belongs to, empty when the entry
	// is part of the base product.
	Module access.Module `json:"module,omitempty" yaml:"module,omitempty"`

	// GroupLabel places the entry under a collapsible menu section.
	GroupLabel string `json:"group,omitempty" yaml:"group,omitempty"`
}

// AllowsRole reports whether role may see the entry.
func (e Entry) AllowsRole(role access.Role) bool {
	return slices.Contains(e.Roles, role)
}

// RequiresModule reports whether the entry belongs to an optional module.
func (e Entry) RequiresModule() bool {
	return e.Module != ""
}

// Catalog is the ordered, immutable list of every navigation destination.
type Catalog struct {
	entries []Entry
}

// NewCatalog concatenates the base entries with the entries contributed by
// each optional module. Order is preserved and is the render order.
func NewCatalog(base []Entry, features ...[]Entry) *Catalog {
	n := len(base)
	for _, f := range features {
		n += len(f)
	}

	entries := make([]Entry, 0, n)
	for _, e := range base {
		entries = append(entries, cloneEntry(e))
	}
	for _, f := range features {
		for _, e := range f {
			entries = append(entries, cloneEntry(e))
		}
	}

	return &Catalog{entries: entries}
}

// Entries returns a copy of the catalog entries in render order.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	for i, e := range c.entries {
		out[i] = cloneEntry(e)
	}
	return out
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Lookup returns the entry registered for path.
func (c *Catalog) Lookup(path string) (Entry, bool) {
	for _, e := range c.entries {
		if e.Path == path {
			return cloneEntry(e), true
		}
	}
	return Entry{}, false
}

// Validate checks the authoring rules of the catalog: paths are unique and
// every entry names at least one role. All violations are returned joined.
func (c *Catalog) Validate() error {
	var errs []error

	seen := make(map[string]int, len(c.entries))
	for i, e := range c.entries {
		if first, ok := seen[e.Path]; ok {
			errs = append(errs, fmt.Errorf("%w: %q at positions %d and %d", ErrDuplicatePath, e.Path, first, i))
		} else {
			seen[e.Path] = i
		}

		if len(e.Roles) == 0 {
			errs = append(errs, fmt.Errorf("%w: %q", ErrNoRoles, e.Path))
		}
	}

	return errors.Join(errs...)
}

func cloneEntry(e Entry) Entry {
	e.Roles = slices.Clone(e.Roles)
	return e
}
