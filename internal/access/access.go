package access

import (
	"slices"
	"sort"
)

// Role is the authorization class carried in the "role" claim of a bearer token.
type Role string

const (
	// RoleSuperAdmin administers the platform: companies and the module catalog.
	RoleSuperAdmin Role = "ROLE_SUPER_ADMIN"

	// RoleAdmin administers a single tenant: its salespeople, sales and active modules.
	RoleAdmin Role = "ROLE_ADMIN"

	// RoleSalesperson is a tenant's salesperson.
	RoleSalesperson Role = "ROLE_VENDEDOR"
)

// AllRoles lists every role in a stable order.
var AllRoles = []Role{RoleSuperAdmin, RoleAdmin, RoleSalesperson}

// ParseRole returns the Role for s, or false when s is not one of the known roles.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	if slices.Contains(AllRoles, r) {
		return r, true
	}
	return "", false
}

// String returns the wire value of the role.
func (r Role) String() string {
	return string(r)
}

// Module is the key of a separately licensed feature set.
type Module string

const (
	// ModuleCommission is the commission module (salespeople, sales, commission dashboard).
	ModuleCommission Module = "COMISSAO_CORE"
)

// String returns the wire value of the module key.
func (m Module) String() string {
	return string(m)
}

// ModuleSet is an immutable set of module keys. The zero value is the empty set.
type ModuleSet struct {
	keys map[Module]struct{}
}

// NewModuleSet builds a set from the module keys returned by the authentication endpoint.
// Empty keys are ignored and duplicates collapse.
func NewModuleSet(keys ...string) ModuleSet {
	set := ModuleSet{keys: make(map[Module]struct{}, len(keys))}
	for _, k := range keys {
		if k == "" {
			continue
		}
		set.keys[Module(k)] = struct{}{}
	}
	return set
}

// ModulesOf builds a set from typed module keys.
func ModulesOf(modules ...Module) ModuleSet {
	keys := make([]string, 0, len(modules))
	for _, m := range modules {
		keys = append(keys, string(m))
	}
	return NewModuleSet(keys...)
}

// Has reports whether m is in the set.
func (s ModuleSet) Has(m Module) bool {
	_, ok := s.keys[m]
	return ok
}

// Len returns the number of modules in the set.
func (s ModuleSet) Len() int {
	return len(s.keys)
}

// Keys returns the modules in lexical order.
func (s ModuleSet) Keys() []Module {
	keys := make([]Module, 0, len(s.keys))
	for k := range s.keys {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Strings returns the module keys in lexical order, the form they are persisted in.
func (s ModuleSet) Strings() []string {
	keys := s.Keys()
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = string(k)
	}
	return out
}
