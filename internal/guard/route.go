package guard

import (
	"slices"
	"strings"

	"github.com/wolfeidau/backoffice/internal/access"
)

const (
	// LoginPath is the public entry point.
	LoginPath = "/"
	// DashboardPath is the default landing page for authenticated users.
	DashboardPath = "/dashboard"
	// CompanyHomePath is where a tenant administrator lands after login.
	CompanyHomePath = "/empresa/home"
)

// Route is a navigation target and the access it requires.
type Route struct {
	// Pattern is a slash separated path where segments starting with ':'
	// match any single segment, e.g. /vendedor/:id.
	Pattern string        `json:"pattern" yaml:"pattern"`
	Title   string        `json:"title" yaml:"title"`
	Roles   []access.Role `json:"roles,omitempty" yaml:"roles,omitempty"`
	Module  access.Module `json:"module,omitempty" yaml:"module,omitempty"`
	Public  bool          `json:"public,omitempty" yaml:"public,omitempty"`

	// Endpoint is the backend resource that supplies the page data, using
	// the same :param placeholders as Pattern.
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
}

// AllowsRole reports whether role may open the route.
func (r Route) AllowsRole(role access.Role) bool {
	return slices.Contains(r.Roles, role)
}

// Match reports whether path matches the route pattern and returns the
// values of its :param segments.
func (r Route) Match(path string) (map[string]string, bool) {
	want := splitPath(r.Pattern)
	got := splitPath(path)
	if len(want) != len(got) {
		return nil, false
	}

	params := make(map[string]string)
	for i, seg := range want {
		if name, ok := strings.CutPrefix(seg, ":"); ok {
			if got[i] == "" {
				return nil, false
			}
			params[name] = got[i]
			continue
		}
		if seg != got[i] {
			return nil, false
		}
	}
	return params, true
}

// ResolveEndpoint substitutes params into the route endpoint.
func (r Route) ResolveEndpoint(params map[string]string) string {
	if r.Endpoint == "" {
		return ""
	}
	segs := strings.Split(r.Endpoint, "/")
	for i, seg := range segs {
		if name, ok := strings.CutPrefix(seg, ":"); ok {
			segs[i] = params[name]
		}
	}
	return strings.Join(segs, "/")
}

func splitPath(p string) []string {
	p, _, _ = strings.Cut(p, "?")
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

// DefaultRoutes is the route table of the back-office.
func DefaultRoutes() []Route {
	return []Route{
		{
			Pattern: LoginPath,
			Title:   "Login",
			Public:  true,
		},
		{
			Pattern: DashboardPath,
			Title:   "Dashboard",
			Roles:   []access.Role{access.RoleSuperAdmin, access.RoleAdmin, access.RoleSalesperson},
		},
		{
			Pattern:  "/empresas",
			Title:    "Empresas",
			Roles:    []access.Role{access.RoleSuperAdmin},
			Endpoint: "/api/superadmin/empresas",
		},
		{
			Pattern:  "/modulos",
			Title:    "Módulos",
			Roles:    []access.Role{access.RoleSuperAdmin},
			Endpoint: "/api/superadmin/modulos",
		},
		{
			Pattern:  CompanyHomePath,
			Title:    "Início",
			Roles:    []access.Role{access.RoleAdmin},
			Endpoint: "/api/empresa/me",
		},
		{
			Pattern:  "/empresa/meus-modulos",
			Title:    "Meus Módulos",
			Roles:    []access.Role{access.RoleAdmin},
			Endpoint: "/api/empresa/meus-modulos",
		},
		{
			Pattern: "/minhas-vendas",
			Title:   "Minhas Vendas",
			Roles:   []access.Role{access.RoleSalesperson},
		},
		{
			Pattern:  "/empresa/dashboard",
			Title:    "Dashboard de Comissões",
			Roles:    []access.Role{access.RoleAdmin},
			Module:   access.ModuleCommission,
			Endpoint: "/api/dashboard/empresa",
		},
		{
			Pattern:  "/vendedores",
			Title:    "Vendedores",
			Roles:    []access.Role{access.RoleAdmin},
			Module:   access.ModuleCommission,
			Endpoint: "/api/vendedores",
		},
		{
			Pattern:  "/vendedor/:id",
			Title:    "Vendedor",
			Roles:    []access.Role{access.RoleAdmin},
			Module:   access.ModuleCommission,
			Endpoint: "/api/vendedores/:id/detalhes",
		},
		{
			Pattern:  "/vendas",
			Title:    "Vendas",
			Roles:    []access.Role{access.RoleAdmin},
			Module:   access.ModuleCommission,
			Endpoint: "/api/vendas",
		},
	}
}
