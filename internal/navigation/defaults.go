package navigation

import "github.com/wolfeidau/backoffice/internal/access"

// CommissionGroup is the menu section holding the commission module pages.
const CommissionGroup = "Comissões"

// BaseEntries are the pages every tenant has, whatever modules it owns.
func BaseEntries() []Entry {
	return []Entry{
		{
			Path:  "/dashboard",
			Label: "Dashboard",
			Icon:  "dashboard",
			Roles: []access.Role{access.RoleSuperAdmin, access.RoleAdmin, access.RoleSalesperson},
		},
		{
			Path:  "/empresas",
			Label: "Empresas",
			Icon:  "business",
			Roles: []access.Role{access.RoleSuperAdmin},
		},
		{
			Path:  "/modulos",
			Label: "Módulos",
			Icon:  "extension",
			Roles: []access.Role{access.RoleSuperAdmin},
		},
		{
			Path:  "/empresa/home",
			Label: "Início",
			Icon:  "home",
			Roles: []access.Role{access.RoleAdmin},
		},
		{
			Path:  "/empresa/meus-modulos",
			Label: "Meus Módulos",
			Icon:  "extension",
			Roles: []access.Role{access.RoleAdmin},
		},
		{
			Path:  "/minhas-vendas",
			Label: "Minhas Vendas",
			Icon:  "receipt",
			Roles: []access.Role{access.RoleSalesperson},
		},
	}
}

// CommissionEntries are contributed by the commission module.
func CommissionEntries() []Entry {
	return []Entry{
		{
			Path:       "/empresa/dashboard",
			Label:      "Dashboard de Comissões",
			Icon:       "insights",
			Roles:      []access.Role{access.RoleAdmin},
			Module:     access.ModuleCommission,
			GroupLabel: CommissionGroup,
		},
		{
			Path:       "/vendedores",
			Label:      "Vendedores",
			Icon:       "people",
			Roles:      []access.Role{access.RoleAdmin},
			Module:     access.ModuleCommission,
			GroupLabel: CommissionGroup,
		},
		{
			Path:       "/vendas",
			Label:      "Vendas",
			Icon:       "point_of_sale",
			Roles:      []access.Role{access.RoleAdmin},
			Module:     access.ModuleCommission,
			GroupLabel: CommissionGroup,
		},
	}
}

// DefaultCatalog is the catalog of the back-office.
func DefaultCatalog() *Catalog {
	return NewCatalog(BaseEntries(), CommissionEntries())
}
