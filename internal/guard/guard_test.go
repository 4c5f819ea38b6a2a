package guard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/backoffice/internal/access"
	"github.com/wolfeidau/backoffice/internal/navigation"
	"github.com/wolfeidau/backoffice/internal/session"
)

func resolved(role access.Role, modules ...access.Module) session.Snapshot {
	return session.Snapshot{
		Token:       "header.payload.signature",
		Role:        role,
		Subject:     "user@example.com",
		Permissions: access.ModulesOf(modules...),
		Version:     1,
	}
}

func TestEvaluate_RuleOrder(t *testing.T) {
	protected := Route{
		Pattern: "/vendas",
		Roles:   []access.Role{access.RoleAdmin},
		Module:  access.ModuleCommission,
	}

	tests := []struct {
		name         string
		snap         session.Snapshot
		wantOutcome  Outcome
		wantRedirect string
	}{
		{
			name:         "no token",
			snap:         session.Snapshot{},
			wantOutcome:  Redirect,
			wantRedirect: LoginPath,
		},
		{
			name:         "no token with stale permissions",
			snap:         session.Snapshot{Permissions: access.ModulesOf(access.ModuleCommission)},
			wantOutcome:  Redirect,
			wantRedirect: LoginPath,
		},
		{
			name:        "role pending",
			snap:        session.Snapshot{Token: "t", Permissions: access.ModulesOf(access.ModuleCommission)},
			wantOutcome: Loading,
		},
		{
			name:         "role not allowed wins over missing module",
			snap:         resolved(access.RoleSalesperson),
			wantOutcome:  Redirect,
			wantRedirect: DashboardPath,
		},
		{
			name:         "module missing",
			snap:         resolved(access.RoleAdmin),
			wantOutcome:  Redirect,
			wantRedirect: DashboardPath,
		},
		{
			name:        "allowed",
			snap:        resolved(access.RoleAdmin, access.ModuleCommission),
			wantOutcome: Render,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Evaluate(tt.snap, protected)
			assert.Equal(t, tt.wantOutcome, d.Outcome)
			assert.Equal(t, tt.wantRedirect, d.Redirect)
		})
	}
}

func TestEvaluate_PublicRoute(t *testing.T) {
	login := Route{Pattern: LoginPath, Public: true}

	for _, snap := range []session.Snapshot{{}, {Token: "t"}, resolved(access.RoleAdmin)} {
		assert.Equal(t, Render, Evaluate(snap, login).Outcome)
	}
}

func TestEvaluate_RoleGatingNeverRenders(t *testing.T) {
	allModules := []access.Module{access.ModuleCommission, "ESTOQUE_CORE"}

	for _, route := range DefaultRoutes() {
		if route.Public {
			continue
		}
		for _, role := range access.AllRoles {
			if route.AllowsRole(role) {
				continue
			}
			d := Evaluate(resolved(role, allModules...), route)
			assert.NotEqual(t, Render, d.Outcome, "%s rendered for %s", route.Pattern, role)
			assert.Equal(t, DashboardPath, d.Redirect)
		}
	}
}

func TestEvaluate_PermissionChangeFlipsDecision(t *testing.T) {
	for _, route := range DefaultRoutes() {
		if route.Module == "" {
			continue
		}
		before := resolved(access.RoleAdmin)
		after := before
		after.Permissions = access.ModulesOf(route.Module)

		assert.Equal(t, Redirect, Evaluate(before, route).Outcome, route.Pattern)
		assert.Equal(t, Render, Evaluate(after, route).Outcome, route.Pattern)
	}
}

func TestGuard_Navigate(t *testing.T) {
	ctx := context.Background()
	g := New(DefaultRoutes())

	t.Run("tenant admin without modules is sent to the dashboard", func(t *testing.T) {
		d := g.Navigate(ctx, resolved(access.RoleAdmin), "/vendedores")
		assert.Equal(t, Redirect, d.Outcome)
		assert.Equal(t, DashboardPath, d.Redirect)
		assert.Empty(t, d.Endpoint())
	})

	t.Run("tenant admin with commission opens salespeople and sales", func(t *testing.T) {
		snap := resolved(access.RoleAdmin, access.ModuleCommission)
		for _, path := range []string{"/vendedores", "/vendas"} {
			d := g.Navigate(ctx, snap, path)
			assert.Equal(t, Render, d.Outcome, path)
		}
	})

	t.Run("salesperson cannot open company catalog", func(t *testing.T) {
		d := g.Navigate(ctx, resolved(access.RoleSalesperson), "/empresas")
		assert.Equal(t, Redirect, d.Outcome)
		assert.Equal(t, DashboardPath, d.Redirect)
	})

	t.Run("logged out is sent to login", func(t *testing.T) {
		d := g.Navigate(ctx, session.Snapshot{}, "/dashboard")
		assert.Equal(t, Redirect, d.Outcome)
		assert.Equal(t, LoginPath, d.Redirect)
	})

	t.Run("unmatched path", func(t *testing.T) {
		d := g.Navigate(ctx, resolved(access.RoleSuperAdmin), "/nao-existe")
		assert.Equal(t, NotFound, d.Outcome)
		assert.Nil(t, d.Route)

		d = g.Navigate(ctx, session.Snapshot{}, "/vendedor")
		assert.Equal(t, NotFound, d.Outcome)
	})

	t.Run("params resolve the endpoint", func(t *testing.T) {
		d := g.Navigate(ctx, resolved(access.RoleAdmin, access.ModuleCommission), "/vendedor/42")
		require.Equal(t, Render, d.Outcome)
		assert.Equal(t, map[string]string{"id": "42"}, d.Params)
		assert.Equal(t, "/api/vendedores/42/detalhes", d.Endpoint())
	})

	t.Run("trailing slash and query are ignored", func(t *testing.T) {
		d := g.Navigate(ctx, resolved(access.RoleSuperAdmin), "/empresas/?page=2")
		assert.Equal(t, Render, d.Outcome)
		assert.Equal(t, "/api/superadmin/empresas", d.Endpoint())
	})
}

func TestRoute_Match(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		want    map[string]string
		ok      bool
	}{
		{"/", "/", map[string]string{}, true},
		{"/", "", map[string]string{}, true},
		{"/", "/dashboard", nil, false},
		{"/dashboard", "/dashboard", map[string]string{}, true},
		{"/dashboard", "/dashboard/x", nil, false},
		{"/vendedor/:id", "/vendedor/7", map[string]string{"id": "7"}, true},
		{"/vendedor/:id", "/vendedor/", nil, false},
		{"/vendedor/:id", "/vendedores/7", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+" "+tt.path, func(t *testing.T) {
			params, ok := Route{Pattern: tt.pattern}.Match(tt.path)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, params)
		})
	}
}

func TestLandingPath(t *testing.T) {
	assert.Equal(t, CompanyHomePath, LandingPath(access.RoleAdmin))
	assert.Equal(t, DashboardPath, LandingPath(access.RoleSuperAdmin))
	assert.Equal(t, DashboardPath, LandingPath(access.RoleSalesperson))

	g := New(DefaultRoutes())
	for _, role := range access.AllRoles {
		d := g.Navigate(context.Background(), resolved(role), LandingPath(role))
		assert.Equal(t, Render, d.Outcome, "landing page of %s must render", role)
	}
}

func TestDefaultRoutes_AgreeWithCatalog(t *testing.T) {
	g := New(DefaultRoutes())

	for _, e := range navigation.DefaultCatalog().Entries() {
		route, _, ok := g.Lookup(e.Path)
		require.True(t, ok, "no route for menu entry %s", e.Path)
		assert.Equal(t, e.Path, route.Pattern)
		assert.ElementsMatch(t, e.Roles, route.Roles, e.Path)
		assert.Equal(t, e.Module, route.Module, e.Path)
	}

	patterns := make(map[string]bool)
	for _, r := range DefaultRoutes() {
		assert.False(t, patterns[r.Pattern], "duplicate route %s", r.Pattern)
		patterns[r.Pattern] = true
		if !r.Public {
			assert.NotEmpty(t, r.Roles, r.Pattern)
		}
	}
}
