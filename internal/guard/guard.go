package guard

import (
	"context"
	"slices"

	"github.com/rs/zerolog"
	"github.com/wolfeidau/backoffice/internal/access"
	"github.com/wolfeidau/backoffice/internal/session"
	"github.com/wolfeidau/backoffice/internal/telemetry"
)

// Outcome is what the user sees after a navigation attempt.
type Outcome string

const (
	// Render shows the target.
	Render Outcome = "render"
	// Loading shows a placeholder until the role is known.
	Loading Outcome = "loading"
	// Redirect sends the user to Decision.Redirect instead of the target.
	Redirect Outcome = "redirect"
	// NotFound is the static page for unmatched paths.
	NotFound Outcome = "not_found"
)

// Decision is the result of guarding one navigation attempt.
type Decision struct {
	Outcome  Outcome           `json:"outcome" yaml:"outcome"`
	Path     string            `json:"path" yaml:"path"`
	Redirect string            `json:"redirect,omitempty" yaml:"redirect,omitempty"`
	Route    *Route            `json:"route,omitempty" yaml:"route,omitempty"`
	Params   map[string]string `json:"params,omitempty" yaml:"params,omitempty"`
}

// Same reports whether d and other show the user the same thing.
func (d Decision) Same(other Decision) bool {
	if d.Outcome != other.Outcome || d.Redirect != other.Redirect || d.Path != other.Path {
		return false
	}
	if (d.Route == nil) != (other.Route == nil) {
		return false
	}
	return d.Route == nil || d.Route.Pattern == other.Route.Pattern
}

// Endpoint is the backend resource behind a rendered route, if any.
func (d Decision) Endpoint() string {
	if d.Outcome != Render || d.Route == nil {
		return ""
	}
	return d.Route.ResolveEndpoint(d.Params)
}

// Evaluate applies the access rules of route to snap. The first matching
// rule wins: no token, unresolved role, role not allowed, module missing.
func Evaluate(snap session.Snapshot, route Route) Decision {
	d := Decision{Path: route.Pattern, Route: &route}

	switch {
	case route.Public:
		d.Outcome = Render
	case !snap.Authenticated():
		d.Outcome, d.Redirect = Redirect, LoginPath
	case !snap.Resolved():
		d.Outcome = Loading
	case !route.AllowsRole(snap.Role):
		d.Outcome, d.Redirect = Redirect, DashboardPath
	case route.Module != "" && !snap.Permissions.Has(route.Module):
		d.Outcome, d.Redirect = Redirect, DashboardPath
	default:
		d.Outcome = Render
	}

	return d
}

// LandingPath is where a user with role goes after logging in.
func LandingPath(role access.Role) string {
	if role == access.RoleAdmin {
		return CompanyHomePath
	}
	return DashboardPath
}

// Guard protects the route table.
type Guard struct {
	routes []Route
}

// New creates a guard over routes. Earlier routes win when patterns overlap.
func New(routes []Route) *Guard {
	return &Guard{routes: slices.Clone(routes)}
}

// Routes returns the route table.
func (g *Guard) Routes() []Route {
	return slices.Clone(g.routes)
}

// Lookup returns the first route matching path.
func (g *Guard) Lookup(path string) (Route, map[string]string, bool) {
	for _, r := range g.routes {
		if params, ok := r.Match(path); ok {
			return r, params, true
		}
	}
	return Route{}, nil, false
}

// Navigate guards an attempt to open path with the session in snap.
func (g *Guard) Navigate(ctx context.Context, snap session.Snapshot, path string) Decision {
	var d Decision

	route, params, ok := g.Lookup(path)
	if !ok {
		d = Decision{Outcome: NotFound, Path: path}
	} else {
		d = Evaluate(snap, route)
		d.Path = path
		if len(params) > 0 {
			d.Params = params
		}
	}

	zerolog.Ctx(ctx).Debug().
		Str("path", path).
		Str("role", snap.Role.String()).
		Str("outcome", string(d.Outcome)).
		Str("redirect", d.Redirect).
		Uint64("version", snap.Version).
		Msg("navigation guarded")

	telemetry.GetMetrics().RecordGuardDecision(ctx, string(d.Outcome), snap.Role.String())

	return d
}
