// Package router maps paths to pages and guards them against the auth
// state.
package router

import (
	"github.com/NaloDAO/community_app/internal/store/authstore"
)

// Access classifies who may visit a route.
type Access int

const (
	// Public routes are reachable by anyone.
	Public Access = iota
	// PublicOnly routes redirect signed-in users to the dashboard.
	PublicOnly
	// Protected routes redirect signed-out users to the login page.
	Protected
)

// Route is one entry of the route table.
type Route struct {
	Path   string
	Name   string
	Access Access
}

// The route table. Unknown paths resolve to the landing page.
var routes = []Route{
	{Path: "/", Name: "landing", Access: Public},
	{Path: "/login", Name: "login", Access: PublicOnly},
	{Path: "/register", Name: "register", Access: PublicOnly},
	{Path: "/forgot-password", Name: "forgot-password", Access: PublicOnly},
	{Path: "/reset-password", Name: "reset-password", Access: PublicOnly},
	{Path: "/dashboard", Name: "dashboard", Access: Protected},
	{Path: "/profile", Name: "profile", Access: Protected},
}

// Routes returns a copy of the route table.
func Routes() []Route {
	out := make([]Route, len(routes))
	copy(out, routes)
	return out
}

// Action is a guard verdict.
type Action int

const (
	// Allow renders the requested route.
	Allow Action = iota
	// Redirect navigates to Resolution.Target instead.
	Redirect
	// Defer waits for the auth store's initial load before deciding.
	Defer
)

// Resolution is the outcome of resolving a path.
type Resolution struct {
	Action Action
	Route  Route
	Target string
}

// Router resolves paths against the auth store.
type Router struct {
	auth *authstore.Store
}

func New(auth *authstore.Store) *Router {
	return &Router{auth: auth}
}

// Resolve finds the route for path and applies the guard. Unknown paths
// redirect to the landing page regardless of auth state.
func (r *Router) Resolve(path string) Resolution {
	route, ok := match(path)
	if !ok {
		return Resolution{Action: Redirect, Target: "/"}
	}

	state := r.auth.State()
	res := Resolution{Route: route, Action: decide(route.Access, state.Authenticated, state.Loading)}
	if res.Action == Redirect {
		res.Target = target(route.Access)
	}
	return res
}

func match(path string) (Route, bool) {
	for _, route := range routes {
		if route.Path == path {
			return route, true
		}
	}
	return Route{}, false
}

// decide applies the guard matrix. The initial load defers every guarded
// decision so a signed-in user is never bounced off a protected page while
// the session is still resolving.
func decide(access Access, authenticated, loading bool) Action {
	switch access {
	case Protected:
		if loading {
			return Defer
		}
		if !authenticated {
			return Redirect
		}
	case PublicOnly:
		if loading {
			return Defer
		}
		if authenticated {
			return Redirect
		}
	}
	return Allow
}

// target names where a Redirect verdict for this access class goes.
func target(access Access) string {
	switch access {
	case Protected:
		return "/login"
	case PublicOnly:
		return "/dashboard"
	default:
		return "/"
	}
}
