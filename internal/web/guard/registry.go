package guard

import (
	"strings"
	"sync"
)

// Access is the route-level access requirement consulted by the guard.
type Access int

const (
	// AccessProtected requires a resolvable session (the default).
	AccessProtected Access = iota

	// AccessPublic allows the request without any session lookup.
	AccessPublic

	// AccessOptional performs the session lookup but allows the request
	// either way.
	AccessOptional
)

// String returns the access level name.
func (a Access) String() string {
	switch a {
	case AccessPublic:
		return "public"
	case AccessOptional:
		return "optional"
	default:
		return "protected"
	}
}

type prefixRule struct {
	prefix string
	access Access
}

// Registry holds the route metadata map built at route-registration time.
// Routes default to AccessProtected. A path ending in "/*" registers a
// prefix rule; lookups prefer exact entries, then the longest prefix.
// The registry is frozen before serving starts and is read-only afterwards.
type Registry struct {
	mu       sync.RWMutex
	frozen   bool
	exact    map[string]Access
	prefixes []prefixRule
}

// NewRegistry creates an empty route metadata registry.
func NewRegistry() *Registry {
	return &Registry{
		exact: make(map[string]Access),
	}
}

// Register records the access level for a path. Registering after Freeze
// panics: route metadata, once registered, is stable for the process
// lifetime.
func (r *Registry) Register(path string, access Access) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		panic("guard: route registered after registry was frozen")
	}

	if prefix, ok := strings.CutSuffix(path, "/*"); ok {
		r.prefixes = append(r.prefixes, prefixRule{prefix: prefix, access: access})
		return
	}

	r.exact[path] = access
}

// Freeze marks the registry read-only. Called once when serving starts.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.frozen = true
}

// Lookup resolves the access level for a request path.
func (r *Registry) Lookup(path string) Access {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if access, ok := r.exact[path]; ok {
		return access
	}

	var (
		best   = -1
		access = AccessProtected
	)

	for _, rule := range r.prefixes {
		if matchesPrefix(path, rule.prefix) && len(rule.prefix) > best {
			best = len(rule.prefix)
			access = rule.access
		}
	}

	return access
}

// matchesPrefix reports whether path is inside the subtree rooted at
// prefix. The match stops at segment boundaries, mirroring fiber's "/*"
// wildcard: "/api/auth/*" covers "/api/auth" and "/api/auth/x" but not
// the sibling "/api/authz".
func matchesPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}
