package provider

import (
	"context"
)

// Request is the framework-neutral HTTP request handed to a provider.
type Request struct {
	// Method is the HTTP method in upper case.
	Method string

	// URL is the absolute request URL (scheme, host, path and query).
	URL string

	// Headers holds the request headers with multi-value headers flattened
	// into a single comma separated value.
	Headers map[string]string

	// Body is the raw request body, empty if the request had none.
	Body string
}

// Header returns the named header or an empty string.
func (r *Request) Header(name string) string {
	if r == nil || r.Headers == nil {
		return ""
	}

	return r.Headers[name]
}

// Response is the provider's answer, mirrored back to the client as-is.
type Response struct {
	Status  int
	Headers map[string]string
	Body    []byte
}

// User is the authenticated principal inside a session. The adapter never
// interprets it beyond attaching it to the request.
type User struct {
	ID        string         `json:"id"`
	Name      string         `json:"name,omitempty"`
	Email     string         `json:"email,omitempty"`
	Anonymous bool           `json:"anonymous,omitempty"`
	Claims    map[string]any `json:"claims,omitempty"`
}

// Session is an authenticated session as returned by a provider. Opaque to
// the adapter except for presence and the User field.
type Session struct {
	ID        string         `json:"id"`
	UserID    string         `json:"userId,omitempty"`
	User      *User          `json:"user,omitempty"`
	CreatedAt int64          `json:"createdAt,omitempty"`
	ExpiresAt int64          `json:"expiresAt,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
}

// Options is the provider configuration the adapter reads at startup. Hook
// slots are spliced exactly once before the service starts serving and are
// treated as read-only afterwards.
type Options struct {
	// BasePath is the path prefix the provider's routes are mounted under.
	// Defaults to "/api/auth" when empty.
	BasePath string

	// TrustedOrigins drives CORS setup. Either an OriginList or an
	// OriginFunc, never both.
	TrustedOrigins TrustedOrigins

	// Hooks are the provider lifecycle callbacks.
	Hooks Hooks
}

// Provider is the external authentication system wrapped by this service.
// Session validation, credential handling and token issuance all live behind
// this interface.
type Provider interface {
	// Handle serves one of the provider's own routes (sign-in, sign-out,
	// session introspection, ...) and returns the response to mirror.
	Handle(ctx context.Context, req *Request) (*Response, error)

	// Session resolves the session carried by req, returning nil without
	// error when the request carries none.
	Session(ctx context.Context, req *Request) (*Session, error)

	// Options returns the provider configuration. The returned pointer is
	// shared; callers must not mutate it after serving starts.
	Options() *Options
}
