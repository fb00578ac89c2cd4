// Package provider defines the contract between GoAuthBridge and the wrapped
// authentication provider: the framework-neutral request/response pair, the
// opaque session and user values, trusted-origin configuration and the
// before/after hook slots. The bridge never inspects a session beyond
// presence and its User field.
package provider
