package provider

import (
	"context"
)

// HookContext describes the in-flight provider operation a hook runs around.
type HookContext struct {
	// Path is the provider route relative to the base path, e.g. "/sign-out".
	Path string

	// Request is the bridged request being processed.
	Request *Request
}

// Hook is a provider lifecycle callback. An error returned by a hook aborts
// the in-flight auth operation; no recovery is attempted.
type Hook func(ctx context.Context, hc *HookContext) error

// Hooks holds the provider's before/after hook slots.
type Hooks struct {
	Before Hook
	After  Hook
}

// RunBefore invokes the before slot if set.
func (h *Hooks) RunBefore(ctx context.Context, hc *HookContext) error {
	if h == nil || h.Before == nil {
		return nil
	}

	return h.Before(ctx, hc)
}

// RunAfter invokes the after slot if set.
func (h *Hooks) RunAfter(ctx context.Context, hc *HookContext) error {
	if h == nil || h.After == nil {
		return nil
	}

	return h.After(ctx, hc)
}
