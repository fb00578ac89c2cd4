// Package hooks composes before/after callbacks into the provider's hook
// slots. Registration order is execution order; a hook tagged with a path
// only fires for that provider route, an untagged hook fires for every
// route. The chain is built exactly once before serving starts.
package hooks

import (
	"context"
	"sync"

	"github.com/GoAuthBridge/GoAuthBridge/internal/provider"
)

type entry struct {
	path string
	fn   provider.Hook
}

// Registrar collects hook registrations at startup and splices them into a
// provider's Options. After Apply the registrar is frozen; late
// registrations return an error instead of mutating a chain that in-flight
// requests may already be running.
type Registrar struct {
	mu     sync.Mutex
	frozen bool
	before []entry
	after  []entry
}

// NewRegistrar creates an empty hook registrar.
func NewRegistrar() *Registrar {
	return &Registrar{}
}

// Before registers fn to run before the provider route at path. An empty
// path registers an unconditional hook.
func (r *Registrar) Before(path string, fn provider.Hook) error {
	return r.add(&r.before, path, fn)
}

// After registers fn to run after the provider route at path. An empty
// path registers an unconditional hook.
func (r *Registrar) After(path string, fn provider.Hook) error {
	return r.add(&r.after, path, fn)
}

func (r *Registrar) add(list *[]entry, path string, fn provider.Hook) error {
	if fn == nil {
		return ErrNilHook
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return ErrRegistrarFrozen
	}

	*list = append(*list, entry{path: path, fn: fn})

	return nil
}

// Apply splices the registered hooks into the provider options and freezes
// the registrar. A hook already configured on the options always runs
// first; registered hooks follow in registration order. An error from any
// hook aborts the chain and propagates to the provider.
func (r *Registrar) Apply(opts *provider.Options) error {
	if opts == nil {
		return ErrNilOptions
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return ErrRegistrarFrozen
	}

	r.frozen = true

	opts.Hooks.Before = compose(opts.Hooks.Before, r.before)
	opts.Hooks.After = compose(opts.Hooks.After, r.after)

	return nil
}

// compose builds the final hook for one slot. prior may be nil.
func compose(prior provider.Hook, entries []entry) provider.Hook {
	if len(entries) == 0 {
		return prior
	}

	// copy so later mutation of the registrar slices cannot leak in
	chain := make([]entry, len(entries))
	copy(chain, entries)

	return func(ctx context.Context, hc *HookCtx) error {
		if prior != nil {
			if err := prior(ctx, hc); err != nil {
				return err
			}
		}

		for _, e := range chain {
			if e.path != "" && (hc == nil || e.path != hc.Path) {
				continue
			}

			if err := e.fn(ctx, hc); err != nil {
				return err
			}
		}

		return nil
	}
}

// HookCtx aliases the provider hook context for brevity in this package.
type HookCtx = provider.HookContext
