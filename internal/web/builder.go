package web

import (
	"github.com/GoAuthBridge/GoAuthBridge/internal/logger"
	"github.com/GoAuthBridge/GoAuthBridge/internal/provider"
	"github.com/GoAuthBridge/GoAuthBridge/internal/web/hooks"
)

// Builder assembles a module configuration step by step. Builders are
// single-use: Build wires the service and invalidates the builder.
type Builder struct {
	cfg   Config
	built bool
}

// NewBuilder creates a builder with the defaults of the manual variant plus
// an application-wide guard.
func NewBuilder() *Builder {
	return &Builder{
		cfg: Config{Global: true},
	}
}

// WithProvider sets the wrapped authentication provider.
func (b *Builder) WithProvider(p provider.Provider) *Builder {
	b.cfg.Provider = p
	return b
}

// WithBasePath overrides the provider's base path.
func (b *Builder) WithBasePath(path string) *Builder {
	b.cfg.BasePath = path
	return b
}

// WithHooks sets a pre-populated hook registrar.
func (b *Builder) WithHooks(r *hooks.Registrar) *Builder {
	b.cfg.Hooks = r
	return b
}

// WithLog enables the access log middleware.
func (b *Builder) WithLog(cfg logger.Log) *Builder {
	b.cfg.Log = &cfg
	return b
}

// WithShutDownTime sets the graceful shutdown drain time in seconds.
func (b *Builder) WithShutDownTime(seconds int) *Builder {
	b.cfg.ShutDownTime = seconds
	return b
}

// Local mounts the guard only under the auth base path.
func (b *Builder) Local() *Builder {
	b.cfg.Global = false
	return b
}

// DisableExceptionFilter keeps fiber's default error handler.
func (b *Builder) DisableExceptionFilter() *Builder {
	b.cfg.DisableExceptionFilter = true
	return b
}

// DisableGlobalAuthGuard skips guard installation.
func (b *Builder) DisableGlobalAuthGuard() *Builder {
	b.cfg.DisableGlobalAuthGuard = true
	return b
}

// DisableTrustedOriginsCORS skips CORS setup.
func (b *Builder) DisableTrustedOriginsCORS() *Builder {
	b.cfg.DisableTrustedOriginsCORS = true
	return b
}

// Build wires the service. A second call returns ErrBuilderUsed.
func (b *Builder) Build() (*Service, error) {
	if b.built {
		return nil, ErrBuilderUsed
	}

	b.built = true

	return New(b.cfg)
}
