package web

import (
	"context"
)

// ConfigProvider produces a module configuration asynchronously, e.g. after
// fetching secrets or performing OIDC discovery.
type ConfigProvider interface {
	CreateConfig(ctx context.Context) (Config, error)
}

// AsyncConfig names exactly one source for the module configuration.
type AsyncConfig struct {
	// Factory builds the configuration.
	Factory func(ctx context.Context) (Config, error)

	// ConfigProvider builds the configuration through an interface value.
	ConfigProvider ConfigProvider

	// Existing is a ready configuration.
	Existing *Config
}

// NewAsync resolves the configuration from its async source and creates the
// service. Naming zero or more than one source is a configuration error,
// raised synchronously before any provider call.
func NewAsync(ctx context.Context, acfg AsyncConfig) (*Service, error) {
	sources := 0
	if acfg.Factory != nil {
		sources++
	}

	if acfg.ConfigProvider != nil {
		sources++
	}

	if acfg.Existing != nil {
		sources++
	}

	switch {
	case sources == 0:
		return nil, ErrAsyncConfigMissing
	case sources > 1:
		return nil, ErrAsyncConfigConflict
	}

	var (
		cfg Config
		err error
	)

	switch {
	case acfg.Factory != nil:
		cfg, err = acfg.Factory(ctx)
	case acfg.ConfigProvider != nil:
		cfg, err = acfg.ConfigProvider.CreateConfig(ctx)
	default:
		cfg = *acfg.Existing
	}

	if err != nil {
		return nil, err
	}

	return New(cfg)
}
