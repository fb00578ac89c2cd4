package web

import (
	"errors"
)

var (
	// ErrInvalidConfig is returned when the module configuration fails
	// validation.
	ErrInvalidConfig = errors.New("web: invalid module configuration")

	// ErrNilApp is returned when Attach is called without an app.
	ErrNilApp = errors.New("web: app cannot be nil")

	// ErrNilProviderOptions is returned when the provider reports no options.
	ErrNilProviderOptions = errors.New("web: provider options cannot be nil")

	// ErrAsyncConfigMissing is returned when an async configuration names
	// no source at all.
	ErrAsyncConfigMissing = errors.New("web: async config needs a factory, config provider or existing config")

	// ErrAsyncConfigConflict is returned when an async configuration names
	// more than one source.
	ErrAsyncConfigConflict = errors.New("web: async config must name exactly one source")

	// ErrBuilderUsed is returned when Build is called twice on one builder.
	ErrBuilderUsed = errors.New("web: builder already used")
)
