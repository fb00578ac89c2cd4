package hooks

import (
	"errors"
)

var (
	// ErrNilHook is returned when a nil hook function is registered.
	ErrNilHook = errors.New("hooks: hook function cannot be nil")

	// ErrNilOptions is returned when Apply is called with nil options.
	ErrNilOptions = errors.New("hooks: provider options cannot be nil")

	// ErrRegistrarFrozen is returned for registrations after the hook
	// chain was built.
	ErrRegistrarFrozen = errors.New("hooks: registrar is frozen")
)
