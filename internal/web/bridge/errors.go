package bridge

import (
	"errors"
)

var (
	// ErrNilSource is returned when the source field for the tagged kind is nil.
	ErrNilSource = errors.New("bridge: source for tagged kind is nil")

	// ErrUnknownKind is returned for a source kind without an extraction function.
	ErrUnknownKind = errors.New("bridge: unknown source kind")
)
