package cors

import (
	"errors"
)

var (
	// ErrUnsupportedOrigins is returned for a trusted-origins value that is
	// neither a static list nor an origin function.
	ErrUnsupportedOrigins = errors.New("cors: unsupported trusted origins setting")
)
