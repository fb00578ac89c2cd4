package token

import (
	"errors"
)

var (
	// ErrUnexpectedSigningMethod is returned for tokens not signed with HMAC.
	ErrUnexpectedSigningMethod = errors.New("token: unexpected signing method")
)
