package oidc

import (
	"errors"
)

var (
	// ErrNoIDToken is returned when the token exchange yields no ID token.
	ErrNoIDToken = errors.New("oidc: no id_token in token response")
)
