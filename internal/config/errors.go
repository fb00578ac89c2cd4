package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("toml config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("toml config webserver.port listening port can not be 0")

	// ErrUnknownProviderKind error if provider.kind is not a supported provider.
	ErrUnknownProviderKind = errors.New("toml config provider.kind must be token or oidc")

	// ErrTokenSecretRequired error if the token provider has no signing secret.
	ErrTokenSecretRequired = errors.New("toml config provider.token.secret can not be empty")

	// ErrOIDCIssuerRequired error if the oidc provider has no issuer URL.
	ErrOIDCIssuerRequired = errors.New("toml config provider.oidc.issuer can not be empty")

	// ErrOIDCClientIDRequired error if the oidc provider has no client id.
	ErrOIDCClientIDRequired = errors.New("toml config provider.oidc.clientID can not be empty")

	// ErrUnknownStorageBackend error if storage.backend is not supported.
	ErrUnknownStorageBackend = errors.New("toml config storage.backend must be memory, redis, mysql or postgres")
)
