package config

import (
	"time"

	"github.com/GoAuthBridge/GoAuthBridge/internal/logger"
	"github.com/GoAuthBridge/GoAuthBridge/internal/storage/redisstore"
)

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	Title     string
	Log       logger.Log
	Webserver Webserver
	Provider  Provider
	Storage   Storage
}

// Webserver implement webserver settings.
type Webserver struct {
	Domain       string // domain name for the webserver
	Port         int    // listening port for the webserver
	ShutDownTime int    // wait time for shutdown
	URL          string // base url for the webserver

	// BasePath the provider routes are mounted under. Empty keeps the
	// provider's own base path.
	BasePath string

	// LocalGuard mounts the guard only under the base path instead of
	// application-wide.
	LocalGuard bool

	DisableExceptionFilter    bool
	DisableGlobalAuthGuard    bool
	DisableTrustedOriginsCORS bool
}

// Provider selects and configures the wrapped authentication provider.
type Provider struct {
	// Kind is "token" or "oidc".
	Kind string

	// TrustedOrigins is the static list of origins permitted for
	// cross-origin requests.
	TrustedOrigins []string

	Token TokenProvider
	OIDC  OIDCProvider
}

// TokenProvider holds the storage backed provider settings.
type TokenProvider struct {
	Secret        string
	SessionTTL    time.Duration
	CookieName    string
	SecureCookies bool
}

// OIDCProvider holds the OpenID Connect provider settings.
type OIDCProvider struct {
	Issuer        string
	ClientID      string
	ClientSecret  string
	RedirectURL   string
	Scopes        []string
	CookieName    string
	SecureCookies bool
}

// Storage selects the session storage backend.
type Storage struct {
	// Backend is "memory", "redis", "mysql" or "postgres".
	Backend string

	Redis    redisstore.Config
	MySQL    SQLStorage
	Postgres SQLStorage
}

// SQLStorage holds connection settings for the SQL backed storages.
type SQLStorage struct {
	ConnectionURI string `toml:"connectionURI"`
	Table         string `toml:"table"`
}
