// Package daemon wires the configuration into a running bridge: it opens
// the session storage backend, builds the configured provider and starts
// the web service around it.
package daemon

import (
	"context"
	"fmt"

	"github.com/gofiber/storage"
	sessionmysql "github.com/gofiber/storage/mysql/v2"
	sessionpostgres "github.com/gofiber/storage/postgres/v3"
	"github.com/rs/zerolog/log"

	"github.com/GoAuthBridge/GoAuthBridge/internal/config"
	"github.com/GoAuthBridge/GoAuthBridge/internal/logger"
	"github.com/GoAuthBridge/GoAuthBridge/internal/provider"
	"github.com/GoAuthBridge/GoAuthBridge/internal/provider/oidc"
	"github.com/GoAuthBridge/GoAuthBridge/internal/provider/token"
	"github.com/GoAuthBridge/GoAuthBridge/internal/storage/memstore"
	"github.com/GoAuthBridge/GoAuthBridge/internal/storage/redisstore"
	"github.com/GoAuthBridge/GoAuthBridge/internal/web"
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	webService *web.Service
}

// Start starts the Daemon's web service and blocks until shutdown.
func (d *Daemon) Start() error {
	go d.webService.WaitShutdown()

	return d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port))
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		log.Fatal().Msg("config is nil")
		return nil, nil
	}

	if err := logger.Init(cfg.Log); err != nil {
		return nil, err
	}

	authProvider, err := buildProvider(cfg)
	if err != nil {
		return nil, err
	}

	webService, err := web.New(web.Config{
		Provider:                  authProvider,
		BasePath:                  cfg.Webserver.BasePath,
		Global:                    !cfg.Webserver.LocalGuard,
		Log:                       &cfg.Log,
		DisableExceptionFilter:    cfg.Webserver.DisableExceptionFilter,
		DisableGlobalAuthGuard:    cfg.Webserver.DisableGlobalAuthGuard,
		DisableTrustedOriginsCORS: cfg.Webserver.DisableTrustedOriginsCORS,
		ShutDownTime:              cfg.Webserver.ShutDownTime,
	})
	if err != nil {
		return nil, err
	}

	return &Daemon{
		cfg:        cfg,
		webService: webService,
	}, nil
}

// buildProvider creates the configured provider kind.
func buildProvider(cfg *config.Config) (provider.Provider, error) {
	var origins provider.TrustedOrigins
	if len(cfg.Provider.TrustedOrigins) > 0 {
		origins = provider.OriginList(cfg.Provider.TrustedOrigins)
	}

	switch cfg.Provider.Kind {
	case "oidc":
		return oidc.New(context.Background(), oidc.Config{
			Issuer:         cfg.Provider.OIDC.Issuer,
			ClientID:       cfg.Provider.OIDC.ClientID,
			ClientSecret:   cfg.Provider.OIDC.ClientSecret,
			RedirectURL:    cfg.Provider.OIDC.RedirectURL,
			Scopes:         cfg.Provider.OIDC.Scopes,
			CookieName:     cfg.Provider.OIDC.CookieName,
			TrustedOrigins: origins,
			SecureCookies:  cfg.Provider.OIDC.SecureCookies || !cfg.DevMode,
		})
	default: // validated to "token" at config read time
		sessionStorage, err := openStorage(cfg)
		if err != nil {
			return nil, err
		}

		return token.New(token.Config{
			Secret:         cfg.Provider.Token.Secret,
			Storage:        sessionStorage,
			SessionTTL:     cfg.Provider.Token.SessionTTL,
			CookieName:     cfg.Provider.Token.CookieName,
			TrustedOrigins: origins,
			SecureCookies:  cfg.Provider.Token.SecureCookies || !cfg.DevMode,
		})
	}
}

// openStorage opens the configured session storage backend.
func openStorage(cfg *config.Config) (storage.Storage, error) {
	switch cfg.Storage.Backend {
	case "redis":
		store := redisstore.New(cfg.Storage.Redis)

		if err := store.Conn().Ping(context.Background()).Err(); err != nil {
			return nil, err
		}

		return store, nil
	case "mysql":
		return sessionmysql.New(sessionmysql.Config{
			ConnectionURI: cfg.Storage.MySQL.ConnectionURI,
			Table:         cfg.Storage.MySQL.Table,
		}), nil
	case "postgres":
		return sessionpostgres.New(sessionpostgres.Config{
			ConnectionURI: cfg.Storage.Postgres.ConnectionURI,
			Table:         cfg.Storage.Postgres.Table,
		}), nil
	default: // memory
		log.Warn().Msg("using in-memory session storage, sessions do not survive restarts")

		return memstore.New(), nil
	}
}
