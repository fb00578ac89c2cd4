package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoAuthBridge/GoAuthBridge/internal/logger"
	logfiber "github.com/GoAuthBridge/GoAuthBridge/internal/logger/adapter/fiber"
	"github.com/GoAuthBridge/GoAuthBridge/internal/provider"
	"github.com/GoAuthBridge/GoAuthBridge/internal/web/bridge"
	"github.com/GoAuthBridge/GoAuthBridge/internal/web/cors"
	"github.com/GoAuthBridge/GoAuthBridge/internal/web/filter"
	"github.com/GoAuthBridge/GoAuthBridge/internal/web/guard"
	"github.com/GoAuthBridge/GoAuthBridge/internal/web/hooks"
)

const (
	// DefaultBasePath is the path prefix provider routes are mounted under
	// when neither the module config nor the provider options set one.
	DefaultBasePath = "/api/auth"

	// CheckAlivePath answers load balancer liveness probes.
	CheckAlivePath = "/checkalive"
)

// Config is the module configuration: the wrapped provider plus feature
// toggles. Constructed once at startup and treated as immutable afterwards.
type Config struct {
	// Provider is the wrapped authentication provider.
	Provider provider.Provider `validate:"required"`

	// BasePath overrides the provider's base path.
	BasePath string

	// Global installs the guard application-wide. When false the guard
	// only covers the base path subtree, which is public, so other routes
	// stay unguarded; mount guard.New on your own route groups to protect
	// them.
	Global bool

	// Hooks is an optional pre-populated hook registrar, spliced into the
	// provider options before serving starts.
	Hooks *hooks.Registrar

	// Log enables the access log middleware when set.
	Log *logger.Log

	// DisableExceptionFilter keeps fiber's default error handler.
	DisableExceptionFilter bool

	// DisableGlobalAuthGuard skips guard installation entirely.
	DisableGlobalAuthGuard bool

	// DisableTrustedOriginsCORS skips CORS setup even when the provider
	// configures trusted origins.
	DisableTrustedOriginsCORS bool

	// ShutDownTime is how long WaitShutdown keeps answering liveness
	// probes with 503 before stopping, in seconds. Defaults to 5.
	ShutDownTime int
}

// Service represents the web service wrapping the provider.
type Service struct {
	App *fiber.App

	cfg      Config
	basePath string
	registry *guard.Registry
	alive    atomic.Bool
}

var validate = validator.New()

// New creates a new web service from the module configuration. All
// configuration errors surface here, synchronously, and are fatal to
// startup.
func New(cfg Config) (*Service, error) {
	if err := validate.Struct(cfg); err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}

	fiberCfg := fiber.Config{
		ReadBufferSize: 8192,
		AppName:        "GoAuthBridge",
		CaseSensitive:  true,
		Immutable:      true,
	}

	if !cfg.DisableExceptionFilter {
		fiberCfg.ErrorHandler = filter.New()
	}

	return wire(fiber.New(fiberCfg), cfg)
}

// Attach wires the bridge onto an app the caller owns: guard, CORS, access
// log and the provider routes are installed the same way New does it.
// Application routes must be registered after Attach, fiber matches
// handlers in registration order. The error handler is fixed at app
// creation, so DisableExceptionFilter is ignored here; pass filter.New()
// as the app's ErrorHandler to get the JSON error shape.
func Attach(app *fiber.App, cfg Config) (*Service, error) {
	if app == nil {
		return nil, ErrNilApp
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}

	return wire(app, cfg)
}

func wire(app *fiber.App, cfg Config) (*Service, error) {
	opts := cfg.Provider.Options()
	if opts == nil {
		return nil, ErrNilProviderOptions
	}

	if cfg.Hooks != nil {
		if err := cfg.Hooks.Apply(opts); err != nil {
			return nil, err
		}
	}

	service := &Service{
		App:      app,
		cfg:      cfg,
		basePath: resolveBasePath(cfg, opts),
		registry: guard.NewRegistry(),
	}
	service.alive.Store(true)

	// keep the provider's idea of the base path in sync with the mount
	// point, before any request is in flight
	opts.BasePath = service.basePath

	if cfg.Log != nil {
		app.Use(logfiber.New(logfiber.Config{
			Config:        *cfg.Log,
			CheckAliveURI: CheckAlivePath,
		}))
	}

	if !cfg.DisableTrustedOriginsCORS {
		corsHandler, err := cors.Middleware(opts.TrustedOrigins)
		if err != nil {
			return nil, err
		}

		if corsHandler != nil {
			app.Use(corsHandler)
		}
	}

	// The provider serves its own auth routes; the guard must not demand a
	// session to reach them. Liveness probes are public as well.
	service.registry.Register(service.basePath, guard.AccessPublic)
	service.registry.Register(service.basePath+"/*", guard.AccessPublic)
	service.registry.Register(CheckAlivePath, guard.AccessPublic)

	if !cfg.DisableGlobalAuthGuard {
		guardHandler := guard.New(cfg.Provider, service.registry)

		if cfg.Global {
			app.Use(guardHandler)
		} else {
			app.Use(service.basePath, guardHandler)
		}
	}

	app.Get(CheckAlivePath, service.checkAlive)

	app.All(service.basePath, service.handleAuth)
	app.All(service.basePath+"/*", service.handleAuth)

	return service, nil
}

// Routes returns the route metadata registry. Access levels must be
// registered before Start; the registry is frozen once serving begins.
func (s *Service) Routes() *guard.Registry {
	return s.registry
}

// BasePath returns the resolved auth base path.
func (s *Service) BasePath() string {
	return s.basePath
}

// handleAuth forwards the request to the provider and mirrors the response.
func (s *Service) handleAuth(c *fiber.Ctx) error {
	resp, err := s.cfg.Provider.Handle(c.UserContext(), bridge.FromFiber(c))
	if err != nil {
		return err
	}

	return bridge.WriteResponse(c, resp)
}

// checkAlive reports liveness; returns 503 while shutting down.
func (s *Service) checkAlive(c *fiber.Ctx) error {
	if !s.alive.Load() {
		return c.SendStatus(fiber.StatusServiceUnavailable)
	}

	return c.SendStatus(fiber.StatusOK)
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	s.registry.Freeze()

	var doneFiber = make(chan bool)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown waits for a termination signal and shuts the service down
// gracefully.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	shutDownTime := s.cfg.ShutDownTime
	if shutDownTime == 0 {
		shutDownTime = 5
	}

	// Graceful shutdown for reverse proxies: fail the liveness probe first
	// so the LB removes this pod from active targets.
	log.Info().Msgf(
		"graceful shutdown: return 503 for %d seconds to let LB remove this pod from active targets",
		shutDownTime,
	)

	s.alive.Store(false)
	time.Sleep(time.Duration(shutDownTime) * time.Second)

	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		if err := s.App.Shutdown(); err != nil {
			log.Error().Err(err).Msg("")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown
	log.Info().Msg("http server was stopped ... good bye...")
}

func resolveBasePath(cfg Config, opts *provider.Options) string {
	switch {
	case cfg.BasePath != "":
		return cfg.BasePath
	case opts.BasePath != "":
		return opts.BasePath
	default:
		return DefaultBasePath
	}
}
