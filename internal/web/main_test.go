package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/GoAuthBridge/GoAuthBridge/internal/provider"
	"github.com/GoAuthBridge/GoAuthBridge/internal/web/filter"
	"github.com/GoAuthBridge/GoAuthBridge/internal/web/guard"
	"github.com/GoAuthBridge/GoAuthBridge/internal/web/hooks"
)

// fakeProvider serves a single /whoami route and resolves a session from
// the Authorization header. It runs its hook slots the way real providers
// do, so hook splicing is observable end to end.
type fakeProvider struct {
	opts         provider.Options
	sessionCalls atomic.Int32
	session      *provider.Session
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		session: &provider.Session{
			ID:     "sess-1",
			UserID: "user-1",
			User:   &provider.User{ID: "user-1", Name: "Alice"},
		},
	}
}

func (f *fakeProvider) Handle(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	path, err := provider.RoutePath(req, f.opts.BasePath)
	if err != nil {
		return nil, err
	}

	hc := &provider.HookContext{Path: path, Request: req}
	if err := f.opts.Hooks.RunBefore(ctx, hc); err != nil {
		return nil, err
	}

	var resp *provider.Response

	switch path {
	case "/whoami":
		resp = &provider.Response{
			Status: fiber.StatusOK,
			Body:   []byte(`{"user":"user-1"}`),
		}
	default:
		return nil, provider.NewAPIError(fiber.StatusNotFound, "NOT_FOUND", "Unknown auth route")
	}

	if err := f.opts.Hooks.RunAfter(ctx, hc); err != nil {
		return nil, err
	}

	return resp, nil
}

func (f *fakeProvider) Session(_ context.Context, req *provider.Request) (*provider.Session, error) {
	f.sessionCalls.Add(1)

	if provider.BearerToken(req) == "valid" {
		return f.session, nil
	}

	return nil, nil
}

func (f *fakeProvider) Options() *provider.Options {
	return &f.opts
}

func newTestService(t *testing.T, cfg Config) *Service {
	t.Helper()

	svc, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	return svc
}

func performAuthorized(t *testing.T, svc *Service, path, token string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := svc.App.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}

	return resp
}

func TestNewRejectsMissingProvider(t *testing.T) {
	if _, err := New(Config{}); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("New() without provider error = %v, want ErrInvalidConfig", err)
	}
}

func TestBasePathResolution(t *testing.T) {
	p := newFakeProvider()

	svc := newTestService(t, Config{Provider: p, Global: true})
	if svc.BasePath() != DefaultBasePath {
		t.Errorf("default base path = %q, want %q", svc.BasePath(), DefaultBasePath)
	}

	// the provider sees the resolved mount point
	if p.opts.BasePath != DefaultBasePath {
		t.Errorf("provider base path = %q, want %q", p.opts.BasePath, DefaultBasePath)
	}

	p2 := newFakeProvider()
	p2.opts.BasePath = "/auth/v1"

	svc = newTestService(t, Config{Provider: p2, Global: true})
	if svc.BasePath() != "/auth/v1" {
		t.Errorf("provider-set base path = %q, want /auth/v1", svc.BasePath())
	}

	p3 := newFakeProvider()
	p3.opts.BasePath = "/auth/v1"

	svc = newTestService(t, Config{Provider: p3, BasePath: "/override", Global: true})
	if svc.BasePath() != "/override" || p3.opts.BasePath != "/override" {
		t.Errorf("config base path override = %q / %q, want /override", svc.BasePath(), p3.opts.BasePath)
	}
}

func TestProviderRoutesAreMirroredAndPublic(t *testing.T) {
	p := newFakeProvider()
	svc := newTestService(t, Config{Provider: p, Global: true})

	resp := performAuthorized(t, svc, DefaultBasePath+"/whoami", "")
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	if string(body) != `{"user":"user-1"}` {
		t.Fatalf("body = %q", body)
	}

	if calls := p.sessionCalls.Load(); calls != 0 {
		t.Fatalf("Session called %d times for a provider route, want 0", calls)
	}
}

func TestProtectedRouteWithoutSession(t *testing.T) {
	p := newFakeProvider()
	svc := newTestService(t, Config{Provider: p, Global: true})
	svc.App.Get("/profile", func(c *fiber.Ctx) error { return c.SendString("secret") })

	resp := performAuthorized(t, svc, "/profile", "")
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}

	var errBody filter.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errBody); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}

	if errBody.StatusCode != fiber.StatusUnauthorized ||
		errBody.Error != "UNAUTHORIZED" ||
		errBody.Message != "Authentication required" ||
		errBody.Path != "/profile" {
		t.Fatalf("error body = %+v", errBody)
	}

	if _, err := time.Parse("2006-01-02T15:04:05.000Z07:00", errBody.Timestamp); err != nil {
		t.Fatalf("timestamp %q does not parse: %v", errBody.Timestamp, err)
	}
}

func TestProtectedRouteWithSession(t *testing.T) {
	p := newFakeProvider()
	svc := newTestService(t, Config{Provider: p, Global: true})
	svc.App.Get("/profile", func(c *fiber.Ctx) error {
		sess := guard.SessionFrom(c)
		if sess == nil {
			t.Error("session missing on protected route")
			return c.SendStatus(fiber.StatusInternalServerError)
		}

		if sess != p.session {
			t.Error("attached session is not the provider's pointer")
		}

		return c.SendString(sess.UserID)
	})

	resp := performAuthorized(t, svc, "/profile", "valid")
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	if string(body) != "user-1" {
		t.Fatalf("body = %q, want user-1", body)
	}
}

func TestBasePathSiblingsStayGuarded(t *testing.T) {
	p := newFakeProvider()
	svc := newTestService(t, Config{Provider: p, Global: true})
	svc.App.Get(DefaultBasePath+"z", func(c *fiber.Ctx) error { return c.SendString("sibling") })

	// a route that string-extends the base path without a "/" is not part
	// of the public provider subtree
	resp := performAuthorized(t, svc, DefaultBasePath+"z", "")
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("sibling route status = %d, want 401", resp.StatusCode)
	}
}

func TestOptionalRoute(t *testing.T) {
	p := newFakeProvider()
	svc := newTestService(t, Config{Provider: p, Global: true})
	svc.Routes().Register("/feed", guard.AccessOptional)
	svc.App.Get("/feed", func(c *fiber.Ctx) error {
		if guard.SessionFrom(c) != nil {
			return c.SendString("personalized")
		}

		return c.SendString("generic")
	})

	resp := performAuthorized(t, svc, "/feed", "")
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if resp.StatusCode != fiber.StatusOK || string(body) != "generic" {
		t.Fatalf("anonymous feed = %d %q, want 200 generic", resp.StatusCode, body)
	}

	resp = performAuthorized(t, svc, "/feed", "valid")
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()

	if resp.StatusCode != fiber.StatusOK || string(body) != "personalized" {
		t.Fatalf("authenticated feed = %d %q, want 200 personalized", resp.StatusCode, body)
	}
}

func TestLocalGuardLeavesAppRoutesAlone(t *testing.T) {
	p := newFakeProvider()
	svc := newTestService(t, Config{Provider: p, Global: false})
	svc.App.Get("/unguarded", func(c *fiber.Ctx) error { return c.SendString("open") })

	resp := performAuthorized(t, svc, "/unguarded", "")
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200: local guard must not cover app routes", resp.StatusCode)
	}

	if calls := p.sessionCalls.Load(); calls != 0 {
		t.Fatalf("Session called %d times outside the base path, want 0", calls)
	}
}

func TestDisableGlobalAuthGuard(t *testing.T) {
	p := newFakeProvider()
	svc := newTestService(t, Config{Provider: p, Global: true, DisableGlobalAuthGuard: true})
	svc.App.Get("/anything", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	resp := performAuthorized(t, svc, "/anything", "")
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200 with the guard disabled", resp.StatusCode)
	}
}

func TestDisableExceptionFilter(t *testing.T) {
	p := newFakeProvider()
	svc := newTestService(t, Config{Provider: p, Global: true, DisableExceptionFilter: true})

	resp := performAuthorized(t, svc, "/nope", "")
	defer resp.Body.Close()

	// fiber's default error handler answers with a plain text body
	if strings.Contains(resp.Header.Get(fiber.HeaderContentType), "application/json") {
		t.Fatalf("content type = %q, want non-JSON with the filter disabled", resp.Header.Get(fiber.HeaderContentType))
	}
}

func TestHookRegistrarSplicing(t *testing.T) {
	var order []string

	p := newFakeProvider()
	p.opts.Hooks.Before = func(context.Context, *provider.HookContext) error {
		order = append(order, "provider-before")
		return nil
	}

	reg := hooks.NewRegistrar()
	_ = reg.Before("", func(_ context.Context, hc *provider.HookContext) error {
		order = append(order, "before:"+hc.Path)
		return nil
	})
	_ = reg.After("/whoami", func(context.Context, *provider.HookContext) error {
		order = append(order, "after-whoami")
		return nil
	})

	svc := newTestService(t, Config{Provider: p, Global: true, Hooks: reg})

	resp := performAuthorized(t, svc, DefaultBasePath+"/whoami", "")
	resp.Body.Close()

	want := []string{"provider-before", "before:/whoami", "after-whoami"}
	if len(order) != len(want) {
		t.Fatalf("hook order = %v, want %v", order, want)
	}

	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("hook order = %v, want %v", order, want)
		}
	}

	// the registrar is spent after wiring
	if err := reg.Before("", func(context.Context, *provider.HookContext) error { return nil }); err == nil {
		t.Fatal("registrar accepted a hook after the service was built")
	}
}

func TestHookErrorSurfacesThroughFilter(t *testing.T) {
	p := newFakeProvider()

	reg := hooks.NewRegistrar()
	_ = reg.Before("", func(context.Context, *provider.HookContext) error {
		return provider.NewAPIError(fiber.StatusForbidden, "BLOCKED", "Tenant suspended")
	})

	svc := newTestService(t, Config{Provider: p, Global: true, Hooks: reg})

	resp := performAuthorized(t, svc, DefaultBasePath+"/whoami", "")
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("status = %d, want 403", resp.StatusCode)
	}

	var errBody filter.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errBody); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}

	if errBody.Error != "BLOCKED" {
		t.Fatalf("error = %q, want BLOCKED", errBody.Error)
	}
}

func TestTrustedOriginsCORS(t *testing.T) {
	p := newFakeProvider()
	p.opts.TrustedOrigins = provider.OriginList{"http://app.example"}

	svc := newTestService(t, Config{Provider: p, Global: true})

	req := httptest.NewRequest(http.MethodGet, DefaultBasePath+"/whoami", nil)
	req.Header.Set(fiber.HeaderOrigin, "http://app.example")

	resp, err := svc.App.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}
	defer resp.Body.Close()

	if got := resp.Header.Get(fiber.HeaderAccessControlAllowOrigin); got != "http://app.example" {
		t.Fatalf("Allow-Origin = %q, want the trusted origin", got)
	}
}

func TestDisableTrustedOriginsCORS(t *testing.T) {
	p := newFakeProvider()
	p.opts.TrustedOrigins = provider.OriginList{"http://app.example"}

	svc := newTestService(t, Config{Provider: p, Global: true, DisableTrustedOriginsCORS: true})

	req := httptest.NewRequest(http.MethodGet, DefaultBasePath+"/whoami", nil)
	req.Header.Set(fiber.HeaderOrigin, "http://app.example")

	resp, err := svc.App.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}
	defer resp.Body.Close()

	if got := resp.Header.Get(fiber.HeaderAccessControlAllowOrigin); got != "" {
		t.Fatalf("Allow-Origin = %q with CORS disabled, want empty", got)
	}
}

func TestCheckAlive(t *testing.T) {
	p := newFakeProvider()
	svc := newTestService(t, Config{Provider: p, Global: true})

	resp := performAuthorized(t, svc, CheckAlivePath, "")
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	// a draining service fails the probe
	svc.alive.Store(false)

	resp2 := performAuthorized(t, svc, CheckAlivePath, "")
	defer resp2.Body.Close()

	if resp2.StatusCode != fiber.StatusServiceUnavailable {
		t.Fatalf("draining status = %d, want 503", resp2.StatusCode)
	}
}

func TestAttach(t *testing.T) {
	if _, err := Attach(nil, Config{Provider: newFakeProvider()}); !errors.Is(err, ErrNilApp) {
		t.Fatalf("Attach(nil) error = %v, want ErrNilApp", err)
	}

	p := newFakeProvider()
	app := fiber.New(fiber.Config{ErrorHandler: filter.New()})

	svc, err := Attach(app, Config{Provider: p, Global: true})
	if err != nil {
		t.Fatalf("Attach() error = %v", err)
	}

	if svc.App != app {
		t.Fatal("Attach() must wire the caller's app")
	}

	app.Get("/mine", func(c *fiber.Ctx) error { return c.SendString("mine") })

	// provider routes answer on the caller's app
	resp := performAuthorized(t, svc, DefaultBasePath+"/whoami", "")
	resp.Body.Close()

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("provider route status = %d, want 200", resp.StatusCode)
	}

	// app routes added after attaching are guarded
	resp = performAuthorized(t, svc, "/mine", "")
	resp.Body.Close()

	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("app route status = %d, want 401", resp.StatusCode)
	}

	resp = performAuthorized(t, svc, "/mine", "valid")
	resp.Body.Close()

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("app route with session status = %d, want 200", resp.StatusCode)
	}
}

func TestBuilder(t *testing.T) {
	p := newFakeProvider()

	b := NewBuilder().
		WithProvider(p).
		WithBasePath("/auth").
		WithShutDownTime(1).
		Local()

	svc, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if svc.BasePath() != "/auth" {
		t.Fatalf("base path = %q, want /auth", svc.BasePath())
	}

	if _, err := b.Build(); !errors.Is(err, ErrBuilderUsed) {
		t.Fatalf("second Build() error = %v, want ErrBuilderUsed", err)
	}
}

func TestNewAsync(t *testing.T) {
	ctx := context.Background()

	if _, err := NewAsync(ctx, AsyncConfig{}); !errors.Is(err, ErrAsyncConfigMissing) {
		t.Fatalf("NewAsync(empty) error = %v, want ErrAsyncConfigMissing", err)
	}

	p := newFakeProvider()
	cfg := Config{Provider: p, Global: true}

	conflicting := AsyncConfig{
		Existing: &cfg,
		Factory:  func(context.Context) (Config, error) { return cfg, nil },
	}
	if _, err := NewAsync(ctx, conflicting); !errors.Is(err, ErrAsyncConfigConflict) {
		t.Fatalf("NewAsync(conflict) error = %v, want ErrAsyncConfigConflict", err)
	}

	svc, err := NewAsync(ctx, AsyncConfig{Existing: &cfg})
	if err != nil || svc == nil {
		t.Fatalf("NewAsync(existing) = %v, %v", svc, err)
	}

	factoryErr := errors.New("secrets backend down")
	if _, err := NewAsync(ctx, AsyncConfig{
		Factory: func(context.Context) (Config, error) { return Config{}, factoryErr },
	}); !errors.Is(err, factoryErr) {
		t.Fatalf("NewAsync(failing factory) error = %v, want %v", err, factoryErr)
	}
}

type staticConfigProvider struct {
	cfg Config
}

func (s staticConfigProvider) CreateConfig(context.Context) (Config, error) {
	return s.cfg, nil
}

func TestNewAsyncConfigProvider(t *testing.T) {
	p := newFakeProvider()

	svc, err := NewAsync(context.Background(), AsyncConfig{
		ConfigProvider: staticConfigProvider{cfg: Config{Provider: p, Global: true}},
	})
	if err != nil {
		t.Fatalf("NewAsync(config provider) error = %v", err)
	}

	resp := performAuthorized(t, svc, DefaultBasePath+"/whoami", "")
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}
