// Package oidc implements an OpenID Connect backed authentication provider:
// sign-in redirects into the issuer's authorization endpoint, the callback
// exchanges the code and hands the verified ID token back as a cookie, and
// session lookup verifies the bearer or cookie ID token against the issuer.
package oidc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/go-playground/validator/v10"
	"golang.org/x/oauth2"

	"github.com/GoAuthBridge/GoAuthBridge/internal/provider"
	"github.com/GoAuthBridge/GoAuthBridge/internal/uniuri"
)

const (
	defaultCookieName = "auth_id_token"
	stateCookieName   = "auth_oidc_state"

	// state cookies only need to survive the round trip to the issuer
	stateTTL = 10 * time.Minute
)

// Config holds OpenID Connect provider settings.
type Config struct {
	// Issuer is the OIDC provider's discovery URL (e.g. "https://accounts.google.com").
	Issuer string `validate:"required,url"`

	// ClientID is the OAuth2 client identifier.
	ClientID string `validate:"required"`

	// ClientSecret is the OAuth2 client secret.
	ClientSecret string

	// RedirectURL is the OAuth2 callback URL where the issuer redirects
	// after authentication.
	RedirectURL string `validate:"required,url"`

	// Scopes are the OAuth2 scopes to request (default: openid, profile, email).
	Scopes []string

	// CookieName defaults to "auth_id_token".
	CookieName string

	// BasePath the provider expects to be mounted under.
	BasePath string

	// TrustedOrigins drives the bridge's CORS setup.
	TrustedOrigins provider.TrustedOrigins

	// SecureCookies sets the Secure flag on issued cookies.
	SecureCookies bool
}

// Provider is the OIDC backed provider. It is stateless: the session is the
// verified ID token.
type Provider struct {
	cfg      Config
	opts     *provider.Options
	verifier *oidc.IDTokenVerifier
	oauth2   oauth2.Config
}

var validate = validator.New()

// New creates an OIDC provider, running issuer discovery.
func New(ctx context.Context, cfg Config) (*Provider, error) {
	if err := validate.Struct(cfg); err != nil {
		return nil, err
	}

	if cfg.CookieName == "" {
		cfg.CookieName = defaultCookieName
	}

	oidcProvider, err := oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to create OIDC provider: %w", err)
	}

	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{oidc.ScopeOpenID, "profile", "email"}
	}

	return &Provider{
		cfg: cfg,
		opts: &provider.Options{
			BasePath:       cfg.BasePath,
			TrustedOrigins: cfg.TrustedOrigins,
		},
		verifier: oidcProvider.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
		oauth2: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     oidcProvider.Endpoint(),
			Scopes:       scopes,
		},
	}, nil
}

// Options returns the provider configuration.
func (p *Provider) Options() *provider.Options {
	return p.opts
}

// Handle serves the provider routes, invoking the before/after hooks around
// each one.
func (p *Provider) Handle(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	path, err := provider.RoutePath(req, p.opts.BasePath)
	if err != nil {
		return nil, err
	}

	hc := &provider.HookContext{Path: path, Request: req}

	if err = p.opts.Hooks.RunBefore(ctx, hc); err != nil {
		return nil, err
	}

	resp, err := p.route(ctx, path, req)
	if err != nil {
		return nil, err
	}

	if err = p.opts.Hooks.RunAfter(ctx, hc); err != nil {
		return nil, err
	}

	return resp, nil
}

func (p *Provider) route(ctx context.Context, path string, req *provider.Request) (*provider.Response, error) {
	switch {
	case path == "/sign-in" && req.Method == http.MethodGet:
		return p.signIn()
	case path == "/callback" && req.Method == http.MethodGet:
		return p.callback(ctx, req)
	case path == "/get-session" && req.Method == http.MethodGet:
		return p.getSession(ctx, req)
	default:
		return nil, provider.NewAPIError(http.StatusNotFound, "NOT_FOUND", "Route not found")
	}
}

// signIn redirects into the issuer's authorization endpoint with a random
// state token kept in a short lived cookie.
func (p *Provider) signIn() (*provider.Response, error) {
	state := uniuri.NewLen(32)

	return &provider.Response{
		Status: http.StatusFound,
		Headers: map[string]string{
			"Location":   p.oauth2.AuthCodeURL(state),
			"Set-Cookie": p.cookie(stateCookieName, state, stateTTL).String(),
		},
	}, nil
}

// callback exchanges the authorization code, verifies the ID token and
// answers with it as the session cookie.
func (p *Provider) callback(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	u, err := url.Parse(req.URL)
	if err != nil {
		return nil, err
	}

	query := u.Query()

	state := provider.CookieValue(req, stateCookieName)
	if state == "" || query.Get("state") != state {
		return nil, provider.NewAPIError(http.StatusBadRequest, "INVALID_STATE", "State mismatch")
	}

	code := query.Get("code")
	if code == "" {
		return nil, provider.NewAPIError(http.StatusBadRequest, "MISSING_CODE", "Missing authorization code")
	}

	oauth2Token, err := p.oauth2.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange token: %w", err)
	}

	rawIDToken, ok := oauth2Token.Extra("id_token").(string)
	if !ok {
		return nil, ErrNoIDToken
	}

	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("failed to verify ID token: %w", err)
	}

	sess, err := p.sessionFromToken(idToken)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(map[string]any{
		"token": rawIDToken,
		"user":  sess.User,
	})
	if err != nil {
		return nil, err
	}

	ttl := time.Until(idToken.Expiry)

	return &provider.Response{
		Status: http.StatusOK,
		Headers: map[string]string{
			"Content-Type": "application/json",
			"Set-Cookie":   p.cookie(p.cfg.CookieName, rawIDToken, ttl).String(),
		},
		Body: body,
	}, nil
}

func (p *Provider) getSession(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	sess, err := p.Session(ctx, req)
	if err != nil {
		return nil, err
	}

	var body []byte
	if body, err = json.Marshal(sess); err != nil {
		return nil, err
	}

	return &provider.Response{
		Status:  http.StatusOK,
		Headers: map[string]string{"Content-Type": "application/json"},
		Body:    body,
	}, nil
}

// Session verifies the bearer or cookie ID token. An absent or invalid
// token yields nil without error.
func (p *Provider) Session(ctx context.Context, req *provider.Request) (*provider.Session, error) {
	raw := provider.BearerToken(req)
	if raw == "" {
		raw = provider.CookieValue(req, p.cfg.CookieName)
	}

	if raw == "" {
		return nil, nil
	}

	idToken, err := p.verifier.Verify(ctx, raw)
	if err != nil {
		// expired or tampered tokens mean "no session", not a failure
		return nil, nil //nolint:nilerr
	}

	return p.sessionFromToken(idToken)
}

func (p *Provider) sessionFromToken(idToken *oidc.IDToken) (*provider.Session, error) {
	var claims struct {
		Subject string `json:"sub"`
		Name    string `json:"name"`
		Email   string `json:"email"`
	}

	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("failed to parse ID token claims: %w", err)
	}

	all := make(map[string]any)
	_ = idToken.Claims(&all)

	return &provider.Session{
		ID:        claims.Subject,
		UserID:    claims.Subject,
		CreatedAt: idToken.IssuedAt.Unix(),
		ExpiresAt: idToken.Expiry.Unix(),
		User: &provider.User{
			ID:     claims.Subject,
			Name:   claims.Name,
			Email:  claims.Email,
			Claims: all,
		},
	}, nil
}

func (p *Provider) cookie(name, value string, maxAge time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Secure:   p.cfg.SecureCookies,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
