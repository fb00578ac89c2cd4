// Package token implements a storage backed authentication provider:
// anonymous sign-in issues an HMAC signed session cookie whose ID keys a
// session record with TTL in a storage backend. It is the bundled delegate
// the bridge daemon fronts when no external provider is configured.
package token

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/storage"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/GoAuthBridge/GoAuthBridge/internal/provider"
)

const (
	defaultCookieName = "auth_session_token"
	defaultSessionTTL = 24 * time.Hour

	sessionKeyPrefix = "session:"
)

// Config holds the token provider settings.
type Config struct {
	// Secret is the HMAC key session cookies are signed with.
	Secret string `validate:"required,min=16"`

	// Storage persists session records.
	Storage storage.Storage `validate:"required"`

	// SessionTTL is the session lifetime. Defaults to 24 hours.
	SessionTTL time.Duration

	// CookieName defaults to "auth_session_token".
	CookieName string

	// BasePath the provider expects to be mounted under.
	BasePath string

	// TrustedOrigins drives the bridge's CORS setup.
	TrustedOrigins provider.TrustedOrigins

	// SecureCookies sets the Secure flag on issued cookies.
	SecureCookies bool
}

// Provider is the storage backed provider.
type Provider struct {
	cfg  Config
	opts *provider.Options
}

var validate = validator.New()

// New creates a token provider from the given config.
func New(cfg Config) (*Provider, error) {
	if err := validate.Struct(cfg); err != nil {
		return nil, err
	}

	if cfg.SessionTTL == 0 {
		cfg.SessionTTL = defaultSessionTTL
	}

	if cfg.CookieName == "" {
		cfg.CookieName = defaultCookieName
	}

	return &Provider{
		cfg: cfg,
		opts: &provider.Options{
			BasePath:       cfg.BasePath,
			TrustedOrigins: cfg.TrustedOrigins,
		},
	}, nil
}

// Options returns the provider configuration.
func (p *Provider) Options() *provider.Options {
	return p.opts
}

// Handle serves the provider routes, invoking the before/after hooks around
// each one. Hook errors abort the operation.
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
	case path == "/ok" && req.Method == http.MethodGet:
		return jsonResponse(http.StatusOK, map[string]bool{"ok": true})
	case path == "/sign-in/anonymous" && req.Method == http.MethodPost:
		return p.signInAnonymous()
	case path == "/get-session" && req.Method == http.MethodGet:
		return p.getSession(ctx, req)
	case path == "/sign-out" && req.Method == http.MethodPost:
		return p.signOut(ctx, req)
	default:
		return nil, provider.NewAPIError(http.StatusNotFound, "NOT_FOUND", "Route not found")
	}
}

// signInAnonymous creates a fresh anonymous user with a stored session and
// answers with the signed session cookie.
func (p *Provider) signInAnonymous() (*provider.Response, error) {
	now := time.Now()

	user := &provider.User{
		ID:        uuid.NewString(),
		Anonymous: true,
	}

	sess := &provider.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		User:      user,
		CreatedAt: now.Unix(),
		ExpiresAt: now.Add(p.cfg.SessionTTL).Unix(),
	}

	if err := p.store(sess); err != nil {
		return nil, err
	}

	token, err := p.sign(sess)
	if err != nil {
		return nil, err
	}

	resp, err := jsonResponse(http.StatusOK, map[string]any{
		"token": token,
		"user":  user,
	})
	if err != nil {
		return nil, err
	}

	resp.Headers["Set-Cookie"] = p.cookie(token, p.cfg.SessionTTL).String()

	return resp, nil
}

func (p *Provider) getSession(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	sess, err := p.Session(ctx, req)
	if err != nil {
		return nil, err
	}

	if sess == nil {
		// no session is not an error, mirror an explicit null
		return jsonResponse(http.StatusOK, nil)
	}

	return jsonResponse(http.StatusOK, sess)
}

func (p *Provider) signOut(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	sess, err := p.Session(ctx, req)
	if err != nil {
		return nil, err
	}

	if sess != nil {
		if err = p.cfg.Storage.Delete(sessionKeyPrefix + sess.ID); err != nil {
			log.Error().Err(err).Str("session_id", sess.ID).Msg("failed to delete session")
		}
	}

	resp, err := jsonResponse(http.StatusOK, map[string]bool{"success": true})
	if err != nil {
		return nil, err
	}

	// expire the cookie regardless of whether a session existed
	resp.Headers["Set-Cookie"] = p.cookie("", -time.Second).String()

	return resp, nil
}

// Session resolves the session carried by the request's bearer token or
// session cookie. A missing, malformed or expired token yields nil without
// error; only storage failures surface.
func (p *Provider) Session(_ context.Context, req *provider.Request) (*provider.Session, error) {
	token := provider.BearerToken(req)
	if token == "" {
		token = provider.CookieValue(req, p.cfg.CookieName)
	}

	if token == "" {
		return nil, nil
	}

	sessionID, ok := p.verify(token)
	if !ok {
		return nil, nil
	}

	data, err := p.cfg.Storage.Get(sessionKeyPrefix + sessionID)
	if err != nil {
		return nil, err
	}

	if len(data) == 0 {
		return nil, nil
	}

	sess := new(provider.Session)
	if err = json.Unmarshal(data, sess); err != nil {
		return nil, err
	}

	if sess.ExpiresAt != 0 && time.Now().Unix() >= sess.ExpiresAt {
		return nil, nil
	}

	return sess, nil
}

func (p *Provider) store(sess *provider.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}

	return p.cfg.Storage.Set(sessionKeyPrefix+sess.ID, data, p.cfg.SessionTTL)
}

// sign wraps the session ID in an HMAC signed token.
func (p *Provider) sign(sess *provider.Session) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   sess.UserID,
		ID:        sess.ID,
		IssuedAt:  jwt.NewNumericDate(time.Unix(sess.CreatedAt, 0)),
		ExpiresAt: jwt.NewNumericDate(time.Unix(sess.ExpiresAt, 0)),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(p.cfg.Secret))
}

// verify checks the token signature and returns the embedded session ID.
func (p *Provider) verify(token string) (string, bool) {
	claims := new(jwt.RegisteredClaims)

	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrUnexpectedSigningMethod
		}

		return []byte(p.cfg.Secret), nil
	})
	if err != nil || !parsed.Valid || claims.ID == "" {
		return "", false
	}

	return claims.ID, true
}

func (p *Provider) cookie(value string, maxAge time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     p.cfg.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Secure:   p.cfg.SecureCookies,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

func jsonResponse(status int, v any) (*provider.Response, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	return &provider.Response{
		Status: status,
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
		Body: body,
	}, nil
}
